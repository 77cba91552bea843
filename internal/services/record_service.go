package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"showcase/internal/core"
)

// RecordStore is the local persistence the service writes to first.
type RecordStore interface {
	CreateRecord(ctx context.Context, r core.Record) (core.Record, error)
	DeleteRecord(ctx context.Context, id string) error
	Close() error
}

// EventPublisher announces local changes so the worker can mirror them.
type EventPublisher interface {
	PublishRecordSync(ctx context.Context, id string, version int64) error
	PublishRecordDelete(ctx context.Context, id string) error
	Close() error
}

// RecordService orchestrates record operations across SQLite and AMQP.
type RecordService struct {
	store     RecordStore
	publisher EventPublisher
}

// NewRecordService accepts a nil publisher; events are then skipped and the
// worker's periodic sweep picks the changes up.
func NewRecordService(store RecordStore, publisher EventPublisher) *RecordService {
	return &RecordService{store: store, publisher: publisher}
}

// CreateRecord saves r locally and publishes a sync message.
func (s *RecordService) CreateRecord(ctx context.Context, r core.Record) (core.Record, error) {
	created, err := s.store.CreateRecord(ctx, r)
	if err != nil {
		return core.Record{}, fmt.Errorf("save record: %w", err)
	}

	// A failed publish leaves the row pending; the request still succeeds.
	if err := s.publishSync(ctx, created.ID, 1); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message", "id", created.ID, "error", err)
	}
	return created, nil
}

// DeleteRecord soft-deletes locally and publishes a delete message.
func (s *RecordService) DeleteRecord(ctx context.Context, id string) error {
	if err := s.store.DeleteRecord(ctx, id); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if err := s.publishDelete(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish delete message", "id", id, "error", err)
	}
	return nil
}

func (s *RecordService) publishSync(ctx context.Context, id string, version int64) error {
	if s.publisher == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message")
		return nil
	}
	return s.publisher.PublishRecordSync(ctx, id, version)
}

func (s *RecordService) publishDelete(ctx context.Context, id string) error {
	if s.publisher == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping delete message")
		return nil
	}
	return s.publisher.PublishRecordDelete(ctx, id)
}

// Close closes both storage and AMQP connections.
func (s *RecordService) Close() error {
	var errs []error
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("close record service: %w", err)
	}
	return nil
}

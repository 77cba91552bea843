package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"showcase/internal/amqp"
	"showcase/internal/core"
	"showcase/internal/datasource"
	"showcase/internal/storage"
)

// LocalStore is the source of truth being mirrored.
type LocalStore interface {
	GetSyncRecord(ctx context.Context, id string) (storage.SyncRecord, error)
	GetPendingSyncRecords(ctx context.Context, limit int) ([]storage.PendingSyncRecord, error)
	MarkSynced(ctx context.Context, id string, version int64) (bool, error)
	MarkSyncError(ctx context.Context, id string) error
	PurgeRecord(ctx context.Context, id string) error
}

// Mirror is the remote copy, typically the Google Sheets backend.
type Mirror interface {
	UpsertRecord(ctx context.Context, r core.Record) error
	DeleteRecord(ctx context.Context, id string) error
}

var _ amqp.MessageHandler = (*SyncWorker)(nil)

// SyncWorker mirrors records from SQLite to the remote sheet.
type SyncWorker struct {
	storage   LocalStore
	mirror    Mirror
	batchSize int
}

func NewSyncWorker(storage LocalStore, mirror Mirror, batchSize int) *SyncWorker {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &SyncWorker{storage: storage, mirror: mirror, batchSize: batchSize}
}

// HandleSync processes a single record sync message from AMQP.
func (w *SyncWorker) HandleSync(ctx context.Context, msg *amqp.RecordSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message", "id", msg.ID, "version", msg.Version)
	return w.syncRecord(ctx, msg.ID)
}

// HandleDelete processes a single record delete message from AMQP.
func (w *SyncWorker) HandleDelete(ctx context.Context, msg *amqp.RecordDeleteMessage) error {
	slog.InfoContext(ctx, "Processing delete message", "id", msg.ID)
	return w.deleteRecord(ctx, msg.ID)
}

func (w *SyncWorker) syncRecord(ctx context.Context, id string) error {
	sr, err := w.storage.GetSyncRecord(ctx, id)
	if errors.Is(err, datasource.ErrNotFound) {
		// Deleted after the message was sent; the delete path handles it.
		slog.InfoContext(ctx, "Record gone before sync, skipping", "id", id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get record from storage: %w", err)
	}

	rec := sr.Record
	if err := w.mirror.UpsertRecord(ctx, rec); err != nil {
		if markErr := w.storage.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", markErr)
		}
		return fmt.Errorf("upsert to mirror: %w", err)
	}

	// A delete that landed during the upsert keeps the row pending for the sweep.
	if _, err := w.storage.MarkSynced(ctx, id, sr.Version); err != nil {
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", id, "error", err)
	}
	slog.InfoContext(ctx, "Successfully synced record", "id", id, "name", rec.Name, "value", rec.Value)
	return nil
}

func (w *SyncWorker) deleteRecord(ctx context.Context, id string) error {
	err := w.mirror.DeleteRecord(ctx, id)
	if err != nil && !errors.Is(err, datasource.ErrNotFound) {
		if markErr := w.storage.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", markErr)
		}
		return fmt.Errorf("delete from mirror: %w", err)
	}
	if err := w.storage.PurgeRecord(ctx, id); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Successfully deleted mirrored record", "id", id)
	return nil
}

// SweepResult counts the outcome of one pass over pending records.
type SweepResult struct {
	Total  int
	Synced int
	Errors int
}

// ProcessPendingRecords syncs records whose messages were lost or failed.
func (w *SyncWorker) ProcessPendingRecords(ctx context.Context) (SweepResult, error) {
	return w.sweep(ctx, w.batchSize)
}

// StartupSyncCheck runs a larger sweep to recover from worker downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	res, err := w.sweep(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("startup sync check: %w", err)
	}
	if res.Total == 0 {
		slog.InfoContext(ctx, "No pending records found on startup")
		return nil
	}
	slog.InfoContext(ctx, "Startup sync completed",
		"total", res.Total,
		"synced", res.Synced,
		"errors", res.Errors)
	return nil
}

func (w *SyncWorker) sweep(ctx context.Context, limit int) (SweepResult, error) {
	pending, err := w.storage.GetPendingSyncRecords(ctx, limit)
	if err != nil {
		return SweepResult{}, fmt.Errorf("get pending records: %w", err)
	}
	res := SweepResult{Total: len(pending)}
	for _, p := range pending {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if p.Deleted {
			err = w.deleteRecord(ctx, p.ID)
		} else {
			err = w.syncRecord(ctx, p.ID)
		}
		if err != nil {
			slog.ErrorContext(ctx, "Failed to sync pending record", "id", p.ID, "deleted", p.Deleted, "error", err)
			res.Errors++
			continue
		}
		res.Synced++
	}
	return res, nil
}

// RunPeriodic sweeps pending records every interval until ctx is done.
func (w *SyncWorker) RunPeriodic(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			res, err := w.ProcessPendingRecords(ctx)
			if err != nil {
				slog.ErrorContext(ctx, "Periodic sync failed", "error", err)
				continue
			}
			if res.Total > 0 {
				slog.InfoContext(ctx, "Periodic sync completed", "total", res.Total, "synced", res.Synced, "errors", res.Errors)
			}
		}
	}
}

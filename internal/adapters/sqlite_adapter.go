package adapters

import (
	"context"

	"showcase/internal/core"
	"showcase/internal/datasource"
	"showcase/internal/services"
	"showcase/internal/storage"
)

var (
	_ datasource.RecordLister  = (*SQLiteAdapter)(nil)
	_ datasource.RecordGetter  = (*SQLiteAdapter)(nil)
	_ datasource.RecordWriter  = (*SQLiteAdapter)(nil)
	_ datasource.RecordDeleter = (*SQLiteAdapter)(nil)
)

// SQLiteAdapter serves reads straight from SQLite and routes writes through
// RecordService so every change is announced over AMQP.
type SQLiteAdapter struct {
	storage *storage.SQLiteRepository
	service *services.RecordService
}

func NewSQLiteAdapter(storage *storage.SQLiteRepository, service *services.RecordService) *SQLiteAdapter {
	return &SQLiteAdapter{storage: storage, service: service}
}

func (a *SQLiteAdapter) ListRecords(ctx context.Context) ([]core.Record, error) {
	return a.storage.ListRecords(ctx)
}

func (a *SQLiteAdapter) GetRecord(ctx context.Context, id string) (core.Record, error) {
	return a.storage.GetRecord(ctx, id)
}

func (a *SQLiteAdapter) CreateRecord(ctx context.Context, r core.Record) (core.Record, error) {
	return a.service.CreateRecord(ctx, r)
}

func (a *SQLiteAdapter) DeleteRecord(ctx context.Context, id string) error {
	return a.service.DeleteRecord(ctx, id)
}

// Ready reports whether the database answers.
func (a *SQLiteAdapter) Ready(ctx context.Context) error {
	return a.storage.Ping(ctx)
}

// SyncCounts exposes mirror progress for the metrics endpoint.
func (a *SQLiteAdapter) SyncCounts(ctx context.Context) (storage.SyncCounts, error) {
	return a.storage.SyncCounts(ctx)
}

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"showcase/internal/core"
	"showcase/internal/datasource"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

// PendingSyncRecord is the minimal data needed to enqueue a sync message.
type PendingSyncRecord struct {
	ID      string
	Version int64
	Deleted bool
}

// SyncRecord is a live record with the version it was read at.
type SyncRecord struct {
	Record  core.Record
	Version int64
}

// SyncCounts reports how many rows are in each sync state.
type SyncCounts struct {
	Pending int64
	Synced  int64
	Error   int64
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// single writer
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, queries: New(db)}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks the database connection for readiness probes.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// CreateRecord validates r, assigns an id and stores it as pending sync.
func (r *SQLiteRepository) CreateRecord(ctx context.Context, rec core.Record) (core.Record, error) {
	if rec.CreatedAt == "" {
		rec.CreatedAt = core.Today()
	}
	if err := rec.Validate(); err != nil {
		return core.Record{}, err
	}
	row, err := r.queries.CreateRecord(ctx, CreateRecordParams{
		ID:        uuid.NewString(),
		Name:      rec.Name,
		Category:  rec.Category,
		Value:     rec.Value,
		Status:    string(rec.Status),
		CreatedOn: rec.CreatedAt,
	})
	if err != nil {
		return core.Record{}, fmt.Errorf("create record: %w", err)
	}

	slog.InfoContext(ctx, "Record saved to SQLite",
		"id", row.ID,
		"name", row.Name,
		"category", row.Category,
		"value", row.Value)

	return row.toCore(), nil
}

func (r *SQLiteRepository) ListRecords(ctx context.Context) ([]core.Record, error) {
	rows, err := r.queries.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	out := make([]core.Record, len(rows))
	for i, row := range rows {
		out[i] = row.toCore()
	}
	return out, nil
}

func (r *SQLiteRepository) GetRecord(ctx context.Context, id string) (core.Record, error) {
	row, err := r.queries.GetRecord(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Record{}, datasource.ErrNotFound
	}
	if err != nil {
		return core.Record{}, fmt.Errorf("get record %s: %w", id, err)
	}
	return row.toCore(), nil
}

// GetSyncRecord reads a live record for mirroring.
func (r *SQLiteRepository) GetSyncRecord(ctx context.Context, id string) (SyncRecord, error) {
	row, err := r.queries.GetRecord(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return SyncRecord{}, datasource.ErrNotFound
	}
	if err != nil {
		return SyncRecord{}, fmt.Errorf("get record %s: %w", id, err)
	}
	return SyncRecord{Record: row.toCore(), Version: row.Version}, nil
}

// DeleteRecord soft-deletes the record so the sync worker can remove the
// remote copy before the row is purged.
func (r *SQLiteRepository) DeleteRecord(ctx context.Context, id string) error {
	n, err := r.queries.SoftDeleteRecord(ctx, id)
	if err != nil {
		return fmt.Errorf("delete record %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete %q: %w", id, datasource.ErrNotFound)
	}
	slog.InfoContext(ctx, "Record soft-deleted", "id", id)
	return nil
}

// PurgeRecord removes a soft-deleted row for good.
func (r *SQLiteRepository) PurgeRecord(ctx context.Context, id string) error {
	if err := r.queries.PurgeRecord(ctx, id); err != nil {
		return fmt.Errorf("purge record %s: %w", id, err)
	}
	return nil
}

// GetPendingSyncRecords returns records that still need mirroring, oldest first.
func (r *SQLiteRepository) GetPendingSyncRecords(ctx context.Context, limit int) ([]PendingSyncRecord, error) {
	rows, err := r.queries.GetPendingSyncRecords(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("get pending sync records: %w", err)
	}
	out := make([]PendingSyncRecord, len(rows))
	for i, row := range rows {
		out[i] = PendingSyncRecord{ID: row.ID, Version: row.Version, Deleted: row.Deleted}
	}
	return out, nil
}

// MarkSynced marks id synced only while it is live and still at version.
// It reports false when the row changed after it was read, leaving it pending.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string, version int64) (bool, error) {
	n, err := r.queries.MarkRecordSynced(ctx, id, version)
	if err != nil {
		return false, fmt.Errorf("mark record synced: %w", err)
	}
	if n == 0 {
		slog.InfoContext(ctx, "Record changed during sync, left pending", "id", id, "version", version)
		return false, nil
	}
	slog.InfoContext(ctx, "Record marked as synced", "id", id)
	return true, nil
}

func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id string) error {
	if err := r.queries.MarkRecordSyncError(ctx, id); err != nil {
		return fmt.Errorf("mark record sync error: %w", err)
	}
	slog.WarnContext(ctx, "Record marked with sync error", "id", id)
	return nil
}

func (r *SQLiteRepository) SyncCounts(ctx context.Context) (SyncCounts, error) {
	m, err := r.queries.CountBySyncStatus(ctx)
	if err != nil {
		return SyncCounts{}, fmt.Errorf("count sync status: %w", err)
	}
	return SyncCounts{Pending: m["pending"], Synced: m["synced"], Error: m["error"]}, nil
}

func (row RecordRow) toCore() core.Record {
	return core.Record{
		ID:        row.ID,
		Name:      row.Name,
		Category:  row.Category,
		Value:     row.Value,
		Status:    core.Status(row.Status),
		CreatedAt: row.CreatedOn,
	}
}

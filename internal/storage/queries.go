package storage

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// RecordRow mirrors one row of the records table.
type RecordRow struct {
	ID         string
	Name       string
	Category   string
	Value      int64
	Status     string
	CreatedOn  string
	Version    int64
	SyncStatus string
	DeletedAt  sql.NullString
}

const recordColumns = `id, name, category, value, status, created_on, version, sync_status, deleted_at`

func scanRecord(s interface{ Scan(...interface{}) error }) (RecordRow, error) {
	var r RecordRow
	err := s.Scan(&r.ID, &r.Name, &r.Category, &r.Value, &r.Status, &r.CreatedOn, &r.Version, &r.SyncStatus, &r.DeletedAt)
	return r, err
}

type CreateRecordParams struct {
	ID        string
	Name      string
	Category  string
	Value     int64
	Status    string
	CreatedOn string
}

const createRecord = `INSERT INTO records (id, name, category, value, status, created_on)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING ` + recordColumns

func (q *Queries) CreateRecord(ctx context.Context, arg CreateRecordParams) (RecordRow, error) {
	row := q.db.QueryRowContext(ctx, createRecord, arg.ID, arg.Name, arg.Category, arg.Value, arg.Status, arg.CreatedOn)
	return scanRecord(row)
}

const getRecord = `SELECT ` + recordColumns + ` FROM records WHERE id = ? AND deleted_at IS NULL`

func (q *Queries) GetRecord(ctx context.Context, id string) (RecordRow, error) {
	return scanRecord(q.db.QueryRowContext(ctx, getRecord, id))
}

const listRecords = `SELECT ` + recordColumns + ` FROM records WHERE deleted_at IS NULL ORDER BY rowid`

func (q *Queries) ListRecords(ctx context.Context) ([]RecordRow, error) {
	rows, err := q.db.QueryContext(ctx, listRecords)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []RecordRow{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const softDeleteRecord = `UPDATE records
SET deleted_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP,
    version = version + 1, sync_status = 'pending'
WHERE id = ? AND deleted_at IS NULL`

func (q *Queries) SoftDeleteRecord(ctx context.Context, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, softDeleteRecord, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const purgeRecord = `DELETE FROM records WHERE id = ? AND deleted_at IS NOT NULL`

func (q *Queries) PurgeRecord(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, purgeRecord, id)
	return err
}

const getPendingSyncRecords = `SELECT id, version, deleted_at IS NOT NULL FROM records
WHERE sync_status IN ('pending', 'error')
ORDER BY updated_at, rowid
LIMIT ?`

type GetPendingSyncRecordsRow struct {
	ID      string
	Version int64
	Deleted bool
}

func (q *Queries) GetPendingSyncRecords(ctx context.Context, limit int64) ([]GetPendingSyncRecordsRow, error) {
	rows, err := q.db.QueryContext(ctx, getPendingSyncRecords, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GetPendingSyncRecordsRow
	for rows.Next() {
		var i GetPendingSyncRecordsRow
		if err := rows.Scan(&i.ID, &i.Version, &i.Deleted); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const markRecordSynced = `UPDATE records SET sync_status = 'synced', updated_at = CURRENT_TIMESTAMP
WHERE id = ? AND version = ? AND deleted_at IS NULL`

func (q *Queries) MarkRecordSynced(ctx context.Context, id string, version int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, markRecordSynced, id, version)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const markRecordSyncError = `UPDATE records SET sync_status = 'error', updated_at = CURRENT_TIMESTAMP WHERE id = ?`

func (q *Queries) MarkRecordSyncError(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, markRecordSyncError, id)
	return err
}

const countBySyncStatus = `SELECT sync_status, COUNT(*) FROM records GROUP BY sync_status`

func (q *Queries) CountBySyncStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := q.db.QueryContext(ctx, countBySyncStatus)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]int64{}
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[status] = n
	}
	return out, rows.Err()
}

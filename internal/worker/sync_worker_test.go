package worker

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"showcase/internal/amqp"
	"showcase/internal/core"
	"showcase/internal/datasource"
	"showcase/internal/storage"
)

type fakeMirror struct {
	rows     map[string]core.Record
	failing  bool
	onUpsert func(id string)
}

func newFakeMirror() *fakeMirror {
	return &fakeMirror{rows: map[string]core.Record{}}
}

func (m *fakeMirror) UpsertRecord(_ context.Context, r core.Record) error {
	if m.failing {
		return errors.New("sheets unavailable")
	}
	m.rows[r.ID] = r
	if m.onUpsert != nil {
		m.onUpsert(r.ID)
	}
	return nil
}

func (m *fakeMirror) DeleteRecord(_ context.Context, id string) error {
	if m.failing {
		return errors.New("sheets unavailable")
	}
	if _, ok := m.rows[id]; !ok {
		return datasource.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func newRepo(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "worker.db"))
	if err != nil {
		t.Fatalf("open repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestStartupSyncMirrorsSeededRecords(t *testing.T) {
	repo := newRepo(t)
	mirror := newFakeMirror()
	w := NewSyncWorker(repo, mirror, 10)
	ctx := context.Background()

	if err := w.StartupSyncCheck(ctx); err != nil {
		t.Fatalf("startup: %v", err)
	}
	if len(mirror.rows) != 5 {
		t.Fatalf("expected 5 mirrored records, got %d", len(mirror.rows))
	}
	counts, _ := repo.SyncCounts(ctx)
	if counts.Synced != 5 || counts.Pending != 0 {
		t.Fatalf("unexpected counts after startup: %+v", counts)
	}

	res, err := w.ProcessPendingRecords(ctx)
	if err != nil || res.Total != 0 {
		t.Fatalf("nothing should be pending: %+v err=%v", res, err)
	}
}

func TestHandleSyncAndDelete(t *testing.T) {
	repo := newRepo(t)
	mirror := newFakeMirror()
	w := NewSyncWorker(repo, mirror, 10)
	ctx := context.Background()

	rec, err := repo.CreateRecord(ctx, core.Record{Name: "新規", Category: "研究", Value: 100, Status: core.StatusActive})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := w.HandleSync(ctx, amqp.NewRecordSyncMessage(rec.ID, 1)); err != nil {
		t.Fatalf("sync: %v", err)
	}
	if mirror.rows[rec.ID].Name != "新規" {
		t.Fatalf("record not mirrored: %+v", mirror.rows)
	}

	if err := repo.DeleteRecord(ctx, rec.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	// A late sync message for a deleted record is acknowledged.
	if err := w.HandleSync(ctx, amqp.NewRecordSyncMessage(rec.ID, 1)); err != nil {
		t.Fatalf("late sync: %v", err)
	}
	if err := w.HandleDelete(ctx, amqp.NewRecordDeleteMessage(rec.ID)); err != nil {
		t.Fatalf("handle delete: %v", err)
	}
	if _, ok := mirror.rows[rec.ID]; ok {
		t.Fatalf("mirror still holds deleted record")
	}

	// Deleting something the mirror never saw still purges locally.
	if err := repo.DeleteRecord(ctx, "3"); err != nil {
		t.Fatalf("delete seed: %v", err)
	}
	if err := w.HandleDelete(ctx, amqp.NewRecordDeleteMessage("3")); err != nil {
		t.Fatalf("delete unknown to mirror: %v", err)
	}
}

func TestMirrorFailureMarksError(t *testing.T) {
	repo := newRepo(t)
	mirror := newFakeMirror()
	mirror.failing = true
	w := NewSyncWorker(repo, mirror, 10)
	ctx := context.Background()

	if err := w.HandleSync(ctx, amqp.NewRecordSyncMessage("1", 1)); err == nil {
		t.Fatalf("expected error so the message is requeued")
	}
	counts, _ := repo.SyncCounts(ctx)
	if counts.Error != 1 {
		t.Fatalf("expected one error row, got %+v", counts)
	}

	res, err := w.ProcessPendingRecords(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if res.Total != 5 || res.Errors != 5 || res.Synced != 0 {
		t.Fatalf("unexpected sweep result: %+v", res)
	}

	// Errored rows are retried once the mirror recovers.
	mirror.failing = false
	res, _ = w.ProcessPendingRecords(ctx)
	if res.Synced != 5 {
		t.Fatalf("expected recovery, got %+v", res)
	}
}

func TestRunPeriodicStopsOnCancel(t *testing.T) {
	repo := newRepo(t)
	mirror := newFakeMirror()
	w := NewSyncWorker(repo, mirror, 10)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.RunPeriodic(ctx, 10*time.Millisecond) }()

	deadline := time.After(5 * time.Second)
	for {
		counts, _ := repo.SyncCounts(context.Background())
		if counts.Synced == 5 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("periodic sweep never synced: %+v", counts)
		case <-time.After(10 * time.Millisecond):
		}
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestDeleteDuringUpsertIsSweptLater(t *testing.T) {
	repo := newRepo(t)
	mirror := newFakeMirror()
	w := NewSyncWorker(repo, mirror, 10)
	ctx := context.Background()

	rec, err := repo.CreateRecord(ctx, core.Record{Name: "競合", Category: "研究", Value: 100, Status: core.StatusActive})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	// The user deletes while the upsert is in flight and the delete message is lost.
	mirror.onUpsert = func(id string) {
		if err := repo.DeleteRecord(ctx, id); err != nil {
			t.Errorf("delete during upsert: %v", err)
		}
	}
	if err := w.HandleSync(ctx, amqp.NewRecordSyncMessage(rec.ID, 1)); err != nil {
		t.Fatalf("sync: %v", err)
	}
	mirror.onUpsert = nil
	if _, ok := mirror.rows[rec.ID]; !ok {
		t.Fatalf("upsert should have reached the mirror")
	}

	if _, err := w.ProcessPendingRecords(ctx); err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if _, ok := mirror.rows[rec.ID]; ok {
		t.Fatalf("sweep left the deleted record in the mirror")
	}
	pending, _ := repo.GetPendingSyncRecords(ctx, 100)
	for _, p := range pending {
		if p.ID == rec.ID {
			t.Fatalf("deleted row not purged: %+v", p)
		}
	}
}

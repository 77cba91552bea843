package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"showcase/internal/core"
	"showcase/internal/datasource"
)

var (
	_ datasource.RecordLister  = (*Store)(nil)
	_ datasource.RecordGetter  = (*Store)(nil)
	_ datasource.RecordWriter  = (*Store)(nil)
	_ datasource.RecordDeleter = (*Store)(nil)
)

type Store struct {
	mu      sync.Mutex
	items   []core.Record
	latency time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithLatency delays every list call, mimicking a remote source.
func WithLatency(d time.Duration) Option {
	return func(s *Store) { s.latency = d }
}

func New(records []core.Record, opts ...Option) *Store {
	s := &Store{items: dedupeByID(records)}
	for _, o := range opts {
		o(s)
	}
	return s
}

// NewFromFiles seeds the store from base/records.json, falling back to the
// built-in sample set when the file is missing or unreadable.
func NewFromFiles(base string, opts ...Option) *Store {
	records := readRecords(filepath.Join(base, "records.json"))
	if len(records) == 0 {
		records = SeedRecords()
	}
	return New(records, opts...)
}

// SeedRecords returns the sample data shown by the data view out of the box.
func SeedRecords() []core.Record {
	return []core.Record{
		{ID: "1", Name: "プロジェクトA", Category: "開発", Value: 125000, Status: core.StatusActive, CreatedAt: "2024-01-15"},
		{ID: "2", Name: "プロジェクトB", Category: "マーケティング", Value: 85000, Status: core.StatusActive, CreatedAt: "2024-02-20"},
		{ID: "3", Name: "プロジェクトC", Category: "開発", Value: 200000, Status: core.StatusPending, CreatedAt: "2024-03-10"},
		{ID: "4", Name: "プロジェクトD", Category: "サポート", Value: 45000, Status: core.StatusInactive, CreatedAt: "2024-01-05"},
		{ID: "5", Name: "プロジェクトE", Category: "開発", Value: 175000, Status: core.StatusActive, CreatedAt: "2024-03-25"},
	}
}

// ListRecords returns a copy of the stored records.
func (s *Store) ListRecords(ctx context.Context) ([]core.Record, error) {
	if s.latency > 0 {
		t := time.NewTimer(s.latency)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(make([]core.Record, 0, len(s.items)), s.items...), nil
}

func (s *Store) GetRecord(_ context.Context, id string) (core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.items {
		if r.ID == id {
			return r, nil
		}
	}
	return core.Record{}, datasource.ErrNotFound
}

// CreateRecord validates and appends r with a fresh id.
func (s *Store) CreateRecord(_ context.Context, r core.Record) (core.Record, error) {
	if r.CreatedAt == "" {
		r.CreatedAt = core.Today()
	}
	if err := r.Validate(); err != nil {
		return core.Record{}, err
	}
	r.ID = uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, r)
	return r, nil
}

// DeleteRecord removes the record, keeping the order of the remaining ones.
func (s *Store) DeleteRecord(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.items {
		if r.ID == id {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("delete %q: %w", id, datasource.ErrNotFound)
}

type recordFile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Value     int64  `json:"value"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
}

func readRecords(path string) []core.Record {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var raw []recordFile
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil
	}
	out := make([]core.Record, 0, len(raw))
	for _, f := range raw {
		r := core.Record{
			ID:        strings.TrimSpace(f.ID),
			Name:      strings.TrimSpace(f.Name),
			Category:  strings.TrimSpace(f.Category),
			Value:     f.Value,
			Status:    core.Status(strings.TrimSpace(f.Status)),
			CreatedAt: strings.TrimSpace(f.CreatedAt),
		}
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		if err := r.Validate(); err != nil {
			continue
		}
		out = append(out, r)
	}
	return out
}

func dedupeByID(in []core.Record) []core.Record {
	seen := map[string]struct{}{}
	out := make([]core.Record, 0, len(in))
	for _, r := range in {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out
}

package datasource

import (
	"context"
	"errors"

	"showcase/internal/core"
)

// ErrNotFound is returned when a record id does not exist.
var ErrNotFound = errors.New("record not found")

// Ports for record backends.
type (
	// RecordLister loads the full record list, in insertion order.
	RecordLister interface {
		ListRecords(ctx context.Context) ([]core.Record, error)
	}

	RecordGetter interface {
		GetRecord(ctx context.Context, id string) (core.Record, error)
	}

	// RecordWriter stores a new record and returns it with its assigned id.
	RecordWriter interface {
		CreateRecord(ctx context.Context, r core.Record) (core.Record, error)
	}

	// RecordDeleter removes a record entirely from the set.
	RecordDeleter interface {
		DeleteRecord(ctx context.Context, id string) error
	}
)

// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/Veraticus/spice-ledger/internal/model"
)

// RecordStore defines the contract for per-identity record collections.
// Each identity owns its own insertion-ordered collection; an identity never
// sees another identity's records. Records are values, so nothing a caller
// does with a returned record changes stored state.
type RecordStore interface {
	// List returns the identity's records in insertion order. An identity
	// with no records yields an empty slice.
	List(ctx context.Context, identity string) ([]model.Record, error)

	// Find returns the record with the given id or common.ErrNotFound.
	Find(ctx context.Context, identity string, id int64) (model.Record, error)

	// Insert appends record to the identity's collection.
	Insert(ctx context.Context, identity string, record model.Record) error

	// Replace swaps the stored record sharing record's id, keeping its position.
	Replace(ctx context.Context, identity string, record model.Record) error

	// Remove deletes the first record with the given id and returns it.
	Remove(ctx context.Context, identity string, id int64) (model.Record, error)

	Close() error
}

// Identifier issues record ids.
type Identifier interface {
	Next() int64
}

// Package ledger orchestrates record and account operations for authenticated identities.
package ledger

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/service"
)

// Operation names reported to observers.
const (
	OpGetAll = "get_all"
	OpGetOne = "get_one"
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Observer is told about every finished record operation.
type Observer func(op string, err error)

// Option configures a RecordService.
type Option func(*RecordService)

// WithIdentifier replaces the default clock-derived id sequence.
func WithIdentifier(ids service.Identifier) Option {
	return func(s *RecordService) { s.ids = ids }
}

// WithObserver registers an operation observer.
func WithObserver(o Observer) Option {
	return func(s *RecordService) { s.observe = o }
}

// RecordService validates and applies record operations against a store.
// An identity only ever reaches its own collection.
type RecordService struct {
	store   service.RecordStore
	ids     service.Identifier
	observe Observer
	// writeMu serializes read-modify-write sequences against the store.
	writeMu sync.Mutex
}

// NewRecordService creates a record service over store.
func NewRecordService(store service.RecordStore, opts ...Option) *RecordService {
	s := &RecordService{
		store:   store,
		ids:     model.NewIDSequence(nil),
		observe: func(string, error) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetAll returns every record of identity in insertion order.
func (s *RecordService) GetAll(ctx context.Context, identity string) (snaps []model.Snapshot, err error) {
	defer s.finish(ctx, OpGetAll, identity, &err)

	if err := validateIdentity(identity); err != nil {
		return nil, err
	}

	records, err := s.store.List(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	snaps = make([]model.Snapshot, 0, len(records))
	for _, r := range records {
		snaps = append(snaps, r.Snapshot())
	}
	return snaps, nil
}

// GetOne returns the record with id or common.ErrNotFound.
func (s *RecordService) GetOne(ctx context.Context, identity string, id int64) (snap model.Snapshot, err error) {
	defer s.finish(ctx, OpGetOne, identity, &err)

	if err := validateIdentity(identity); err != nil {
		return model.Snapshot{}, err
	}

	r, err := s.store.Find(ctx, identity, id)
	if err != nil {
		return model.Snapshot{}, err
	}
	return r.Snapshot(), nil
}

// Create validates in, stores a new record for identity and returns it.
// Validation failures match common.ErrInvalidInput and nothing is stored.
func (s *RecordService) Create(ctx context.Context, identity string, in model.RecordInput) (snap model.Snapshot, err error) {
	defer s.finish(ctx, OpCreate, identity, &err)

	if err := validateIdentity(identity); err != nil {
		return model.Snapshot{}, err
	}

	r, err := model.NewRecord(s.ids.Next(), in)
	if err != nil {
		return model.Snapshot{}, common.NewInputError(err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.store.Insert(ctx, identity, r); err != nil {
		return model.Snapshot{}, fmt.Errorf("failed to store record: %w", err)
	}
	return r.Snapshot(), nil
}

// Update applies patch to the record with id. The whole candidate is
// validated before anything is written, so a rejected patch leaves the
// stored record exactly as it was.
func (s *RecordService) Update(ctx context.Context, identity string, id int64, patch model.RecordPatch) (snap model.Snapshot, err error) {
	defer s.finish(ctx, OpUpdate, identity, &err)

	if err := validateIdentity(identity); err != nil {
		return model.Snapshot{}, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	current, err := s.store.Find(ctx, identity, id)
	if err != nil {
		return model.Snapshot{}, err
	}

	next, err := current.With(patch)
	if err != nil {
		return model.Snapshot{}, common.NewInputError(err)
	}

	if err := s.store.Replace(ctx, identity, next); err != nil {
		return model.Snapshot{}, fmt.Errorf("failed to store record: %w", err)
	}
	return next.Snapshot(), nil
}

// Delete removes the record with id and returns it as it was.
func (s *RecordService) Delete(ctx context.Context, identity string, id int64) (snap model.Snapshot, err error) {
	defer s.finish(ctx, OpDelete, identity, &err)

	if err := validateIdentity(identity); err != nil {
		return model.Snapshot{}, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	r, err := s.store.Remove(ctx, identity, id)
	if err != nil {
		return model.Snapshot{}, err
	}
	return r.Snapshot(), nil
}

func (s *RecordService) finish(ctx context.Context, op, identity string, errp *error) {
	s.observe(op, *errp)
	if *errp != nil {
		common.LoggerFrom(ctx).Debug("record operation failed", "op", op, "identity", identity, "error", *errp)
		return
	}
	common.LoggerFrom(ctx).Debug("record operation", "op", op, "identity", identity)
}

func validateIdentity(identity string) error {
	if strings.TrimSpace(identity) == "" {
		return fmt.Errorf("identity: %w", common.ErrInvalidName)
	}
	return nil
}

package storage

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/model"
)

// MemoryStorage keeps record collections in process memory.
// Collections are created lazily the first time an identity writes.
type MemoryStorage struct {
	collections map[string][]model.Record
	mu          sync.RWMutex
}

// NewMemoryStorage creates an empty in-memory store. Any identities given are
// registered up front with empty collections.
func NewMemoryStorage(identities ...string) *MemoryStorage {
	s := &MemoryStorage{collections: make(map[string][]model.Record, len(identities))}
	for _, identity := range identities {
		s.collections[identity] = []model.Record{}
	}
	return s
}

// List returns a copy of the identity's records in insertion order.
func (s *MemoryStorage) List(ctx context.Context, identity string) ([]model.Record, error) {
	if err := validateIdentity(ctx, identity); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.collections[identity]
	out := make([]model.Record, len(records))
	copy(out, records)
	return out, nil
}

// Find returns the record with the given id.
func (s *MemoryStorage) Find(ctx context.Context, identity string, id int64) (model.Record, error) {
	if err := validateIdentity(ctx, identity); err != nil {
		return model.Record{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	i := indexOf(s.collections[identity], id)
	if i < 0 {
		return model.Record{}, fmt.Errorf("record %d: %w", id, common.ErrNotFound)
	}
	return s.collections[identity][i], nil
}

// Insert appends record to the identity's collection.
func (s *MemoryStorage) Insert(ctx context.Context, identity string, record model.Record) error {
	if err := validateIdentity(ctx, identity); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.collections[identity] = append(s.collections[identity], record)
	return nil
}

// Replace overwrites the stored record with the same id in place.
func (s *MemoryStorage) Replace(ctx context.Context, identity string, record model.Record) error {
	if err := validateIdentity(ctx, identity); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.collections[identity], record.ID())
	if i < 0 {
		return fmt.Errorf("record %d: %w", record.ID(), common.ErrNotFound)
	}
	s.collections[identity][i] = record
	return nil
}

// Remove deletes the first record with the given id.
func (s *MemoryStorage) Remove(ctx context.Context, identity string, id int64) (model.Record, error) {
	if err := validateIdentity(ctx, identity); err != nil {
		return model.Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.collections[identity]
	i := indexOf(records, id)
	if i < 0 {
		return model.Record{}, fmt.Errorf("record %d: %w", id, common.ErrNotFound)
	}
	removed := records[i]
	s.collections[identity] = slices.Delete(records, i, i+1)
	return removed, nil
}

// Close is a no-op for the memory store.
func (s *MemoryStorage) Close() error {
	return nil
}

func indexOf(records []model.Record, id int64) int {
	return slices.IndexFunc(records, func(r model.Record) bool {
		return r.ID() == id
	})
}

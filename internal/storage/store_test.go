package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/service"
)

// storeFactories lists every RecordStore implementation under the shared contract.
func storeFactories() map[string]func(t *testing.T) service.RecordStore {
	return map[string]func(t *testing.T) service.RecordStore{
		"memory": func(t *testing.T) service.RecordStore {
			return NewMemoryStorage("admin", "user", "admin2")
		},
		"sqlite": func(t *testing.T) service.RecordStore {
			store, cleanup := createTestStorage(t)
			t.Cleanup(cleanup)
			return store
		},
	}
}

func TestRecordStoreContract(t *testing.T) {
	ctx := context.Background()

	for name, factory := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			t.Run("list unknown identity is empty", func(t *testing.T) {
				store := factory(t)
				records, err := store.List(ctx, "nobody")
				require.NoError(t, err)
				assert.NotNil(t, records)
				assert.Empty(t, records)
			})

			t.Run("insert keeps order", func(t *testing.T) {
				store := factory(t)
				for i := int64(1); i <= 3; i++ {
					require.NoError(t, store.Insert(ctx, "user", newStoredRecord(t, 10-i, i*100)))
				}

				records, err := store.List(ctx, "user")
				require.NoError(t, err)
				require.Len(t, records, 3)
				assert.Equal(t, []int64{9, 8, 7}, []int64{records[0].ID(), records[1].ID(), records[2].ID()})
			})

			t.Run("identities are isolated", func(t *testing.T) {
				store := factory(t)
				require.NoError(t, store.Insert(ctx, "user", newStoredRecord(t, 1, 100)))

				records, err := store.List(ctx, "admin")
				require.NoError(t, err)
				assert.Empty(t, records)

				_, err = store.Find(ctx, "admin", 1)
				assert.ErrorIs(t, err, common.ErrNotFound)

				_, err = store.Remove(ctx, "admin", 1)
				assert.ErrorIs(t, err, common.ErrNotFound)

				_, err = store.Find(ctx, "user", 1)
				assert.NoError(t, err)
			})

			t.Run("find", func(t *testing.T) {
				store := factory(t)
				want := newStoredRecord(t, 5, 500)
				require.NoError(t, store.Insert(ctx, "user", want))

				got, err := store.Find(ctx, "user", 5)
				require.NoError(t, err)
				assertSameRecord(t, want, got)

				_, err = store.Find(ctx, "user", 6)
				assert.ErrorIs(t, err, common.ErrNotFound)
			})

			t.Run("replace keeps position", func(t *testing.T) {
				store := factory(t)
				require.NoError(t, store.Insert(ctx, "user", newStoredRecord(t, 1, 100)))
				require.NoError(t, store.Insert(ctx, "user", newStoredRecord(t, 2, 200)))

				amount := int64(999)
				updated, err := newStoredRecord(t, 1, 100).With(model.RecordPatch{Amount: &amount})
				require.NoError(t, err)
				require.NoError(t, store.Replace(ctx, "user", updated))

				records, err := store.List(ctx, "user")
				require.NoError(t, err)
				require.Len(t, records, 2)
				assertSameRecord(t, updated, records[0])

				err = store.Replace(ctx, "user", newStoredRecord(t, 3, 300))
				assert.ErrorIs(t, err, common.ErrNotFound)
			})

			t.Run("remove", func(t *testing.T) {
				store := factory(t)
				first := newStoredRecord(t, 1, 100)
				require.NoError(t, store.Insert(ctx, "user", first))
				require.NoError(t, store.Insert(ctx, "user", newStoredRecord(t, 2, 200)))

				removed, err := store.Remove(ctx, "user", 1)
				require.NoError(t, err)
				assertSameRecord(t, first, removed)

				_, err = store.Find(ctx, "user", 1)
				assert.ErrorIs(t, err, common.ErrNotFound)

				_, err = store.Remove(ctx, "user", 1)
				assert.ErrorIs(t, err, common.ErrNotFound)

				records, err := store.List(ctx, "user")
				require.NoError(t, err)
				require.Len(t, records, 1)
				assert.Equal(t, int64(2), records[0].ID())
			})

			t.Run("empty identity rejected", func(t *testing.T) {
				store := factory(t)
				_, err := store.List(ctx, "")
				assert.ErrorIs(t, err, ErrEmptyString)
				assert.ErrorIs(t, store.Insert(ctx, "", newStoredRecord(t, 1, 1)), ErrEmptyString)
			})

			t.Run("close", func(t *testing.T) {
				store := factory(t)
				assert.NoError(t, store.Close())
			})
		})
	}
}

func TestMemoryStorage_ListReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()
	require.NoError(t, store.Insert(ctx, "user", newStoredRecord(t, 1, 100)))

	records, err := store.List(ctx, "user")
	require.NoError(t, err)
	records[0] = newStoredRecord(t, 2, 200)

	again, err := store.List(ctx, "user")
	require.NoError(t, err)
	assert.Equal(t, int64(1), again[0].ID())
}

func TestMemoryStorage_RemoveFirstMatch(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()
	require.NoError(t, store.Insert(ctx, "user", newStoredRecord(t, 1, 100)))
	require.NoError(t, store.Insert(ctx, "user", newStoredRecord(t, 1, 200)))

	removed, err := store.Remove(ctx, "user", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(100), removed.Amount())

	left, err := store.Find(ctx, "user", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(200), left.Amount())
}

func TestMemoryStorage_NilContext(t *testing.T) {
	store := NewMemoryStorage()
	//nolint:staticcheck // exercising the nil guard
	_, err := store.List(nil, "user")
	assert.ErrorIs(t, err, ErrNilContext)
}

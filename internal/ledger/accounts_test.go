package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/spice-ledger/internal/common"
)

func TestAccountBook(t *testing.T) {
	ctx := context.Background()

	t.Run("open and get", func(t *testing.T) {
		book := NewAccountBook()
		opened, err := book.Open(ctx, "user", "John", 1000)
		require.NoError(t, err)
		assert.Equal(t, "John", opened.Name())

		got, err := book.Get(ctx, "user")
		require.NoError(t, err)
		assert.Equal(t, int64(1000), got.Balance())

		_, err = book.Get(ctx, "admin")
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("open validates", func(t *testing.T) {
		book := NewAccountBook()
		_, err := book.Open(ctx, "user", "", 1000)
		assert.ErrorIs(t, err, common.ErrInvalidName)
		assert.ErrorIs(t, err, common.ErrInvalidInput)

		_, err = book.Open(ctx, "user", "John", 0)
		assert.ErrorIs(t, err, common.ErrInvalidAmount)
	})

	t.Run("withdraw more than balance", func(t *testing.T) {
		book := NewAccountBook()
		_, err := book.Open(ctx, "user", "John", 1000)
		require.NoError(t, err)

		_, err = book.Withdraw(ctx, "user", 1500)
		require.ErrorIs(t, err, common.ErrInsufficientBalance)
		assert.NotErrorIs(t, err, common.ErrInvalidInput)

		got, err := book.Get(ctx, "user")
		require.NoError(t, err)
		assert.Equal(t, int64(1000), got.Balance())
	})

	t.Run("deposit withdraw adjust rename", func(t *testing.T) {
		book := NewAccountBook()
		_, err := book.Open(ctx, "user", "John", 1000)
		require.NoError(t, err)

		a, err := book.Deposit(ctx, "user", 500)
		require.NoError(t, err)
		assert.Equal(t, int64(1500), a.Balance())

		a, err = book.Withdraw(ctx, "user", 200)
		require.NoError(t, err)
		assert.Equal(t, int64(1300), a.Balance())

		a, err = book.Adjust(ctx, "user", 42)
		require.NoError(t, err)
		assert.Equal(t, int64(42), a.Balance())

		a, err = book.Rename(ctx, "user", "Jane")
		require.NoError(t, err)
		assert.Equal(t, "Jane", a.Name())

		_, err = book.Deposit(ctx, "user", -1)
		assert.ErrorIs(t, err, common.ErrInvalidAmount)
		assert.ErrorIs(t, err, common.ErrInvalidInput)
	})

	t.Run("returned accounts are copies", func(t *testing.T) {
		book := NewAccountBook()
		opened, err := book.Open(ctx, "user", "John", 1000)
		require.NoError(t, err)
		require.NoError(t, opened.Deposit(1))

		got, err := book.Get(ctx, "user")
		require.NoError(t, err)
		assert.Equal(t, int64(1000), got.Balance())
	})

	t.Run("missing account", func(t *testing.T) {
		book := NewAccountBook()
		_, err := book.Deposit(ctx, "user", 1)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})
}

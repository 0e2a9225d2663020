package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/spice-ledger/internal/common"
)

func newTestAccount(t *testing.T) *Account {
	t.Helper()
	a, err := NewAccount("John", 1000)
	require.NoError(t, err)
	return a
}

func TestNewAccount(t *testing.T) {
	a := newTestAccount(t)
	assert.Equal(t, "John", a.Name())
	assert.Equal(t, int64(1000), a.Balance())

	_, err := NewAccount("", 1000)
	assert.ErrorIs(t, err, common.ErrInvalidName)

	_, err = NewAccount("John", 0)
	assert.ErrorIs(t, err, common.ErrInvalidAmount)

	_, err = NewAccount("John", -5)
	assert.ErrorIs(t, err, common.ErrInvalidAmount)
}

func TestAccount_Rename(t *testing.T) {
	a := newTestAccount(t)

	require.NoError(t, a.Rename("Jane"))
	assert.Equal(t, "Jane", a.Name())

	assert.ErrorIs(t, a.Rename(""), common.ErrInvalidName)
	assert.ErrorIs(t, a.Rename("  "), common.ErrInvalidName)
	assert.Equal(t, "Jane", a.Name())
}

func TestAccount_AdjustBalance(t *testing.T) {
	a := newTestAccount(t)

	require.NoError(t, a.AdjustBalance(500))
	assert.Equal(t, int64(500), a.Balance(), "adjust sets rather than adds")

	for _, amount := range []int64{0, -500} {
		assert.ErrorIs(t, a.AdjustBalance(amount), common.ErrInvalidAmount)
	}
	assert.Equal(t, int64(500), a.Balance())
}

func TestAccount_Withdraw(t *testing.T) {
	t.Run("within balance", func(t *testing.T) {
		a := newTestAccount(t)
		require.NoError(t, a.Withdraw(500))
		assert.Equal(t, int64(500), a.Balance())
	})

	t.Run("entire balance", func(t *testing.T) {
		a := newTestAccount(t)
		require.NoError(t, a.Withdraw(1000))
		assert.Equal(t, int64(0), a.Balance())
	})

	t.Run("more than balance", func(t *testing.T) {
		a := newTestAccount(t)
		assert.ErrorIs(t, a.Withdraw(1500), common.ErrInsufficientBalance)
		assert.Equal(t, int64(1000), a.Balance())
	})

	t.Run("non positive", func(t *testing.T) {
		a := newTestAccount(t)
		assert.ErrorIs(t, a.Withdraw(0), common.ErrInvalidAmount)
		assert.ErrorIs(t, a.Withdraw(-500), common.ErrInvalidAmount)
		assert.Equal(t, int64(1000), a.Balance())
	})

	t.Run("negative balance after direct assignment", func(t *testing.T) {
		a := newTestAccount(t)
		a.SetBalance(-10)
		assert.ErrorIs(t, a.Withdraw(1), common.ErrInsufficientBalance)
		assert.Equal(t, int64(-10), a.Balance())
	})
}

func TestAccount_Deposit(t *testing.T) {
	a := newTestAccount(t)

	require.NoError(t, a.Deposit(500))
	assert.Equal(t, int64(1500), a.Balance())

	assert.ErrorIs(t, a.Deposit(0), common.ErrInvalidAmount)
	assert.ErrorIs(t, a.Deposit(-500), common.ErrInvalidAmount)
	assert.Equal(t, int64(1500), a.Balance())

	assert.ErrorIs(t, a.Deposit(math.MaxInt64), common.ErrInvalidAmount)
	assert.Equal(t, int64(1500), a.Balance())
}

func TestAccount_CloneAndJSON(t *testing.T) {
	a := newTestAccount(t)
	c := a.Clone()
	require.NoError(t, c.Deposit(1))
	assert.Equal(t, int64(1000), a.Balance())

	data, err := json.Marshal(a)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"John","currentBalance":1000}`, string(data))
}

package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/Veraticus/spice-ledger/internal/common"
)

// Account holds a named running balance.
type Account struct {
	name    string
	balance int64
}

// NewAccount opens an account. The opening balance must be a positive integer.
func NewAccount(name string, balance int64) (*Account, error) {
	if balance <= 0 {
		return nil, fmt.Errorf("%w: opening balance %d", common.ErrInvalidAmount, balance)
	}
	a := &Account{balance: balance}
	if err := a.Rename(name); err != nil {
		return nil, err
	}
	return a, nil
}

// Name returns the account holder name.
func (a *Account) Name() string { return a.name }

// Balance returns the current balance.
func (a *Account) Balance() int64 { return a.balance }

// Rename changes the account name.
func (a *Account) Rename(name string) error {
	if strings.TrimSpace(name) == "" {
		return common.ErrInvalidName
	}
	a.name = name
	return nil
}

// SetBalance assigns the balance directly. This is the only way a balance
// can go below zero.
func (a *Account) SetBalance(balance int64) {
	a.balance = balance
}

// AdjustBalance replaces the balance with amount; it does not add to it.
func (a *Account) AdjustBalance(amount int64) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	a.balance = amount
	return nil
}

// Withdraw removes amount from the balance.
func (a *Account) Withdraw(amount int64) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	if amount > a.balance {
		return fmt.Errorf("%w: balance %d, requested %d", common.ErrInsufficientBalance, a.balance, amount)
	}
	a.balance -= amount
	return nil
}

// Deposit adds amount to the balance.
func (a *Account) Deposit(amount int64) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	if a.balance > 0 && amount > math.MaxInt64-a.balance {
		return fmt.Errorf("%w: deposit of %d overflows balance", common.ErrInvalidAmount, amount)
	}
	a.balance += amount
	return nil
}

// Clone returns an independent copy of a.
func (a *Account) Clone() *Account {
	c := *a
	return &c
}

// MarshalJSON encodes the account as {"name", "currentBalance"}.
func (a *Account) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name           string `json:"name"`
		CurrentBalance int64  `json:"currentBalance"`
	}{a.name, a.balance})
}

func validateAmount(amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: got %d", common.ErrInvalidAmount, amount)
	}
	return nil
}

package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/model"
)

// AccountBook holds at most one balance account per identity.
// Accounts are independent of records; nothing posts records to a balance.
type AccountBook struct {
	accounts map[string]*model.Account
	mu       sync.Mutex
}

// NewAccountBook creates an empty account book.
func NewAccountBook() *AccountBook {
	return &AccountBook{accounts: make(map[string]*model.Account)}
}

// Open creates or replaces the account of identity.
func (b *AccountBook) Open(ctx context.Context, identity, name string, balance int64) (*model.Account, error) {
	if err := validateIdentity(identity); err != nil {
		return nil, err
	}

	account, err := model.NewAccount(name, balance)
	if err != nil {
		return nil, common.NewInputError(err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.accounts[identity] = account
	common.LogDebug(ctx, "opened account", common.Fields{"identity": identity, "balance": balance})
	return account.Clone(), nil
}

// Get returns a copy of the identity's account.
func (b *AccountBook) Get(_ context.Context, identity string) (*model.Account, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	account, err := b.lookup(identity)
	if err != nil {
		return nil, err
	}
	return account.Clone(), nil
}

// Deposit adds amount to the identity's balance.
func (b *AccountBook) Deposit(ctx context.Context, identity string, amount int64) (*model.Account, error) {
	return b.apply(ctx, identity, "deposit", func(a *model.Account) error { return a.Deposit(amount) })
}

// Withdraw removes amount from the identity's balance.
func (b *AccountBook) Withdraw(ctx context.Context, identity string, amount int64) (*model.Account, error) {
	return b.apply(ctx, identity, "withdraw", func(a *model.Account) error { return a.Withdraw(amount) })
}

// Adjust sets the identity's balance to amount.
func (b *AccountBook) Adjust(ctx context.Context, identity string, amount int64) (*model.Account, error) {
	return b.apply(ctx, identity, "adjust", func(a *model.Account) error { return a.AdjustBalance(amount) })
}

// Rename changes the name on the identity's account.
func (b *AccountBook) Rename(ctx context.Context, identity, name string) (*model.Account, error) {
	return b.apply(ctx, identity, "rename", func(a *model.Account) error { return a.Rename(name) })
}

func (b *AccountBook) apply(ctx context.Context, identity, op string, fn func(*model.Account) error) (*model.Account, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	account, err := b.lookup(identity)
	if err != nil {
		return nil, err
	}

	if err := fn(account); err != nil {
		if common.IsValidation(err) {
			return nil, common.NewInputError(err)
		}
		return nil, err
	}

	common.LogDebug(ctx, "account updated", common.Fields{
		"identity": identity,
		"op":       op,
		"balance":  account.Balance(),
	})
	return account.Clone(), nil
}

func (b *AccountBook) lookup(identity string) (*model.Account, error) {
	if err := validateIdentity(identity); err != nil {
		return nil, err
	}
	account, ok := b.accounts[identity]
	if !ok {
		return nil, fmt.Errorf("account for %q: %w", identity, common.ErrNotFound)
	}
	return account, nil
}

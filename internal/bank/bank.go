// Package bank models the external value-transfer primitive the ledger
// settles premiums and payouts through. The ledger only sees the Transferrer
// port; account bookkeeping stays on this side of the boundary.
package bank

import (
	"context"
	"fmt"
	"sync"

	"coverledger/pkg/sentinel"
)

// Transferrer moves currency between two parties. A transfer either fully
// applies or fails with both balances untouched.
type Transferrer interface {
	Transfer(ctx context.Context, amount uint64, from, to string) error
}

// InMemory is a mutex-guarded settlement ledger of account balances.
// Accounts spring into existence on first deposit; a transfer from an
// unknown account fails the same way an underfunded one does.
type InMemory struct {
	mu       sync.Mutex
	balances map[string]uint64
}

func NewInMemory() *InMemory {
	return &InMemory{balances: make(map[string]uint64)}
}

// Deposit credits an account. Used to seed balances at startup and in tests.
func (b *InMemory) Deposit(account string, amount uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.balances[account] += amount
}

// Balance reports the current balance of an account.
func (b *InMemory) Balance(account string) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balances[account]
}

// Transfer moves amount from one account to another. Fails with
// sentinel.ErrInsufficientFunds when the source cannot cover it.
func (b *InMemory) Transfer(_ context.Context, amount uint64, from, to string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.balances[from] < amount {
		return fmt.Errorf("transfer %d from %s: %w", amount, from, sentinel.ErrInsufficientFunds)
	}
	b.balances[from] -= amount
	b.balances[to] += amount
	return nil
}

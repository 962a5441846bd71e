// Package ledger provides the account value store the registrar charges fees
// against. It stands in for an external payments system behind the same
// transfer interface.
package ledger

import (
	"context"
	"fmt"
	"sync"
)

// InMemory tracks account balances. All methods are safe for concurrent use.
type InMemory struct {
	mu       sync.RWMutex
	balances map[string]uint64
}

func NewInMemory() *InMemory {
	return &InMemory{balances: make(map[string]uint64)}
}

// Credit adds funds to an account.
func (l *InMemory) Credit(account string, amount uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[account] += amount
}

// BalanceOf reports an account's balance. Unknown accounts hold zero.
func (l *InMemory) BalanceOf(account string) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balances[account]
}

// Transfer moves value between accounts. It fails without side effects when
// the source balance is insufficient.
func (l *InMemory) Transfer(_ context.Context, from, to string, amount uint64) error {
	if amount == 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.balances[from] < amount {
		return fmt.Errorf("insufficient funds: account %q holds %d, needs %d", from, l.balances[from], amount)
	}
	l.balances[from] -= amount
	l.balances[to] += amount
	return nil
}

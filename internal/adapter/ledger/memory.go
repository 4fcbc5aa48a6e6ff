package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

// Memory is an in-memory Ledger used by tests and the memory backend mode
// Balances are keyed by principal then denomination; absent entries are zero
type Memory struct {
	mu       sync.Mutex
	balances map[string]map[string]decimal.Decimal
}

// NewMemory creates an empty in-memory ledger
func NewMemory() *Memory {
	return &Memory{balances: make(map[string]map[string]decimal.Decimal)}
}

// SetBalance sets a principal's balance of a denomination
func (m *Memory) SetBalance(principal, denom string, amount decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setLocked(principal, denom, amount)
}

// BalanceOf returns the principal's balance of the given denomination
func (m *Memory) BalanceOf(ctx context.Context, principal, denom string) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balanceLocked(principal, denom), nil
}

// Transfer moves amount denom between principals through the privileged path
// Fails without any movement when the source balance cannot cover the amount
func (m *Memory) Transfer(ctx context.Context, amount decimal.Decimal, denom, from, to string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	source := m.balanceLocked(from, denom)
	if source.LessThan(amount) {
		return fmt.Errorf("ledger refused transfer: %s holds %s %s, needs %s", from, source, denom, amount)
	}

	m.setLocked(from, denom, source.Sub(amount))
	m.setLocked(to, denom, m.balanceLocked(to, denom).Add(amount))
	return nil
}

func (m *Memory) balanceLocked(principal, denom string) decimal.Decimal {
	if account, ok := m.balances[principal]; ok {
		if balance, ok := account[denom]; ok {
			return balance
		}
	}
	return decimal.Zero
}

func (m *Memory) setLocked(principal, denom string, amount decimal.Decimal) {
	account, ok := m.balances[principal]
	if !ok {
		account = make(map[string]decimal.Decimal)
		m.balances[principal] = account
	}
	account[denom] = amount
}

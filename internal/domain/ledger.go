package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// CustodyTransfer represents a privileged transfer instruction issued to the
// ledger. Restricted assets move exclusively through these instructions.
type CustodyTransfer struct {
	Amount decimal.Decimal
	Denom  string
	From   string
	To     string
}

// Ledger defines the balance and custody-transfer operations consumed by the
// escrow workflow. The ledger is externally owned; balances are read fresh on
// every call and transfers execute through its privileged path.
type Ledger interface {
	// BalanceOf returns the principal's balance of the given denomination
	BalanceOf(ctx context.Context, principal, denom string) (decimal.Decimal, error)

	// Transfer executes a privileged custody transfer of amount denom from one
	// principal to another
	Transfer(ctx context.Context, amount decimal.Decimal, denom, from, to string) error
}

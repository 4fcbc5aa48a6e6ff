package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transfer represents a pending escrow of a restricted asset
// A record exists only while the transfer awaits resolution: approval moves the
// escrowed funds to the recipient, rejection and cancellation return them to the
// sender, and all three delete the record
type Transfer struct {
	ID        uuid.UUID
	Sender    string
	Denom     string
	Amount    decimal.Decimal // whole units, always positive
	Recipient string
}

// Validate ensures the transfer adheres to domain rules
// Returns a KindInvalidFields error naming every offending field
func (t *Transfer) Validate() error {
	fields := make([]string, 0)

	if t.ID == uuid.Nil {
		fields = append(fields, "id")
	}
	if t.Sender == "" {
		fields = append(fields, "sender")
	}
	if t.Denom == "" {
		fields = append(fields, "denom")
	}
	// Amounts are whole units of the asset: positive and integral
	if !t.Amount.IsPositive() || !t.Amount.IsInteger() {
		fields = append(fields, "amount")
	}
	if t.Recipient == "" {
		fields = append(fields, "recipient")
	}

	if len(fields) > 0 {
		return NewFieldError(fields...)
	}

	return nil
}

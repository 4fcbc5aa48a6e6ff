package domain

import (
	"context"

	"github.com/google/uuid"
)

// TransferRepository defines the interface for pending-transfer persistence operations
// The repository holds a transfer if and only if it is unresolved; resolution deletes it
type TransferRepository interface {
	// GetByID retrieves a pending transfer by its ID
	// Returns a KindTransferNotFound error if no record exists
	GetByID(ctx context.Context, id uuid.UUID) (*Transfer, error)

	// Exists reports whether a pending transfer with the given ID exists
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// Create persists a new pending transfer
	Create(ctx context.Context, transfer *Transfer) error

	// Delete removes a pending transfer by its ID
	Delete(ctx context.Context, id uuid.UUID) error

	// List retrieves all pending transfers
	List(ctx context.Context) ([]*Transfer, error)

	// ListByDenom retrieves all pending transfers of a single denomination
	ListByDenom(ctx context.Context, denom string) ([]*Transfer, error)
}

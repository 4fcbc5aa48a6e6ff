package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/gatewise/escrowd/internal/domain"
)

// transferRepository implements domain.TransferRepository over a mutex-guarded
// map. Used by tests and the memory storage backend.
type transferRepository struct {
	mu        sync.RWMutex
	transfers map[uuid.UUID]domain.Transfer
}

// NewTransferRepository creates an empty in-memory transfer repository
func NewTransferRepository() domain.TransferRepository {
	return &transferRepository{transfers: make(map[uuid.UUID]domain.Transfer)}
}

// GetByID retrieves a pending transfer by its ID
func (r *transferRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transfer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	transfer, ok := r.transfers[id]
	if !ok {
		return nil, domain.NewError(domain.KindTransferNotFound, fmt.Sprintf("no pending transfer with id %s", id))
	}
	return &transfer, nil
}

// Exists reports whether a pending transfer with the given ID exists
func (r *transferRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.transfers[id]
	return ok, nil
}

// Create persists a new pending transfer
func (r *transferRepository) Create(ctx context.Context, transfer *domain.Transfer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.transfers[transfer.ID]; ok {
		return fmt.Errorf("transfer %s already exists", transfer.ID)
	}
	r.transfers[transfer.ID] = *transfer
	return nil
}

// Delete removes a pending transfer by its ID
func (r *transferRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.transfers[id]; !ok {
		return domain.NewError(domain.KindTransferNotFound, fmt.Sprintf("no pending transfer with id %s", id))
	}
	delete(r.transfers, id)
	return nil
}

// List retrieves all pending transfers, ordered by id for stable output
func (r *transferRepository) List(ctx context.Context) ([]*domain.Transfer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	transfers := make([]*domain.Transfer, 0, len(r.transfers))
	for id := range r.transfers {
		transfer := r.transfers[id]
		transfers = append(transfers, &transfer)
	}
	sort.Slice(transfers, func(i, j int) bool {
		return transfers[i].ID.String() < transfers[j].ID.String()
	})
	return transfers, nil
}

// ListByDenom retrieves all pending transfers of a single denomination
func (r *transferRepository) ListByDenom(ctx context.Context, denom string) ([]*domain.Transfer, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	transfers := make([]*domain.Transfer, 0, len(all))
	for _, transfer := range all {
		if transfer.Denom == denom {
			transfers = append(transfers, transfer)
		}
	}
	return transfers, nil
}

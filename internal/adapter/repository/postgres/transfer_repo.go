package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gatewise/escrowd/internal/domain"
)

// transferRepository implements domain.TransferRepository
type transferRepository struct {
	db *DB
}

// NewTransferRepository creates a new transfer repository
func NewTransferRepository(db *DB) domain.TransferRepository {
	return &transferRepository{db: db}
}

// GetByID retrieves a pending transfer by its ID
func (r *transferRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transfer, error) {
	query := `
		SELECT id, sender, denom, amount, recipient
		FROM transfers
		WHERE id = $1
	`

	transfer, err := scanTransfer(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewError(domain.KindTransferNotFound, fmt.Sprintf("no pending transfer with id %s", id))
		}
		return nil, fmt.Errorf("failed to get transfer by ID: %w", err)
	}

	return transfer, nil
}

// Exists reports whether a pending transfer with the given ID exists
func (r *transferRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM transfers WHERE id = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check transfer existence: %w", err)
	}

	return exists, nil
}

// Create persists a new pending transfer
func (r *transferRepository) Create(ctx context.Context, transfer *domain.Transfer) error {
	query := `
		INSERT INTO transfers (id, sender, denom, amount, recipient)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		transfer.ID,
		transfer.Sender,
		transfer.Denom,
		transfer.Amount.String(),
		transfer.Recipient,
	)
	if err != nil {
		return fmt.Errorf("failed to create transfer: %w", err)
	}

	return nil
}

// Delete removes a pending transfer by its ID
func (r *transferRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM transfers WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete transfer: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if rows == 0 {
		return domain.NewError(domain.KindTransferNotFound, fmt.Sprintf("no pending transfer with id %s", id))
	}

	return nil
}

// List retrieves all pending transfers, oldest first
func (r *transferRepository) List(ctx context.Context) ([]*domain.Transfer, error) {
	query := `
		SELECT id, sender, denom, amount, recipient
		FROM transfers
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}
	defer rows.Close()

	return collectTransfers(rows)
}

// ListByDenom retrieves all pending transfers of a single denomination, oldest first
func (r *transferRepository) ListByDenom(ctx context.Context, denom string) ([]*domain.Transfer, error) {
	query := `
		SELECT id, sender, denom, amount, recipient
		FROM transfers
		WHERE denom = $1
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, denom)
	if err != nil {
		return nil, fmt.Errorf("failed to list transfers by denom: %w", err)
	}
	defer rows.Close()

	return collectTransfers(rows)
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTransfer(row scanner) (*domain.Transfer, error) {
	var transfer domain.Transfer
	var amountStr string

	err := row.Scan(
		&transfer.ID,
		&transfer.Sender,
		&transfer.Denom,
		&amountStr,
		&transfer.Recipient,
	)
	if err != nil {
		return nil, err
	}

	// Parse amount (DECIMAL)
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse amount: %w", err)
	}
	transfer.Amount = amount

	return &transfer, nil
}

func collectTransfers(rows *sql.Rows) ([]*domain.Transfer, error) {
	transfers := make([]*domain.Transfer, 0)
	for rows.Next() {
		transfer, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transfer: %w", err)
		}
		transfers = append(transfers, transfer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transfers: %w", err)
	}
	return transfers, nil
}

package transfer

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gatewise/escrowd/internal/domain"
)

// Action values recorded as the first audit attribute of each operation
const (
	ActionCreate  = "create_transfer"
	ActionApprove = "approve"
	ActionReject  = "reject"
	ActionCancel  = "cancel"
)

// Attribute represents one key-value pair of an operation's audit trail
// Attribute order within a Result is fixed per operation
type Attribute struct {
	Key   string
	Value string
}

// Result represents the outcome of a successful lifecycle operation: the
// affected transfer, the ordered audit attributes, and the custody-transfer
// instruction issued to the ledger
type Result struct {
	Transfer    domain.Transfer
	Attributes  []Attribute
	Instruction domain.CustodyTransfer
}

// Authorizer reports whether a principal holds administrator rights over an
// asset class
type Authorizer interface {
	IsAdministrator(ctx context.Context, principal, denom string) (bool, error)
}

// CreateTransferInput represents the input for creating an escrowed transfer
// Caller becomes the transfer's sender
type CreateTransferInput struct {
	Caller    string
	Funds     []domain.Coin
	ID        uuid.UUID
	Denom     string
	Amount    decimal.Decimal
	Recipient string
}

// ResolveTransferInput represents the input for approving, rejecting or
// cancelling a pending transfer
type ResolveTransferInput struct {
	Caller string
	Funds  []domain.Coin
	ID     uuid.UUID
}

// TransferService orchestrates the escrow lifecycle (create, approve, reject,
// cancel) and the read-only queries over pending transfers
// CustodyAccount is the service's own ledger address holding escrowed funds
type TransferService struct {
	TransferRepo   domain.TransferRepository
	Registry       domain.AssetRegistry
	Ledger         domain.Ledger
	Authz          Authorizer
	CustodyAccount string
}

// NewTransferService creates a new TransferService instance
func NewTransferService(
	transferRepo domain.TransferRepository,
	registry domain.AssetRegistry,
	ledger domain.Ledger,
	authorizer Authorizer,
	custodyAccount string,
) *TransferService {
	return &TransferService{
		TransferRepo:   transferRepo,
		Registry:       registry,
		Ledger:         ledger,
		Authz:          authorizer,
		CustodyAccount: custodyAccount,
	}
}

// CreateTransfer escrows funds for an administrator-gated transfer
// Logic:
//  1. Validate the record fields
//  2. The denomination must be a restricted asset class
//  3. The call must carry no attached funds
//  4. The caller's ledger balance must cover the amount
//  5. The id must not collide with a pending transfer
//  6. Persist the record, then move the funds into the custody account
func (s *TransferService) CreateTransfer(ctx context.Context, input CreateTransferInput) (*Result, error) {
	transfer := &domain.Transfer{
		ID:        input.ID,
		Sender:    input.Caller,
		Denom:     input.Denom,
		Amount:    input.Amount,
		Recipient: input.Recipient,
	}
	if err := transfer.Validate(); err != nil {
		return nil, err
	}

	// 2. Only restricted classes need the escrow path; everything else,
	// including denominations the registry has never heard of, is refused
	class, err := s.Registry.Classify(ctx, transfer.Denom)
	if err != nil {
		if errors.Is(err, domain.ErrDenomNotKnown) {
			return nil, domain.NewError(domain.KindUnsupportedAssetType, "only restricted asset classes are supported")
		}
		return nil, fmt.Errorf("failed to classify %s: %w", transfer.Denom, err)
	}
	if class != domain.AssetClassRestricted {
		return nil, domain.NewError(domain.KindUnsupportedAssetType, "only restricted asset classes are supported")
	}

	// 3. Escrowed funds move exclusively through the custody transfer path;
	// attached funds signal caller confusion and hard-fail
	if len(input.Funds) > 0 {
		return nil, domain.NewError(domain.KindAttachedFundsUnsupported, "attached funds are not accepted on escrow operations")
	}

	// 4. Ensure the sender holds enough denom to cover the transfer
	balance, err := s.Ledger.BalanceOf(ctx, transfer.Sender, transfer.Denom)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s balance of %s: %w", transfer.Denom, transfer.Sender, err)
	}
	if balance.LessThan(transfer.Amount) {
		return nil, domain.NewError(domain.KindInsufficientFunds, "insufficient funds to complete the transfer")
	}

	// 5. Ids are unique across pending transfers
	exists, err := s.TransferRepo.Exists(ctx, transfer.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check transfer id %s: %w", transfer.ID, err)
	}
	if exists {
		return nil, domain.NewFieldError("id")
	}

	// 6. Persist, then escrow the funds
	if err := s.TransferRepo.Create(ctx, transfer); err != nil {
		return nil, fmt.Errorf("failed to persist transfer %s: %w", transfer.ID, err)
	}

	instruction := domain.CustodyTransfer{
		Amount: transfer.Amount,
		Denom:  transfer.Denom,
		From:   transfer.Sender,
		To:     s.CustodyAccount,
	}
	if err := s.issueInstruction(ctx, instruction, func(undoCtx context.Context) error {
		return s.TransferRepo.Delete(undoCtx, transfer.ID)
	}); err != nil {
		return nil, err
	}

	return &Result{
		Transfer: *transfer,
		Attributes: []Attribute{
			{Key: "action", Value: ActionCreate},
			{Key: "id", Value: transfer.ID.String()},
			{Key: "denom", Value: transfer.Denom},
			{Key: "amount", Value: transfer.Amount.String()},
			{Key: "sender", Value: transfer.Sender},
			{Key: "recipient", Value: transfer.Recipient},
		},
		Instruction: instruction,
	}, nil
}

// CancelTransfer returns escrowed funds to the sender
// Only the original sender may cancel; administrators cannot, so a transfer is
// never frozen unilaterally without a recipient-facing decision
func (s *TransferService) CancelTransfer(ctx context.Context, input ResolveTransferInput) (*Result, error) {
	transfer, err := s.loadPending(ctx, input.ID, input.Funds)
	if err != nil {
		return nil, err
	}

	if input.Caller != transfer.Sender {
		return nil, domain.NewError(domain.KindUnauthorized, "only the original sender can cancel a transfer")
	}

	instruction, err := s.deleteAndRelease(ctx, transfer, transfer.Sender)
	if err != nil {
		return nil, err
	}

	return &Result{
		Transfer: *transfer,
		Attributes: []Attribute{
			{Key: "action", Value: ActionCancel},
			{Key: "id", Value: transfer.ID.String()},
			{Key: "denom", Value: transfer.Denom},
			{Key: "amount", Value: transfer.Amount.String()},
			{Key: "sender", Value: transfer.Sender},
		},
		Instruction: instruction,
	}, nil
}

// RejectTransfer returns escrowed funds to the sender by administrator decision
func (s *TransferService) RejectTransfer(ctx context.Context, input ResolveTransferInput) (*Result, error) {
	transfer, err := s.loadPending(ctx, input.ID, input.Funds)
	if err != nil {
		return nil, err
	}

	isAdmin, err := s.Authz.IsAdministrator(ctx, input.Caller, transfer.Denom)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		return nil, domain.NewError(domain.KindUnauthorized, "the admin capability is required to reject transfers")
	}

	instruction, err := s.deleteAndRelease(ctx, transfer, transfer.Sender)
	if err != nil {
		return nil, err
	}

	return &Result{
		Transfer: *transfer,
		Attributes: []Attribute{
			{Key: "action", Value: ActionReject},
			{Key: "id", Value: transfer.ID.String()},
			{Key: "denom", Value: transfer.Denom},
			{Key: "amount", Value: transfer.Amount.String()},
			{Key: "sender", Value: transfer.Sender},
			{Key: "admin", Value: input.Caller},
		},
		Instruction: instruction,
	}, nil
}

// ApproveTransfer releases escrowed funds to the recipient by administrator
// decision
func (s *TransferService) ApproveTransfer(ctx context.Context, input ResolveTransferInput) (*Result, error) {
	transfer, err := s.loadPending(ctx, input.ID, input.Funds)
	if err != nil {
		return nil, err
	}

	isAdmin, err := s.Authz.IsAdministrator(ctx, input.Caller, transfer.Denom)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		return nil, domain.NewError(domain.KindUnauthorized, "the admin capability is required to approve transfers")
	}

	instruction, err := s.deleteAndRelease(ctx, transfer, transfer.Recipient)
	if err != nil {
		return nil, err
	}

	return &Result{
		Transfer: *transfer,
		Attributes: []Attribute{
			{Key: "action", Value: ActionApprove},
			{Key: "id", Value: transfer.ID.String()},
			{Key: "denom", Value: transfer.Denom},
			{Key: "amount", Value: transfer.Amount.String()},
			{Key: "sender", Value: transfer.Sender},
			{Key: "recipient", Value: transfer.Recipient},
			{Key: "admin", Value: input.Caller},
		},
		Instruction: instruction,
	}, nil
}

// GetTransfer retrieves a pending transfer by its ID
func (s *TransferService) GetTransfer(ctx context.Context, id uuid.UUID) (*domain.Transfer, error) {
	return s.TransferRepo.GetByID(ctx, id)
}

// ListTransfers retrieves all pending transfers, optionally filtered by
// denomination (empty denom returns everything)
func (s *TransferService) ListTransfers(ctx context.Context, denom string) ([]*domain.Transfer, error) {
	if denom != "" {
		return s.TransferRepo.ListByDenom(ctx, denom)
	}
	return s.TransferRepo.List(ctx)
}

// loadPending enforces the shared resolution preconditions: the record must
// exist, and the call must carry no attached funds. Not-found short-circuits
// before the funds check.
func (s *TransferService) loadPending(ctx context.Context, id uuid.UUID, funds []domain.Coin) (*domain.Transfer, error) {
	transfer, err := s.TransferRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if len(funds) > 0 {
		return nil, domain.NewError(domain.KindAttachedFundsUnsupported, "attached funds are not accepted on escrow operations")
	}

	return transfer, nil
}

// deleteAndRelease deletes the pending record and moves the escrowed funds
// from the custody account to the destination
func (s *TransferService) deleteAndRelease(ctx context.Context, transfer *domain.Transfer, destination string) (domain.CustodyTransfer, error) {
	if err := s.TransferRepo.Delete(ctx, transfer.ID); err != nil {
		return domain.CustodyTransfer{}, fmt.Errorf("failed to delete transfer %s: %w", transfer.ID, err)
	}

	instruction := domain.CustodyTransfer{
		Amount: transfer.Amount,
		Denom:  transfer.Denom,
		From:   s.CustodyAccount,
		To:     destination,
	}
	if err := s.issueInstruction(ctx, instruction, func(undoCtx context.Context) error {
		return s.TransferRepo.Create(undoCtx, transfer)
	}); err != nil {
		return domain.CustodyTransfer{}, err
	}

	return instruction, nil
}

// issueInstruction executes a custody transfer on the ledger. The record
// mutation and the funds movement must land together, so when the ledger
// refuses the instruction the caller's undo reverses the mutation before the
// error is surfaced.
func (s *TransferService) issueInstruction(ctx context.Context, instruction domain.CustodyTransfer, undo func(context.Context) error) error {
	err := s.Ledger.Transfer(ctx, instruction.Amount, instruction.Denom, instruction.From, instruction.To)
	if err == nil {
		return nil
	}

	if undoErr := undo(ctx); undoErr != nil {
		return fmt.Errorf("custody transfer failed: %v; failed to undo record mutation: %w", err, undoErr)
	}
	return fmt.Errorf("custody transfer failed: %w", err)
}

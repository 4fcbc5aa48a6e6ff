package report

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/gatewise/escrowd/internal/domain"
)

// MockTransferRepository is a mock implementation of TransferRepository for testing
type MockTransferRepository struct {
	mock.Mock
}

func (m *MockTransferRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transfer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transfer), args.Error(1)
}

func (m *MockTransferRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockTransferRepository) Create(ctx context.Context, transfer *domain.Transfer) error {
	args := m.Called(ctx, transfer)
	return args.Error(0)
}

func (m *MockTransferRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTransferRepository) List(ctx context.Context) ([]*domain.Transfer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Transfer), args.Error(1)
}

func (m *MockTransferRepository) ListByDenom(ctx context.Context, denom string) ([]*domain.Transfer, error) {
	args := m.Called(ctx, denom)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Transfer), args.Error(1)
}

func pendingTransfer(denom string, amount int64) *domain.Transfer {
	return &domain.Transfer{
		ID:        uuid.New(),
		Sender:    "sender_account",
		Denom:     denom,
		Amount:    decimal.NewFromInt(amount),
		Recipient: "recipient_account",
	}
}

func TestCustodyReport_Success(t *testing.T) {
	repo := new(MockTransferRepository)
	service := NewReportService(repo)

	repo.On("List", mock.Anything).Return([]*domain.Transfer{
		pendingTransfer("restricted_1", 5),
		pendingTransfer("restricted_2", 7),
		pendingTransfer("restricted_1", 3),
	}, nil)

	result, err := service.CustodyReport(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 3, result.PendingTotal)
	assert.Len(t, result.Denominations, 2)

	// Sorted by denomination
	assert.Equal(t, "restricted_1", result.Denominations[0].Denom)
	assert.True(t, result.Denominations[0].Total.Equal(decimal.NewFromInt(8)))
	assert.Equal(t, 2, result.Denominations[0].Pending)

	assert.Equal(t, "restricted_2", result.Denominations[1].Denom)
	assert.True(t, result.Denominations[1].Total.Equal(decimal.NewFromInt(7)))
	assert.Equal(t, 1, result.Denominations[1].Pending)

	repo.AssertExpectations(t)
}

func TestCustodyReport_Empty(t *testing.T) {
	repo := new(MockTransferRepository)
	service := NewReportService(repo)

	repo.On("List", mock.Anything).Return([]*domain.Transfer{}, nil)

	result, err := service.CustodyReport(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 0, result.PendingTotal)
	assert.Empty(t, result.Denominations)
}

func TestCustodyReport_RepositoryError(t *testing.T) {
	repo := new(MockTransferRepository)
	service := NewReportService(repo)

	repo.On("List", mock.Anything).Return(nil, errors.New("connection lost"))

	result, err := service.CustodyReport(context.Background())

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "failed to list pending transfers")
}

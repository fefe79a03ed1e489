package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Jalbyte/Mercador-Backend-sub000/internal/domain"
)

func TestPointsService_GetBalance(t *testing.T) {
	ctx := context.Background()

	t.Run("ExistingBalance", func(t *testing.T) {
		repo := new(MockPointsRepo)
		opRepo := new(MockOrderPointsRepo)
		svc := NewPointsService(repo, opRepo)

		repo.On("GetBalance", ctx, int64(1)).Return(&domain.PointsBalance{UserID: 1, Balance: 500}, nil)

		balance, err := svc.GetBalance(ctx, 1)
		assert.NoError(t, err)
		assert.Equal(t, int64(500), balance.Balance)
		repo.AssertNotCalled(t, "CreateBalance", ctx, int64(1))
	})

	t.Run("LazyCreateOnFirstAccess", func(t *testing.T) {
		repo := new(MockPointsRepo)
		opRepo := new(MockOrderPointsRepo)
		svc := NewPointsService(repo, opRepo)

		repo.On("GetBalance", ctx, int64(2)).Return(nil, nil).Once()
		repo.On("CreateBalance", ctx, int64(2)).Return(nil)
		repo.On("GetBalance", ctx, int64(2)).Return(&domain.PointsBalance{UserID: 2, Balance: 0}, nil).Once()

		balance, err := svc.GetBalance(ctx, 2)
		assert.NoError(t, err)
		assert.Equal(t, int64(0), balance.Balance)
		repo.AssertExpectations(t)
	})
}

func TestPointsService_Earn(t *testing.T) {
	ctx := context.Background()

	t.Run("CreditsAndLogsTransaction", func(t *testing.T) {
		repo := new(MockPointsRepo)
		svc := NewPointsService(repo, new(MockOrderPointsRepo))

		repo.On("AddPoints", ctx, int64(1), int64(250)).Return(nil)
		repo.On("CreateTransaction", ctx, mock.MatchedBy(func(tx *domain.PointsTransaction) bool {
			return tx.Amount == 250 && tx.Type == domain.PointsTransactionTypeEarned
		})).Return(nil)

		ok := svc.Earn(ctx, 1, 250, domain.PointsTransactionTypeEarned, "order", nil, nil)
		assert.True(t, ok)
		repo.AssertExpectations(t)
	})

	t.Run("ZeroAmountRejected", func(t *testing.T) {
		repo := new(MockPointsRepo)
		svc := NewPointsService(repo, new(MockOrderPointsRepo))

		ok := svc.Earn(ctx, 1, 0, domain.PointsTransactionTypeEarned, "", nil, nil)
		assert.False(t, ok)
		repo.AssertNotCalled(t, "AddPoints", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("InvalidKindRejected", func(t *testing.T) {
		repo := new(MockPointsRepo)
		svc := NewPointsService(repo, new(MockOrderPointsRepo))

		ok := svc.Earn(ctx, 1, 100, domain.PointsTransactionTypeSpent, "", nil, nil)
		assert.False(t, ok)
	})

	t.Run("NegativeNonAdjustmentRejected", func(t *testing.T) {
		repo := new(MockPointsRepo)
		svc := NewPointsService(repo, new(MockOrderPointsRepo))

		ok := svc.Earn(ctx, 1, -100, domain.PointsTransactionTypeRefund, "", nil, nil)
		assert.False(t, ok)
		repo.AssertNotCalled(t, "DeductPoints", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("NegativeAdjustmentGoesThroughGuardedDebit", func(t *testing.T) {
		repo := new(MockPointsRepo)
		svc := NewPointsService(repo, new(MockOrderPointsRepo))

		repo.On("DeductPoints", ctx, int64(1), int64(300)).Return(true, nil)
		repo.On("CreateTransaction", ctx, mock.MatchedBy(func(tx *domain.PointsTransaction) bool {
			return tx.Amount == -300 && tx.Type == domain.PointsTransactionTypeAdjustment
		})).Return(nil)

		ok := svc.Earn(ctx, 1, -300, domain.PointsTransactionTypeAdjustment, "correction", nil, nil)
		assert.True(t, ok)
		repo.AssertExpectations(t)
	})

	t.Run("NegativeAdjustmentExceedingBalanceRejected", func(t *testing.T) {
		repo := new(MockPointsRepo)
		svc := NewPointsService(repo, new(MockOrderPointsRepo))

		repo.On("DeductPoints", ctx, int64(1), int64(1000)).Return(false, nil)

		ok := svc.Earn(ctx, 1, -1000, domain.PointsTransactionTypeAdjustment, "correction", nil, nil)
		assert.False(t, ok)
		repo.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything)
	})

	t.Run("TransactionLogFailureDoesNotRevertCredit", func(t *testing.T) {
		repo := new(MockPointsRepo)
		svc := NewPointsService(repo, new(MockOrderPointsRepo))

		repo.On("AddPoints", ctx, int64(1), int64(50)).Return(nil)
		repo.On("CreateTransaction", ctx, mock.Anything).Return(errors.New("db down"))

		ok := svc.Earn(ctx, 1, 50, domain.PointsTransactionTypeRefund, "", nil, nil)
		assert.True(t, ok)
	})
}

func TestPointsService_Deduct(t *testing.T) {
	ctx := context.Background()

	t.Run("DebitsAndLogsNegatedAmount", func(t *testing.T) {
		repo := new(MockPointsRepo)
		svc := NewPointsService(repo, new(MockOrderPointsRepo))

		orderID := int64(42)
		repo.On("DeductPoints", ctx, int64(1), int64(10000)).Return(true, nil)
		repo.On("CreateTransaction", ctx, mock.MatchedBy(func(tx *domain.PointsTransaction) bool {
			return tx.Amount == -10000 && tx.Type == domain.PointsTransactionTypeSpent && tx.OrderID != nil && *tx.OrderID == orderID
		})).Return(nil)

		ok := svc.Deduct(ctx, 1, 10000, "payment", &orderID, nil)
		assert.True(t, ok)
		repo.AssertExpectations(t)
	})

	t.Run("InsufficientBalance", func(t *testing.T) {
		repo := new(MockPointsRepo)
		svc := NewPointsService(repo, new(MockOrderPointsRepo))

		repo.On("DeductPoints", ctx, int64(1), int64(10000)).Return(false, nil)

		ok := svc.Deduct(ctx, 1, 10000, "payment", nil, nil)
		assert.False(t, ok)
		repo.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything)
	})

	t.Run("NonPositiveAmountRejected", func(t *testing.T) {
		repo := new(MockPointsRepo)
		svc := NewPointsService(repo, new(MockOrderPointsRepo))

		assert.False(t, svc.Deduct(ctx, 1, 0, "", nil, nil))
		assert.False(t, svc.Deduct(ctx, 1, -5, "", nil, nil))
		repo.AssertNotCalled(t, "DeductPoints", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestPointsService_ValidatePoints(t *testing.T) {
	ctx := context.Background()
	repo := new(MockPointsRepo)
	svc := NewPointsService(repo, new(MockOrderPointsRepo))

	repo.On("GetBalance", ctx, int64(1)).Return(&domain.PointsBalance{UserID: 1, Balance: 8000}, nil)

	sufficient, available, err := svc.ValidatePoints(ctx, 1, 10000)
	assert.NoError(t, err)
	assert.False(t, sufficient)
	assert.Equal(t, int64(8000), available)

	sufficient, _, err = svc.ValidatePoints(ctx, 1, 8000)
	assert.NoError(t, err)
	assert.True(t, sufficient)
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Jalbyte/Mercador-Backend-sub000/internal/domain"
)

// Walks a user through the full points lifecycle: a pure money purchase
// that earns points, a second purchase paid partly with those points,
// and a full return of the second order that splits the refund back
// into its money and points legs.
func TestPointsLifecycleAcrossPurchasesAndReturn(t *testing.T) {
	ctx := context.Background()

	orderRepo := new(MockOrderRepo)
	orderPointsRepo := new(MockOrderPointsRepo)
	profileRepo := new(MockProfileRepo)
	pointsRepo := new(MockPointsRepo)
	outboxRepo := new(MockOutboxRepo)
	returnRepo := new(MockReturnRepo)
	gateway := new(MockGateway)

	pointsSvc := NewPointsService(pointsRepo, orderPointsRepo)
	outboxSvc := NewOutboxService(outboxRepo)
	checkoutSvc := NewCheckoutService(orderRepo, orderPointsRepo, profileRepo, pointsSvc, outboxSvc, gateway, "https://shop.example/result")
	returnSvc := NewReturnService(returnRepo, orderRepo, orderPointsRepo, pointsSvc, outboxSvc)

	outboxRepo.On("Enqueue", ctx, mock.Anything).Return(nil)
	pointsRepo.On("CreateTransaction", ctx, mock.Anything).Return(nil)

	// First purchase: 100000 paid entirely in money earns
	// floor(100000/400) = 250 points.
	first := &domain.Order{ID: 1, UserID: 7, Status: domain.OrderStatusPending, TotalAmount: 100000}
	orderRepo.On("GetByID", ctx, int64(1)).Return(first, nil)
	orderPointsRepo.On("GetByOrderID", ctx, int64(1)).Return(nil, nil).Once()
	orderRepo.On("Confirm", ctx, int64(1), domain.PaymentMethodGateway, "pay_1", int64(0)).Return(true, nil).Once()
	pointsRepo.On("AddPoints", ctx, int64(7), int64(250)).Return(nil).Once()
	orderPointsRepo.On("Upsert", ctx, mock.MatchedBy(func(op *domain.OrderPoints) bool {
		return op.OrderID == 1 && op.PointsUsed == 0 && op.PointsEarned == 250
	})).Return(nil).Once()

	require.NoError(t, checkoutSvc.HandlePaymentSucceeded(ctx, 1, "pay_1"))

	// Second purchase: 80000 total, 200 of the earned points declared
	// up front for a 2000 discount.
	second := &domain.Order{ID: 2, UserID: 7, Status: domain.OrderStatusPending, TotalAmount: 80000}
	orderRepo.On("GetByID", ctx, int64(2)).Return(second, nil)
	pointsRepo.On("GetBalance", ctx, int64(7)).Return(&domain.PointsBalance{UserID: 7, Balance: 250}, nil).Once()
	orderPointsRepo.On("Upsert", ctx, mock.MatchedBy(func(op *domain.OrderPoints) bool {
		return op.OrderID == 2 && op.PointsUsed == 200 && op.PointsEarned == 0 && op.DiscountAmount == 2000
	})).Return(nil).Once()

	op, err := checkoutSvc.DeclarePointsUse(ctx, 7, 2, 200)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), op.DiscountAmount)

	// The gateway settles the remaining 78000, which earns
	// floor(78000/400) = 195 points.
	orderPointsRepo.On("GetByOrderID", ctx, int64(2)).Return(&domain.OrderPoints{
		OrderID: 2, UserID: 7, PointsUsed: 200, DiscountAmount: 2000,
	}, nil)
	pointsRepo.On("DeductPoints", ctx, int64(7), int64(200)).Return(true, nil).Once()
	orderRepo.On("Confirm", ctx, int64(2), domain.PaymentMethodGateway, "pay_2", int64(200)).Return(true, nil).Once()
	pointsRepo.On("AddPoints", ctx, int64(7), int64(195)).Return(nil).Once()
	orderPointsRepo.On("Upsert", ctx, mock.MatchedBy(func(op *domain.OrderPoints) bool {
		return op.OrderID == 2 && op.PointsUsed == 200 && op.PointsEarned == 195 && op.DiscountAmount == 2000
	})).Return(nil).Once()

	require.NoError(t, checkoutSvc.HandlePaymentSucceeded(ctx, 2, "pay_2"))

	// Full return of the second order splits the 80000 refund into
	// 78000 money and the 200 points originally spent.
	second.Status = domain.OrderStatusConfirmed
	ret := &domain.Return{ID: 3, OrderID: 2, UserID: 7, Status: domain.ReturnStatusPending,
		RefundAmount: 80000, RefundMethod: domain.RefundMethodOriginal}
	returnRepo.On("GetByID", ctx, int64(3)).Return(ret, nil)
	pointsRepo.On("AddPoints", ctx, int64(7), int64(200)).Return(nil).Once()
	returnRepo.On("Update", ctx, mock.MatchedBy(func(r *domain.Return) bool {
		return r.Status == domain.ReturnStatusRefunded && r.RefundAmount == 78000
	})).Return(nil).Once()
	orderRepo.On("UpdateStatus", ctx, int64(2), domain.OrderStatusRefunded).Return(nil).Once()

	_, split, err := returnSvc.ApproveReturn(ctx, 99, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(78000), split.MoneyRefund)
	assert.Equal(t, int64(200), split.PointsRefund)

	pointsRepo.AssertExpectations(t)
	orderPointsRepo.AssertExpectations(t)
	returnRepo.AssertExpectations(t)
}

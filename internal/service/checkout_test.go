package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Jalbyte/Mercador-Backend-sub000/internal/domain"
	"github.com/Jalbyte/Mercador-Backend-sub000/internal/payment"
)

type checkoutFixture struct {
	orderRepo       *MockOrderRepo
	orderPointsRepo *MockOrderPointsRepo
	profileRepo     *MockProfileRepo
	pointsRepo      *MockPointsRepo
	outboxRepo      *MockOutboxRepo
	gateway         *MockGateway
	svc             CheckoutService
}

func newCheckoutFixture() *checkoutFixture {
	f := &checkoutFixture{
		orderRepo:       new(MockOrderRepo),
		orderPointsRepo: new(MockOrderPointsRepo),
		profileRepo:     new(MockProfileRepo),
		pointsRepo:      new(MockPointsRepo),
		outboxRepo:      new(MockOutboxRepo),
		gateway:         new(MockGateway),
	}
	pointsSvc := NewPointsService(f.pointsRepo, f.orderPointsRepo)
	outboxSvc := NewOutboxService(f.outboxRepo)
	f.svc = NewCheckoutService(f.orderRepo, f.orderPointsRepo, f.profileRepo, pointsSvc, outboxSvc, f.gateway, "https://shop.example/result")
	return f
}

func TestCheckoutService_PayWithPoints(t *testing.T) {
	ctx := context.Background()

	t.Run("FullPointsPayment", func(t *testing.T) {
		f := newCheckoutFixture()
		order := &domain.Order{ID: 10, UserID: 1, Status: domain.OrderStatusPending, TotalAmount: 100000}

		f.orderRepo.On("GetByID", ctx, int64(10)).Return(order, nil)
		f.pointsRepo.On("GetBalance", ctx, int64(1)).Return(&domain.PointsBalance{UserID: 1, Balance: 15000}, nil)
		f.pointsRepo.On("DeductPoints", ctx, int64(1), int64(10000)).Return(true, nil)
		f.pointsRepo.On("CreateTransaction", ctx, mock.Anything).Return(nil)
		f.orderRepo.On("Confirm", ctx, int64(10), domain.PaymentMethodPoints, "", int64(10000)).Return(true, nil)
		f.orderPointsRepo.On("Upsert", ctx, mock.MatchedBy(func(op *domain.OrderPoints) bool {
			return op.OrderID == 10 && op.PointsUsed == 10000 && op.PointsEarned == 0 && op.DiscountAmount == 100000
		})).Return(nil)
		f.outboxRepo.On("Enqueue", ctx, mock.Anything).Return(nil).Twice()

		err := f.svc.PayWithPoints(ctx, 1, 10)
		require.NoError(t, err)
		// A full points payment covers the entire total, so nothing is
		// earned back.
		f.pointsRepo.AssertNotCalled(t, "AddPoints", mock.Anything, mock.Anything, mock.Anything)
		f.orderRepo.AssertExpectations(t)
		f.orderPointsRepo.AssertExpectations(t)
	})

	t.Run("InsufficientBalance", func(t *testing.T) {
		f := newCheckoutFixture()
		order := &domain.Order{ID: 10, UserID: 1, Status: domain.OrderStatusPending, TotalAmount: 100000}

		f.orderRepo.On("GetByID", ctx, int64(10)).Return(order, nil)
		f.pointsRepo.On("GetBalance", ctx, int64(1)).Return(&domain.PointsBalance{UserID: 1, Balance: 9999}, nil)

		err := f.svc.PayWithPoints(ctx, 1, 10)
		var insufficient *InsufficientPointsError
		require.ErrorAs(t, err, &insufficient)
		assert.Equal(t, int64(10000), insufficient.Required)
		assert.Equal(t, int64(9999), insufficient.Available)
		f.pointsRepo.AssertNotCalled(t, "DeductPoints", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("WrongOwnerReportedAsNotFound", func(t *testing.T) {
		f := newCheckoutFixture()
		order := &domain.Order{ID: 10, UserID: 2, Status: domain.OrderStatusPending, TotalAmount: 1000}

		f.orderRepo.On("GetByID", ctx, int64(10)).Return(order, nil)

		err := f.svc.PayWithPoints(ctx, 1, 10)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("NonPendingOrderRejected", func(t *testing.T) {
		f := newCheckoutFixture()
		order := &domain.Order{ID: 10, UserID: 1, Status: domain.OrderStatusConfirmed, TotalAmount: 1000}

		f.orderRepo.On("GetByID", ctx, int64(10)).Return(order, nil)

		err := f.svc.PayWithPoints(ctx, 1, 10)
		assert.ErrorIs(t, err, ErrOrderNotPending)
	})

	t.Run("LostConfirmRaceReversesDeduction", func(t *testing.T) {
		f := newCheckoutFixture()
		order := &domain.Order{ID: 10, UserID: 1, Status: domain.OrderStatusPending, TotalAmount: 1000}

		f.orderRepo.On("GetByID", ctx, int64(10)).Return(order, nil)
		f.pointsRepo.On("GetBalance", ctx, int64(1)).Return(&domain.PointsBalance{UserID: 1, Balance: 500}, nil)
		f.pointsRepo.On("DeductPoints", ctx, int64(1), int64(100)).Return(true, nil)
		f.pointsRepo.On("CreateTransaction", ctx, mock.Anything).Return(nil)
		f.orderRepo.On("Confirm", ctx, int64(10), domain.PaymentMethodPoints, "", int64(100)).Return(false, nil)
		// Reversal credit
		f.pointsRepo.On("AddPoints", ctx, int64(1), int64(100)).Return(nil)

		err := f.svc.PayWithPoints(ctx, 1, 10)
		assert.ErrorIs(t, err, ErrOrderNotPending)
		f.pointsRepo.AssertCalled(t, "AddPoints", ctx, int64(1), int64(100))
		f.orderPointsRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("CeilingOnOddTotals", func(t *testing.T) {
		f := newCheckoutFixture()
		// 1005 pesos needs 101 points, not 100.
		order := &domain.Order{ID: 11, UserID: 1, Status: domain.OrderStatusPending, TotalAmount: 1005}

		f.orderRepo.On("GetByID", ctx, int64(11)).Return(order, nil)
		f.pointsRepo.On("GetBalance", ctx, int64(1)).Return(&domain.PointsBalance{UserID: 1, Balance: 100}, nil)

		err := f.svc.PayWithPoints(ctx, 1, 11)
		var insufficient *InsufficientPointsError
		require.ErrorAs(t, err, &insufficient)
		assert.Equal(t, int64(101), insufficient.Required)
	})
}

func TestCheckoutService_DeclarePointsUse(t *testing.T) {
	ctx := context.Background()

	t.Run("RecordsDeclaration", func(t *testing.T) {
		f := newCheckoutFixture()
		order := &domain.Order{ID: 10, UserID: 1, Status: domain.OrderStatusPending, TotalAmount: 100000}

		f.orderRepo.On("GetByID", ctx, int64(10)).Return(order, nil)
		f.pointsRepo.On("GetBalance", ctx, int64(1)).Return(&domain.PointsBalance{UserID: 1, Balance: 2500}, nil)
		f.orderPointsRepo.On("Upsert", ctx, mock.MatchedBy(func(op *domain.OrderPoints) bool {
			return op.PointsUsed == 2000 && op.DiscountAmount == 20000 && op.PointsEarned == 0
		})).Return(nil)

		op, err := f.svc.DeclarePointsUse(ctx, 1, 10, 2000)
		require.NoError(t, err)
		assert.Equal(t, int64(20000), op.DiscountAmount)
		// The declaration must not move the balance yet.
		f.pointsRepo.AssertNotCalled(t, "DeductPoints", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("PointsValueExceedingTotalRejected", func(t *testing.T) {
		f := newCheckoutFixture()
		order := &domain.Order{ID: 10, UserID: 1, Status: domain.OrderStatusPending, TotalAmount: 100000}

		f.orderRepo.On("GetByID", ctx, int64(10)).Return(order, nil)

		_, err := f.svc.DeclarePointsUse(ctx, 1, 10, 20000)
		assert.ErrorIs(t, err, ErrPointsExceedTotal)
	})
}

func TestCheckoutService_HandlePaymentSucceeded(t *testing.T) {
	ctx := context.Background()

	t.Run("SettlesWithDeclaredPoints", func(t *testing.T) {
		f := newCheckoutFixture()
		order := &domain.Order{ID: 10, UserID: 1, Status: domain.OrderStatusPending, TotalAmount: 100000}

		f.orderRepo.On("GetByID", ctx, int64(10)).Return(order, nil)
		f.orderPointsRepo.On("GetByOrderID", ctx, int64(10)).Return(&domain.OrderPoints{
			OrderID: 10, UserID: 1, PointsUsed: 2000, DiscountAmount: 20000,
		}, nil)
		f.pointsRepo.On("DeductPoints", ctx, int64(1), int64(2000)).Return(true, nil)
		f.pointsRepo.On("CreateTransaction", ctx, mock.Anything).Return(nil)
		f.orderRepo.On("Confirm", ctx, int64(10), domain.PaymentMethodGateway, "pay_123", int64(2000)).Return(true, nil)
		// 80000 paid in money earns floor(80000/400) = 200 points.
		f.pointsRepo.On("AddPoints", ctx, int64(1), int64(200)).Return(nil)
		f.orderPointsRepo.On("Upsert", ctx, mock.MatchedBy(func(op *domain.OrderPoints) bool {
			return op.PointsUsed == 2000 && op.PointsEarned == 200 && op.DiscountAmount == 20000
		})).Return(nil)
		f.outboxRepo.On("Enqueue", ctx, mock.Anything).Return(nil).Twice()

		err := f.svc.HandlePaymentSucceeded(ctx, 10, "pay_123")
		require.NoError(t, err)
		f.orderPointsRepo.AssertExpectations(t)
	})

	t.Run("NoDeclarationMeansPureMoney", func(t *testing.T) {
		f := newCheckoutFixture()
		order := &domain.Order{ID: 10, UserID: 1, Status: domain.OrderStatusPending, TotalAmount: 100000}

		f.orderRepo.On("GetByID", ctx, int64(10)).Return(order, nil)
		f.orderPointsRepo.On("GetByOrderID", ctx, int64(10)).Return(nil, nil)
		f.orderRepo.On("Confirm", ctx, int64(10), domain.PaymentMethodGateway, "pay_9", int64(0)).Return(true, nil)
		f.pointsRepo.On("AddPoints", ctx, int64(1), int64(250)).Return(nil)
		f.pointsRepo.On("CreateTransaction", ctx, mock.Anything).Return(nil)
		f.orderPointsRepo.On("Upsert", ctx, mock.MatchedBy(func(op *domain.OrderPoints) bool {
			return op.PointsUsed == 0 && op.PointsEarned == 250 && op.DiscountAmount == 0
		})).Return(nil)
		f.outboxRepo.On("Enqueue", ctx, mock.Anything).Return(nil).Twice()

		err := f.svc.HandlePaymentSucceeded(ctx, 10, "pay_9")
		require.NoError(t, err)
	})

	t.Run("RepeatedDeliveryIsNoOp", func(t *testing.T) {
		f := newCheckoutFixture()
		order := &domain.Order{ID: 10, UserID: 1, Status: domain.OrderStatusConfirmed, TotalAmount: 100000}

		f.orderRepo.On("GetByID", ctx, int64(10)).Return(order, nil)

		err := f.svc.HandlePaymentSucceeded(ctx, 10, "pay_123")
		assert.NoError(t, err)
		f.orderRepo.AssertNotCalled(t, "Confirm", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("LostConfirmRaceReversesDeclaredDeduction", func(t *testing.T) {
		f := newCheckoutFixture()
		order := &domain.Order{ID: 10, UserID: 1, Status: domain.OrderStatusPending, TotalAmount: 100000}

		f.orderRepo.On("GetByID", ctx, int64(10)).Return(order, nil)
		f.orderPointsRepo.On("GetByOrderID", ctx, int64(10)).Return(&domain.OrderPoints{
			OrderID: 10, UserID: 1, PointsUsed: 2000, DiscountAmount: 20000,
		}, nil)
		f.pointsRepo.On("DeductPoints", ctx, int64(1), int64(2000)).Return(true, nil)
		f.pointsRepo.On("CreateTransaction", ctx, mock.Anything).Return(nil)
		// The order left pending between the read and the confirm.
		f.orderRepo.On("Confirm", ctx, int64(10), domain.PaymentMethodGateway, "pay_123", int64(2000)).Return(false, nil)
		// Reversal credit
		f.pointsRepo.On("AddPoints", ctx, int64(1), int64(2000)).Return(nil)

		err := f.svc.HandlePaymentSucceeded(ctx, 10, "pay_123")
		require.NoError(t, err)
		f.pointsRepo.AssertCalled(t, "AddPoints", ctx, int64(1), int64(2000))
		f.orderPointsRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})
}

func TestCheckoutService_StartGatewayCheckout(t *testing.T) {
	ctx := context.Background()

	t.Run("DiscountsDeclaredPoints", func(t *testing.T) {
		f := newCheckoutFixture()
		order := &domain.Order{ID: 10, UserID: 1, Status: domain.OrderStatusPending, TotalAmount: 100000}

		f.orderRepo.On("GetByID", ctx, int64(10)).Return(order, nil)
		f.orderPointsRepo.On("GetByOrderID", ctx, int64(10)).Return(&domain.OrderPoints{
			OrderID: 10, UserID: 1, PointsUsed: 2000, DiscountAmount: 20000,
		}, nil)
		f.profileRepo.On("GetByID", ctx, int64(1)).Return(&domain.Profile{ID: 1, Email: "buyer@example.com"}, nil)
		f.gateway.On("CreateCheckout", ctx, mock.MatchedBy(func(req *payment.CheckoutRequest) bool {
			return req.OrderID == 10 && req.Amount == 80000
		})).Return(&payment.CheckoutSession{ID: "sess_1", RedirectURL: "https://gateway.example/pay/sess_1"}, nil)
		f.orderRepo.On("SetPaymentRef", ctx, int64(10), "sess_1").Return(nil)

		url, err := f.svc.StartGatewayCheckout(ctx, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, "https://gateway.example/pay/sess_1", url)
		f.gateway.AssertExpectations(t)
	})
}

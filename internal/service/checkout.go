package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Jalbyte/Mercador-Backend-sub000/internal/domain"
	"github.com/Jalbyte/Mercador-Backend-sub000/internal/logger"
	"github.com/Jalbyte/Mercador-Backend-sub000/internal/payment"
	"github.com/Jalbyte/Mercador-Backend-sub000/internal/repository"
	"github.com/Jalbyte/Mercador-Backend-sub000/internal/utils"
)

// PaymentGateway is the slice of the gateway client checkout needs.
type PaymentGateway interface {
	CreateCheckout(ctx context.Context, req *payment.CheckoutRequest) (*payment.CheckoutSession, error)
}

type checkoutService struct {
	orderRepo       repository.OrderRepository
	orderPointsRepo repository.OrderPointsRepository
	profileRepo     repository.ProfileRepository
	pointsService   PointsService
	outboxService   OutboxService
	gateway         PaymentGateway
	redirectURL     string
	currency        string
}

func NewCheckoutService(
	orderRepo repository.OrderRepository,
	orderPointsRepo repository.OrderPointsRepository,
	profileRepo repository.ProfileRepository,
	pointsService PointsService,
	outboxService OutboxService,
	gateway PaymentGateway,
	redirectURL string,
) CheckoutService {
	return &checkoutService{
		orderRepo:       orderRepo,
		orderPointsRepo: orderPointsRepo,
		profileRepo:     profileRepo,
		pointsService:   pointsService,
		outboxService:   outboxService,
		gateway:         gateway,
		redirectURL:     redirectURL,
		currency:        "COP",
	}
}

// getPendingOrder loads the order and enforces ownership and the pending
// status every checkout entry point requires. Orders belonging to other
// users are reported as not found rather than forbidden.
func (s *checkoutService) getPendingOrder(ctx context.Context, userID, orderID int64) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrNotFound
	}
	if order.Status != domain.OrderStatusPending {
		return nil, ErrOrderNotPending
	}
	return order, nil
}

// StartGatewayCheckout creates a gateway session for the order's money
// portion. A prior points declaration lowers the charged amount.
func (s *checkoutService) StartGatewayCheckout(ctx context.Context, userID, orderID int64) (string, error) {
	logger.EnterMethod("CheckoutService.StartGatewayCheckout", "user_id", userID, "order_id", orderID)

	order, err := s.getPendingOrder(ctx, userID, orderID)
	if err != nil {
		return "", err
	}

	amount := order.TotalAmount
	op, err := s.orderPointsRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return "", err
	}
	if op != nil {
		amount -= op.DiscountAmount
		if amount < 0 {
			amount = 0
		}
	}

	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}

	session, err := s.gateway.CreateCheckout(ctx, &payment.CheckoutRequest{
		OrderID:       orderID,
		Amount:        amount,
		Currency:      s.currency,
		CustomerEmail: profile.Email,
		RedirectURL:   s.redirectURL,
	})
	if err != nil {
		logger.ExitMethodWithError("CheckoutService.StartGatewayCheckout", err)
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}

	if err := s.orderRepo.SetPaymentRef(ctx, orderID, session.ID); err != nil {
		return "", err
	}

	logger.ExitMethod("CheckoutService.StartGatewayCheckout", "session_id", session.ID)
	return session.RedirectURL, nil
}

// PayWithPoints settles the whole order from the loyalty balance. The
// guarded deduction is the point of no return: once it lands the order
// is paid, and every later step degrades to a logged warning instead of
// rolling the payment back.
func (s *checkoutService) PayWithPoints(ctx context.Context, userID, orderID int64) error {
	logger.EnterMethod("CheckoutService.PayWithPoints", "user_id", userID, "order_id", orderID)

	order, err := s.getPendingOrder(ctx, userID, orderID)
	if err != nil {
		return err
	}

	required := utils.RequiredPointsFor(order.TotalAmount)

	sufficient, available, err := s.pointsService.ValidatePoints(ctx, userID, required)
	if err != nil {
		return err
	}
	if !sufficient {
		return &InsufficientPointsError{Required: required, Available: available}
	}

	description := fmt.Sprintf("Payment for order #%d", orderID)
	if !s.pointsService.Deduct(ctx, userID, required, description, &orderID, map[string]string{"payment_method": string(domain.PaymentMethodPoints)}) {
		// Lost a race since the validation read; report fresh numbers.
		if _, available, err := s.pointsService.ValidatePoints(ctx, userID, required); err == nil {
			return &InsufficientPointsError{Required: required, Available: available}
		}
		return ErrDeductionFailed
	}

	confirmed, err := s.orderRepo.Confirm(ctx, orderID, domain.PaymentMethodPoints, "", required)
	if err == nil && !confirmed {
		err = ErrOrderNotPending
	}
	if err != nil {
		// The order slipped out of pending between the read and the
		// confirm, or the write failed. Hand the points back before
		// surfacing the error.
		if !s.pointsService.Earn(ctx, userID, required, domain.PointsTransactionTypeRefund,
			fmt.Sprintf("Reversal of failed payment for order #%d", orderID), &orderID, nil) {
			logger.Error("Failed to reverse points after aborted confirmation",
				"user_id", userID, "order_id", orderID, "points", required)
		}
		logger.ExitMethodWithError("CheckoutService.PayWithPoints", err)
		return err
	}

	discount := utils.PointsToPesos(required)
	paid := order.TotalAmount - discount
	if paid < 0 {
		paid = 0
	}
	s.settleConfirmedOrder(ctx, order, required, paid)

	logger.ExitMethod("CheckoutService.PayWithPoints", "points_used", required)
	return nil
}

// DeclarePointsUse records the intent to spend points on a gateway
// checkout. Nothing is deducted yet; the webhook applies the declaration
// when the gateway confirms payment. Re-declaring replaces the record.
func (s *checkoutService) DeclarePointsUse(ctx context.Context, userID, orderID, points int64) (*domain.OrderPoints, error) {
	if points <= 0 {
		return nil, fmt.Errorf("points must be positive")
	}

	order, err := s.getPendingOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	discount := utils.PointsToPesos(points)
	if discount > order.TotalAmount {
		return nil, ErrPointsExceedTotal
	}

	sufficient, available, err := s.pointsService.ValidatePoints(ctx, userID, points)
	if err != nil {
		return nil, err
	}
	if !sufficient {
		return nil, &InsufficientPointsError{Required: points, Available: available}
	}

	op := &domain.OrderPoints{
		OrderID:        orderID,
		UserID:         userID,
		PointsUsed:     points,
		PointsEarned:   0,
		DiscountAmount: discount,
	}
	if err := s.orderPointsRepo.Upsert(ctx, op); err != nil {
		return nil, err
	}
	return op, nil
}

// HandlePaymentSucceeded settles an order the gateway reports as paid.
// Webhook deliveries repeat, so an order that already left pending is a
// no-op rather than an error.
func (s *checkoutService) HandlePaymentSucceeded(ctx context.Context, orderID int64, paymentRef string) error {
	logger.EnterMethod("CheckoutService.HandlePaymentSucceeded", "order_id", orderID)

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if order.Status != domain.OrderStatusPending {
		logger.Info("Webhook for already settled order ignored", "order_id", orderID, "status", order.Status)
		return nil
	}

	pointsUsed := int64(0)
	discount := int64(0)
	op, err := s.orderPointsRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return err
	}
	if op != nil {
		pointsUsed = op.PointsUsed
		discount = op.DiscountAmount
	}

	if pointsUsed > 0 {
		description := fmt.Sprintf("Points applied to order #%d", orderID)
		if !s.pointsService.Deduct(ctx, order.UserID, pointsUsed, description, &orderID, nil) {
			// The declared balance is gone. Honor the gateway payment
			// and fall back to a pure money order.
			logger.Warn("Declared points no longer available, settling without discount",
				"order_id", orderID, "user_id", order.UserID, "points", pointsUsed)
			pointsUsed = 0
			discount = 0
		}
	}

	confirmed, err := s.orderRepo.Confirm(ctx, orderID, domain.PaymentMethodGateway, paymentRef, pointsUsed)
	if err != nil {
		logger.ExitMethodWithError("CheckoutService.HandlePaymentSucceeded", err)
		return err
	}
	if !confirmed {
		// Another path settled the order first. The deduction above is
		// not attributed to any confirmed order, so hand it back.
		if pointsUsed > 0 {
			if !s.pointsService.Earn(ctx, order.UserID, pointsUsed, domain.PointsTransactionTypeRefund,
				fmt.Sprintf("Reversal of declared points for order #%d", orderID), &orderID, nil) {
				logger.Error("Failed to reverse points after concurrent confirmation",
					"user_id", order.UserID, "order_id", orderID, "points", pointsUsed)
			}
		}
		logger.Info("Order confirmed concurrently, webhook ignored", "order_id", orderID)
		return nil
	}

	paid := order.TotalAmount - discount
	if paid < 0 {
		paid = 0
	}
	s.settleConfirmedOrder(ctx, order, pointsUsed, paid)

	logger.ExitMethod("CheckoutService.HandlePaymentSucceeded", "points_used", pointsUsed, "amount_paid", paid)
	return nil
}

// HandlePaymentFailed records the failure and leaves the order pending
// so the buyer can retry with a new session.
func (s *checkoutService) HandlePaymentFailed(ctx context.Context, orderID int64, reason string) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	logger.Warn("Payment failed", "order_id", orderID, "user_id", order.UserID, "status", order.Status, "reason", reason)
	return nil
}

// settleConfirmedOrder runs the post-confirmation tail shared by both
// payment paths: credit earned points on the money portion, write the
// reconciliation record and enqueue key assignment plus the confirmation
// email. Failures here are logged, never propagated; the order stays
// paid.
func (s *checkoutService) settleConfirmedOrder(ctx context.Context, order *domain.Order, pointsUsed, amountPaid int64) {
	earned := utils.CalculateEarnedPoints(amountPaid)
	if earned > 0 {
		if !s.pointsService.Earn(ctx, order.UserID, earned, domain.PointsTransactionTypeEarned,
			fmt.Sprintf("Points earned from order #%d", order.ID), &order.ID, nil) {
			logger.Error("Failed to credit earned points", "order_id", order.ID, "user_id", order.UserID, "points", earned)
			earned = 0
		}
	}

	op := &domain.OrderPoints{
		OrderID:        order.ID,
		UserID:         order.UserID,
		PointsUsed:     pointsUsed,
		PointsEarned:   earned,
		DiscountAmount: utils.PointsToPesos(pointsUsed),
	}
	if err := s.orderPointsRepo.Upsert(ctx, op); err != nil {
		logger.Error("Failed to write order points record", "order_id", order.ID, "error", err)
	}

	if err := s.outboxService.EnqueueKeyAssignment(ctx, order.ID); err != nil {
		logger.Error("Failed to enqueue key assignment", "order_id", order.ID, "error", err)
	}
	if err := s.outboxService.EnqueueOrderConfirmationEmail(ctx, order.ID); err != nil {
		logger.Error("Failed to enqueue confirmation email", "order_id", order.ID, "error", err)
	}
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Jalbyte/Mercador-Backend-sub000/internal/domain"
	"github.com/Jalbyte/Mercador-Backend-sub000/internal/logger"
	"github.com/Jalbyte/Mercador-Backend-sub000/internal/repository"
	"github.com/Jalbyte/Mercador-Backend-sub000/internal/utils"
)

type returnService struct {
	returnRepo      repository.ReturnRepository
	orderRepo       repository.OrderRepository
	orderPointsRepo repository.OrderPointsRepository
	pointsService   PointsService
	outboxService   OutboxService
}

func NewReturnService(
	returnRepo repository.ReturnRepository,
	orderRepo repository.OrderRepository,
	orderPointsRepo repository.OrderPointsRepository,
	pointsService PointsService,
	outboxService OutboxService,
) ReturnService {
	return &returnService{
		returnRepo:      returnRepo,
		orderRepo:       orderRepo,
		orderPointsRepo: orderPointsRepo,
		pointsService:   pointsService,
		outboxService:   outboxService,
	}
}

// RequestReturn opens a pending return on a confirmed order. The refund
// amount is priced now, from the order item snapshot, so later catalog
// price changes cannot shift it. An empty items list returns the whole
// order.
func (s *returnService) RequestReturn(ctx context.Context, userID, orderID int64, reason string, method domain.RefundMethod, items []domain.ReturnItem) (*domain.Return, error) {
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
	if order.Status != domain.OrderStatusConfirmed {
		return nil, fmt.Errorf("only confirmed orders can be returned")
	}

	switch method {
	case domain.RefundMethodOriginal, domain.RefundMethodStoreCredit:
	default:
		return nil, fmt.Errorf("unknown refund method %q", method)
	}

	orderItems, err := s.orderRepo.ListItems(ctx, orderID)
	if err != nil {
		return nil, err
	}

	refundAmount := order.TotalAmount
	if len(items) > 0 {
		byID := make(map[int64]domain.OrderItem, len(orderItems))
		for _, it := range orderItems {
			byID[it.ID] = it
		}
		refundAmount = 0
		for _, ri := range items {
			oi, ok := byID[ri.OrderItemID]
			if !ok {
				return nil, fmt.Errorf("order item %d does not belong to order %d", ri.OrderItemID, orderID)
			}
			if ri.Quantity <= 0 || ri.Quantity > oi.Quantity {
				return nil, fmt.Errorf("invalid return quantity for order item %d", ri.OrderItemID)
			}
			refundAmount += oi.UnitPrice * ri.Quantity
		}
	}
	if refundAmount > order.TotalAmount {
		refundAmount = order.TotalAmount
	}

	ret := &domain.Return{
		OrderID:      orderID,
		UserID:       userID,
		Status:       domain.ReturnStatusPending,
		Reason:       reason,
		RefundAmount: refundAmount,
		RefundMethod: method,
	}
	if err := s.returnRepo.Create(ctx, ret, items); err != nil {
		return nil, err
	}

	logger.Info("Return requested", "return_id", ret.ID, "order_id", orderID, "user_id", userID, "refund_amount", refundAmount)
	return ret, nil
}

// ApproveReturn settles a pending return. The refund is split in the
// proportion points paid for the original order: the points leg is
// credited back to the loyalty balance and the money leg goes out
// through the chosen refund method. A failed points credit is logged
// and does not block the approval; the full amount stays on the money
// leg so an operator can reconcile the ledger later.
func (s *returnService) ApproveReturn(ctx context.Context, adminID, returnID int64) (*domain.Return, *utils.RefundSplit, error) {
	logger.EnterMethod("ReturnService.ApproveReturn", "admin_id", adminID, "return_id", returnID)

	ret, err := s.returnRepo.GetByID(ctx, returnID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	if ret.Status != domain.ReturnStatusPending {
		return nil, nil, ErrReturnNotPending
	}

	order, err := s.orderRepo.GetByID(ctx, ret.OrderID)
	if err != nil {
		return nil, nil, err
	}

	op, err := s.orderPointsRepo.GetByOrderID(ctx, ret.OrderID)
	if err != nil {
		return nil, nil, err
	}

	var split utils.RefundSplit
	if op == nil || op.PointsUsed == 0 {
		// No points were involved in the purchase; the whole refund is
		// money.
		split = utils.RefundSplit{MoneyRefund: ret.RefundAmount, PointsRefund: 0}
	} else {
		split = utils.CalculateProportionalRefund(order.TotalAmount, op.PointsUsed, ret.RefundAmount)
	}

	credited := true
	if split.PointsRefund > 0 {
		credited = s.pointsService.Earn(ctx, ret.UserID, split.PointsRefund, domain.PointsTransactionTypeRefund,
			fmt.Sprintf("Refund for return #%d (order #%d)", returnID, ret.OrderID), &ret.OrderID,
			map[string]string{"return_id": fmt.Sprintf("%d", returnID)})
		if !credited {
			logger.Error("Failed to credit refunded points, approval continues",
				"return_id", returnID, "user_id", ret.UserID, "points", split.PointsRefund)
		}
	}

	note := fmt.Sprintf("Approved by admin %d: %d refunded, %d points returned", adminID, split.MoneyRefund, split.PointsRefund)
	if !credited {
		// The ledger write failed; keep the full amount as money so the
		// customer is made whole, and flag it for reconciliation.
		note = fmt.Sprintf("Approved by admin %d: crediting %d points failed, full %d kept as money refund pending manual reconciliation",
			adminID, split.PointsRefund, ret.RefundAmount)
		split = utils.RefundSplit{MoneyRefund: ret.RefundAmount, PointsRefund: 0}
	}

	if split.MoneyRefund > 0 && ret.RefundMethod == domain.RefundMethodStoreCredit {
		credit := &domain.StoreCredit{
			UserID:   ret.UserID,
			Amount:   split.MoneyRefund,
			ReturnID: &returnID,
		}
		if err := s.returnRepo.CreateStoreCredit(ctx, credit); err != nil {
			logger.Error("Failed to issue store credit", "return_id", returnID, "amount", split.MoneyRefund, "error", err)
		}
	}

	// The stored refund amount becomes the money leg only; the points
	// leg lives in the ledger. The note keeps the full picture for
	// audits.
	ret.RefundAmount = split.MoneyRefund
	ret.Status = domain.ReturnStatusRefunded
	if ret.AdminNotes != "" {
		ret.AdminNotes += "\n"
	}
	ret.AdminNotes += note
	if err := s.returnRepo.Update(ctx, ret); err != nil {
		logger.ExitMethodWithError("ReturnService.ApproveReturn", err)
		return nil, nil, err
	}

	if ret.RefundAmount+utils.PointsToPesos(split.PointsRefund) >= order.TotalAmount {
		if err := s.orderRepo.UpdateStatus(ctx, ret.OrderID, domain.OrderStatusRefunded); err != nil {
			logger.Warn("Failed to mark order refunded", "order_id", ret.OrderID, "error", err)
		}
	}

	if err := s.outboxService.EnqueueRefundProcessedEmail(ctx, returnID, split.MoneyRefund, split.PointsRefund); err != nil {
		logger.Error("Failed to enqueue refund email", "return_id", returnID, "error", err)
	}

	logger.ExitMethod("ReturnService.ApproveReturn", "money_refund", split.MoneyRefund, "points_refund", split.PointsRefund)
	return ret, &split, nil
}

func (s *returnService) RejectReturn(ctx context.Context, adminID, returnID int64, note string) (*domain.Return, error) {
	ret, err := s.returnRepo.GetByID(ctx, returnID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if ret.Status != domain.ReturnStatusPending {
		return nil, ErrReturnNotPending
	}

	ret.Status = domain.ReturnStatusRejected
	rejection := fmt.Sprintf("Rejected by admin %d", adminID)
	if note != "" {
		rejection += ": " + note
	}
	if ret.AdminNotes != "" {
		ret.AdminNotes += "\n"
	}
	ret.AdminNotes += rejection
	if err := s.returnRepo.Update(ctx, ret); err != nil {
		return nil, err
	}

	logger.Info("Return rejected", "return_id", returnID, "admin_id", adminID)
	return ret, nil
}

func (s *returnService) ListUserReturns(ctx context.Context, userID int64, page, pageSize int64) ([]domain.Return, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return s.returnRepo.ListByUser(ctx, userID, page, pageSize)
}

func (s *returnService) ListPendingReturns(ctx context.Context, page, pageSize int64) ([]domain.Return, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return s.returnRepo.ListPending(ctx, page, pageSize)
}

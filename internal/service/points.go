package service

import (
	"context"

	"github.com/Jalbyte/Mercador-Backend-sub000/internal/domain"
	"github.com/Jalbyte/Mercador-Backend-sub000/internal/logger"
	"github.com/Jalbyte/Mercador-Backend-sub000/internal/repository"
)

type pointsService struct {
	pointsRepo      repository.PointsRepository
	orderPointsRepo repository.OrderPointsRepository
}

func NewPointsService(pointsRepo repository.PointsRepository, orderPointsRepo repository.OrderPointsRepository) PointsService {
	return &pointsService{
		pointsRepo:      pointsRepo,
		orderPointsRepo: orderPointsRepo,
	}
}

// GetBalance returns the user's balance row, creating a zeroed one on
// first access. Rows are never deleted afterwards.
func (s *pointsService) GetBalance(ctx context.Context, userID int64) (*domain.PointsBalance, error) {
	balance, err := s.pointsRepo.GetBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	if balance != nil {
		return balance, nil
	}

	if err := s.pointsRepo.CreateBalance(ctx, userID); err != nil {
		return nil, err
	}
	balance, err = s.pointsRepo.GetBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	return balance, nil
}

// Earn credits points to the user. kind must be earned, refund or
// adjustment; only adjustments may carry a negative amount, which is
// applied through the same guarded debit as a spend so an adjustment can
// never drive the balance negative. Negative adjustments count toward
// total_spent, keeping total_earned a monotonic lifetime counter.
//
// The balance write and the ledger append are not atomic: a failed
// append after a successful balance update is logged and the credit
// stands.
func (s *pointsService) Earn(ctx context.Context, userID, amount int64, kind domain.PointsTransactionType, description string, orderID *int64, metadata map[string]string) bool {
	switch kind {
	case domain.PointsTransactionTypeEarned, domain.PointsTransactionTypeRefund, domain.PointsTransactionTypeAdjustment:
	default:
		logger.Error("Rejected points credit with invalid kind", "user_id", userID, "kind", kind)
		return false
	}
	if amount == 0 {
		return false
	}
	if amount < 0 && kind != domain.PointsTransactionTypeAdjustment {
		logger.Error("Rejected negative points credit for non-adjustment kind", "user_id", userID, "amount", amount, "kind", kind)
		return false
	}

	if amount > 0 {
		if err := s.pointsRepo.AddPoints(ctx, userID, amount); err != nil {
			logger.Error("Failed to credit points", "user_id", userID, "amount", amount, "kind", kind, "error", err)
			return false
		}
	} else {
		ok, err := s.pointsRepo.DeductPoints(ctx, userID, -amount)
		if err != nil {
			logger.Error("Failed to apply negative adjustment", "user_id", userID, "amount", amount, "error", err)
			return false
		}
		if !ok {
			logger.Warn("Negative adjustment exceeds balance, rejected", "user_id", userID, "amount", amount)
			return false
		}
	}

	tx := &domain.PointsTransaction{
		UserID:      userID,
		Amount:      amount,
		Type:        kind,
		Description: description,
		OrderID:     orderID,
		Metadata:    metadata,
	}
	if err := s.pointsRepo.CreateTransaction(ctx, tx); err != nil {
		logger.Warn("Points credited but transaction log write failed", "user_id", userID, "amount", amount, "kind", kind, "error", err)
	}
	return true
}

// Deduct spends points. The debit is a single conditional update, so two
// concurrent spends cannot both pass the balance check; the loser gets
// false. The ledger row stores the negated amount.
func (s *pointsService) Deduct(ctx context.Context, userID, amount int64, description string, orderID *int64, metadata map[string]string) bool {
	if amount <= 0 {
		return false
	}

	ok, err := s.pointsRepo.DeductPoints(ctx, userID, amount)
	if err != nil {
		logger.Error("Failed to deduct points", "user_id", userID, "amount", amount, "error", err)
		return false
	}
	if !ok {
		return false
	}

	tx := &domain.PointsTransaction{
		UserID:      userID,
		Amount:      -amount,
		Type:        domain.PointsTransactionTypeSpent,
		Description: description,
		OrderID:     orderID,
		Metadata:    metadata,
	}
	if err := s.pointsRepo.CreateTransaction(ctx, tx); err != nil {
		logger.Warn("Points deducted but transaction log write failed", "user_id", userID, "amount", amount, "error", err)
	}
	return true
}

func (s *pointsService) ListTransactions(ctx context.Context, userID int64, limit, offset int64) ([]domain.PointsTransaction, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.pointsRepo.ListTransactions(ctx, userID, limit, offset)
}

func (s *pointsService) ValidatePoints(ctx context.Context, userID, required int64) (bool, int64, error) {
	balance, err := s.GetBalance(ctx, userID)
	if err != nil {
		return false, 0, err
	}
	return balance.Balance >= required, balance.Balance, nil
}

func (s *pointsService) GetOrderPoints(ctx context.Context, orderID int64) (*domain.OrderPoints, error) {
	return s.orderPointsRepo.GetByOrderID(ctx, orderID)
}

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Jalbyte/Mercador-Backend-sub000/internal/domain"
	"github.com/Jalbyte/Mercador-Backend-sub000/internal/logger"
	"github.com/Jalbyte/Mercador-Backend-sub000/internal/repository"
)

type adminPointsService struct {
	pointsRepo    repository.PointsRepository
	pointsService PointsService
}

func NewAdminPointsService(pointsRepo repository.PointsRepository, pointsService PointsService) AdminPointsService {
	return &adminPointsService{
		pointsRepo:    pointsRepo,
		pointsService: pointsService,
	}
}

func (s *adminPointsService) ListUserBalances(ctx context.Context, sortBy, sortOrder string, page, pageSize int64) ([]domain.UserPointsSummary, int64, error) {
	switch sortBy {
	case "balance", "total_earned", "total_spent", "email":
	default:
		sortBy = "balance"
	}
	if !strings.EqualFold(sortOrder, "asc") {
		sortOrder = "desc"
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return s.pointsRepo.ListBalances(ctx, sortBy, strings.ToLower(sortOrder), page, pageSize)
}

func (s *adminPointsService) GetUserDetail(ctx context.Context, userID int64) (*domain.PointsBalance, []domain.PointsTransaction, error) {
	balance, err := s.pointsService.GetBalance(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	txs, _, err := s.pointsRepo.ListTransactions(ctx, userID, 50, 0)
	if err != nil {
		return nil, nil, err
	}
	return balance, txs, nil
}

// AdjustPoints applies a manual correction to a user's balance. Negative
// amounts go through the same guarded debit as a spend, so an adjustment
// cannot leave the balance negative.
func (s *adminPointsService) AdjustPoints(ctx context.Context, adminID, userID, amount int64, reason string) error {
	if amount == 0 {
		return fmt.Errorf("adjustment amount must be non-zero")
	}
	if strings.TrimSpace(reason) == "" {
		return fmt.Errorf("adjustment reason is required")
	}

	// Make sure the balance row exists before a first-time adjustment.
	if _, err := s.pointsService.GetBalance(ctx, userID); err != nil {
		return err
	}

	description := fmt.Sprintf("Manual adjustment: %s", reason)
	metadata := map[string]string{"admin_id": fmt.Sprintf("%d", adminID)}
	if !s.pointsService.Earn(ctx, userID, amount, domain.PointsTransactionTypeAdjustment, description, nil, metadata) {
		if amount < 0 {
			balance, berr := s.pointsService.GetBalance(ctx, userID)
			if berr == nil && balance.Balance < -amount {
				return &InsufficientPointsError{Required: -amount, Available: balance.Balance}
			}
		}
		return fmt.Errorf("adjustment failed")
	}

	logger.Info("Points adjusted", "admin_id", adminID, "user_id", userID, "amount", amount, "reason", reason)
	return nil
}

func (s *adminPointsService) SearchTransactions(ctx context.Context, query string, txType domain.PointsTransactionType, limit, offset int64) ([]domain.PointsTransaction, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.pointsRepo.SearchTransactions(ctx, strings.TrimSpace(query), txType, limit, offset)
}

func (s *adminPointsService) GetStats(ctx context.Context) (*domain.PointsStats, error) {
	return s.pointsRepo.GetStats(ctx)
}

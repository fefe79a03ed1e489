package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Jalbyte/Mercador-Backend-sub000/internal/domain"
	"github.com/Jalbyte/Mercador-Backend-sub000/internal/logger"
	"github.com/Jalbyte/Mercador-Backend-sub000/internal/repository"
)

type keyService struct {
	keyRepo   repository.ProductKeyRepository
	orderRepo repository.OrderRepository
}

func NewKeyService(keyRepo repository.ProductKeyRepository, orderRepo repository.OrderRepository) KeyService {
	return &keyService{
		keyRepo:   keyRepo,
		orderRepo: orderRepo,
	}
}

// AssignKeysForOrder claims one available key per purchased unit.
// Re-running on an order that already has its keys is a no-op, so the
// dispatcher can retry freely. Short stock assigns what is there and
// returns an error so the task is retried once keys are restocked.
func (s *keyService) AssignKeysForOrder(ctx context.Context, orderID int64) ([]domain.ProductKey, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if order.Status != domain.OrderStatusConfirmed {
		return nil, ErrOrderNotPaid
	}

	items, err := s.orderRepo.ListItems(ctx, orderID)
	if err != nil {
		return nil, err
	}

	assigned, err := s.keyRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	have := make(map[int64]int64)
	for _, k := range assigned {
		have[k.ProductID]++
	}

	var short []int64
	for _, item := range items {
		missing := item.Quantity - have[item.ProductID]
		if missing <= 0 {
			continue
		}
		keys, err := s.keyRepo.AssignToOrder(ctx, orderID, item.ProductID, missing)
		if err != nil {
			return assigned, err
		}
		assigned = append(assigned, keys...)
		if int64(len(keys)) < missing {
			logger.Warn("Key stock short for order",
				"order_id", orderID, "product_id", item.ProductID, "needed", missing, "got", len(keys))
			short = append(short, item.ProductID)
		}
	}

	if len(short) > 0 {
		return assigned, fmt.Errorf("insufficient keys for products %v", short)
	}
	return assigned, nil
}

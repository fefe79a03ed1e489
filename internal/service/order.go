package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Jalbyte/Mercador-Backend-sub000/internal/domain"
	"github.com/Jalbyte/Mercador-Backend-sub000/internal/logger"
	"github.com/Jalbyte/Mercador-Backend-sub000/internal/repository"
)

type orderService struct {
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
	keyRepo   repository.ProductKeyRepository
}

func NewOrderService(orderRepo repository.OrderRepository, cartRepo repository.CartRepository, keyRepo repository.ProductKeyRepository) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		keyRepo:   keyRepo,
	}
}

// CreateOrderFromCart snapshots the cart into a pending order and
// empties the cart. The order total is priced from the cart's stored
// unit prices, not the current catalog.
func (s *orderService) CreateOrderFromCart(ctx context.Context, userID int64) (*domain.Order, error) {
	cart, err := s.cartRepo.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	cartItems, err := s.cartRepo.ListItems(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	if len(cartItems) == 0 {
		return nil, ErrEmptyCart
	}

	var total int64
	orderItems := make([]domain.OrderItem, 0, len(cartItems))
	for i := range cartItems {
		ci := &cartItems[i]
		total += ci.Subtotal()
		orderItems = append(orderItems, domain.OrderItem{
			ProductID:   ci.ProductID,
			ProductName: ci.ProductName,
			Quantity:    ci.Quantity,
			UnitPrice:   ci.UnitPrice,
		})
	}

	order := &domain.Order{
		UserID:      userID,
		Status:      domain.OrderStatusPending,
		TotalAmount: total,
	}
	if err := s.orderRepo.Create(ctx, order, orderItems); err != nil {
		return nil, err
	}

	if err := s.cartRepo.Clear(ctx, cart.ID); err != nil {
		logger.Warn("Order created but cart not cleared", "user_id", userID, "order_id", order.ID, "error", err)
	}

	logger.Info("Order created", "order_id", order.ID, "user_id", userID, "total", total)
	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, userID, orderID int64) (*domain.Order, error) {
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
	items, err := s.orderRepo.ListItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, userID int64, page, pageSize int64) ([]domain.Order, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return s.orderRepo.ListByUser(ctx, userID, page, pageSize)
}

// GetOrderKeys lists the license keys assigned to a confirmed order.
func (s *orderService) GetOrderKeys(ctx context.Context, userID, orderID int64) ([]domain.ProductKey, error) {
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
	if order.Status != domain.OrderStatusConfirmed && order.Status != domain.OrderStatusRefunded {
		return nil, ErrOrderNotPaid
	}
	return s.keyRepo.ListByOrder(ctx, orderID)
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Jalbyte/Mercador-Backend-sub000/internal/domain"
	"github.com/Jalbyte/Mercador-Backend-sub000/internal/repository"
)

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	keyRepo     repository.ProductKeyRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository, keyRepo repository.ProductKeyRepository) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		keyRepo:     keyRepo,
	}
}

func (s *cartService) GetCart(ctx context.Context, userID int64) (*domain.Cart, []domain.CartItem, int64, error) {
	cart, err := s.cartRepo.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, nil, 0, err
	}
	items, err := s.cartRepo.ListItems(ctx, cart.ID)
	if err != nil {
		return nil, nil, 0, err
	}
	var total int64
	for i := range items {
		total += items[i].Subtotal()
	}
	return cart, items, total, nil
}

// AddItem puts a product in the cart at its current catalog price.
// Adding a product already present raises its quantity instead of
// creating a second line.
func (s *cartService) AddItem(ctx context.Context, userID, productID, quantity int64) (*domain.CartItem, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !product.Active {
		return nil, fmt.Errorf("product is not available")
	}

	stock, err := s.keyRepo.CountAvailable(ctx, productID)
	if err != nil {
		return nil, err
	}
	if stock < quantity {
		return nil, fmt.Errorf("only %d units available", stock)
	}

	cart, err := s.cartRepo.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	item := &domain.CartItem{
		CartID:      cart.ID,
		ProductID:   productID,
		ProductName: product.Name,
		Quantity:    quantity,
		UnitPrice:   product.Price,
	}
	if err := s.cartRepo.AddItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *cartService) UpdateItemQuantity(ctx context.Context, userID, itemID, quantity int64) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity must be positive")
	}
	cart, err := s.cartRepo.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.cartRepo.UpdateItemQuantity(ctx, cart.ID, itemID, quantity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *cartService) RemoveItem(ctx context.Context, userID, itemID int64) error {
	cart, err := s.cartRepo.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.cartRepo.RemoveItem(ctx, cart.ID, itemID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *cartService) ClearCart(ctx context.Context, userID int64) error {
	cart, err := s.cartRepo.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return err
	}
	return s.cartRepo.Clear(ctx, cart.ID)
}

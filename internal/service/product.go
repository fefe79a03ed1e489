package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Jalbyte/Mercador-Backend-sub000/internal/domain"
	"github.com/Jalbyte/Mercador-Backend-sub000/internal/logger"
	"github.com/Jalbyte/Mercador-Backend-sub000/internal/repository"
)

type productService struct {
	productRepo repository.ProductRepository
	keyRepo     repository.ProductKeyRepository
}

func NewProductService(productRepo repository.ProductRepository, keyRepo repository.ProductKeyRepository) ProductService {
	return &productService{
		productRepo: productRepo,
		keyRepo:     keyRepo,
	}
}

func (s *productService) ListProducts(ctx context.Context, search string, page, pageSize int64) ([]domain.Product, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return s.productRepo.List(ctx, strings.TrimSpace(search), page, pageSize)
}

// GetProduct returns the product and how many license keys remain
// unassigned for it.
func (s *productService) GetProduct(ctx context.Context, id int64) (*domain.Product, int64, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, err
	}
	stock, err := s.keyRepo.CountAvailable(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	return product, stock, nil
}

func (s *productService) CreateProduct(ctx context.Context, product *domain.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return err
	}
	logger.Info("Product created", "product_id", product.ID, "name", product.Name)
	return nil
}

func (s *productService) UpdateProduct(ctx context.Context, product *domain.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}
	if _, err := s.productRepo.GetByID(ctx, product.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return s.productRepo.Update(ctx, product)
}

func (s *productService) AddProductKeys(ctx context.Context, productID int64, keys []string) error {
	if len(keys) == 0 {
		return fmt.Errorf("no keys provided")
	}
	cleaned := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		cleaned = append(cleaned, k)
	}
	if len(cleaned) == 0 {
		return fmt.Errorf("no keys provided")
	}

	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if err := s.keyRepo.AddKeys(ctx, productID, cleaned); err != nil {
		return err
	}
	logger.Info("Product keys added", "product_id", productID, "count", len(cleaned))
	return nil
}

func validateProduct(p *domain.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("product name is required")
	}
	if p.Price <= 0 {
		return fmt.Errorf("product price must be positive")
	}
	return nil
}

package postgres

import (
	"context"
	"database/sql"

	"github.com/Jalbyte/Mercador-Backend-sub000/internal/domain"
	"github.com/Jalbyte/Mercador-Backend-sub000/internal/repository"
)

type productRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, p *domain.Product) error {
	query := `INSERT INTO products (name, description, platform, price, active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, now(), now()) RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query, p.Name, p.Description, p.Platform, p.Price, p.Active).
		Scan(&p.ID, &p.CreatedOn, &p.UpdatedOn)
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT id, name, COALESCE(description, ''), COALESCE(platform, ''), price, active, created_at, updated_at
	          FROM products WHERE id = $1`
	var p domain.Product
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.Platform, &p.Price, &p.Active, &p.CreatedOn, &p.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) Update(ctx context.Context, p *domain.Product) error {
	query := `UPDATE products SET name = $2, description = $3, platform = $4, price = $5, active = $6, updated_at = now()
	          WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, p.ID, p.Name, p.Description, p.Platform, p.Price, p.Active)
	return err
}

func (r *productRepository) List(ctx context.Context, search string, page, pageSize int64) ([]domain.Product, int64, error) {
	offset := (page - 1) * pageSize
	pattern := "%" + search + "%"

	var count int64
	countQuery := `SELECT count(*) FROM products WHERE active = TRUE AND ($1 = '%%' OR name ILIKE $1)`
	if err := r.db.QueryRowContext(ctx, countQuery, pattern).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, name, COALESCE(description, ''), COALESCE(platform, ''), price, active, created_at, updated_at
	          FROM products WHERE active = TRUE AND ($1 = '%%' OR name ILIKE $1)
	          ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, pattern, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Platform, &p.Price, &p.Active, &p.CreatedOn, &p.UpdatedOn); err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	return products, count, rows.Err()
}

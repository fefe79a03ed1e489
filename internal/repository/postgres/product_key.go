package postgres

import (
	"context"
	"database/sql"

	"github.com/Jalbyte/Mercador-Backend-sub000/internal/domain"
	"github.com/Jalbyte/Mercador-Backend-sub000/internal/repository"
)

type productKeyRepository struct {
	db *sql.DB
}

func NewProductKeyRepository(db *sql.DB) repository.ProductKeyRepository {
	return &productKeyRepository{db: db}
}

func (r *productKeyRepository) AddKeys(ctx context.Context, productID int64, keys []string) error {
	query := `INSERT INTO product_keys (product_id, key, status, created_at) VALUES ($1, $2, $3, now())`
	for _, k := range keys {
		if _, err := r.db.ExecContext(ctx, query, productID, k, domain.ProductKeyStatusAvailable); err != nil {
			return err
		}
	}
	return nil
}

func (r *productKeyRepository) CountAvailable(ctx context.Context, productID int64) (int64, error) {
	var count int64
	query := `SELECT count(*) FROM product_keys WHERE product_id = $1 AND status = $2`
	err := r.db.QueryRowContext(ctx, query, productID, domain.ProductKeyStatusAvailable).Scan(&count)
	return count, err
}

// AssignToOrder claims keys with a single UPDATE over a SKIP LOCKED
// subquery so concurrent checkouts never hand out the same key twice.
func (r *productKeyRepository) AssignToOrder(ctx context.Context, orderID, productID, n int64) ([]domain.ProductKey, error) {
	query := `UPDATE product_keys SET status = $1, order_id = $2, assigned_at = now()
	          WHERE id IN (
	              SELECT id FROM product_keys
	              WHERE product_id = $3 AND status = $4
	              ORDER BY id
	              LIMIT $5
	              FOR UPDATE SKIP LOCKED
	          )
	          RETURNING id, product_id, key, status, order_id, assigned_at, created_at`
	rows, err := r.db.QueryContext(ctx, query, domain.ProductKeyStatusAssigned, orderID, productID, domain.ProductKeyStatusAvailable, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProductKeys(rows)
}

func (r *productKeyRepository) ListByOrder(ctx context.Context, orderID int64) ([]domain.ProductKey, error) {
	query := `SELECT id, product_id, key, status, order_id, assigned_at, created_at
	          FROM product_keys WHERE order_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProductKeys(rows)
}

func scanProductKeys(rows *sql.Rows) ([]domain.ProductKey, error) {
	var keys []domain.ProductKey
	for rows.Next() {
		var k domain.ProductKey
		if err := rows.Scan(&k.ID, &k.ProductID, &k.Key, &k.Status, &k.OrderID, &k.AssignedOn, &k.CreatedOn); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

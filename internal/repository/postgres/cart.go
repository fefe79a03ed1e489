package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Jalbyte/Mercador-Backend-sub000/internal/domain"
	"github.com/Jalbyte/Mercador-Backend-sub000/internal/repository"
)

type cartRepository struct {
	db *sql.DB
}

func NewCartRepository(db *sql.DB) repository.CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) GetOrCreateByUser(ctx context.Context, userID int64) (*domain.Cart, error) {
	var c domain.Cart
	query := `SELECT id, user_id, created_at, updated_at FROM carts WHERE user_id = $1`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&c.ID, &c.UserID, &c.CreatedOn, &c.UpdatedOn)
	if err == nil {
		return &c, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	insert := `INSERT INTO carts (user_id, created_at, updated_at) VALUES ($1, now(), now())
	           ON CONFLICT (user_id) DO UPDATE SET updated_at = carts.updated_at
	           RETURNING id, user_id, created_at, updated_at`
	err = r.db.QueryRowContext(ctx, insert, userID).Scan(&c.ID, &c.UserID, &c.CreatedOn, &c.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cartRepository) ListItems(ctx context.Context, cartID int64) ([]domain.CartItem, error) {
	query := `SELECT ci.id, ci.cart_id, ci.product_id, p.name, ci.quantity, ci.unit_price
	          FROM cart_items ci JOIN products p ON p.id = ci.product_id
	          WHERE ci.cart_id = $1 ORDER BY ci.id`
	rows, err := r.db.QueryContext(ctx, query, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var it domain.CartItem
		if err := rows.Scan(&it.ID, &it.CartID, &it.ProductID, &it.ProductName, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// AddItem upserts on (cart_id, product_id) so re-adding a product bumps
// the quantity instead of duplicating the line.
func (r *cartRepository) AddItem(ctx context.Context, item *domain.CartItem) error {
	query := `INSERT INTO cart_items (cart_id, product_id, quantity, unit_price)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (cart_id, product_id)
	          DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, unit_price = EXCLUDED.unit_price
	          RETURNING id`
	return r.db.QueryRowContext(ctx, query, item.CartID, item.ProductID, item.Quantity, item.UnitPrice).Scan(&item.ID)
}

func (r *cartRepository) UpdateItemQuantity(ctx context.Context, cartID, itemID, quantity int64) error {
	query := `UPDATE cart_items SET quantity = $3 WHERE cart_id = $1 AND id = $2`
	res, err := r.db.ExecContext(ctx, query, cartID, itemID, quantity)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *cartRepository) RemoveItem(ctx context.Context, cartID, itemID int64) error {
	query := `DELETE FROM cart_items WHERE cart_id = $1 AND id = $2`
	_, err := r.db.ExecContext(ctx, query, cartID, itemID)
	return err
}

func (r *cartRepository) Clear(ctx context.Context, cartID int64) error {
	query := `DELETE FROM cart_items WHERE cart_id = $1`
	_, err := r.db.ExecContext(ctx, query, cartID)
	return err
}

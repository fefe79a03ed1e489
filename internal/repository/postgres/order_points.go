package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Jalbyte/Mercador-Backend-sub000/internal/domain"
	"github.com/Jalbyte/Mercador-Backend-sub000/internal/repository"
)

type orderPointsRepository struct {
	db *sql.DB
}

func NewOrderPointsRepository(db *sql.DB) repository.OrderPointsRepository {
	return &orderPointsRepository{db: db}
}

// Upsert keys on order_id: a repeated pre-use declaration, or the
// confirmation-time write after one, replaces the row instead of
// duplicating it.
func (r *orderPointsRepository) Upsert(ctx context.Context, op *domain.OrderPoints) error {
	query := `INSERT INTO order_points (order_id, user_id, points_used, points_earned, discount_amount, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, now(), now())
	          ON CONFLICT (order_id) DO UPDATE
	          SET points_used = EXCLUDED.points_used,
	              points_earned = EXCLUDED.points_earned,
	              discount_amount = EXCLUDED.discount_amount,
	              updated_at = now()
	          RETURNING created_at, updated_at`
	return r.db.QueryRowContext(ctx, query, op.OrderID, op.UserID, op.PointsUsed, op.PointsEarned, op.DiscountAmount).
		Scan(&op.CreatedOn, &op.UpdatedOn)
}

// GetByOrderID returns (nil, nil) when the order has no reconciliation
// record; callers treat that as "no points were used".
func (r *orderPointsRepository) GetByOrderID(ctx context.Context, orderID int64) (*domain.OrderPoints, error) {
	query := `SELECT order_id, user_id, points_used, points_earned, discount_amount, created_at, updated_at
	          FROM order_points WHERE order_id = $1`
	var op domain.OrderPoints
	err := r.db.QueryRowContext(ctx, query, orderID).
		Scan(&op.OrderID, &op.UserID, &op.PointsUsed, &op.PointsEarned, &op.DiscountAmount, &op.CreatedOn, &op.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &op, nil
}

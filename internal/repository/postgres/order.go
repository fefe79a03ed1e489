package postgres

import (
	"context"
	"database/sql"

	"github.com/Jalbyte/Mercador-Backend-sub000/internal/domain"
	"github.com/Jalbyte/Mercador-Backend-sub000/internal/repository"
)

type orderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order, items []domain.OrderItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO orders (user_id, status, total_amount, points_used, created_at, updated_at)
	          VALUES ($1, $2, $3, 0, now(), now()) RETURNING id, created_at, updated_at`
	if err := tx.QueryRowContext(ctx, query, order.UserID, order.Status, order.TotalAmount).
		Scan(&order.ID, &order.CreatedOn, &order.UpdatedOn); err != nil {
		return err
	}

	itemQuery := `INSERT INTO order_items (order_id, product_id, product_name, quantity, unit_price)
	              VALUES ($1, $2, $3, $4, $5) RETURNING id`
	for i := range items {
		items[i].OrderID = order.ID
		if err := tx.QueryRowContext(ctx, itemQuery, order.ID, items[i].ProductID, items[i].ProductName, items[i].Quantity, items[i].UnitPrice).
			Scan(&items[i].ID); err != nil {
			return err
		}
	}
	order.Items = items

	return tx.Commit()
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	query := `SELECT id, user_id, status, total_amount, COALESCE(payment_method, ''), COALESCE(payment_ref, ''), points_used, created_at, updated_at
	          FROM orders WHERE id = $1`
	var o domain.Order
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&o.ID, &o.UserID, &o.Status, &o.TotalAmount, &o.PaymentMethod, &o.PaymentRef, &o.PointsUsed, &o.CreatedOn, &o.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) ListItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	query := `SELECT id, order_id, product_id, product_name, quantity, unit_price
	          FROM order_items WHERE order_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *orderRepository) ListByUser(ctx context.Context, userID int64, page, pageSize int64) ([]domain.Order, int64, error) {
	offset := (page - 1) * pageSize

	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM orders WHERE user_id = $1`, userID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, user_id, status, total_amount, COALESCE(payment_method, ''), COALESCE(payment_ref, ''), points_used, created_at, updated_at
	          FROM orders WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, userID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Status, &o.TotalAmount, &o.PaymentMethod, &o.PaymentRef, &o.PointsUsed, &o.CreatedOn, &o.UpdatedOn); err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	return orders, count, rows.Err()
}

// Confirm is the point of no return for a payment: a conditional update
// that only fires while the order is still pending.
func (r *orderRepository) Confirm(ctx context.Context, orderID int64, method domain.PaymentMethod, paymentRef string, pointsUsed int64) (bool, error) {
	query := `UPDATE orders SET status = $2, payment_method = $3, payment_ref = $4, points_used = $5, updated_at = now()
	          WHERE id = $1 AND status = $6`
	res, err := r.db.ExecContext(ctx, query, orderID, domain.OrderStatusConfirmed, method, paymentRef, pointsUsed, domain.OrderStatusPending)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, orderID int64, status domain.OrderStatus) error {
	query := `UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, orderID, status)
	return err
}

func (r *orderRepository) SetPaymentRef(ctx context.Context, orderID int64, paymentRef string) error {
	query := `UPDATE orders SET payment_ref = $2, updated_at = now() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, orderID, paymentRef)
	return err
}

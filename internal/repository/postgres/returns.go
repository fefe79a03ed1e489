package postgres

import (
	"context"
	"database/sql"

	"github.com/Jalbyte/Mercador-Backend-sub000/internal/domain"
	"github.com/Jalbyte/Mercador-Backend-sub000/internal/repository"
)

type returnRepository struct {
	db *sql.DB
}

func NewReturnRepository(db *sql.DB) repository.ReturnRepository {
	return &returnRepository{db: db}
}

func (r *returnRepository) Create(ctx context.Context, ret *domain.Return, items []domain.ReturnItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO returns (order_id, user_id, status, reason, refund_amount, refund_method, admin_notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, '', now(), now()) RETURNING id, created_at, updated_at`
	if err := tx.QueryRowContext(ctx, query, ret.OrderID, ret.UserID, ret.Status, ret.Reason, ret.RefundAmount, ret.RefundMethod).
		Scan(&ret.ID, &ret.CreatedOn, &ret.UpdatedOn); err != nil {
		return err
	}

	itemQuery := `INSERT INTO return_items (return_id, order_item_id, quantity) VALUES ($1, $2, $3) RETURNING id`
	for i := range items {
		items[i].ReturnID = ret.ID
		if err := tx.QueryRowContext(ctx, itemQuery, ret.ID, items[i].OrderItemID, items[i].Quantity).
			Scan(&items[i].ID); err != nil {
			return err
		}
	}
	ret.Items = items

	return tx.Commit()
}

func (r *returnRepository) GetByID(ctx context.Context, id int64) (*domain.Return, error) {
	query := `SELECT id, order_id, user_id, status, COALESCE(reason, ''), refund_amount, COALESCE(refund_method, ''), COALESCE(admin_notes, ''), created_at, updated_at
	          FROM returns WHERE id = $1`
	var ret domain.Return
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&ret.ID, &ret.OrderID, &ret.UserID, &ret.Status, &ret.Reason, &ret.RefundAmount, &ret.RefundMethod, &ret.AdminNotes, &ret.CreatedOn, &ret.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return &ret, nil
}

func (r *returnRepository) Update(ctx context.Context, ret *domain.Return) error {
	query := `UPDATE returns SET status = $2, refund_amount = $3, refund_method = $4, admin_notes = $5, updated_at = now()
	          WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, ret.ID, ret.Status, ret.RefundAmount, ret.RefundMethod, ret.AdminNotes)
	return err
}

func (r *returnRepository) ListByUser(ctx context.Context, userID int64, page, pageSize int64) ([]domain.Return, int64, error) {
	return r.list(ctx, `user_id = $1`, userID, page, pageSize)
}

func (r *returnRepository) ListPending(ctx context.Context, page, pageSize int64) ([]domain.Return, int64, error) {
	return r.list(ctx, `status = $1`, domain.ReturnStatusPending, page, pageSize)
}

func (r *returnRepository) list(ctx context.Context, where string, arg any, page, pageSize int64) ([]domain.Return, int64, error) {
	offset := (page - 1) * pageSize

	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM returns WHERE `+where, arg).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, order_id, user_id, status, COALESCE(reason, ''), refund_amount, COALESCE(refund_method, ''), COALESCE(admin_notes, ''), created_at, updated_at
	          FROM returns WHERE ` + where + ` ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, arg, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var returns []domain.Return
	for rows.Next() {
		var ret domain.Return
		if err := rows.Scan(&ret.ID, &ret.OrderID, &ret.UserID, &ret.Status, &ret.Reason, &ret.RefundAmount, &ret.RefundMethod, &ret.AdminNotes, &ret.CreatedOn, &ret.UpdatedOn); err != nil {
			return nil, 0, err
		}
		returns = append(returns, ret)
	}
	return returns, count, rows.Err()
}

func (r *returnRepository) CreateStoreCredit(ctx context.Context, credit *domain.StoreCredit) error {
	query := `INSERT INTO store_credits (user_id, amount, return_id, expires_at, created_at)
	          VALUES ($1, $2, $3, $4, now()) RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query, credit.UserID, credit.Amount, credit.ReturnID, credit.ExpiresOn).
		Scan(&credit.ID, &credit.CreatedOn)
}

package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Jalbyte/Mercador-Backend-sub000/internal/domain"
	"github.com/Jalbyte/Mercador-Backend-sub000/internal/repository"
)

type pointsRepository struct {
	db *sql.DB
}

func NewPointsRepository(db *sql.DB) repository.PointsRepository {
	return &pointsRepository{db: db}
}

func (r *pointsRepository) GetBalance(ctx context.Context, userID int64) (*domain.PointsBalance, error) {
	query := `SELECT user_id, balance, total_earned, total_spent, created_at, updated_at
	          FROM user_points WHERE user_id = $1`
	var b domain.PointsBalance
	err := r.db.QueryRowContext(ctx, query, userID).
		Scan(&b.UserID, &b.Balance, &b.TotalEarned, &b.TotalSpent, &b.CreatedOn, &b.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *pointsRepository) CreateBalance(ctx context.Context, userID int64) error {
	query := `INSERT INTO user_points (user_id, balance, total_earned, total_spent, created_at, updated_at)
	          VALUES ($1, 0, 0, 0, now(), now())
	          ON CONFLICT (user_id) DO NOTHING`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}

// AddPoints is a single atomic upsert: no read-modify-write, so two
// concurrent credits for the same user cannot lose an update.
func (r *pointsRepository) AddPoints(ctx context.Context, userID, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("credit amount must be positive, got %d", amount)
	}
	query := `INSERT INTO user_points (user_id, balance, total_earned, total_spent, created_at, updated_at)
	          VALUES ($1, $2, $2, 0, now(), now())
	          ON CONFLICT (user_id) DO UPDATE
	          SET balance = user_points.balance + EXCLUDED.balance,
	              total_earned = user_points.total_earned + EXCLUDED.balance,
	              updated_at = now()`
	_, err := r.db.ExecContext(ctx, query, userID, amount)
	return err
}

// DeductPoints debits the balance with a conditional update. Zero rows
// affected means the balance did not cover the amount; the caller treats
// that as the insufficient-balance failure, never as an error.
func (r *pointsRepository) DeductPoints(ctx context.Context, userID, amount int64) (bool, error) {
	if amount <= 0 {
		return false, fmt.Errorf("debit amount must be positive, got %d", amount)
	}
	query := `UPDATE user_points
	          SET balance = balance - $2, total_spent = total_spent + $2, updated_at = now()
	          WHERE user_id = $1 AND balance >= $2`
	res, err := r.db.ExecContext(ctx, query, userID, amount)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *pointsRepository) CreateTransaction(ctx context.Context, tx *domain.PointsTransaction) error {
	var metadata []byte
	if tx.Metadata != nil {
		var err error
		metadata, err = json.Marshal(tx.Metadata)
		if err != nil {
			return err
		}
	}
	query := `INSERT INTO points_transactions (user_id, amount, type, description, order_id, metadata, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, now()) RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, query, tx.UserID, tx.Amount, tx.Type, tx.Description, tx.OrderID, metadata).
		Scan(&tx.ID, &tx.CreatedOn)
}

func (r *pointsRepository) ListTransactions(ctx context.Context, userID int64, limit, offset int64) ([]domain.PointsTransaction, int64, error) {
	var count int64
	countQuery := `SELECT count(*) FROM points_transactions WHERE user_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, userID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, user_id, amount, type, COALESCE(description, ''), order_id, metadata, created_at
	          FROM points_transactions WHERE user_id = $1
	          ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	txs, err := scanPointsTransactions(rows)
	if err != nil {
		return nil, 0, err
	}
	return txs, count, nil
}

func (r *pointsRepository) SearchTransactions(ctx context.Context, query string, txType domain.PointsTransactionType, limit, offset int64) ([]domain.PointsTransaction, int64, error) {
	pattern := "%" + query + "%"

	var count int64
	countQuery := `SELECT count(*) FROM points_transactions
	               WHERE ($1 = '%%' OR description ILIKE $1) AND ($2 = '' OR type = $2)`
	if err := r.db.QueryRowContext(ctx, countQuery, pattern, string(txType)).Scan(&count); err != nil {
		return nil, 0, err
	}

	listQuery := `SELECT id, user_id, amount, type, COALESCE(description, ''), order_id, metadata, created_at
	              FROM points_transactions
	              WHERE ($1 = '%%' OR description ILIKE $1) AND ($2 = '' OR type = $2)
	              ORDER BY created_at DESC, id DESC LIMIT $3 OFFSET $4`
	rows, err := r.db.QueryContext(ctx, listQuery, pattern, string(txType), limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	txs, err := scanPointsTransactions(rows)
	if err != nil {
		return nil, 0, err
	}
	return txs, count, nil
}

func (r *pointsRepository) ListBalances(ctx context.Context, sortBy, sortOrder string, page, pageSize int64) ([]domain.UserPointsSummary, int64, error) {
	// Sort columns are whitelisted; user input never reaches the SQL text.
	column := "balance"
	switch sortBy {
	case "total_earned":
		column = "total_earned"
	case "total_spent":
		column = "total_spent"
	}
	direction := "DESC"
	if sortOrder == "asc" {
		direction = "ASC"
	}

	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM user_points`).Scan(&count); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := fmt.Sprintf(`SELECT up.user_id, p.email, COALESCE(p.full_name, ''), up.balance, up.total_earned, up.total_spent
	          FROM user_points up JOIN profiles p ON p.id = up.user_id
	          ORDER BY up.%s %s LIMIT $1 OFFSET $2`, column, direction)
	rows, err := r.db.QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var summaries []domain.UserPointsSummary
	for rows.Next() {
		var s domain.UserPointsSummary
		if err := rows.Scan(&s.UserID, &s.Email, &s.FullName, &s.Balance, &s.TotalEarned, &s.TotalSpent); err != nil {
			return nil, 0, err
		}
		summaries = append(summaries, s)
	}
	return summaries, count, rows.Err()
}

func (r *pointsRepository) GetStats(ctx context.Context) (*domain.PointsStats, error) {
	stats := &domain.PointsStats{}
	query := `SELECT count(*) FILTER (WHERE balance > 0),
	                 COALESCE(SUM(balance), 0),
	                 COALESCE(SUM(total_earned), 0),
	                 COALESCE(SUM(total_spent), 0)
	          FROM user_points`
	err := r.db.QueryRowContext(ctx, query).
		Scan(&stats.UsersWithBalance, &stats.TotalInCirculation, &stats.TotalEarned, &stats.TotalSpent)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func scanPointsTransactions(rows *sql.Rows) ([]domain.PointsTransaction, error) {
	var txs []domain.PointsTransaction
	for rows.Next() {
		var tx domain.PointsTransaction
		var metadata []byte
		if err := rows.Scan(&tx.ID, &tx.UserID, &tx.Amount, &tx.Type, &tx.Description, &tx.OrderID, &metadata, &tx.CreatedOn); err != nil {
			return nil, err
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &tx.Metadata); err != nil {
				return nil, err
			}
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

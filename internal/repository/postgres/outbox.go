package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/Jalbyte/Mercador-Backend-sub000/internal/domain"
	"github.com/Jalbyte/Mercador-Backend-sub000/internal/repository"
)

type outboxRepository struct {
	db *sql.DB
}

func NewOutboxRepository(db *sql.DB) repository.OutboxRepository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) Enqueue(ctx context.Context, task *domain.OutboxTask) error {
	query := `INSERT INTO outbox_tasks (id, kind, payload, status, attempts, max_attempts, run_after, last_error, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, '', now())`
	_, err := r.db.ExecContext(ctx, query, task.ID, task.Kind, []byte(task.Payload), task.Status, task.Attempts, task.MaxAttempts, task.RunAfter)
	return err
}

// ClaimDue pushes run_after forward while selecting, so two dispatcher
// passes racing on the same table cannot pick up the same task.
func (r *outboxRepository) ClaimDue(ctx context.Context, limit int64) ([]domain.OutboxTask, error) {
	query := `UPDATE outbox_tasks SET run_after = now() + interval '5 minutes'
	          WHERE id IN (
	              SELECT id FROM outbox_tasks
	              WHERE status = $1 AND run_after <= now()
	              ORDER BY created_at
	              LIMIT $2
	              FOR UPDATE SKIP LOCKED
	          )
	          RETURNING id, kind, payload, status, attempts, max_attempts, run_after, last_error, created_at`
	rows, err := r.db.QueryContext(ctx, query, domain.OutboxTaskStatusPending, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.OutboxTask
	for rows.Next() {
		var t domain.OutboxTask
		var payload []byte
		if err := rows.Scan(&t.ID, &t.Kind, &payload, &t.Status, &t.Attempts, &t.MaxAttempts, &t.RunAfter, &t.LastError, &t.CreatedOn); err != nil {
			return nil, err
		}
		t.Payload = payload
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *outboxRepository) MarkDone(ctx context.Context, id string) error {
	query := `UPDATE outbox_tasks SET status = $2 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, domain.OutboxTaskStatusDone)
	return err
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id string, attempts int, lastError string, retryAt time.Time, final bool) error {
	status := domain.OutboxTaskStatusPending
	if final {
		status = domain.OutboxTaskStatusFailed
	}
	query := `UPDATE outbox_tasks SET status = $2, attempts = $3, last_error = $4, run_after = $5 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, status, attempts, lastError, retryAt)
	return err
}

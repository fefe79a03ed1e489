package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Jalbyte/Mercador-Backend-sub000/internal/domain"
	"github.com/Jalbyte/Mercador-Backend-sub000/internal/logger"
	"github.com/Jalbyte/Mercador-Backend-sub000/internal/service"
)

const outboxBatchSize = 50

// DispatchOutbox drains due outbox tasks: sends the queued emails and
// assigns license keys. A failed task is retried with backoff until its
// attempt budget runs out.
func (jr *JobRunner) DispatchOutbox() {
	jr.runWithRecovery("DispatchOutbox", func() {
		ctx := context.Background()

		tasks, err := jr.store.OutboxRepository.ClaimDue(ctx, outboxBatchSize)
		if err != nil {
			logger.Error("Failed to claim outbox tasks", "error", err)
			return
		}
		if len(tasks) == 0 {
			return
		}

		done := 0
		for i := range tasks {
			task := &tasks[i]
			if err := jr.runTask(ctx, task); err != nil {
				jr.failTask(ctx, task, err)
				continue
			}
			if err := jr.store.OutboxRepository.MarkDone(ctx, task.ID); err != nil {
				logger.Error("Failed to mark outbox task done", "task_id", task.ID, "error", err)
				continue
			}
			done++
		}
		logger.Info("Outbox pass finished", "claimed", len(tasks), "done", done)
	})
}

func (jr *JobRunner) runTask(ctx context.Context, task *domain.OutboxTask) error {
	switch task.Kind {
	case domain.OutboxKindAssignKeys:
		var p service.OrderTaskPayload
		if err := json.Unmarshal(task.Payload, &p); err != nil {
			return fmt.Errorf("bad payload: %w", err)
		}
		_, err := jr.services.Keys.AssignKeysForOrder(ctx, p.OrderID)
		return err

	case domain.OutboxKindOrderConfirmationEmail:
		var p service.OrderTaskPayload
		if err := json.Unmarshal(task.Payload, &p); err != nil {
			return fmt.Errorf("bad payload: %w", err)
		}
		return jr.sendOrderConfirmation(ctx, p.OrderID)

	case domain.OutboxKindRefundProcessedEmail:
		var p service.RefundEmailPayload
		if err := json.Unmarshal(task.Payload, &p); err != nil {
			return fmt.Errorf("bad payload: %w", err)
		}
		return jr.sendRefundProcessed(ctx, &p)

	default:
		return fmt.Errorf("unknown task kind %q", task.Kind)
	}
}

func (jr *JobRunner) sendOrderConfirmation(ctx context.Context, orderID int64) error {
	order, err := jr.store.OrderRepository.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	profile, err := jr.store.ProfileRepository.GetByID(ctx, order.UserID)
	if err != nil {
		return err
	}
	assigned, err := jr.store.ProductKeyRepository.ListByOrder(ctx, orderID)
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(assigned))
	for _, k := range assigned {
		keys = append(keys, k.Key)
	}
	// If the key assignment task has not run yet the email would go out
	// empty; push this task back instead.
	if len(keys) == 0 {
		return fmt.Errorf("no keys assigned yet for order %d", orderID)
	}
	return jr.services.Email.SendOrderConfirmation(ctx, profile.Email, profile.FullName, orderID, keys)
}

func (jr *JobRunner) sendRefundProcessed(ctx context.Context, p *service.RefundEmailPayload) error {
	ret, err := jr.store.ReturnRepository.GetByID(ctx, p.ReturnID)
	if err != nil {
		return err
	}
	profile, err := jr.store.ProfileRepository.GetByID(ctx, ret.UserID)
	if err != nil {
		return err
	}
	return jr.services.Email.SendRefundProcessed(ctx, profile.Email, profile.FullName, p.ReturnID, p.MoneyRefund, p.PointsRefund)
}

func (jr *JobRunner) failTask(ctx context.Context, task *domain.OutboxTask, taskErr error) {
	attempts := task.Attempts + 1
	final := attempts >= task.MaxAttempts
	// Exponential backoff: 1m, 2m, 4m, ...
	backoff := time.Duration(1<<uint(attempts-1)) * time.Minute
	if backoff > time.Hour {
		backoff = time.Hour
	}
	retryAt := time.Now().Add(backoff)

	if final {
		logger.Error("Outbox task exhausted its attempts",
			"task_id", task.ID, "kind", task.Kind, "attempts", attempts, "error", taskErr)
	} else {
		logger.Warn("Outbox task failed, will retry",
			"task_id", task.ID, "kind", task.Kind, "attempts", attempts, "retry_at", retryAt, "error", taskErr)
	}
	if err := jr.store.OutboxRepository.MarkFailed(ctx, task.ID, attempts, taskErr.Error(), retryAt, final); err != nil {
		logger.Error("Failed to record outbox task failure", "task_id", task.ID, "error", err)
	}
}

package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/Jalbyte/Mercador-Backend-sub000/internal/domain"
	"github.com/Jalbyte/Mercador-Backend-sub000/internal/repository"
)

// Payloads for outbox tasks. Kept small and stable: tasks may sit in
// the table across deploys.
type OrderTaskPayload struct {
	OrderID int64 `json:"order_id"`
}

type RefundEmailPayload struct {
	ReturnID     int64 `json:"return_id"`
	MoneyRefund  int64 `json:"money_refund"`
	PointsRefund int64 `json:"points_refund"`
}

type outboxService struct {
	outboxRepo repository.OutboxRepository
}

func NewOutboxService(outboxRepo repository.OutboxRepository) OutboxService {
	return &outboxService{outboxRepo: outboxRepo}
}

func (s *outboxService) enqueue(ctx context.Context, kind string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	task := &domain.OutboxTask{
		ID:          uuid.NewString(),
		Kind:        kind,
		Payload:     body,
		Status:      domain.OutboxTaskStatusPending,
		MaxAttempts: 5,
		RunAfter:    time.Now(),
	}
	return s.outboxRepo.Enqueue(ctx, task)
}

func (s *outboxService) EnqueueOrderConfirmationEmail(ctx context.Context, orderID int64) error {
	return s.enqueue(ctx, domain.OutboxKindOrderConfirmationEmail, OrderTaskPayload{OrderID: orderID})
}

func (s *outboxService) EnqueueRefundProcessedEmail(ctx context.Context, returnID, moneyRefund, pointsRefund int64) error {
	return s.enqueue(ctx, domain.OutboxKindRefundProcessedEmail, RefundEmailPayload{
		ReturnID:     returnID,
		MoneyRefund:  moneyRefund,
		PointsRefund: pointsRefund,
	})
}

func (s *outboxService) EnqueueKeyAssignment(ctx context.Context, orderID int64) error {
	return s.enqueue(ctx, domain.OutboxKindAssignKeys, OrderTaskPayload{OrderID: orderID})
}

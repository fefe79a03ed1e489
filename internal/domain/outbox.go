package domain

import (
	"encoding/json"
	"time"
)

type OutboxTaskStatus string

const (
	OutboxTaskStatusPending OutboxTaskStatus = "pending"
	OutboxTaskStatusDone    OutboxTaskStatus = "done"
	OutboxTaskStatusFailed  OutboxTaskStatus = "failed"
)

// Outbox task kinds. Side effects that must never block or roll back a
// completed payment or refund are enqueued under one of these kinds and
// retried by the dispatcher.
const (
	OutboxKindOrderConfirmationEmail = "email.order_confirmation"
	OutboxKindRefundProcessedEmail   = "email.refund_processed"
	OutboxKindAssignKeys             = "keys.assign"
)

// OutboxTask is a durable record of a pending side effect.
type OutboxTask struct {
	ID          string           `json:"id"` // uuid
	Kind        string           `json:"kind"`
	Payload     json.RawMessage  `json:"payload"`
	Status      OutboxTaskStatus `json:"status"`
	Attempts    int              `json:"attempts"`
	MaxAttempts int              `json:"max_attempts"`
	RunAfter    time.Time        `json:"run_after"`
	LastError   string           `json:"last_error,omitempty"`
	CreatedOn   time.Time        `json:"created_on"`
}

package domain

import "time"

type ReturnStatus string

const (
	ReturnStatusPending  ReturnStatus = "pending"
	ReturnStatusRejected ReturnStatus = "rejected"
	ReturnStatusRefunded ReturnStatus = "refunded"
)

type RefundMethod string

const (
	RefundMethodOriginal    RefundMethod = "original"
	RefundMethodStoreCredit RefundMethod = "store_credit"
)

type Return struct {
	ID           int64        `json:"id"`
	OrderID      int64        `json:"order_id"`
	UserID       int64        `json:"user_id"`
	Status       ReturnStatus `json:"status"`
	Reason       string       `json:"reason"`
	RefundAmount int64        `json:"refund_amount"`
	RefundMethod RefundMethod `json:"refund_method,omitempty"`
	AdminNotes   string       `json:"admin_notes,omitempty"`
	Items        []ReturnItem `json:"items,omitempty"` // Populated when needed
	CreatedOn    time.Time    `json:"created_on"`
	UpdatedOn    time.Time    `json:"updated_on"`
}

type ReturnItem struct {
	ID          int64 `json:"id"`
	ReturnID    int64 `json:"return_id"`
	OrderItemID int64 `json:"order_item_id"`
	Quantity    int64 `json:"quantity"`
}

type StoreCredit struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	Amount    int64      `json:"amount"`
	ReturnID  *int64     `json:"return_id,omitempty"`
	ExpiresOn *time.Time `json:"expires_on,omitempty"`
	CreatedOn time.Time  `json:"created_on"`
}

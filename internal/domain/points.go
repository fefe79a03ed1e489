package domain

import "time"

type PointsTransactionType string

const (
	PointsTransactionTypeEarned     PointsTransactionType = "earned"
	PointsTransactionTypeSpent      PointsTransactionType = "spent"
	PointsTransactionTypeRefund     PointsTransactionType = "refund"
	PointsTransactionTypeAdjustment PointsTransactionType = "adjustment"
)

// PointsBalance is the per-user system of record for loyalty points.
// Rows are created lazily on first balance query and never deleted.
type PointsBalance struct {
	UserID      int64     `json:"user_id"`
	Balance     int64     `json:"balance"`
	TotalEarned int64     `json:"total_earned"`
	TotalSpent  int64     `json:"total_spent"`
	CreatedOn   time.Time `json:"created_on"`
	UpdatedOn   time.Time `json:"updated_on"`
}

// PointsTransaction is an append-only ledger entry. Amount is signed:
// positive for earned/refund/positive adjustments, negative for spends
// and negative adjustments.
type PointsTransaction struct {
	ID          int64                 `json:"id"`
	UserID      int64                 `json:"user_id"`
	Amount      int64                 `json:"amount"`
	Type        PointsTransactionType `json:"type"`
	Description string                `json:"description"`
	OrderID     *int64                `json:"order_id,omitempty"`
	Metadata    map[string]string     `json:"metadata,omitempty"`
	CreatedOn   time.Time             `json:"created_on"`
}

// OrderPoints records, once per order, how the order was paid: points
// applied, points earned on the money portion, and the money value of
// the points discount at purchase time. It is the sole source for
// reconstructing the money/points split when a refund is processed.
type OrderPoints struct {
	OrderID        int64     `json:"order_id"`
	UserID         int64     `json:"user_id"`
	PointsUsed     int64     `json:"points_used"`
	PointsEarned   int64     `json:"points_earned"`
	DiscountAmount int64     `json:"discount_amount"`
	CreatedOn      time.Time `json:"created_on"`
	UpdatedOn      time.Time `json:"updated_on"`
}

// UserPointsSummary joins a points balance with its profile for admin listings.
type UserPointsSummary struct {
	UserID      int64  `json:"user_id"`
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
	Balance     int64  `json:"balance"`
	TotalEarned int64  `json:"total_earned"`
	TotalSpent  int64  `json:"total_spent"`
}

// PointsStats aggregates the ledger for the admin dashboard.
type PointsStats struct {
	UsersWithBalance   int64 `json:"users_with_balance"`
	TotalInCirculation int64 `json:"total_in_circulation"`
	TotalEarned        int64 `json:"total_earned"`
	TotalSpent         int64 `json:"total_spent"`
}

package domain

import "time"

type Cart struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// CartItem snapshots the product price at the time it was added.
type CartItem struct {
	ID          int64  `json:"id"`
	CartID      int64  `json:"cart_id"`
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int64  `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
}

// Subtotal returns the line total for the item.
func (i *CartItem) Subtotal() int64 {
	return i.Quantity * i.UnitPrice
}

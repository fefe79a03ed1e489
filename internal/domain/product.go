package domain

import "time"

type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Platform    string    `json:"platform"`
	Price       int64     `json:"price"` // whole currency units, no cents subdivision
	Active      bool      `json:"active"`
	CreatedOn   time.Time `json:"created_on"`
	UpdatedOn   time.Time `json:"updated_on"`
}

type ProductKeyStatus string

const (
	ProductKeyStatusAvailable ProductKeyStatus = "available"
	ProductKeyStatusAssigned  ProductKeyStatus = "assigned"
	ProductKeyStatusRevoked   ProductKeyStatus = "revoked"
)

// ProductKey is a single sellable license key for a product.
type ProductKey struct {
	ID         int64            `json:"id"`
	ProductID  int64            `json:"product_id"`
	Key        string           `json:"key"`
	Status     ProductKeyStatus `json:"status"`
	OrderID    *int64           `json:"order_id,omitempty"`
	AssignedOn *time.Time       `json:"assigned_on,omitempty"`
	CreatedOn  time.Time        `json:"created_on"`
}

package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrOrderNotPending    = errors.New("order is not pending")
	ErrOrderNotPaid       = errors.New("order has not been paid")
	ErrReturnNotPending   = errors.New("return is not pending")
	ErrPointsExceedTotal  = errors.New("points value exceeds order total")
	ErrDeductionFailed    = errors.New("points deduction failed")
)

// InsufficientPointsError reports a failed balance precondition with
// both sides of the comparison, so handlers can surface the numbers.
type InsufficientPointsError struct {
	Required  int64
	Available int64
}

func (e *InsufficientPointsError) Error() string {
	return fmt.Sprintf("insufficient points: required %d, available %d", e.Required, e.Available)
}

package service

import (
	"context"

	"github.com/Jalbyte/Mercador-Backend-sub000/internal/domain"
	"github.com/Jalbyte/Mercador-Backend-sub000/internal/utils"
)

type AuthService interface {
	Signup(ctx context.Context, email, password, fullName string) (*domain.Profile, string, string, error) // profile, access, refresh
	Login(ctx context.Context, email, password string) (*domain.Profile, string, string, error)
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
	GetProfile(ctx context.Context, userID int64) (*domain.Profile, error)
}

type ProductService interface {
	ListProducts(ctx context.Context, search string, page, pageSize int64) ([]domain.Product, int64, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, int64, error) // product, available stock
	CreateProduct(ctx context.Context, product *domain.Product) error
	UpdateProduct(ctx context.Context, product *domain.Product) error
	AddProductKeys(ctx context.Context, productID int64, keys []string) error
}

type CartService interface {
	GetCart(ctx context.Context, userID int64) (*domain.Cart, []domain.CartItem, int64, error) // cart, items, total
	AddItem(ctx context.Context, userID, productID, quantity int64) (*domain.CartItem, error)
	UpdateItemQuantity(ctx context.Context, userID, itemID, quantity int64) error
	RemoveItem(ctx context.Context, userID, itemID int64) error
	ClearCart(ctx context.Context, userID int64) error
}

type OrderService interface {
	CreateOrderFromCart(ctx context.Context, userID int64) (*domain.Order, error)
	GetOrder(ctx context.Context, userID, orderID int64) (*domain.Order, error)
	ListOrders(ctx context.Context, userID int64, page, pageSize int64) ([]domain.Order, int64, error)
	GetOrderKeys(ctx context.Context, userID, orderID int64) ([]domain.ProductKey, error)
}

// PointsService is the loyalty ledger. Earn and Deduct return an explicit
// success flag instead of an error so every caller decides what a failed
// ledger write means in its own flow.
type PointsService interface {
	GetBalance(ctx context.Context, userID int64) (*domain.PointsBalance, error)
	Earn(ctx context.Context, userID, amount int64, kind domain.PointsTransactionType, description string, orderID *int64, metadata map[string]string) bool
	Deduct(ctx context.Context, userID, amount int64, description string, orderID *int64, metadata map[string]string) bool
	ListTransactions(ctx context.Context, userID int64, limit, offset int64) ([]domain.PointsTransaction, int64, error)
	ValidatePoints(ctx context.Context, userID, required int64) (bool, int64, error) // sufficient, available
	GetOrderPoints(ctx context.Context, orderID int64) (*domain.OrderPoints, error)
}

type CheckoutService interface {
	StartGatewayCheckout(ctx context.Context, userID, orderID int64) (string, error) // redirect URL
	PayWithPoints(ctx context.Context, userID, orderID int64) error
	DeclarePointsUse(ctx context.Context, userID, orderID, points int64) (*domain.OrderPoints, error)
	HandlePaymentSucceeded(ctx context.Context, orderID int64, paymentRef string) error
	HandlePaymentFailed(ctx context.Context, orderID int64, reason string) error
}

type ReturnService interface {
	RequestReturn(ctx context.Context, userID, orderID int64, reason string, method domain.RefundMethod, items []domain.ReturnItem) (*domain.Return, error)
	ApproveReturn(ctx context.Context, adminID, returnID int64) (*domain.Return, *utils.RefundSplit, error)
	RejectReturn(ctx context.Context, adminID, returnID int64, note string) (*domain.Return, error)
	ListUserReturns(ctx context.Context, userID int64, page, pageSize int64) ([]domain.Return, int64, error)
	ListPendingReturns(ctx context.Context, page, pageSize int64) ([]domain.Return, int64, error)
}

type AdminPointsService interface {
	ListUserBalances(ctx context.Context, sortBy, sortOrder string, page, pageSize int64) ([]domain.UserPointsSummary, int64, error)
	GetUserDetail(ctx context.Context, userID int64) (*domain.PointsBalance, []domain.PointsTransaction, error)
	AdjustPoints(ctx context.Context, adminID, userID, amount int64, reason string) error
	SearchTransactions(ctx context.Context, query string, txType domain.PointsTransactionType, limit, offset int64) ([]domain.PointsTransaction, int64, error)
	GetStats(ctx context.Context) (*domain.PointsStats, error)
}

type KeyService interface {
	// AssignKeysForOrder claims one license key per ordered unit. Partial
	// assignment is reported via the error while keeping claimed keys.
	AssignKeysForOrder(ctx context.Context, orderID int64) ([]domain.ProductKey, error)
}

type EmailService interface {
	SendOrderConfirmation(ctx context.Context, email, name string, orderID int64, keys []string) error
	SendRefundProcessed(ctx context.Context, email, name string, returnID, moneyRefund, pointsRefund int64) error
}

// OutboxService enqueues durable side-effect tasks for the dispatcher.
type OutboxService interface {
	EnqueueOrderConfirmationEmail(ctx context.Context, orderID int64) error
	EnqueueRefundProcessedEmail(ctx context.Context, returnID, moneyRefund, pointsRefund int64) error
	EnqueueKeyAssignment(ctx context.Context, orderID int64) error
}

package repository

import (
	"context"
	"time"

	"github.com/Jalbyte/Mercador-Backend-sub000/internal/domain"
)

type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) error
	GetByID(ctx context.Context, id int64) (*domain.Profile, error)
	GetByEmail(ctx context.Context, email string) (*domain.Profile, error)
	Update(ctx context.Context, profile *domain.Profile) error
}

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	List(ctx context.Context, query string, page, pageSize int64) ([]domain.Product, int64, error)
}

type ProductKeyRepository interface {
	AddKeys(ctx context.Context, productID int64, keys []string) error
	CountAvailable(ctx context.Context, productID int64) (int64, error)
	// AssignToOrder atomically claims n available keys for the product and
	// binds them to the order. Returns the claimed keys; fewer than n means
	// stock ran short.
	AssignToOrder(ctx context.Context, orderID, productID, n int64) ([]domain.ProductKey, error)
	ListByOrder(ctx context.Context, orderID int64) ([]domain.ProductKey, error)
}

type CartRepository interface {
	GetOrCreateByUser(ctx context.Context, userID int64) (*domain.Cart, error)
	ListItems(ctx context.Context, cartID int64) ([]domain.CartItem, error)
	AddItem(ctx context.Context, item *domain.CartItem) error
	UpdateItemQuantity(ctx context.Context, cartID, itemID, quantity int64) error
	RemoveItem(ctx context.Context, cartID, itemID int64) error
	Clear(ctx context.Context, cartID int64) error
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order, items []domain.OrderItem) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	ListItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error)
	ListByUser(ctx context.Context, userID int64, page, pageSize int64) ([]domain.Order, int64, error)
	// Confirm transitions the order pending→confirmed as a single
	// conditional update. False means the order was not pending.
	Confirm(ctx context.Context, orderID int64, method domain.PaymentMethod, paymentRef string, pointsUsed int64) (bool, error)
	UpdateStatus(ctx context.Context, orderID int64, status domain.OrderStatus) error
	SetPaymentRef(ctx context.Context, orderID int64, paymentRef string) error
}

type PointsRepository interface {
	GetBalance(ctx context.Context, userID int64) (*domain.PointsBalance, error) // (nil, nil) when absent
	CreateBalance(ctx context.Context, userID int64) error                       // no-op when the row exists
	// AddPoints credits amount to balance and total_earned as one atomic
	// upsert. Amount must be positive.
	AddPoints(ctx context.Context, userID, amount int64) error
	// DeductPoints debits balance and credits total_spent only when the
	// balance covers the amount. False with nil error means insufficient.
	DeductPoints(ctx context.Context, userID, amount int64) (bool, error)
	CreateTransaction(ctx context.Context, tx *domain.PointsTransaction) error
	ListTransactions(ctx context.Context, userID int64, limit, offset int64) ([]domain.PointsTransaction, int64, error)
	SearchTransactions(ctx context.Context, query string, txType domain.PointsTransactionType, limit, offset int64) ([]domain.PointsTransaction, int64, error)
	ListBalances(ctx context.Context, sortBy, sortOrder string, page, pageSize int64) ([]domain.UserPointsSummary, int64, error)
	GetStats(ctx context.Context) (*domain.PointsStats, error)
}

type OrderPointsRepository interface {
	// Upsert writes the reconciliation record, keyed on order_id, so a
	// repeated pre-use declaration replaces the previous one.
	Upsert(ctx context.Context, op *domain.OrderPoints) error
	GetByOrderID(ctx context.Context, orderID int64) (*domain.OrderPoints, error) // (nil, nil) when absent
}

type ReturnRepository interface {
	Create(ctx context.Context, ret *domain.Return, items []domain.ReturnItem) error
	GetByID(ctx context.Context, id int64) (*domain.Return, error)
	Update(ctx context.Context, ret *domain.Return) error
	ListByUser(ctx context.Context, userID int64, page, pageSize int64) ([]domain.Return, int64, error)
	ListPending(ctx context.Context, page, pageSize int64) ([]domain.Return, int64, error)
	CreateStoreCredit(ctx context.Context, credit *domain.StoreCredit) error
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, task *domain.OutboxTask) error
	// ClaimDue returns up to limit pending tasks whose run_after has
	// passed, marking them in-flight for this dispatcher pass.
	ClaimDue(ctx context.Context, limit int64) ([]domain.OutboxTask, error)
	MarkDone(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, attempts int, lastError string, retryAt time.Time, final bool) error
}

package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Jalbyte/Mercador-Backend-sub000/internal/domain"
	"github.com/Jalbyte/Mercador-Backend-sub000/internal/payment"
)

// MockPointsRepo
type MockPointsRepo struct {
	mock.Mock
}

func (m *MockPointsRepo) GetBalance(ctx context.Context, userID int64) (*domain.PointsBalance, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PointsBalance), args.Error(1)
}
func (m *MockPointsRepo) CreateBalance(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
func (m *MockPointsRepo) AddPoints(ctx context.Context, userID, amount int64) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}
func (m *MockPointsRepo) DeductPoints(ctx context.Context, userID, amount int64) (bool, error) {
	args := m.Called(ctx, userID, amount)
	return args.Bool(0), args.Error(1)
}
func (m *MockPointsRepo) CreateTransaction(ctx context.Context, tx *domain.PointsTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}
func (m *MockPointsRepo) ListTransactions(ctx context.Context, userID int64, limit, offset int64) ([]domain.PointsTransaction, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.PointsTransaction), args.Get(1).(int64), args.Error(2)
}
func (m *MockPointsRepo) SearchTransactions(ctx context.Context, query string, txType domain.PointsTransactionType, limit, offset int64) ([]domain.PointsTransaction, int64, error) {
	args := m.Called(ctx, query, txType, limit, offset)
	return args.Get(0).([]domain.PointsTransaction), args.Get(1).(int64), args.Error(2)
}
func (m *MockPointsRepo) ListBalances(ctx context.Context, sortBy, sortOrder string, page, pageSize int64) ([]domain.UserPointsSummary, int64, error) {
	args := m.Called(ctx, sortBy, sortOrder, page, pageSize)
	return args.Get(0).([]domain.UserPointsSummary), args.Get(1).(int64), args.Error(2)
}
func (m *MockPointsRepo) GetStats(ctx context.Context) (*domain.PointsStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PointsStats), args.Error(1)
}

// MockOrderPointsRepo
type MockOrderPointsRepo struct {
	mock.Mock
}

func (m *MockOrderPointsRepo) Upsert(ctx context.Context, op *domain.OrderPoints) error {
	args := m.Called(ctx, op)
	return args.Error(0)
}
func (m *MockOrderPointsRepo) GetByOrderID(ctx context.Context, orderID int64) (*domain.OrderPoints, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrderPoints), args.Error(1)
}

// MockOrderRepo
type MockOrderRepo struct {
	mock.Mock
}

func (m *MockOrderRepo) Create(ctx context.Context, order *domain.Order, items []domain.OrderItem) error {
	args := m.Called(ctx, order, items)
	return args.Error(0)
}
func (m *MockOrderRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}
func (m *MockOrderRepo) ListItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]domain.OrderItem), args.Error(1)
}
func (m *MockOrderRepo) ListByUser(ctx context.Context, userID int64, page, pageSize int64) ([]domain.Order, int64, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.Order), args.Get(1).(int64), args.Error(2)
}
func (m *MockOrderRepo) Confirm(ctx context.Context, orderID int64, method domain.PaymentMethod, paymentRef string, pointsUsed int64) (bool, error) {
	args := m.Called(ctx, orderID, method, paymentRef, pointsUsed)
	return args.Bool(0), args.Error(1)
}
func (m *MockOrderRepo) UpdateStatus(ctx context.Context, orderID int64, status domain.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}
func (m *MockOrderRepo) SetPaymentRef(ctx context.Context, orderID int64, paymentRef string) error {
	args := m.Called(ctx, orderID, paymentRef)
	return args.Error(0)
}

// MockProfileRepo
type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) Create(ctx context.Context, profile *domain.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}
func (m *MockProfileRepo) GetByID(ctx context.Context, id int64) (*domain.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}
func (m *MockProfileRepo) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}
func (m *MockProfileRepo) Update(ctx context.Context, profile *domain.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

// MockReturnRepo
type MockReturnRepo struct {
	mock.Mock
}

func (m *MockReturnRepo) Create(ctx context.Context, ret *domain.Return, items []domain.ReturnItem) error {
	args := m.Called(ctx, ret, items)
	return args.Error(0)
}
func (m *MockReturnRepo) GetByID(ctx context.Context, id int64) (*domain.Return, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Return), args.Error(1)
}
func (m *MockReturnRepo) Update(ctx context.Context, ret *domain.Return) error {
	args := m.Called(ctx, ret)
	return args.Error(0)
}
func (m *MockReturnRepo) ListByUser(ctx context.Context, userID int64, page, pageSize int64) ([]domain.Return, int64, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.Return), args.Get(1).(int64), args.Error(2)
}
func (m *MockReturnRepo) ListPending(ctx context.Context, page, pageSize int64) ([]domain.Return, int64, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]domain.Return), args.Get(1).(int64), args.Error(2)
}
func (m *MockReturnRepo) CreateStoreCredit(ctx context.Context, credit *domain.StoreCredit) error {
	args := m.Called(ctx, credit)
	return args.Error(0)
}

// MockProductKeyRepo
type MockProductKeyRepo struct {
	mock.Mock
}

func (m *MockProductKeyRepo) AddKeys(ctx context.Context, productID int64, keys []string) error {
	args := m.Called(ctx, productID, keys)
	return args.Error(0)
}
func (m *MockProductKeyRepo) CountAvailable(ctx context.Context, productID int64) (int64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockProductKeyRepo) AssignToOrder(ctx context.Context, orderID, productID, n int64) ([]domain.ProductKey, error) {
	args := m.Called(ctx, orderID, productID, n)
	return args.Get(0).([]domain.ProductKey), args.Error(1)
}
func (m *MockProductKeyRepo) ListByOrder(ctx context.Context, orderID int64) ([]domain.ProductKey, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]domain.ProductKey), args.Error(1)
}

// MockOutboxRepo
type MockOutboxRepo struct {
	mock.Mock
}

func (m *MockOutboxRepo) Enqueue(ctx context.Context, task *domain.OutboxTask) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}
func (m *MockOutboxRepo) ClaimDue(ctx context.Context, limit int64) ([]domain.OutboxTask, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.OutboxTask), args.Error(1)
}
func (m *MockOutboxRepo) MarkDone(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockOutboxRepo) MarkFailed(ctx context.Context, id string, attempts int, lastError string, retryAt time.Time, final bool) error {
	args := m.Called(ctx, id, attempts, lastError, retryAt, final)
	return args.Error(0)
}

// MockGateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateCheckout(ctx context.Context, req *payment.CheckoutRequest) (*payment.CheckoutSession, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.CheckoutSession), args.Error(1)
}

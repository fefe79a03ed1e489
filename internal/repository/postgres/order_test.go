package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/Jalbyte/Mercador-Backend-sub000/internal/domain"
)

func TestOrderRepository_Confirm(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewOrderRepository(db)
	ctx := context.Background()

	t.Run("PendingOrderConfirmed", func(t *testing.T) {
		mock.ExpectExec("UPDATE orders SET status").
			WithArgs(int64(10), domain.OrderStatusConfirmed, domain.PaymentMethodPoints, "", int64(10000), domain.OrderStatusPending).
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.Confirm(ctx, 10, domain.PaymentMethodPoints, "", 10000)
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("AlreadyConfirmedAffectsNoRows", func(t *testing.T) {
		mock.ExpectExec("UPDATE orders SET status").
			WithArgs(int64(10), domain.OrderStatusConfirmed, domain.PaymentMethodGateway, "pay_1", int64(0), domain.OrderStatusPending).
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.Confirm(ctx, 10, domain.PaymentMethodGateway, "pay_1", 0)
		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestOrderRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewOrderRepository(db)
	ctx := context.Background()

	t.Run("InsertsOrderAndItemsInOneTransaction", func(t *testing.T) {
		now := time.Now()
		order := &domain.Order{UserID: 1, Status: domain.OrderStatusPending, TotalAmount: 100000}
		items := []domain.OrderItem{
			{ProductID: 7, ProductName: "Office Suite", Quantity: 2, UnitPrice: 30000},
			{ProductID: 8, ProductName: "Antivirus", Quantity: 1, UnitPrice: 40000},
		}

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO orders").
			WithArgs(order.UserID, order.Status, order.TotalAmount).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(10, now, now))
		mock.ExpectQuery("INSERT INTO order_items").
			WithArgs(int64(10), int64(7), "Office Suite", int64(2), int64(30000)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectQuery("INSERT INTO order_items").
			WithArgs(int64(10), int64(8), "Antivirus", int64(1), int64(40000)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
		mock.ExpectCommit()

		err := repo.Create(ctx, order, items)
		assert.NoError(t, err)
		assert.Equal(t, int64(10), order.ID)
		assert.Len(t, order.Items, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

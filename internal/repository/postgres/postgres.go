package postgres

import (
	"database/sql"

	"github.com/Jalbyte/Mercador-Backend-sub000/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.ProfileRepository
	repository.ProductRepository
	repository.ProductKeyRepository
	repository.CartRepository
	repository.OrderRepository
	repository.PointsRepository
	repository.OrderPointsRepository
	repository.ReturnRepository
	repository.OutboxRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                    db,
		ProfileRepository:     NewProfileRepository(db),
		ProductRepository:     NewProductRepository(db),
		ProductKeyRepository:  NewProductKeyRepository(db),
		CartRepository:        NewCartRepository(db),
		OrderRepository:       NewOrderRepository(db),
		PointsRepository:      NewPointsRepository(db),
		OrderPointsRepository: NewOrderPointsRepository(db),
		ReturnRepository:      NewReturnRepository(db),
		OutboxRepository:      NewOutboxRepository(db),
	}
}

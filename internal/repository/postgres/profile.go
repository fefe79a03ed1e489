package postgres

import (
	"context"
	"database/sql"

	"github.com/Jalbyte/Mercador-Backend-sub000/internal/domain"
	"github.com/Jalbyte/Mercador-Backend-sub000/internal/repository"
)

type profileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, p *domain.Profile) error {
	query := `INSERT INTO profiles (email, password_hash, full_name, role, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, now(), now()) RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query, p.Email, p.PasswordHash, p.FullName, p.Role).
		Scan(&p.ID, &p.CreatedOn, &p.UpdatedOn)
}

func (r *profileRepository) GetByID(ctx context.Context, id int64) (*domain.Profile, error) {
	query := `SELECT id, email, password_hash, COALESCE(full_name, ''), role, created_at, updated_at
	          FROM profiles WHERE id = $1`
	var p domain.Profile
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&p.ID, &p.Email, &p.PasswordHash, &p.FullName, &p.Role, &p.CreatedOn, &p.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepository) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	query := `SELECT id, email, password_hash, COALESCE(full_name, ''), role, created_at, updated_at
	          FROM profiles WHERE email = $1`
	var p domain.Profile
	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&p.ID, &p.Email, &p.PasswordHash, &p.FullName, &p.Role, &p.CreatedOn, &p.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepository) Update(ctx context.Context, p *domain.Profile) error {
	query := `UPDATE profiles SET email = $2, full_name = $3, role = $4, updated_at = now() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, p.ID, p.Email, p.FullName, p.Role)
	return err
}

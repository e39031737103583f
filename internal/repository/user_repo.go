package repository

import (
	"context"

	"learnhub_backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRow(ctx,
		`SELECT id, COALESCE(username, ''), COALESCE(first_name, ''), created_at
		 FROM users
		 WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Username, &u.FirstName, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRow(ctx,
		`SELECT id, COALESCE(username, ''), COALESCE(first_name, ''), created_at
		 FROM users
		 WHERE username = $1`,
		username,
	).Scan(&u.ID, &u.Username, &u.FirstName, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a user row. Account management belongs to the external
// auth subsystem; this exists for seeding and the dev auth endpoint.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO users (username, first_name)
		 VALUES ($1, $2)
		 RETURNING id, created_at`,
		u.Username, u.FirstName,
	).Scan(&u.ID, &u.CreatedAt)
}

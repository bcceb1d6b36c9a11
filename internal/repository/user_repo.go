package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anyulbade/payment-wallet-service/internal/model"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Get(ctx context.Context, id string) (*model.User, error) {
	u := &model.User{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, email, country_code, currency FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Name, &u.Email, &u.CountryCode, &u.Currency)
	if err != nil {
		return nil, notFound(err, "user "+id)
	}
	return u, nil
}

func (r *UserRepository) Save(ctx context.Context, u *model.User) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, name, email, country_code, currency)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, email = EXCLUDED.email,
			country_code = EXCLUDED.country_code, currency = EXCLUDED.currency`,
		u.ID, u.Name, u.Email, u.CountryCode, u.Currency)
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/anyulbade/payment-wallet-service/internal/model"
	"github.com/anyulbade/payment-wallet-service/seeddata"
)

// DemoUsers returns the embedded demo accounts. The upstream identity
// provider owns real users; these exist so a fresh deployment can be driven
// end to end.
func DemoUsers() ([]*model.User, error) {
	var users []*model.User
	if err := json.Unmarshal(seeddata.UsersJSON, &users); err != nil {
		return nil, fmt.Errorf("parse users JSON: %w", err)
	}
	for _, u := range users {
		if u.ID == "" || u.CountryCode == "" || u.Currency == "" {
			return nil, fmt.Errorf("parse users JSON: incomplete user %+v", *u)
		}
	}
	return users, nil
}

// SeedData inserts the demo users. Existing rows are left untouched, so it is
// safe to run on every start.
func SeedData(ctx context.Context, pool *pgxpool.Pool) error {
	users, err := DemoUsers()
	if err != nil {
		return err
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, u := range users {
		batch.Queue(
			`INSERT INTO users (id, name, email, country_code, currency)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO NOTHING`,
			u.ID, u.Name, u.Email, u.CountryCode, u.Currency,
		)
	}

	br := tx.SendBatch(ctx, batch)
	inserted := 0
	for _, u := range users {
		tag, err := br.Exec()
		if err != nil {
			br.Close()
			return fmt.Errorf("insert user %s: %w", u.ID, err)
		}
		inserted += int(tag.RowsAffected())
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit seed data: %w", err)
	}

	log.Info().Int("inserted", inserted).Int("total", len(users)).Msg("seeded demo users")
	return nil
}

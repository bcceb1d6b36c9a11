package kvstore

import (
	"context"
	"fmt"

	"github.com/anyulbade/payment-wallet-service/internal/model"
)

type UserStore struct {
	kv KV
}

func NewUserStore(kv KV) *UserStore {
	return &UserStore{kv: kv}
}

func (s *UserStore) Get(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	found, err := getJSON(ctx, s.kv, usersNamespace, id, &u)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("user %s: %w", id, model.ErrNotFound)
	}
	return &u, nil
}

func (s *UserStore) Save(ctx context.Context, u *model.User) error {
	return setJSON(ctx, s.kv, usersNamespace, u.ID, u)
}

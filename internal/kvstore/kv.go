// Package kvstore persists the wallet domain in a namespaced key-value store:
// one wallet record, one payment method list, one transaction list and one
// audit list per user, each a JSON document under the user's namespace.
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/anyulbade/payment-wallet-service/internal/model"
)

// KV is the persistence port. Get returns model.ErrNotFound for missing keys.
// SetMulti writes all keys of one namespace atomically.
type KV interface {
	Get(ctx context.Context, namespace, key string) ([]byte, error)
	Set(ctx context.Context, namespace, key string, value []byte) error
	SetMulti(ctx context.Context, namespace string, values map[string][]byte) error
	Ping(ctx context.Context) error
}

const (
	usersNamespace = "users"

	walletKey         = "wallet"
	paymentMethodsKey = "payment_methods"
	transactionsKey   = "transactions"
	auditKey          = "audit"
)

func getJSON(ctx context.Context, kv KV, namespace, key string, dst any) (bool, error) {
	data, err := kv.Get(ctx, namespace, key)
	if errors.Is(err, model.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get %s/%s: %w", namespace, key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("decode %s/%s: %w", namespace, key, err)
	}
	return true, nil
}

func setJSON(ctx context.Context, kv KV, namespace, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", namespace, key, err)
	}
	if err := kv.Set(ctx, namespace, key, data); err != nil {
		return fmt.Errorf("set %s/%s: %w", namespace, key, err)
	}
	return nil
}

package kvstore

import (
	"context"

	"github.com/anyulbade/payment-wallet-service/internal/model"
)

type PaymentMethodStore struct {
	kv KV
}

func NewPaymentMethodStore(kv KV) *PaymentMethodStore {
	return &PaymentMethodStore{kv: kv}
}

func (s *PaymentMethodStore) ListByUser(ctx context.Context, userID string) ([]*model.PaymentMethod, error) {
	var methods []*model.PaymentMethod
	if _, err := getJSON(ctx, s.kv, userID, paymentMethodsKey, &methods); err != nil {
		return nil, err
	}
	return methods, nil
}

// ReplaceAll overwrites the user's method list in one write.
func (s *PaymentMethodStore) ReplaceAll(ctx context.Context, userID string, methods []*model.PaymentMethod) error {
	if methods == nil {
		methods = []*model.PaymentMethod{}
	}
	return setJSON(ctx, s.kv, userID, paymentMethodsKey, methods)
}

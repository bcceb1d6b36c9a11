package kvstore

import (
	"context"

	"github.com/anyulbade/payment-wallet-service/internal/model"
)

type AuditStore struct {
	kv KV
}

func NewAuditStore(kv KV) *AuditStore {
	return &AuditStore{kv: kv}
}

func (s *AuditStore) Record(ctx context.Context, e *model.AuditEvent) error {
	events, err := s.ListByUser(ctx, e.UserID)
	if err != nil {
		return err
	}
	return setJSON(ctx, s.kv, e.UserID, auditKey, append(events, e))
}

func (s *AuditStore) ListByUser(ctx context.Context, userID string) ([]*model.AuditEvent, error) {
	var events []*model.AuditEvent
	if _, err := getJSON(ctx, s.kv, userID, auditKey, &events); err != nil {
		return nil, err
	}
	return events, nil
}

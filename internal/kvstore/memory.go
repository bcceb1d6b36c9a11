package kvstore

import (
	"context"
	"sync"

	"github.com/anyulbade/payment-wallet-service/internal/model"
)

// MemoryKV keeps everything in process memory. Values are copied on the way in
// and out so callers cannot alias stored bytes.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]map[string][]byte)}
}

func (m *MemoryKV) Get(_ context.Context, namespace, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[namespace][key]
	if !ok {
		return nil, model.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryKV) Set(_ context.Context, namespace, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.bucket(namespace)[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryKV) SetMulti(_ context.Context, namespace string, values map[string][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b := m.bucket(namespace)
	for k, v := range values {
		b[k] = append([]byte(nil), v...)
	}
	return nil
}

func (m *MemoryKV) Ping(context.Context) error { return nil }

func (m *MemoryKV) bucket(namespace string) map[string][]byte {
	b, ok := m.data[namespace]
	if !ok {
		b = make(map[string][]byte)
		m.data[namespace] = b
	}
	return b
}

package kvstore

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/anyulbade/payment-wallet-service/internal/model"
)

// RedisKV stores documents under "<prefix>:<namespace>:<key>".
type RedisKV struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisKV(client redis.UniversalClient, prefix string) *RedisKV {
	return &RedisKV{client: client, prefix: prefix}
}

// NewRedisClient works with both a single node and a cluster.
func NewRedisClient(addrs []string, password string, db int) redis.UniversalClient {
	if len(addrs) > 1 {
		return redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:    addrs,
			Password: password,
		})
	}
	return redis.NewClient(&redis.Options{
		Addr:     addrs[0],
		Password: password,
		DB:       db,
	})
}

func (r *RedisKV) key(namespace, key string) string {
	// Hash tag on the namespace keeps one user's keys in one cluster slot so
	// SetMulti can run as a single MULTI/EXEC.
	return r.prefix + ":{" + namespace + "}:" + key
}

func (r *RedisKV) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	v, err := r.client.Get(ctx, r.key(namespace, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, model.ErrNotFound
	}
	return v, err
}

func (r *RedisKV) Set(ctx context.Context, namespace, key string, value []byte) error {
	return r.client.Set(ctx, r.key(namespace, key), value, 0).Err()
}

func (r *RedisKV) SetMulti(ctx context.Context, namespace string, values map[string][]byte) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range values {
			pipe.Set(ctx, r.key(namespace, k), v, 0)
		}
		return nil
	})
	return err
}

func (r *RedisKV) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

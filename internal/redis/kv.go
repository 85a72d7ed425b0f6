package redisclient

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/hackgods/vet-appointments/internal/storage"
)

var _ storage.Provider = (*KV)(nil)

// KV stores each slot as a plain Redis string under <namespace><key>.
type KV struct {
	client    redis.UniversalClient
	namespace string
}

func NewKV(client redis.UniversalClient, namespace string) *KV {
	return &KV{client: client, namespace: namespace}
}

func (k *KV) Name() string { return "redis" }

func (k *KV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, storage.ErrEmptyKey
	}
	b, err := k.client.Get(ctx, k.namespace+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return b, true, nil
}

// Set writes without expiry; the slot lives until overwritten.
func (k *KV) Set(ctx context.Context, key string, blob []byte) error {
	if key == "" {
		return storage.ErrEmptyKey
	}
	if err := k.client.Set(ctx, k.namespace+key, blob, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (k *KV) Ping(ctx context.Context) error {
	return k.client.Ping(ctx).Err()
}

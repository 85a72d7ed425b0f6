package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hackgods/vet-appointments/internal/storage"
)

var _ storage.Provider = (*KV)(nil)

// KV keeps slots in the storage_slots table, one row per key.
type KV struct {
	pool *pgxpool.Pool
}

func NewKV(pool *pgxpool.Pool) *KV {
	return &KV{pool: pool}
}

// EnsureSchema creates the slot table if it is missing.
func (k *KV) EnsureSchema(ctx context.Context) error {
	_, err := k.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS storage_slots (
			key        TEXT PRIMARY KEY,
			value      BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("create storage_slots: %w", err)
	}
	return nil
}

func (k *KV) Name() string { return "postgres" }

func (k *KV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, storage.ErrEmptyKey
	}
	var blob []byte
	err := k.pool.QueryRow(ctx, `
		SELECT value
		FROM storage_slots
		WHERE key = $1
	`, key).Scan(&blob)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select slot %s: %w", key, err)
	}
	return blob, true, nil
}

func (k *KV) Set(ctx context.Context, key string, blob []byte) error {
	if key == "" {
		return storage.ErrEmptyKey
	}
	if blob == nil {
		blob = []byte{}
	}
	_, err := k.pool.Exec(ctx, `
		INSERT INTO storage_slots (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value,
		    updated_at = now()
	`, key, blob)
	if err != nil {
		return fmt.Errorf("upsert slot %s: %w", key, err)
	}
	return nil
}

func (k *KV) Ping(ctx context.Context) error {
	return k.pool.Ping(ctx)
}

// Package storage defines the key-value slot contract the appointment store
// persists into, plus an in-memory implementation.
package storage

import (
	"context"
	"errors"
)

var ErrEmptyKey = errors.New("storage key must not be empty")

// Provider is a key-value slot store. Each key holds one opaque blob that is
// replaced wholesale on every Set.
type Provider interface {
	// Get returns the blob under key. found is false when nothing was ever
	// written there.
	Get(ctx context.Context, key string) (blob []byte, found bool, err error)
	Set(ctx context.Context, key string, blob []byte) error
	Name() string
}

// Pinger is implemented by providers backed by a remote service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ping checks p if it supports it and reports nil otherwise.
func Ping(ctx context.Context, p Provider) error {
	if pg, ok := p.(Pinger); ok {
		return pg.Ping(ctx)
	}
	return nil
}

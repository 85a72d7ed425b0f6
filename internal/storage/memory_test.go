package storage

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if _, found, err := m.Get(ctx, "appointments"); err != nil || found {
		t.Fatalf("empty get: found=%t err=%v", found, err)
	}

	blob := []byte(`[{"id":"1"}]`)
	if err := m.Set(ctx, "appointments", blob); err != nil {
		t.Fatalf("set: %v", err)
	}
	blob[0] = 'X'

	got, found, err := m.Get(ctx, "appointments")
	if err != nil || !found {
		t.Fatalf("get: found=%t err=%v", found, err)
	}
	if string(got) != `[{"id":"1"}]` {
		t.Fatalf("stored blob was aliased: %s", got)
	}

	if err := m.Set(ctx, "appointments", []byte(`[]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, _, _ = m.Get(ctx, "appointments")
	if string(got) != `[]` {
		t.Fatalf("overwrite not applied: %s", got)
	}
}

func TestMemoryRejectsEmptyKey(t *testing.T) {
	m := NewMemory()
	if err := m.Set(context.Background(), "", nil); !errors.Is(err, ErrEmptyKey) {
		t.Fatalf("set err = %v", err)
	}
	if _, _, err := m.Get(context.Background(), ""); !errors.Is(err, ErrEmptyKey) {
		t.Fatalf("get err = %v", err)
	}
}

func TestMemoryHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewMemory().Set(ctx, "k", []byte("v")); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

func TestPingWithoutPinger(t *testing.T) {
	if err := Ping(context.Background(), NewMemory()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

package sqlite

import (
	"context"
	"path/filepath"
	"testing"
)

func TestStoreSetGetAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "vet.db")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, found, err := store.Get(ctx, "appointments"); err != nil || found {
		t.Fatalf("get before set: found=%t err=%v", found, err)
	}
	if err := store.Set(ctx, "appointments", []byte(`[1]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(ctx, "appointments", []byte(`[1,2]`)); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := store.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { _ = reopened.Close() })

	got, found, err := reopened.Get(ctx, "appointments")
	if err != nil || !found {
		t.Fatalf("get: found=%t err=%v", found, err)
	}
	if string(got) != `[1,2]` {
		t.Fatalf("unexpected blob %s", got)
	}
}

func TestStoreEmptyBlob(t *testing.T) {
	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if err := store.Set(context.Background(), "appointments", nil); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, found, err := store.Get(context.Background(), "appointments")
	if err != nil || !found || len(got) != 0 {
		t.Fatalf("got=%q found=%t err=%v", got, found, err)
	}
}

package appointment

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/hackgods/vet-appointments/internal/storage"
)

var t0 = time.Date(2024, time.March, 4, 9, 30, 0, 0, time.UTC)

// seqIDs hands out "1", "2", ... so tests can predict ids.
type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (s *seqIDs) NextID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return strconv.Itoa(s.n)
}

// failingProvider fails Get and/or Set on demand.
type failingProvider struct {
	storage.Provider
	getErr error
	setErr error
}

func (f *failingProvider) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	return f.Provider.Get(ctx, key)
}

func (f *failingProvider) Set(ctx context.Context, key string, blob []byte) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.Provider.Set(ctx, key, blob)
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingNotifier) Notify(_ context.Context, ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordingNotifier) outcomes() []Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Outcome, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Outcome
	}
	return out
}

func rexFields() Fields {
	return Fields{
		PatientName:     "Rex",
		OwnerName:       "Ana",
		OwnerEmail:      "a@x.com",
		AppointmentDate: t0,
		Symptoms:        "cough",
	}
}

func newTestController(t *testing.T, opts ...ControllerOption) (*Controller, *Store, *storage.Memory) {
	t.Helper()
	mem := storage.NewMemory()
	store := NewStore(mem)
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	base := []ControllerOption{
		WithIDSource(&seqIDs{}),
		WithClock(ClockFunc(func() time.Time { return t0 })),
	}
	return NewController(store, append(base, opts...)...), store, mem
}

// flush waits for queued writes and returns what landed in the slot.
func flush(t *testing.T, store *Store, p storage.Provider) []Record {
	t.Helper()
	if err := store.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}
	blob, found, err := p.Get(context.Background(), store.Key())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !found {
		return nil
	}
	records, err := decodeRecords(blob)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return records
}

func sameRecords(a, b []Record) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		x, y := a[i], b[i]
		if x.ID != y.ID || x.PatientName != y.PatientName || x.OwnerName != y.OwnerName ||
			x.OwnerEmail != y.OwnerEmail || x.OwnerPhone != y.OwnerPhone || x.Symptoms != y.Symptoms ||
			!x.AppointmentDate.Equal(y.AppointmentDate) {
			return false
		}
	}
	return true
}

var errBoom = errors.New("boom")

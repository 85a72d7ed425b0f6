package appointment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/hackgods/vet-appointments/internal/storage"
)

const DefaultKey = "appointments"

var ErrDuplicateID = errors.New("appointment id already present")

// Store is the ordered in-memory collection of records and its mirror in a
// single storage slot. Every mutation hands a full snapshot to the Writer.
type Store struct {
	provider storage.Provider
	key      string
	writer   Writer
	onError  ErrorHook

	mu      sync.RWMutex
	records []Record
}

type StoreOption func(*Store)

// WithKey overrides the slot key (default "appointments").
func WithKey(key string) StoreOption {
	return func(s *Store) { s.key = key }
}

// WithWriter replaces the default queued writer.
func WithWriter(w Writer) StoreOption {
	return func(s *Store) { s.writer = w }
}

// WithErrorHook registers a callback for load and persist failures.
func WithErrorHook(h ErrorHook) StoreOption {
	return func(s *Store) { s.onError = h }
}

func NewStore(provider storage.Provider, opts ...StoreOption) *Store {
	s := &Store{provider: provider, key: DefaultKey}
	for _, opt := range opts {
		opt(s)
	}
	if s.writer == nil {
		s.writer = NewQueuedWriter(provider, 0, 0, s.onError)
	}
	return s
}

func (s *Store) Key() string { return s.key }

func (s *Store) Provider() storage.Provider { return s.provider }

// Load replaces the collection with the persisted one. A missing slot gives
// an empty collection. On any failure the error is logged and returned and
// the collection is left as it was.
func (s *Store) Load(ctx context.Context) error {
	blob, found, err := s.provider.Get(ctx, s.key)
	if err != nil {
		return s.fail("load", err)
	}

	var records []Record
	if found {
		records, err = decodeRecords(blob)
		if err != nil {
			return s.fail("decode", err)
		}
	}

	s.mu.Lock()
	s.records = records
	s.mu.Unlock()

	log.Printf("loaded %d appointments from %s key=%s", len(records), s.provider.Name(), s.key)
	return nil
}

// Persist writes the current collection to the slot. The write happens in
// the background; failures are logged only.
func (s *Store) Persist(ctx context.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.persistLocked(ctx)
}

// persistLocked must run under s.mu so snapshots reach the writer in
// mutation order.
func (s *Store) persistLocked(ctx context.Context) {
	blob, err := encodeRecords(s.records)
	if err != nil {
		_ = s.fail("encode", err)
		return
	}
	s.writer.Write(ctx, s.key, blob)
}

// Insert appends r. It refuses an id that is already present.
func (s *Store) Insert(ctx context.Context, r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexLocked(r.ID) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateID, r.ID)
	}
	s.records = append(s.records, r)
	s.persistLocked(ctx)
	return nil
}

// Replace overwrites the record with the given id in place. It reports false
// and changes nothing when id is absent.
func (s *Store) Replace(ctx context.Context, id string, r Record) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return false
	}
	r.ID = id
	s.records[i] = r
	s.persistLocked(ctx)
	return true
}

// Remove deletes the record with the given id. It reports false and changes
// nothing when id is absent.
func (s *Store) Remove(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return false
	}
	s.records = append(s.records[:i:i], s.records[i+1:]...)
	s.persistLocked(ctx)
	return true
}

func (s *Store) Find(id string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexLocked(id)
	if i < 0 {
		return Record{}, false
	}
	return s.records[i], true
}

func (s *Store) Has(id string) bool {
	_, ok := s.Find(id)
	return ok
}

// List returns a copy of the collection in insertion order.
func (s *Store) List() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Close flushes pending writes.
func (s *Store) Close(ctx context.Context) error {
	return s.writer.Close(ctx)
}

func (s *Store) indexLocked(id string) int {
	for i := range s.records {
		if s.records[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) fail(op string, err error) error {
	serr := &StorageError{Op: op, Key: s.key, Err: err}
	log.Printf("storage error: %v", serr)
	if s.onError != nil {
		s.onError(op, serr)
	}
	return serr
}

func encodeRecords(records []Record) ([]byte, error) {
	if records == nil {
		records = []Record{}
	}
	return json.Marshal(records)
}

// decodeRecords parses a persisted collection. appointmentDate is parsed back
// into a time.Time; a record whose date does not parse, or an id that
// appears twice, fails the whole blob.
func decodeRecords(blob []byte) ([]Record, error) {
	if len(bytes.TrimSpace(blob)) == 0 {
		return nil, nil
	}
	var records []Record
	if err := json.Unmarshal(blob, &records); err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if _, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, r.ID)
		}
		seen[r.ID] = struct{}{}
	}
	return records, nil
}

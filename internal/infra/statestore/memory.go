package statestore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/aurum-network/aurum/internal/domain"
)

// MemoryStore is the in-process Store used by tests and single-node runs.
// Invocations are serialized by a mutex; version stamps are still maintained
// and validated so behavior matches the SQLite store under contention.
type MemoryStore struct {
	mu      sync.Mutex
	state   map[string]memEntry
	history map[string][]Revision
	clock   domain.Clock
	sink    domain.EventSink
}

type memEntry struct {
	value   []byte
	version uint64
}

// NewMemoryStore creates an empty in-memory store. Both clock and sink may
// be nil.
func NewMemoryStore(clock domain.Clock, sink domain.EventSink) *MemoryStore {
	if clock == nil {
		clock = domain.RealClock{}
	}
	return &MemoryStore{
		state:   make(map[string]memEntry),
		history: make(map[string][]Revision),
		clock:   clock,
		sink:    sink,
	}
}

// memTx stages reads and writes for one invocation.
type memTx struct {
	store    *MemoryStore
	readSet  map[string]uint64
	writes   map[string][]byte
	writeLog []string // preserves first-write order for history
	events   []domain.Event
}

func (t *memTx) Get(key string) ([]byte, bool, error) {
	if v, ok := t.writes[key]; ok {
		return v, true, nil
	}
	e, ok := t.store.state[key]
	t.readSet[key] = e.version // version 0 records "read as absent"
	if !ok {
		return nil, false, nil
	}
	return e.value, true, nil
}

func (t *memTx) Put(key string, value []byte) error {
	if _, ok := t.writes[key]; !ok {
		t.writeLog = append(t.writeLog, key)
	}
	t.writes[key] = value
	return nil
}

func (t *memTx) List(prefix string, limit int) ([]KV, error) {
	seen := make(map[string]bool)
	var out []KV
	for k, v := range t.writes {
		if strings.HasPrefix(k, prefix) {
			out = append(out, KV{Key: k, Value: v})
			seen[k] = true
		}
	}
	for k, e := range t.store.state {
		if !seen[k] && strings.HasPrefix(k, prefix) {
			out = append(out, KV{Key: k, Value: e.value})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (t *memTx) History(key string) ([]Revision, error) {
	revs := t.store.history[key]
	out := make([]Revision, len(revs))
	copy(out, revs)
	return out, nil
}

func (t *memTx) Emit(name string, payload any) {
	t.events = append(t.events, marshalEvent(name, payload))
}

// Update implements Store.
func (s *MemoryStore) Update(ctx context.Context, fn func(Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{
		store:   s,
		readSet: make(map[string]uint64),
		writes:  make(map[string][]byte),
	}
	if err := fn(tx); err != nil {
		return err
	}

	// Read-set validation. Under the mutex nothing can have moved, but the
	// check keeps the commit contract identical across implementations.
	for k, ver := range tx.readSet {
		if s.state[k].version != ver {
			return fmt.Errorf("%w: key %s", ErrConflict, k)
		}
	}

	now := s.clock.Now()
	for _, k := range tx.writeLog {
		v := tx.writes[k]
		next := s.state[k].version + 1
		s.state[k] = memEntry{value: v, version: next}
		s.history[k] = append(s.history[k], Revision{Value: v, Version: next, Timestamp: now})
	}

	if s.sink != nil && len(tx.events) > 0 {
		s.sink.Publish(tx.events)
	}
	return nil
}

// View implements Store.
func (s *MemoryStore) View(ctx context.Context, fn func(Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{
		store:   s,
		readSet: make(map[string]uint64),
		writes:  make(map[string][]byte),
	}
	return fn(tx)
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }

// Len returns the number of live keys (test helper).
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state)
}

var _ Store = (*MemoryStore)(nil)

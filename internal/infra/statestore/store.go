// Package statestore implements the ledger store boundary: a key-value
// interface with per-invocation snapshot isolation. Every operation runs as a
// single atomic unit inside Update — either all staged writes and events
// commit, or none do. Per-key version stamps give optimistic concurrency:
// a commit fails with ErrConflict when a key read during the invocation was
// written by a concurrent one.
package statestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aurum-network/aurum/internal/domain"
)

// ErrConflict means a concurrent invocation wrote a key this invocation read.
// The caller may retry the whole invocation.
var ErrConflict = errors.New("ledger state changed during invocation")

// KV is one key-value pair returned by a range query.
type KV struct {
	Key   string
	Value []byte
}

// Revision is one historical value of a key.
type Revision struct {
	Value     []byte
	Version   uint64
	Timestamp time.Time
}

// Tx is the view of the ledger inside one invocation. All reads observe one
// consistent snapshot; writes are staged and become visible only on commit.
type Tx interface {
	// Get returns the value for key, or ok=false if absent.
	Get(key string) (value []byte, ok bool, err error)

	// Put stages a write. Staged writes are visible to later reads in the
	// same invocation.
	Put(key string, value []byte) error

	// List returns key-sorted pairs whose key starts with prefix.
	// limit <= 0 means no limit.
	List(prefix string, limit int) ([]KV, error)

	// History returns the committed revisions of key, oldest first.
	History(key string) ([]Revision, error)

	// Emit stages an event to publish after commit.
	Emit(name string, payload any)
}

// Store runs invocations against the ledger.
type Store interface {
	// Update runs fn atomically. If fn returns an error nothing is written
	// and no event is published.
	Update(ctx context.Context, fn func(Tx) error) error

	// View runs fn read-only against a consistent snapshot.
	View(ctx context.Context, fn func(Tx) error) error

	Close() error
}

// GetJSON reads key and unmarshals it into v. ok=false when absent.
func GetJSON(tx Tx, key string, v any) (bool, error) {
	raw, ok, err := tx.Get(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// PutJSON marshals v and stages it under key.
func PutJSON(tx Tx, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return tx.Put(key, raw)
}

// marshalEvent encodes an event payload, tolerating pre-encoded bytes.
func marshalEvent(name string, payload any) domain.Event {
	switch p := payload.(type) {
	case []byte:
		return domain.Event{Name: name, Payload: p}
	case json.RawMessage:
		return domain.Event{Name: name, Payload: p}
	default:
		raw, err := json.Marshal(payload)
		if err != nil {
			raw = []byte(fmt.Sprintf("%q", err.Error()))
		}
		return domain.Event{Name: name, Payload: raw}
	}
}

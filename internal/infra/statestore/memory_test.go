package statestore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aurum-network/aurum/internal/domain"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

// captureSink records every published batch for assertions.
type captureSink struct{ events []domain.Event }

func (s *captureSink) Publish(events []domain.Event) {
	s.events = append(s.events, events...)
}

func TestMemoryStoreRoundtrip(t *testing.T) {
	store := NewMemoryStore(nil, nil)
	ctx := context.Background()

	err := store.Update(ctx, func(tx Tx) error {
		return tx.Put("k1", []byte("v1"))
	})
	if err != nil {
		t.Fatalf("Update error = %v", err)
	}

	err = store.View(ctx, func(tx Tx) error {
		v, ok, err := tx.Get("k1")
		if err != nil {
			return err
		}
		if !ok || string(v) != "v1" {
			t.Errorf("Get(k1) = %q, %v", v, ok)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View error = %v", err)
	}
}

func TestMemoryStoreFailedUpdateLeavesNothing(t *testing.T) {
	sink := &captureSink{}
	store := NewMemoryStore(nil, sink)
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.Update(ctx, func(tx Tx) error {
		if err := tx.Put("a", []byte("1")); err != nil {
			return err
		}
		if err := tx.Put("b", []byte("2")); err != nil {
			return err
		}
		tx.Emit("ShouldNotPublish", map[string]string{"k": "v"})
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Update error = %v, want boom", err)
	}
	if store.Len() != 0 {
		t.Errorf("Len() = %d after failed update, want 0", store.Len())
	}
	if len(sink.events) != 0 {
		t.Errorf("published %d events from a failed update", len(sink.events))
	}
}

func TestMemoryStoreEventsPublishedAfterCommit(t *testing.T) {
	sink := &captureSink{}
	store := NewMemoryStore(nil, sink)
	ctx := context.Background()

	err := store.Update(ctx, func(tx Tx) error {
		tx.Emit("Transfer", map[string]string{"from": "a", "to": "b"})
		tx.Emit("Approval", map[string]string{"owner": "a"})
		return tx.Put("k", []byte("v"))
	})
	if err != nil {
		t.Fatalf("Update error = %v", err)
	}
	if len(sink.events) != 2 {
		t.Fatalf("published %d events, want 2", len(sink.events))
	}
	if sink.events[0].Name != "Transfer" || sink.events[1].Name != "Approval" {
		t.Errorf("event names = %s, %s", sink.events[0].Name, sink.events[1].Name)
	}
}

func TestMemoryStoreReadYourWrites(t *testing.T) {
	store := NewMemoryStore(nil, nil)
	ctx := context.Background()

	err := store.Update(ctx, func(tx Tx) error {
		if err := tx.Put("k", []byte("staged")); err != nil {
			return err
		}
		v, ok, err := tx.Get("k")
		if err != nil {
			return err
		}
		if !ok || string(v) != "staged" {
			t.Errorf("Get after Put = %q, %v, want staged write visible", v, ok)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Update error = %v", err)
	}
}

func TestMemoryStoreVersionsAndHistory(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}
	store := NewMemoryStore(clock, nil)
	ctx := context.Background()

	for i, v := range []string{"one", "two", "three"} {
		clock.now = clock.now.Add(time.Hour)
		err := store.Update(ctx, func(tx Tx) error {
			return tx.Put("k", []byte(v))
		})
		if err != nil {
			t.Fatalf("Update %d error = %v", i, err)
		}
	}

	err := store.View(ctx, func(tx Tx) error {
		revs, err := tx.History("k")
		if err != nil {
			return err
		}
		if len(revs) != 3 {
			t.Fatalf("len(history) = %d, want 3", len(revs))
		}
		for i, rev := range revs {
			if rev.Version != uint64(i+1) {
				t.Errorf("revs[%d].Version = %d, want %d", i, rev.Version, i+1)
			}
		}
		if string(revs[2].Value) != "three" {
			t.Errorf("latest revision = %q, want three", revs[2].Value)
		}
		if !revs[1].Timestamp.After(revs[0].Timestamp) {
			t.Errorf("history timestamps not increasing")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View error = %v", err)
	}
}

func TestMemoryStoreListPrefix(t *testing.T) {
	store := NewMemoryStore(nil, nil)
	ctx := context.Background()

	err := store.Update(ctx, func(tx Tx) error {
		for _, k := range []string{"stake:a", "stake:b", "stake:c", "wallet:x"} {
			if err := tx.Put(k, []byte(k)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Update error = %v", err)
	}

	err = store.View(ctx, func(tx Tx) error {
		kvs, err := tx.List("stake:", 0)
		if err != nil {
			return err
		}
		if len(kvs) != 3 {
			t.Fatalf("List(stake:) = %d keys, want 3", len(kvs))
		}
		if kvs[0].Key != "stake:a" || kvs[2].Key != "stake:c" {
			t.Errorf("List not key-ordered: %s .. %s", kvs[0].Key, kvs[2].Key)
		}

		limited, err := tx.List("stake:", 2)
		if err != nil {
			return err
		}
		if len(limited) != 2 {
			t.Errorf("List(stake:, 2) = %d keys, want 2", len(limited))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View error = %v", err)
	}
}

func TestMemoryStoreContextCancelled(t *testing.T) {
	store := NewMemoryStore(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.Update(ctx, func(tx Tx) error {
		return tx.Put("k", []byte("v"))
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Update on cancelled ctx error = %v, want context.Canceled", err)
	}
	if store.Len() != 0 {
		t.Errorf("Len() = %d, want 0", store.Len())
	}
}

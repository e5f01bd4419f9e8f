package wallet

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aurum-network/aurum/internal/domain"
	"github.com/aurum-network/aurum/internal/infra/statestore"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func newTestManager(t *testing.T) (*Manager, *fakeClock) {
	t.Helper()
	store := statestore.NewMemoryStore(nil, nil)
	clock := &fakeClock{now: time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)}
	return NewManager(store, clock, domain.NewStaticAuthorizer("admin")), clock
}

func TestCreateWalletDefaults(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	tests := []struct {
		user      string
		typ       string
		wantLimit string
	}{
		{"alice", "personal", "10000000000000000000000"},
		{"acme", "business", "100000000000000000000000"},
		{"vault", "custodial", "10000000000000000000000"},
	}
	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			w, err := m.CreateWallet(ctx, tt.user, tt.typ)
			if err != nil {
				t.Fatalf("CreateWallet error = %v", err)
			}
			if w.Status != domain.WalletActive {
				t.Errorf("status = %s, want active", w.Status)
			}
			if w.DailyLimit.String() != tt.wantLimit {
				t.Errorf("limit = %s, want %s", w.DailyLimit.String(), tt.wantLimit)
			}
			if !w.DailyUsed.IsZero() {
				t.Errorf("new wallet has used = %s", w.DailyUsed.String())
			}
		})
	}
}

func TestCreateWalletDuplicate(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	if _, err := m.CreateWallet(ctx, "alice", "personal"); err != nil {
		t.Fatalf("CreateWallet error = %v", err)
	}
	if _, err := m.CreateWallet(ctx, "alice", "business"); !errors.Is(err, domain.ErrWalletExists) {
		t.Fatalf("duplicate CreateWallet error = %v, want %v", err, domain.ErrWalletExists)
	}
	// The original wallet survives untouched.
	w, _ := m.GetWallet(ctx, "alice")
	if w.Type != domain.WalletPersonal {
		t.Errorf("wallet type = %s, want personal", w.Type)
	}
}

func TestCreateWalletInvalidType(t *testing.T) {
	m, _ := newTestManager(t)
	if _, err := m.CreateWallet(context.Background(), "alice", "offshore"); !errors.Is(err, domain.ErrInvalidWalletType) {
		t.Errorf("CreateWallet error = %v, want %v", err, domain.ErrInvalidWalletType)
	}
}

func TestUpdateStatusAuthorization(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()
	if _, err := m.CreateWallet(ctx, "alice", "personal"); err != nil {
		t.Fatalf("CreateWallet error = %v", err)
	}

	if _, err := m.UpdateStatus(ctx, "mallory", "alice", "suspended"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("stranger UpdateStatus error = %v, want %v", err, domain.ErrUnauthorized)
	}
	if _, err := m.UpdateStatus(ctx, "admin", "alice", "suspended"); err != nil {
		t.Fatalf("admin UpdateStatus error = %v", err)
	}
	w, err := m.UpdateStatus(ctx, "alice", "alice", "active")
	if err != nil {
		t.Fatalf("owner UpdateStatus error = %v", err)
	}
	if w.Status != domain.WalletActive {
		t.Errorf("status = %s, want active", w.Status)
	}
}

func TestUpdateDailyLimitCap(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()
	if _, err := m.CreateWallet(ctx, "alice", "personal"); err != nil {
		t.Fatalf("CreateWallet error = %v", err)
	}

	// One above the global maximum.
	if _, err := m.UpdateDailyLimit(ctx, "alice", "alice", "1000000000000000000000001"); !errors.Is(err, domain.ErrLimitTooHigh) {
		t.Errorf("over-cap UpdateDailyLimit error = %v, want %v", err, domain.ErrLimitTooHigh)
	}
	w, err := m.UpdateDailyLimit(ctx, "alice", "alice", "500")
	if err != nil {
		t.Fatalf("UpdateDailyLimit error = %v", err)
	}
	if w.DailyLimit.String() != "500" {
		t.Errorf("limit = %s, want 500", w.DailyLimit.String())
	}
}

func TestSendQuota(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()
	if _, err := m.CreateWallet(ctx, "alice", "personal"); err != nil {
		t.Fatalf("CreateWallet error = %v", err)
	}
	if _, err := m.UpdateDailyLimit(ctx, "alice", "alice", "100"); err != nil {
		t.Fatalf("UpdateDailyLimit error = %v", err)
	}

	if _, err := m.RecordTransaction(ctx, "alice", "alice", "60", "send", ""); err != nil {
		t.Fatalf("send 60 error = %v", err)
	}
	// Exactly reaching the limit is allowed.
	if _, err := m.RecordTransaction(ctx, "alice", "alice", "40", "send", ""); err != nil {
		t.Fatalf("send 40 error = %v", err)
	}
	// One past the limit is not.
	if _, err := m.RecordTransaction(ctx, "alice", "alice", "1", "send", ""); !errors.Is(err, domain.ErrQuotaExceeded) {
		t.Fatalf("send past limit error = %v, want %v", err, domain.ErrQuotaExceeded)
	}
	// Receives are never quota-bound.
	if _, err := m.RecordTransaction(ctx, "alice", "alice", "9999", "receive", ""); err != nil {
		t.Fatalf("receive error = %v", err)
	}
}

func TestSendQuotaResetsAfter24Hours(t *testing.T) {
	m, clock := newTestManager(t)
	ctx := context.Background()
	if _, err := m.CreateWallet(ctx, "alice", "personal"); err != nil {
		t.Fatalf("CreateWallet error = %v", err)
	}
	if _, err := m.UpdateDailyLimit(ctx, "alice", "alice", "100"); err != nil {
		t.Fatalf("UpdateDailyLimit error = %v", err)
	}
	if _, err := m.RecordTransaction(ctx, "alice", "alice", "100", "send", ""); err != nil {
		t.Fatalf("send error = %v", err)
	}

	// 23h59m later the window is still the same day.
	clock.now = clock.now.Add(24*time.Hour - time.Minute)
	if _, err := m.RecordTransaction(ctx, "alice", "alice", "1", "send", ""); !errors.Is(err, domain.ErrQuotaExceeded) {
		t.Fatalf("send inside window error = %v, want %v", err, domain.ErrQuotaExceeded)
	}

	// Exactly 24h after the last reset counts as elapsed.
	clock.now = clock.now.Add(time.Minute)
	if _, err := m.RecordTransaction(ctx, "alice", "alice", "100", "send", ""); err != nil {
		t.Fatalf("send after reset error = %v", err)
	}

	w, _ := m.GetWallet(ctx, "alice")
	if w.DailyUsed.String() != "100" {
		t.Errorf("used after reset = %s, want 100", w.DailyUsed.String())
	}
	if !w.LastResetDate.Equal(clock.now) {
		t.Errorf("LastResetDate = %s, want %s", w.LastResetDate, clock.now)
	}
}

func TestRecordTransactionInactiveWallet(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()
	if _, err := m.CreateWallet(ctx, "alice", "personal"); err != nil {
		t.Fatalf("CreateWallet error = %v", err)
	}
	if _, err := m.UpdateStatus(ctx, "admin", "alice", "suspended"); err != nil {
		t.Fatalf("UpdateStatus error = %v", err)
	}

	if _, err := m.RecordTransaction(ctx, "alice", "alice", "1", "send", ""); !errors.Is(err, domain.ErrWalletNotActive) {
		t.Errorf("send on suspended wallet error = %v, want %v", err, domain.ErrWalletNotActive)
	}
}

func TestListHistoryNewestFirst(t *testing.T) {
	m, clock := newTestManager(t)
	ctx := context.Background()
	if _, err := m.CreateWallet(ctx, "alice", "personal"); err != nil {
		t.Fatalf("CreateWallet error = %v", err)
	}

	for _, desc := range []string{"first", "second", "third"} {
		clock.now = clock.now.Add(time.Hour)
		if _, err := m.RecordTransaction(ctx, "alice", "alice", "10", "receive", desc); err != nil {
			t.Fatalf("RecordTransaction(%s) error = %v", desc, err)
		}
	}

	history, err := m.ListHistory(ctx, "alice", 2)
	if err != nil {
		t.Fatalf("ListHistory error = %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("len(history) = %d, want 2", len(history))
	}
	if history[0].Description != "third" || history[1].Description != "second" {
		t.Errorf("history order = %s, %s", history[0].Description, history[1].Description)
	}
}

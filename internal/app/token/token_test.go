package token

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/aurum-network/aurum/internal/domain"
	"github.com/aurum-network/aurum/internal/infra/statestore"
)

func newTestLedger(t *testing.T) (*Ledger, *statestore.MemoryStore) {
	t.Helper()
	store := statestore.NewMemoryStore(nil, nil)
	return NewLedger(store, domain.NewStaticAuthorizer("admin")), store
}

func initLedger(t *testing.T, l *Ledger, supply, owner string) {
	t.Helper()
	if _, err := l.InitSupply(context.Background(), "Aurum", "AUR", 18, supply, owner); err != nil {
		t.Fatalf("InitSupply error = %v", err)
	}
}

func mustBalance(t *testing.T, l *Ledger, addr, want string) {
	t.Helper()
	bal, err := l.BalanceOf(context.Background(), addr)
	if err != nil {
		t.Fatalf("BalanceOf(%s) error = %v", addr, err)
	}
	if bal.String() != want {
		t.Errorf("BalanceOf(%s) = %s, want %s", addr, bal.String(), want)
	}
}

func TestInitSupply(t *testing.T) {
	l, _ := newTestLedger(t)
	initLedger(t, l, "1000000", "treasury")

	sc, err := l.Supply(context.Background())
	if err != nil {
		t.Fatalf("Supply error = %v", err)
	}
	if sc.TotalSupply.String() != "1000000" || sc.Owner != "treasury" {
		t.Errorf("supply = %s owner %s", sc.TotalSupply.String(), sc.Owner)
	}
	mustBalance(t, l, "treasury", "1000000")
}

func TestInitSupplyTwiceFails(t *testing.T) {
	l, _ := newTestLedger(t)
	initLedger(t, l, "1000", "treasury")

	if _, err := l.InitSupply(context.Background(), "Aurum", "AUR", 18, "1000", "treasury"); err == nil {
		t.Error("second InitSupply succeeded")
	}
	mustBalance(t, l, "treasury", "1000")
}

func TestTransfer(t *testing.T) {
	l, _ := newTestLedger(t)
	initLedger(t, l, "1000", "alice")
	ctx := context.Background()

	if err := l.Transfer(ctx, "alice", "bob", "400"); err != nil {
		t.Fatalf("Transfer error = %v", err)
	}
	mustBalance(t, l, "alice", "600")
	mustBalance(t, l, "bob", "400")
}

func TestTransferInsufficientBalance(t *testing.T) {
	l, _ := newTestLedger(t)
	initLedger(t, l, "100", "alice")
	ctx := context.Background()

	err := l.Transfer(ctx, "alice", "bob", "101")
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("Transfer error = %v, want %v", err, domain.ErrInsufficientBalance)
	}
	// The failed transfer must leave both sides untouched.
	mustBalance(t, l, "alice", "100")
	mustBalance(t, l, "bob", "0")
}

func TestTransferRejectsZeroAmount(t *testing.T) {
	l, _ := newTestLedger(t)
	initLedger(t, l, "100", "alice")

	if err := l.Transfer(context.Background(), "alice", "bob", "0"); !errors.Is(err, domain.ErrNonPositiveAmount) {
		t.Errorf("Transfer(0) error = %v, want %v", err, domain.ErrNonPositiveAmount)
	}
}

func TestApproveOverwrites(t *testing.T) {
	l, _ := newTestLedger(t)
	initLedger(t, l, "1000", "alice")
	ctx := context.Background()

	if err := l.Approve(ctx, "alice", "bob", "500"); err != nil {
		t.Fatalf("Approve error = %v", err)
	}
	// Approve replaces, never accumulates.
	if err := l.Approve(ctx, "alice", "bob", "200"); err != nil {
		t.Fatalf("Approve error = %v", err)
	}
	allowance, err := l.AllowanceOf(ctx, "alice", "bob")
	if err != nil {
		t.Fatalf("AllowanceOf error = %v", err)
	}
	if allowance.String() != "200" {
		t.Errorf("allowance = %s, want 200", allowance.String())
	}
}

func TestTransferFrom(t *testing.T) {
	l, _ := newTestLedger(t)
	initLedger(t, l, "1000", "alice")
	ctx := context.Background()

	if err := l.Approve(ctx, "alice", "bob", "300"); err != nil {
		t.Fatalf("Approve error = %v", err)
	}
	if err := l.TransferFrom(ctx, "bob", "alice", "carol", "250"); err != nil {
		t.Fatalf("TransferFrom error = %v", err)
	}
	mustBalance(t, l, "alice", "750")
	mustBalance(t, l, "carol", "250")

	allowance, _ := l.AllowanceOf(ctx, "alice", "bob")
	if allowance.String() != "50" {
		t.Errorf("remaining allowance = %s, want 50", allowance.String())
	}

	// Exceeding the remainder fails with no partial effect.
	err := l.TransferFrom(ctx, "bob", "alice", "carol", "51")
	if !errors.Is(err, domain.ErrInsufficientAllowance) {
		t.Fatalf("TransferFrom error = %v, want %v", err, domain.ErrInsufficientAllowance)
	}
	mustBalance(t, l, "carol", "250")
	allowance, _ = l.AllowanceOf(ctx, "alice", "bob")
	if allowance.String() != "50" {
		t.Errorf("allowance after failed spend = %s, want 50", allowance.String())
	}
}

func TestTransferFromInsufficientBalanceKeepsAllowance(t *testing.T) {
	l, _ := newTestLedger(t)
	initLedger(t, l, "100", "alice")
	ctx := context.Background()

	if err := l.Approve(ctx, "alice", "bob", "500"); err != nil {
		t.Fatalf("Approve error = %v", err)
	}
	err := l.TransferFrom(ctx, "bob", "alice", "carol", "200")
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("TransferFrom error = %v, want %v", err, domain.ErrInsufficientBalance)
	}
	// Allowance and balance were staged together; the failure reverts both.
	allowance, _ := l.AllowanceOf(ctx, "alice", "bob")
	if allowance.String() != "500" {
		t.Errorf("allowance after failed spend = %s, want 500", allowance.String())
	}
}

func TestMintAuthorization(t *testing.T) {
	l, _ := newTestLedger(t)
	initLedger(t, l, "1000", "treasury")
	ctx := context.Background()

	if err := l.Mint(ctx, "mallory", "mallory", "100"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("Mint by stranger error = %v, want %v", err, domain.ErrUnauthorized)
	}
	if err := l.Mint(ctx, "treasury", "bob", "100"); err != nil {
		t.Fatalf("Mint by owner error = %v", err)
	}
	if err := l.Mint(ctx, "admin", "bob", "50"); err != nil {
		t.Fatalf("Mint by admin error = %v", err)
	}

	sc, _ := l.Supply(ctx)
	if sc.TotalSupply.String() != "1150" {
		t.Errorf("total supply = %s, want 1150", sc.TotalSupply.String())
	}
	mustBalance(t, l, "bob", "150")
}

func TestBurn(t *testing.T) {
	l, _ := newTestLedger(t)
	initLedger(t, l, "1000", "alice")
	ctx := context.Background()

	if err := l.Burn(ctx, "alice", "400"); err != nil {
		t.Fatalf("Burn error = %v", err)
	}
	mustBalance(t, l, "alice", "600")
	sc, _ := l.Supply(ctx)
	if sc.TotalSupply.String() != "600" {
		t.Errorf("total supply = %s, want 600", sc.TotalSupply.String())
	}

	if err := l.Burn(ctx, "alice", "601"); !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Errorf("Burn over balance error = %v, want %v", err, domain.ErrInsufficientBalance)
	}
}

// Conservation: after an arbitrary mix of operations the balances must sum
// exactly to the recorded total supply.
func TestConservation(t *testing.T) {
	l, _ := newTestLedger(t)
	initLedger(t, l, "1000000", "treasury")
	ctx := context.Background()

	steps := []func() error{
		func() error { return l.Transfer(ctx, "treasury", "alice", "300000") },
		func() error { return l.Transfer(ctx, "alice", "bob", "120000") },
		func() error { return l.Mint(ctx, "treasury", "carol", "50000") },
		func() error { return l.Burn(ctx, "bob", "20000") },
		func() error { return l.Approve(ctx, "alice", "bob", "99999") },
		func() error { return l.TransferFrom(ctx, "bob", "alice", "carol", "80000") },
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d error = %v", i, err)
		}
	}

	total := decimal.Zero
	for _, addr := range []string{"treasury", "alice", "bob", "carol"} {
		bal, err := l.BalanceOf(ctx, addr)
		if err != nil {
			t.Fatalf("BalanceOf(%s) error = %v", addr, err)
		}
		total = total.Add(bal)
	}
	sc, err := l.Supply(ctx)
	if err != nil {
		t.Fatalf("Supply error = %v", err)
	}
	if !total.Equal(sc.TotalSupply) {
		t.Errorf("sum of balances = %s, total supply = %s", total.String(), sc.TotalSupply.String())
	}
}

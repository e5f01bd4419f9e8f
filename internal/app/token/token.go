package token

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/aurum-network/aurum/internal/domain"
	"github.com/aurum-network/aurum/internal/infra/statestore"
)

// Ledger is the token accounting engine. All amount arguments arrive as
// decimal strings (the gateway never passes native numerics) and every
// operation is one atomic invocation against the store.
type Ledger struct {
	store statestore.Store
	auth  domain.Authorizer
}

// NewLedger creates the token engine.
func NewLedger(store statestore.Store, auth domain.Authorizer) *Ledger {
	return &Ledger{store: store, auth: auth}
}

// transferPayload is the JSON body of Transfer/Mint/Burn events.
type transferPayload struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

// approvalPayload is the JSON body of Approval events.
type approvalPayload struct {
	Owner   string `json:"owner"`
	Spender string `json:"spender"`
	Amount  string `json:"amount"`
}

// InitSupply creates the supply record and credits the full initial supply to
// the owner. It fails if the ledger is already initialized.
func (l *Ledger) InitSupply(ctx context.Context, name, symbol string, decimals int, totalSupply, owner string) (domain.SupplyConfig, error) {
	supply, err := domain.ParseAmount(totalSupply)
	if err != nil {
		return domain.SupplyConfig{}, err
	}
	if owner == "" {
		return domain.SupplyConfig{}, fmt.Errorf("%w: owner", domain.ErrMissingArgument)
	}
	sc := domain.SupplyConfig{
		Name:        name,
		Symbol:      symbol,
		Decimals:    decimals,
		TotalSupply: supply,
		Owner:       owner,
	}
	err = l.store.Update(ctx, func(tx statestore.Tx) error {
		if _, ok, err := tx.Get(SupplyKey); err != nil {
			return err
		} else if ok {
			return fmt.Errorf("token ledger already initialized")
		}
		if err := WriteSupply(tx, sc); err != nil {
			return err
		}
		if supply.IsPositive() {
			if err := Credit(tx, owner, supply); err != nil {
				return err
			}
		}
		tx.Emit(domain.EventMint, transferPayload{To: owner, Amount: supply.String()})
		return nil
	})
	return sc, err
}

// Transfer moves amount from the caller to another address.
func (l *Ledger) Transfer(ctx context.Context, caller, to, amount string) error {
	amt, err := domain.ParsePositiveAmount(amount)
	if err != nil {
		return err
	}
	if caller == "" || to == "" {
		return fmt.Errorf("%w: sender and recipient", domain.ErrMissingArgument)
	}
	return l.store.Update(ctx, func(tx statestore.Tx) error {
		if err := Move(tx, caller, to, amt); err != nil {
			return err
		}
		tx.Emit(domain.EventTransfer, transferPayload{From: caller, To: to, Amount: amt.String()})
		return nil
	})
}

// Approve sets (overwrites) the allowance granted by the caller to spender.
func (l *Ledger) Approve(ctx context.Context, caller, spender, amount string) error {
	amt, err := domain.ParseAmount(amount)
	if err != nil {
		return err
	}
	if caller == "" || spender == "" {
		return fmt.Errorf("%w: owner and spender", domain.ErrMissingArgument)
	}
	return l.store.Update(ctx, func(tx statestore.Tx) error {
		if err := WriteAllowance(tx, caller, spender, amt); err != nil {
			return err
		}
		tx.Emit(domain.EventApproval, approvalPayload{Owner: caller, Spender: spender, Amount: amt.String()})
		return nil
	})
}

// TransferFrom spends the caller's allowance on the from balance. Allowance
// and balance checks and updates are one atomic unit.
func (l *Ledger) TransferFrom(ctx context.Context, caller, from, to, amount string) error {
	amt, err := domain.ParsePositiveAmount(amount)
	if err != nil {
		return err
	}
	if caller == "" || from == "" || to == "" {
		return fmt.Errorf("%w: spender, owner and recipient", domain.ErrMissingArgument)
	}
	return l.store.Update(ctx, func(tx statestore.Tx) error {
		allowance, err := ReadAllowance(tx, from, caller)
		if err != nil {
			return err
		}
		if allowance.LessThan(amt) {
			return fmt.Errorf("%w: %s approved, %s requested",
				domain.ErrInsufficientAllowance, allowance.String(), amt.String())
		}
		if err := WriteAllowance(tx, from, caller, allowance.Sub(amt)); err != nil {
			return err
		}
		if err := Move(tx, from, to, amt); err != nil {
			return err
		}
		tx.Emit(domain.EventTransfer, transferPayload{From: from, To: to, Amount: amt.String()})
		return nil
	})
}

// Mint creates new supply and credits it to an address. Only the supply owner
// or an admin identity may mint. Supply and balance change together.
func (l *Ledger) Mint(ctx context.Context, caller, to, amount string) error {
	amt, err := domain.ParsePositiveAmount(amount)
	if err != nil {
		return err
	}
	if to == "" {
		return fmt.Errorf("%w: recipient", domain.ErrMissingArgument)
	}
	return l.store.Update(ctx, func(tx statestore.Tx) error {
		sc, err := ReadSupply(tx)
		if err != nil {
			return err
		}
		if caller != sc.Owner && !l.auth.IsAdmin(caller) {
			return fmt.Errorf("%w: mint requires the token owner", domain.ErrUnauthorized)
		}
		sc.TotalSupply = sc.TotalSupply.Add(amt)
		if err := WriteSupply(tx, sc); err != nil {
			return err
		}
		if err := Credit(tx, to, amt); err != nil {
			return err
		}
		tx.Emit(domain.EventMint, transferPayload{To: to, Amount: amt.String()})
		return nil
	})
}

// Burn destroys amount from the caller's balance, shrinking total supply
// symmetrically.
func (l *Ledger) Burn(ctx context.Context, caller, amount string) error {
	amt, err := domain.ParsePositiveAmount(amount)
	if err != nil {
		return err
	}
	if caller == "" {
		return fmt.Errorf("%w: caller", domain.ErrMissingArgument)
	}
	return l.store.Update(ctx, func(tx statestore.Tx) error {
		if err := Debit(tx, caller, amt); err != nil {
			return err
		}
		sc, err := ReadSupply(tx)
		if err != nil {
			return err
		}
		sc.TotalSupply = sc.TotalSupply.Sub(amt)
		if err := WriteSupply(tx, sc); err != nil {
			return err
		}
		tx.Emit(domain.EventBurn, transferPayload{From: caller, Amount: amt.String()})
		return nil
	})
}

// ─── Read Operations ────────────────────────────────────────────────────────

// BalanceOf returns the spendable balance of address.
func (l *Ledger) BalanceOf(ctx context.Context, address string) (decimal.Decimal, error) {
	var bal decimal.Decimal
	err := l.store.View(ctx, func(tx statestore.Tx) error {
		var err error
		bal, err = ReadBalance(tx, address)
		return err
	})
	return bal, err
}

// Supply returns the supply record.
func (l *Ledger) Supply(ctx context.Context) (domain.SupplyConfig, error) {
	var sc domain.SupplyConfig
	err := l.store.View(ctx, func(tx statestore.Tx) error {
		var err error
		sc, err = ReadSupply(tx)
		return err
	})
	return sc, err
}

// AllowanceOf returns the remaining allowance for (owner, spender).
func (l *Ledger) AllowanceOf(ctx context.Context, owner, spender string) (decimal.Decimal, error) {
	var amt decimal.Decimal
	err := l.store.View(ctx, func(tx statestore.Tx) error {
		var err error
		amt, err = ReadAllowance(tx, owner, spender)
		return err
	})
	return amt, err
}

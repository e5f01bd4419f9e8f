// Package token implements the token ledger: balances, total supply,
// transfers, allowances, mint and burn.
package token

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/aurum-network/aurum/internal/domain"
	"github.com/aurum-network/aurum/internal/infra/statestore"
)

// Ledger key layout. Balances and allowances are one record per key so the
// store's per-key versioning isolates unrelated accounts.
const (
	SupplyKey       = "config:supply"
	balancePrefix   = "balance:"
	allowancePrefix = "allowance:"
)

// BalanceKey returns the store key for an address balance.
func BalanceKey(address string) string { return balancePrefix + address }

// AllowanceKey returns the store key for an (owner, spender) allowance.
func AllowanceKey(owner, spender string) string {
	return allowancePrefix + owner + ":" + spender
}

// ─── Tx-Level State Helpers ─────────────────────────────────────────────────
// These operate inside an already-open invocation so the staking engine, the
// scheduler and governance action handlers can move tokens atomically with
// their own state changes.

// ReadSupply loads the supply record. The record must exist; the ledger is
// unusable before InitSupply.
func ReadSupply(tx statestore.Tx) (domain.SupplyConfig, error) {
	var sc domain.SupplyConfig
	ok, err := statestore.GetJSON(tx, SupplyKey, &sc)
	if err != nil {
		return sc, err
	}
	if !ok {
		return sc, fmt.Errorf("supply record missing: ledger not initialized")
	}
	return sc, nil
}

// WriteSupply stores the supply record.
func WriteSupply(tx statestore.Tx, sc domain.SupplyConfig) error {
	return statestore.PutJSON(tx, SupplyKey, sc)
}

// ReadBalance returns the spendable balance of address, zero if the balance
// record does not exist yet.
func ReadBalance(tx statestore.Tx, address string) (decimal.Decimal, error) {
	var b domain.Balance
	ok, err := statestore.GetJSON(tx, BalanceKey(address), &b)
	if err != nil {
		return decimal.Zero, err
	}
	if !ok {
		return decimal.Zero, nil
	}
	return b.Amount, nil
}

// Credit adds amount to the balance of address, creating the record lazily.
func Credit(tx statestore.Tx, address string, amount decimal.Decimal) error {
	bal, err := ReadBalance(tx, address)
	if err != nil {
		return err
	}
	return statestore.PutJSON(tx, BalanceKey(address), domain.Balance{
		Address: address,
		Amount:  bal.Add(amount),
	})
}

// Debit removes amount from the balance of address. Balances never go
// negative: an over-spend fails before any write is staged.
func Debit(tx statestore.Tx, address string, amount decimal.Decimal) error {
	bal, err := ReadBalance(tx, address)
	if err != nil {
		return err
	}
	if bal.LessThan(amount) {
		return fmt.Errorf("%w: %s has %s, needs %s",
			domain.ErrInsufficientBalance, address, bal.String(), amount.String())
	}
	return statestore.PutJSON(tx, BalanceKey(address), domain.Balance{
		Address: address,
		Amount:  bal.Sub(amount),
	})
}

// Move debits from and credits to in one invocation.
func Move(tx statestore.Tx, from, to string, amount decimal.Decimal) error {
	if err := Debit(tx, from, amount); err != nil {
		return err
	}
	return Credit(tx, to, amount)
}

// ReadAllowance returns the remaining allowance, zero if never approved.
func ReadAllowance(tx statestore.Tx, owner, spender string) (decimal.Decimal, error) {
	var a domain.Allowance
	ok, err := statestore.GetJSON(tx, AllowanceKey(owner, spender), &a)
	if err != nil {
		return decimal.Zero, err
	}
	if !ok {
		return decimal.Zero, nil
	}
	return a.Amount, nil
}

// WriteAllowance overwrites the allowance record (approve is not additive).
func WriteAllowance(tx statestore.Tx, owner, spender string, amount decimal.Decimal) error {
	return statestore.PutJSON(tx, AllowanceKey(owner, spender), domain.Allowance{
		Owner:   owner,
		Spender: spender,
		Amount:  amount,
	})
}

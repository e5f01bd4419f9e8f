// Package wallet implements per-user wallet records, a sliding daily spending
// quota, and the immutable wallet transaction history.
package wallet

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aurum-network/aurum/internal/domain"
	"github.com/aurum-network/aurum/internal/infra/statestore"
)

const (
	ConfigKey     = "config:wallet"
	walletPrefix  = "wallet:user:"
	historyPrefix = "wallettx:"
)

// WalletKey returns the store key for a user's wallet. Keying by user id is
// what enforces the one-wallet-per-user invariant.
func WalletKey(userID string) string { return walletPrefix + userID }

// historyKey orders a user's records by timestamp, then by a unique suffix.
func historyKey(userID string, ts time.Time, id string) string {
	return historyPrefix + userID + ":" + ts.UTC().Format(time.RFC3339Nano) + ":" + id
}

// Manager is the wallet engine.
type Manager struct {
	store statestore.Store
	clock domain.Clock
	auth  domain.Authorizer
}

// NewManager creates the wallet engine.
func NewManager(store statestore.Store, clock domain.Clock, auth domain.Authorizer) *Manager {
	if clock == nil {
		clock = domain.RealClock{}
	}
	return &Manager{store: store, clock: clock, auth: auth}
}

// readConfig loads the wallet config record, falling back to defaults.
// Re-read on every invocation.
func readConfig(tx statestore.Tx) (domain.WalletConfig, error) {
	cfg := domain.DefaultWalletConfig()
	if _, err := statestore.GetJSON(tx, ConfigKey, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

type walletPayload struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Field  string `json:"field,omitempty"`
	Value  string `json:"value,omitempty"`
}

// CreateWallet creates the single wallet for userID. A second create for the
// same user fails and leaves the existing wallet untouched.
func (m *Manager) CreateWallet(ctx context.Context, userID, walletType string) (domain.Wallet, error) {
	if userID == "" {
		return domain.Wallet{}, fmt.Errorf("%w: user id", domain.ErrMissingArgument)
	}
	wt, err := domain.ParseWalletType(walletType)
	if err != nil {
		return domain.Wallet{}, err
	}

	var w domain.Wallet
	err = m.store.Update(ctx, func(tx statestore.Tx) error {
		if _, ok, err := tx.Get(WalletKey(userID)); err != nil {
			return err
		} else if ok {
			return fmt.Errorf("%w: %s", domain.ErrWalletExists, userID)
		}
		cfg, err := readConfig(tx)
		if err != nil {
			return err
		}
		now := m.clock.Now()
		w = domain.Wallet{
			ID:            uuid.NewString(),
			UserID:        userID,
			Type:          wt,
			Status:        domain.WalletActive,
			DailyLimit:    cfg.DefaultLimitFor(wt),
			DailyUsed:     decimal.Zero,
			LastResetDate: now,
			CreatedAt:     now,
		}
		if err := statestore.PutJSON(tx, WalletKey(userID), w); err != nil {
			return err
		}
		tx.Emit(domain.EventWalletCreated, walletPayload{ID: w.ID, UserID: userID})
		return nil
	})
	return w, err
}

// UpdateStatus changes a wallet's status. Permitted only for an admin or the
// wallet's owner.
func (m *Manager) UpdateStatus(ctx context.Context, caller, userID, status string) (domain.Wallet, error) {
	st, err := domain.ParseWalletStatus(status)
	if err != nil {
		return domain.Wallet{}, err
	}
	var w domain.Wallet
	err = m.store.Update(ctx, func(tx statestore.Tx) error {
		ok, err := statestore.GetJSON(tx, WalletKey(userID), &w)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrWalletNotFound, userID)
		}
		if caller != w.UserID && !m.auth.IsAdmin(caller) {
			return fmt.Errorf("%w: wallet status change requires the owner or an admin", domain.ErrUnauthorized)
		}
		w.Status = st
		if err := statestore.PutJSON(tx, WalletKey(userID), w); err != nil {
			return err
		}
		tx.Emit(domain.EventWalletUpdated, walletPayload{ID: w.ID, UserID: userID, Field: "status", Value: status})
		return nil
	})
	return w, err
}

// UpdateDailyLimit changes a wallet's daily spending cap. Permitted only for
// an admin or the wallet's owner; the cap never exceeds the global maximum.
func (m *Manager) UpdateDailyLimit(ctx context.Context, caller, userID, limit string) (domain.Wallet, error) {
	lim, err := domain.ParsePositiveAmount(limit)
	if err != nil {
		return domain.Wallet{}, err
	}
	var w domain.Wallet
	err = m.store.Update(ctx, func(tx statestore.Tx) error {
		ok, err := statestore.GetJSON(tx, WalletKey(userID), &w)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrWalletNotFound, userID)
		}
		if caller != w.UserID && !m.auth.IsAdmin(caller) {
			return fmt.Errorf("%w: limit change requires the owner or an admin", domain.ErrUnauthorized)
		}
		cfg, err := readConfig(tx)
		if err != nil {
			return err
		}
		if lim.GreaterThan(cfg.MaxDailyLimit) {
			return fmt.Errorf("%w: maximum %s", domain.ErrLimitTooHigh, cfg.MaxDailyLimit.String())
		}
		w.DailyLimit = lim
		if err := statestore.PutJSON(tx, WalletKey(userID), w); err != nil {
			return err
		}
		tx.Emit(domain.EventWalletUpdated, walletPayload{ID: w.ID, UserID: userID, Field: "daily_limit", Value: lim.String()})
		return nil
	})
	return w, err
}

// RecordTransaction appends a permanent transaction record for userID. For
// sends the sliding daily quota applies: once at least 24 hours have elapsed
// since the last reset the window restarts (exactly at the 24h mark counts as
// elapsed), then the send must fit within the remaining limit.
func (m *Manager) RecordTransaction(ctx context.Context, caller, userID, amount, txType, description string) (domain.TransactionRecord, error) {
	amt, err := domain.ParsePositiveAmount(amount)
	if err != nil {
		return domain.TransactionRecord{}, err
	}
	tt, err := domain.ParseWalletTxType(txType)
	if err != nil {
		return domain.TransactionRecord{}, err
	}

	var rec domain.TransactionRecord
	err = m.store.Update(ctx, func(tx statestore.Tx) error {
		var w domain.Wallet
		ok, err := statestore.GetJSON(tx, WalletKey(userID), &w)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrWalletNotFound, userID)
		}
		if caller != w.UserID && !m.auth.IsAdmin(caller) {
			return fmt.Errorf("%w: transactions require the wallet owner or an admin", domain.ErrUnauthorized)
		}
		if w.Status != domain.WalletActive {
			return fmt.Errorf("%w: wallet is %s", domain.ErrWalletNotActive, w.Status)
		}

		now := m.clock.Now()
		if tt == domain.WalletTxSend {
			if now.Sub(w.LastResetDate) >= 24*time.Hour {
				w.DailyUsed = decimal.Zero
				w.LastResetDate = now
			}
			if w.DailyUsed.Add(amt).GreaterThan(w.DailyLimit) {
				return fmt.Errorf("%w: used %s of %s, tried %s",
					domain.ErrQuotaExceeded, w.DailyUsed.String(), w.DailyLimit.String(), amt.String())
			}
			w.DailyUsed = w.DailyUsed.Add(amt)
			if err := statestore.PutJSON(tx, WalletKey(userID), w); err != nil {
				return err
			}
		}

		rec = domain.TransactionRecord{
			ID:          uuid.NewString(),
			UserID:      userID,
			Type:        tt,
			Amount:      amt,
			Description: description,
			Timestamp:   now,
		}
		if err := statestore.PutJSON(tx, historyKey(userID, now, rec.ID), rec); err != nil {
			return err
		}
		tx.Emit(domain.EventWalletUpdated, map[string]string{
			"user_id": userID, "tx_id": rec.ID, "type": string(tt), "amount": amt.String(),
		})
		return nil
	})
	return rec, err
}

// GetWallet returns the wallet for userID.
func (m *Manager) GetWallet(ctx context.Context, userID string) (domain.Wallet, error) {
	var w domain.Wallet
	err := m.store.View(ctx, func(tx statestore.Tx) error {
		ok, err := statestore.GetJSON(tx, WalletKey(userID), &w)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrWalletNotFound, userID)
		}
		return nil
	})
	return w, err
}

// ListHistory returns the user's transaction records, newest first.
// limit <= 0 returns everything.
func (m *Manager) ListHistory(ctx context.Context, userID string, limit int) ([]domain.TransactionRecord, error) {
	var out []domain.TransactionRecord
	err := m.store.View(ctx, func(tx statestore.Tx) error {
		kvs, err := tx.List(historyPrefix+userID+":", 0)
		if err != nil {
			return err
		}
		for _, kv := range kvs {
			var r domain.TransactionRecord
			ok, err := statestore.GetJSON(tx, kv.Key, &r)
			if err != nil {
				return err
			}
			if ok {
				out = append(out, r)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

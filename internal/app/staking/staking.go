// Package staking implements time-locked balances with linear reward accrual.
// Staking debits the token ledger to lock funds; unstaking returns principal
// plus a newly minted reward after maturity, claimable exactly once.
package staking

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/aurum-network/aurum/internal/app/token"
	"github.com/aurum-network/aurum/internal/domain"
	"github.com/aurum-network/aurum/internal/infra/statestore"
)

const (
	ConfigKey   = "config:staking"
	stakePrefix = "stake:"
)

// StakeKey returns the store key for a stake id.
func StakeKey(id string) string { return stakePrefix + id }

// Engine is the staking engine.
type Engine struct {
	store statestore.Store
	clock domain.Clock
}

// NewEngine creates the staking engine.
func NewEngine(store statestore.Store, clock domain.Clock) *Engine {
	if clock == nil {
		clock = domain.RealClock{}
	}
	return &Engine{store: store, clock: clock}
}

// readConfig loads the staking config record, falling back to defaults when
// it has not been seeded yet. Config is re-read on every invocation.
func readConfig(tx statestore.Tx) (domain.StakingConfig, error) {
	cfg := domain.DefaultStakingConfig()
	if _, err := statestore.GetJSON(tx, ConfigKey, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

type stakePayload struct {
	ID     string `json:"id"`
	Owner  string `json:"owner"`
	Amount string `json:"amount"`
	Reward string `json:"reward,omitempty"`
}

// Stake locks amount from the caller's balance for durationDays.
// The lock is realized by debiting the spendable balance; total supply is
// unchanged.
func (e *Engine) Stake(ctx context.Context, caller, amount, durationDays string) (domain.Stake, error) {
	amt, err := domain.ParsePositiveAmount(amount)
	if err != nil {
		return domain.Stake{}, err
	}
	days, err := strconv.ParseInt(durationDays, 10, 64)
	if err != nil {
		return domain.Stake{}, fmt.Errorf("%w: duration %q", domain.ErrInvalidDuration, durationDays)
	}
	if caller == "" {
		return domain.Stake{}, fmt.Errorf("%w: owner", domain.ErrMissingArgument)
	}

	var stake domain.Stake
	err = e.store.Update(ctx, func(tx statestore.Tx) error {
		cfg, err := readConfig(tx)
		if err != nil {
			return err
		}
		if days < cfg.MinDurationDays {
			return fmt.Errorf("%w: %d days, minimum %d", domain.ErrInvalidDuration, days, cfg.MinDurationDays)
		}
		if err := token.Debit(tx, caller, amt); err != nil {
			return err
		}
		now := e.clock.Now()
		stake = domain.Stake{
			ID:           uuid.NewString(),
			Owner:        caller,
			Amount:       amt,
			DurationDays: days,
			StartDate:    now,
			EndDate:      now.AddDate(0, 0, int(days)),
		}
		if err := statestore.PutJSON(tx, StakeKey(stake.ID), stake); err != nil {
			return err
		}
		tx.Emit(domain.EventStake, stakePayload{ID: stake.ID, Owner: caller, Amount: amt.String()})
		return nil
	})
	return stake, err
}

// Unstake claims a matured stake: the owner receives principal plus the
// linear reward, and total supply grows by the reward only (the reward is
// newly minted). A stake can be claimed exactly once; a racing duplicate
// claim observes claimed=true and fails cleanly.
func (e *Engine) Unstake(ctx context.Context, caller, stakeID string) (domain.Stake, error) {
	if stakeID == "" {
		return domain.Stake{}, fmt.Errorf("%w: stake id", domain.ErrMissingArgument)
	}
	var stake domain.Stake
	err := e.store.Update(ctx, func(tx statestore.Tx) error {
		ok, err := statestore.GetJSON(tx, StakeKey(stakeID), &stake)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrStakeNotFound, stakeID)
		}
		if stake.Owner != caller {
			return fmt.Errorf("%w: stake belongs to another owner", domain.ErrUnauthorized)
		}
		if stake.Claimed {
			return fmt.Errorf("%w: %s", domain.ErrAlreadyClaimed, stakeID)
		}
		now := e.clock.Now()
		if !stake.Matured(now) {
			return fmt.Errorf("%w: matures at %s", domain.ErrStakeNotMatured, stake.EndDate.Format("2006-01-02"))
		}

		cfg, err := readConfig(tx)
		if err != nil {
			return err
		}
		reward := domain.StakeReward(stake.Amount, cfg.AnnualRatePercent, stake.DurationDays)

		if err := token.Credit(tx, caller, stake.Amount.Add(reward)); err != nil {
			return err
		}
		sc, err := token.ReadSupply(tx)
		if err != nil {
			return err
		}
		sc.TotalSupply = sc.TotalSupply.Add(reward)
		if err := token.WriteSupply(tx, sc); err != nil {
			return err
		}

		stake.Claimed = true
		stake.Reward = reward
		stake.ClaimedAt = &now
		if err := statestore.PutJSON(tx, StakeKey(stakeID), stake); err != nil {
			return err
		}
		tx.Emit(domain.EventUnstake, stakePayload{
			ID: stakeID, Owner: caller, Amount: stake.Amount.String(), Reward: reward.String(),
		})
		return nil
	})
	return stake, err
}

// GetStake returns one stake record.
func (e *Engine) GetStake(ctx context.Context, stakeID string) (domain.Stake, error) {
	var stake domain.Stake
	err := e.store.View(ctx, func(tx statestore.Tx) error {
		ok, err := statestore.GetJSON(tx, StakeKey(stakeID), &stake)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrStakeNotFound, stakeID)
		}
		return nil
	})
	return stake, err
}

// ListStakes returns all stakes of owner, oldest key first.
func (e *Engine) ListStakes(ctx context.Context, owner string) ([]domain.Stake, error) {
	var out []domain.Stake
	err := e.store.View(ctx, func(tx statestore.Tx) error {
		kvs, err := tx.List(stakePrefix, 0)
		if err != nil {
			return err
		}
		for _, kv := range kvs {
			var s domain.Stake
			ok, err := statestore.GetJSON(tx, kv.Key, &s)
			if err != nil {
				return err
			}
			if ok && s.Owner == owner {
				out = append(out, s)
			}
		}
		return nil
	})
	return out, err
}

// Package daemon holds the process-level configuration and start-up seeding
// for the ledger daemon. Ledger behavior is governed by config records that
// live in the ledger itself; the TOML file only seeds those records on an
// empty store and configures the process (listen address, store driver,
// sweep cadence).
package daemon

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/aurum-network/aurum/internal/app/governance"
	"github.com/aurum-network/aurum/internal/app/staking"
	"github.com/aurum-network/aurum/internal/app/wallet"
	"github.com/aurum-network/aurum/internal/domain"
	"github.com/aurum-network/aurum/internal/infra/statestore"
)

// Config is the daemon configuration, loaded from TOML.
type Config struct {
	API       APIConfig        `toml:"api"`
	Store     StoreConfig      `toml:"store"`
	Token     TokenConfig      `toml:"token"`
	Staking   StakingConfig    `toml:"staking"`
	Gov       GovernanceConfig `toml:"governance"`
	Wallet    WalletConfig     `toml:"wallet"`
	Scheduler SchedulerConfig  `toml:"scheduler"`
	Admins    []string         `toml:"admins"`
}

// APIConfig configures the HTTP listener.
type APIConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns the listen address.
func (c APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StoreConfig selects and configures the state store backend.
type StoreConfig struct {
	Driver string `toml:"driver"` // "memory" or "sqlite"
	Path   string `toml:"path"`   // sqlite database file
}

// TokenConfig seeds the supply record on an empty store.
type TokenConfig struct {
	Name          string `toml:"name"`
	Symbol        string `toml:"symbol"`
	Decimals      int    `toml:"decimals"`
	InitialSupply string `toml:"initial_supply"`
	Owner         string `toml:"owner"`
}

// StakingConfig seeds the staking config record on an empty store.
type StakingConfig struct {
	MinDurationDays   int64 `toml:"min_duration_days"`
	AnnualRatePercent int64 `toml:"annual_rate_percent"`
}

// GovernanceConfig seeds the governance config record on an empty store.
type GovernanceConfig struct {
	VotingPeriodDays         int64  `toml:"voting_period_days"`
	ExecutionDelayDays       int64  `toml:"execution_delay_days"`
	ApprovalThresholdPercent int64  `toml:"approval_threshold_percent"`
	MinTokensToVote          string `toml:"min_tokens_to_vote"`
	MinTokensToPropose       string `toml:"min_tokens_to_propose"`
}

// WalletConfig seeds the wallet config record on an empty store.
type WalletConfig struct {
	PersonalDailyLimit  string `toml:"personal_daily_limit"`
	BusinessDailyLimit  string `toml:"business_daily_limit"`
	CustodialDailyLimit string `toml:"custodial_daily_limit"`
	MaxDailyLimit       string `toml:"max_daily_limit"`
}

// SchedulerConfig configures the background sweep.
type SchedulerConfig struct {
	SweepInterval string `toml:"sweep_interval"` // Go duration, "" disables
}

// SweepEvery parses the sweep interval; zero means disabled.
func (c SchedulerConfig) SweepEvery() (time.Duration, error) {
	if c.SweepInterval == "" {
		return 0, nil
	}
	return time.ParseDuration(c.SweepInterval)
}

// DefaultConfig returns the defaults used when no config file exists.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 8780,
		},
		Store: StoreConfig{
			Driver: "sqlite",
			Path:   filepath.Join(defaultHome(), "ledger.db"),
		},
		Token: TokenConfig{
			Name:     "Aurum",
			Symbol:   "AUR",
			Decimals: 18,
		},
		Staking: StakingConfig{
			MinDurationDays:   30,
			AnnualRatePercent: 5,
		},
		Gov: GovernanceConfig{
			VotingPeriodDays:         7,
			ExecutionDelayDays:       2,
			ApprovalThresholdPercent: 67,
			MinTokensToVote:          "1000000000000000000",
			MinTokensToPropose:       "100000000000000000000",
		},
		Wallet: WalletConfig{
			PersonalDailyLimit:  "10000000000000000000000",
			BusinessDailyLimit:  "100000000000000000000000",
			CustodialDailyLimit: "10000000000000000000000",
			MaxDailyLimit:       "1000000000000000000000000",
		},
		Scheduler: SchedulerConfig{
			SweepInterval: "1m",
		},
	}
}

func defaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".aurum"
	}
	return filepath.Join(home, ".aurum")
}

// LoadConfig reads the TOML file at path, falling back to defaults for any
// section the file omits. A missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = filepath.Join(defaultHome(), "config.toml")
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ─── Seeding ────────────────────────────────────────────────────────────────

// Seed writes the ledger-resident config records on an empty store. Records
// already present are left untouched: once the ledger is live, parameter
// changes flow through governance, not the config file.
func Seed(ctx context.Context, store statestore.Store, cfg Config) error {
	return store.Update(ctx, func(tx statestore.Tx) error {
		if err := seedStaking(tx, cfg.Staking); err != nil {
			return err
		}
		if err := seedGovernance(tx, cfg.Gov); err != nil {
			return err
		}
		return seedWallet(tx, cfg.Wallet)
	})
}

func seedStaking(tx statestore.Tx, c StakingConfig) error {
	var existing domain.StakingConfig
	ok, err := statestore.GetJSON(tx, staking.ConfigKey, &existing)
	if err != nil || ok {
		return err
	}
	return statestore.PutJSON(tx, staking.ConfigKey, domain.StakingConfig{
		MinDurationDays:   c.MinDurationDays,
		AnnualRatePercent: c.AnnualRatePercent,
	})
}

func seedGovernance(tx statestore.Tx, c GovernanceConfig) error {
	var existing domain.GovernanceConfig
	ok, err := statestore.GetJSON(tx, governance.ConfigKey, &existing)
	if err != nil || ok {
		return err
	}
	minVote, err := domain.ParseAmount(c.MinTokensToVote)
	if err != nil {
		return fmt.Errorf("min_tokens_to_vote: %w", err)
	}
	minPropose, err := domain.ParseAmount(c.MinTokensToPropose)
	if err != nil {
		return fmt.Errorf("min_tokens_to_propose: %w", err)
	}
	return statestore.PutJSON(tx, governance.ConfigKey, domain.GovernanceConfig{
		VotingPeriodDays:         c.VotingPeriodDays,
		ExecutionDelayDays:       c.ExecutionDelayDays,
		ApprovalThresholdPercent: c.ApprovalThresholdPercent,
		MinTokensToVote:          minVote,
		MinTokensToPropose:       minPropose,
	})
}

func seedWallet(tx statestore.Tx, c WalletConfig) error {
	var existing domain.WalletConfig
	ok, err := statestore.GetJSON(tx, wallet.ConfigKey, &existing)
	if err != nil || ok {
		return err
	}
	personal, err := domain.ParseAmount(c.PersonalDailyLimit)
	if err != nil {
		return fmt.Errorf("personal_daily_limit: %w", err)
	}
	business, err := domain.ParseAmount(c.BusinessDailyLimit)
	if err != nil {
		return fmt.Errorf("business_daily_limit: %w", err)
	}
	custodial, err := domain.ParseAmount(c.CustodialDailyLimit)
	if err != nil {
		return fmt.Errorf("custodial_daily_limit: %w", err)
	}
	maxLimit, err := domain.ParseAmount(c.MaxDailyLimit)
	if err != nil {
		return fmt.Errorf("max_daily_limit: %w", err)
	}
	return statestore.PutJSON(tx, wallet.ConfigKey, domain.WalletConfig{
		PersonalDailyLimit:  personal,
		BusinessDailyLimit:  business,
		CustodialDailyLimit: custodial,
		MaxDailyLimit:       maxLimit,
	})
}

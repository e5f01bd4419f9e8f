package domain

import "github.com/shopspring/decimal"

// ─── Ledger-Resident Config Records ─────────────────────────────────────────
// These are not in-memory globals: each record lives in the ledger store and
// is re-read at the start of every invocation, never cached across calls.
// The TOML file only seeds them on first run.

// StakingConfig governs stake creation and reward accrual.
type StakingConfig struct {
	MinDurationDays   int64 `json:"min_duration_days"`
	AnnualRatePercent int64 `json:"annual_rate_percent"`
}

// DefaultStakingConfig returns the reference staking parameters.
func DefaultStakingConfig() StakingConfig {
	return StakingConfig{
		MinDurationDays:   30,
		AnnualRatePercent: 5,
	}
}

// GovernanceConfig governs the proposal lifecycle.
//
// ApprovalThresholdPercent is the field the reference calls "quorum": the
// for-vs-against ratio required to approve, not a participation quorum over
// total supply.
//
// MinTokensToPropose is dead configuration: the reference defines it but
// never checks it in proposal creation, and that behavior is preserved.
type GovernanceConfig struct {
	VotingPeriodDays         int64           `json:"voting_period_days"`
	ExecutionDelayDays       int64           `json:"execution_delay_days"`
	ApprovalThresholdPercent int64           `json:"approval_threshold_percent"`
	MinTokensToVote          decimal.Decimal `json:"min_tokens_to_vote"`
	MinTokensToPropose       decimal.Decimal `json:"min_tokens_to_propose"`
}

// DefaultGovernanceConfig returns the reference governance parameters.
func DefaultGovernanceConfig() GovernanceConfig {
	return GovernanceConfig{
		VotingPeriodDays:         7,
		ExecutionDelayDays:       2,
		ApprovalThresholdPercent: 67,
		MinTokensToVote:          decimal.RequireFromString("1000000000000000000"),
		MinTokensToPropose:       decimal.RequireFromString("100000000000000000000"),
	}
}

// WalletConfig governs wallet creation defaults and the global limit cap.
type WalletConfig struct {
	PersonalDailyLimit  decimal.Decimal `json:"personal_daily_limit"`
	BusinessDailyLimit  decimal.Decimal `json:"business_daily_limit"`
	CustodialDailyLimit decimal.Decimal `json:"custodial_daily_limit"`
	MaxDailyLimit       decimal.Decimal `json:"max_daily_limit"`
}

// DefaultWalletConfig returns the reference wallet parameters.
// Business wallets carry the higher default cap.
func DefaultWalletConfig() WalletConfig {
	return WalletConfig{
		PersonalDailyLimit:  decimal.RequireFromString("10000000000000000000000"),
		BusinessDailyLimit:  decimal.RequireFromString("100000000000000000000000"),
		CustodialDailyLimit: decimal.RequireFromString("10000000000000000000000"),
		MaxDailyLimit:       decimal.RequireFromString("1000000000000000000000000"),
	}
}

// DefaultLimitFor returns the default daily limit for a wallet type.
func (c WalletConfig) DefaultLimitFor(t WalletType) decimal.Decimal {
	switch t {
	case WalletBusiness:
		return c.BusinessDailyLimit
	case WalletCustodial:
		return c.CustodialDailyLimit
	default:
		return c.PersonalDailyLimit
	}
}

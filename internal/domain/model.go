// Package domain contains pure business types with ZERO infrastructure imports.
// This is the innermost ring of clean architecture — it depends only on the
// decimal type used for monetary amounts.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Supply & Balances ──────────────────────────────────────────────────────

// SupplyConfig is the ledger-resident token supply record.
// TotalSupply always equals the sum of all balances; only mint, burn and
// stake-reward claims change it, and those operations update both sides
// inside one atomic invocation.
type SupplyConfig struct {
	Name        string          `json:"name"`
	Symbol      string          `json:"symbol"`
	Decimals    int             `json:"decimals"`
	TotalSupply decimal.Decimal `json:"total_supply"`
	Owner       string          `json:"owner"`
}

// Balance is a single address balance record. Balances are created lazily on
// first credit and never go negative.
type Balance struct {
	Address string          `json:"address"`
	Amount  decimal.Decimal `json:"amount"`
}

// Allowance is a delegated spending permission of Owner's balance granted to
// Spender. Approve overwrites (not additive); transferFrom decrements it
// atomically with the balance movement.
type Allowance struct {
	Owner   string          `json:"owner"`
	Spender string          `json:"spender"`
	Amount  decimal.Decimal `json:"amount"`
}

// ─── Staking ────────────────────────────────────────────────────────────────

// Stake is a time-locked balance earning a fixed linear annualized reward,
// claimable exactly once after maturity. While unclaimed and unexpired the
// staked amount is absent from the owner's spendable balance.
type Stake struct {
	ID           string          `json:"id"`
	Owner        string          `json:"owner"`
	Amount       decimal.Decimal `json:"amount"`
	DurationDays int64           `json:"duration_days"`
	StartDate    time.Time       `json:"start_date"`
	EndDate      time.Time       `json:"end_date"`
	Claimed      bool            `json:"claimed"`
	Reward       decimal.Decimal `json:"reward"`
	ClaimedAt    *time.Time      `json:"claimed_at,omitempty"`
}

// Matured reports whether the stake can be claimed at the given instant.
func (s Stake) Matured(now time.Time) bool {
	return !now.Before(s.EndDate)
}

// ─── Governance ─────────────────────────────────────────────────────────────

// ProposalStatus is the lifecycle phase of a proposal.
type ProposalStatus string

const (
	ProposalActive   ProposalStatus = "active"
	ProposalApproved ProposalStatus = "approved"
	ProposalRejected ProposalStatus = "rejected"
	ProposalExecuted ProposalStatus = "executed"
)

// VoteChoice is the direction of a single vote.
type VoteChoice string

const (
	VoteFor     VoteChoice = "for"
	VoteAgainst VoteChoice = "against"
	VoteAbstain VoteChoice = "abstain"
)

// ParseVoteChoice validates a wire-format vote choice.
func ParseVoteChoice(s string) (VoteChoice, error) {
	switch VoteChoice(s) {
	case VoteFor, VoteAgainst, VoteAbstain:
		return VoteChoice(s), nil
	}
	return "", ErrInvalidChoice
}

// VoteRecord stores one address's irrevocable vote on a proposal.
type VoteRecord struct {
	Choice VoteChoice      `json:"choice"`
	Weight decimal.Decimal `json:"weight"`
	CastAt time.Time       `json:"cast_at"`
}

// Proposal is a governance proposal.
// State machine: active → {approved|rejected} (decided once, only after
// VotingEndDate) → executed (only if approved, only after ExecutionDate,
// only once).
type Proposal struct {
	ID            string                `json:"id"`
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	Actions       []Action              `json:"actions"`
	Proposer      string                `json:"proposer"`
	Status        ProposalStatus        `json:"status"`
	CreatedAt     time.Time             `json:"created_at"`
	VotingEndDate time.Time             `json:"voting_end_date"`
	ExecutionDate time.Time             `json:"execution_date"`
	VotesFor      decimal.Decimal       `json:"votes_for"`
	VotesAgainst  decimal.Decimal       `json:"votes_against"`
	VotesAbstain  decimal.Decimal       `json:"votes_abstain"`
	Voters        map[string]VoteRecord `json:"voters"`
	Executed      bool                  `json:"executed"`
	// ExecutionResult is set once, when the proposal is executed.
	ExecutionResult *ExecutionResult `json:"execution_result,omitempty"`
}

// ExecutionResult records the outcome of dispatching a proposal's actions.
// A proposal stays executed even when individual actions fail; the per-action
// results carry the failure detail.
type ExecutionResult struct {
	Success    bool           `json:"success"`
	ExecutedAt time.Time      `json:"executed_at"`
	Actions    []ActionResult `json:"actions"`
}

// ActionResult is the outcome of one dispatched action.
type ActionResult struct {
	Index int        `json:"index"`
	Type  ActionType `json:"type"`
	OK    bool       `json:"ok"`
	Error string     `json:"error,omitempty"`
}

// ─── Wallets ────────────────────────────────────────────────────────────────

// WalletType classifies a wallet. Business wallets default to a higher
// daily spending cap.
type WalletType string

const (
	WalletPersonal  WalletType = "personal"
	WalletBusiness  WalletType = "business"
	WalletCustodial WalletType = "custodial"
)

// ParseWalletType validates a wire-format wallet type.
func ParseWalletType(s string) (WalletType, error) {
	switch WalletType(s) {
	case WalletPersonal, WalletBusiness, WalletCustodial:
		return WalletType(s), nil
	}
	return "", ErrInvalidWalletType
}

// WalletStatus is the operational state of a wallet.
type WalletStatus string

const (
	WalletActive    WalletStatus = "active"
	WalletSuspended WalletStatus = "suspended"
	WalletClosed    WalletStatus = "closed"
)

// ParseWalletStatus validates a wire-format wallet status.
func ParseWalletStatus(s string) (WalletStatus, error) {
	switch WalletStatus(s) {
	case WalletActive, WalletSuspended, WalletClosed:
		return WalletStatus(s), nil
	}
	return "", ErrInvalidWalletStatus
}

// Wallet is a per-user wallet record. Exactly one wallet exists per user.
// The daily quota is a sliding window: DailyUsed resets lazily once at least
// 24 hours have elapsed since LastResetDate, not at calendar-day boundaries.
type Wallet struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	Type          WalletType      `json:"type"`
	Status        WalletStatus    `json:"status"`
	DailyLimit    decimal.Decimal `json:"daily_limit"`
	DailyUsed     decimal.Decimal `json:"daily_used"`
	LastResetDate time.Time       `json:"last_reset_date"`
	CreatedAt     time.Time       `json:"created_at"`
}

// WalletTxType is the business reason for a wallet transaction record.
type WalletTxType string

const (
	WalletTxSend    WalletTxType = "send"
	WalletTxReceive WalletTxType = "receive"
	WalletTxStake   WalletTxType = "stake"
	WalletTxUnstake WalletTxType = "unstake"
)

// ParseWalletTxType validates a wire-format wallet transaction type.
func ParseWalletTxType(s string) (WalletTxType, error) {
	switch WalletTxType(s) {
	case WalletTxSend, WalletTxReceive, WalletTxStake, WalletTxUnstake:
		return WalletTxType(s), nil
	}
	return "", ErrInvalidTxType
}

// TransactionRecord is a permanent wallet ledger entry, never mutated after
// creation.
type TransactionRecord struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Type        WalletTxType    `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	Timestamp   time.Time       `json:"timestamp"`
}

// ─── Scheduled & Recurring Transactions ─────────────────────────────────────

// ScheduledTxStatus is the lifecycle state of a scheduled transaction.
// All non-scheduled states are terminal.
type ScheduledTxStatus string

const (
	ScheduledTxScheduled ScheduledTxStatus = "scheduled"
	ScheduledTxExecuted  ScheduledTxStatus = "executed"
	ScheduledTxCancelled ScheduledTxStatus = "cancelled"
	ScheduledTxFailed    ScheduledTxStatus = "failed"
)

// ScheduledTransaction is a single future-dated transfer awaiting an external
// trigger call at or after its execution date. Before the execution date only
// the sender may trigger it; once due, settlement is permissionless.
type ScheduledTransaction struct {
	ID            string            `json:"id"`
	From          string            `json:"from"`
	To            string            `json:"to"`
	Amount        decimal.Decimal   `json:"amount"`
	Description   string            `json:"description,omitempty"`
	ScheduledDate time.Time         `json:"scheduled_date"`
	ExecutionDate time.Time         `json:"execution_date"`
	Status        ScheduledTxStatus `json:"status"`
	ExecutedAt    *time.Time        `json:"executed_at,omitempty"`
	FailureReason string            `json:"failure_reason,omitempty"`
}

// Frequency is the cadence of a recurring transaction template.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// ParseFrequency validates a wire-format frequency.
func ParseFrequency(s string) (Frequency, error) {
	switch Frequency(s) {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return Frequency(s), nil
	}
	return "", ErrInvalidFrequency
}

// Next returns the execution date one period after the given one.
func (f Frequency) Next(t time.Time) time.Time {
	switch f {
	case FrequencyDaily:
		return t.AddDate(0, 0, 1)
	case FrequencyWeekly:
		return t.AddDate(0, 0, 7)
	case FrequencyMonthly:
		return t.AddDate(0, 1, 0)
	}
	return t
}

// RecurringTxStatus is the lifecycle state of a recurring template.
type RecurringTxStatus string

const (
	RecurringTxActive    RecurringTxStatus = "active"
	RecurringTxCancelled RecurringTxStatus = "cancelled"
	RecurringTxCompleted RecurringTxStatus = "completed"
)

// RecurringTransaction is a transfer template meant to re-execute on a fixed
// cadence until cancelled or its end date passes.
type RecurringTransaction struct {
	ID                string            `json:"id"`
	From              string            `json:"from"`
	To                string            `json:"to"`
	Amount            decimal.Decimal   `json:"amount"`
	Frequency         Frequency         `json:"frequency"`
	StartDate         time.Time         `json:"start_date"`
	EndDate           *time.Time        `json:"end_date,omitempty"`
	Status            RecurringTxStatus `json:"status"`
	NextExecutionDate time.Time         `json:"next_execution_date"`
	ExecutionCount    int64             `json:"execution_count"`
}

package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency. Every failure aborts
// the whole invocation with zero partial mutation; these sentinels classify
// what went wrong so callers can errors.Is against a kind.

var (
	// Validation errors
	ErrInvalidAmount       = errors.New("amount must be a non-negative integer")
	ErrNonPositiveAmount   = errors.New("amount must be positive")
	ErrMissingArgument     = errors.New("required argument missing")
	ErrInvalidChoice       = errors.New("invalid vote choice")
	ErrInvalidWalletType   = errors.New("invalid wallet type")
	ErrInvalidWalletStatus = errors.New("invalid wallet status")
	ErrInvalidTxType       = errors.New("invalid transaction type")
	ErrInvalidFrequency    = errors.New("invalid recurrence frequency")
	ErrInvalidDuration     = errors.New("stake duration must be at least the minimum")
	ErrDateNotFuture       = errors.New("execution date must be in the future")

	// Not-found errors
	ErrStakeNotFound     = errors.New("stake not found")
	ErrProposalNotFound  = errors.New("proposal not found")
	ErrWalletNotFound    = errors.New("wallet not found")
	ErrScheduledNotFound = errors.New("scheduled transaction not found")
	ErrRecurringNotFound = errors.New("recurring transaction not found")

	// Authorization errors
	ErrUnauthorized = errors.New("caller is not permitted to perform this operation")

	// State errors (wrong lifecycle phase)
	ErrAlreadyClaimed  = errors.New("stake already claimed")
	ErrStakeNotMatured = errors.New("stake has not reached its end date")
	ErrVotingClosed    = errors.New("voting period has ended")
	ErrVotingOpen      = errors.New("voting period has not ended")
	ErrAlreadyVoted    = errors.New("address has already voted on this proposal")
	ErrNotApproved     = errors.New("proposal is not approved")
	ErrAlreadyExecuted = errors.New("proposal already executed")
	ErrNotActive       = errors.New("record is not in an active state")
	ErrNotExecutable   = errors.New("execution date has not been reached")
	ErrWalletExists    = errors.New("a wallet already exists for this user")
	ErrWalletNotActive = errors.New("wallet is not active")

	// Business-rule errors
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrQuotaExceeded         = errors.New("daily spending limit exceeded")
	ErrBelowVoteThreshold    = errors.New("vote weight below the minimum required")
	ErrLimitTooHigh          = errors.New("daily limit exceeds the global maximum")
)

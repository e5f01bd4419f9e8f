package domain

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// ─── Amount Arithmetic ──────────────────────────────────────────────────────
// Amounts are decimal-string-encoded arbitrary-precision integers. Supplies
// scale to ~10^24, so machine integers and floats are never used; every
// arithmetic step goes through decimal.Decimal backed by big.Int.

// ParseAmount parses a decimal-string amount and requires it to be a
// non-negative integer.
func ParseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: amount", ErrMissingArgument)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if !d.IsInteger() || d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return d, nil
}

// ParsePositiveAmount parses a decimal-string amount and requires it to be a
// strictly positive integer.
func ParsePositiveAmount(s string) (decimal.Decimal, error) {
	d, err := ParseAmount(s)
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrNonPositiveAmount, s)
	}
	return d, nil
}

// StakeReward computes floor(amount * ratePercent * durationDays / 100 / 365):
// a flat annual rate, simple (non-compounding) interest. All numerators are
// multiplied first and the denominators divided last with truncating integer
// division, so the result is bit-exact at any magnitude.
func StakeReward(amount decimal.Decimal, ratePercent, durationDays int64) decimal.Decimal {
	num := new(big.Int).Set(amount.BigInt())
	num.Mul(num, big.NewInt(ratePercent))
	num.Mul(num, big.NewInt(durationDays))
	num.Quo(num, big.NewInt(100))
	num.Quo(num, big.NewInt(365))
	return decimal.NewFromBigInt(num, 0)
}

// ApprovalRatioMeets reports whether votesFor*100/(votesFor+votesAgainst)
// reaches thresholdPercent, using truncating integer division. Zero for and
// against votes never meet the threshold.
//
// Naming note: the governance config calls this a "quorum", but the
// computation is an approval threshold over for/against votes, not a
// participation quorum over total supply.
func ApprovalRatioMeets(votesFor, votesAgainst decimal.Decimal, thresholdPercent int64) bool {
	total := new(big.Int).Add(votesFor.BigInt(), votesAgainst.BigInt())
	if total.Sign() == 0 {
		return false
	}
	ratio := new(big.Int).Mul(votesFor.BigInt(), big.NewInt(100))
	ratio.Quo(ratio, total)
	return ratio.Cmp(big.NewInt(thresholdPercent)) >= 0
}

// Package bet validates stake intake before any balance mutation. All
// functions are pure; a rejection guarantees nothing was applied.
package bet

import (
	"errors"
	"regexp"

	"github.com/shopspring/decimal"
)

// Rejection reasons. Each maps to exactly one user-facing failure mode and
// is reported before any debit occurs.
var (
	ErrInvalidAmount     = errors.New("bet: invalid amount")
	ErrNoSelection       = errors.New("bet: no selection")
	ErrInsufficientFunds = errors.New("bet: insufficient funds")
)

// stakePattern admits digits with at most one fractional separator. This
// rejects signs, exponents, and multiple dots before the decimal parser
// ever sees the input.
var stakePattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// ParseStake parses raw text into a positive stake amount.
func ParseStake(raw string) (decimal.Decimal, error) {
	if !stakePattern.MatchString(raw) {
		return decimal.Zero, ErrInvalidAmount
	}
	stake, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if !stake.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return stake, nil
}

// Validate accepts or rejects a parsed stake against the current balance.
// needsSelection reflects the game's intake contract; hasSelection whether
// the caller supplied one.
func Validate(stake, balance decimal.Decimal, needsSelection, hasSelection bool) error {
	if !stake.IsPositive() {
		return ErrInvalidAmount
	}
	if stake.GreaterThan(balance) {
		return ErrInsufficientFunds
	}
	if needsSelection && !hasSelection {
		return ErrNoSelection
	}
	return nil
}

// Reason returns a stable machine-readable reason code for a rejection,
// or "" if err is not a bet rejection.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, ErrNoSelection):
		return "no_selection"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	}
	return ""
}

// Package core holds the domain model and the pure aggregation logic:
// currency conversion, budget matching and report computation. It performs
// no I/O; persistence hands it fully loaded, owner-scoped rows.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a positive decimal money amount from its string form.
// Both dot and comma decimal separators are accepted.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatAmount renders an amount for the JSON boundary, rounded half-up to
// two decimal places. Intermediate aggregation never rounds; only output does.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Percentage computes actual/budget*100. A zero budget yields zero rather
// than an error so that empty or degenerate budgets never break a report.
func Percentage(actual, budget decimal.Decimal) decimal.Decimal {
	if budget.IsZero() {
		return decimal.Zero
	}
	return actual.Div(budget).Mul(decimal.NewFromInt(100))
}

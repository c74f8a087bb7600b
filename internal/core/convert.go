package core

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// RateSource looks up the stored exchange rate for a currency pair with the
// latest effective date not after asOf. Implementations return ErrNotFound
// when no such rate exists for the exact pair; the converter handles the
// inverse-pair fallback itself.
type RateSource interface {
	EffectiveRate(ctx context.Context, from, to string, asOf Date) (decimal.Decimal, error)
}

// Converter converts money amounts between currencies using time-indexed
// rates from a RateSource.
type Converter struct {
	rates RateSource
}

func NewConverter(rates RateSource) *Converter {
	return &Converter{rates: rates}
}

// Convert converts amount from one currency to another as of a reference
// date. Identical currencies are an identity with no lookup. When only the
// opposite direction is stored, the rate is inverted. If neither direction
// has an applicable rate the call fails with *RateNotFoundError.
func (c *Converter) Convert(ctx context.Context, amount decimal.Decimal, from, to string, asOf Date) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}

	rate, err := c.rates.EffectiveRate(ctx, from, to, asOf)
	if err == nil {
		return amount.Mul(rate), nil
	}
	if !errors.Is(err, ErrNotFound) {
		return decimal.Zero, err
	}

	inverse, err := c.rates.EffectiveRate(ctx, to, from, asOf)
	if err == nil {
		return amount.Div(inverse), nil
	}
	if !errors.Is(err, ErrNotFound) {
		return decimal.Zero, err
	}

	return decimal.Zero, &RateNotFoundError{From: from, To: to, AsOf: asOf}
}

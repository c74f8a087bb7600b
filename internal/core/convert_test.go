package core

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

// stubRates serves fixed rates keyed by "FROM->TO", ignoring dates.
type stubRates map[string]decimal.Decimal

func (s stubRates) EffectiveRate(_ context.Context, from, to string, _ Date) (decimal.Decimal, error) {
	if rate, ok := s[from+"->"+to]; ok {
		return rate, nil
	}
	return decimal.Zero, ErrNotFound
}

func TestConvertIdentity(t *testing.T) {
	conv := NewConverter(stubRates{})
	asOf := NewDate(2024, 1, 10)

	for _, amount := range []string{"0", "1", "999.99", "0.01", "123456.789"} {
		a := decimal.RequireFromString(amount)
		got, err := conv.Convert(context.Background(), a, "ZAR", "ZAR", asOf)
		if err != nil {
			t.Fatalf("Convert(%s, ZAR, ZAR) returned error: %v", amount, err)
		}
		if !got.Equal(a) {
			t.Errorf("Convert(%s, ZAR, ZAR) = %s, want %s", amount, got, a)
		}
	}
}

func TestConvertDirectRate(t *testing.T) {
	conv := NewConverter(stubRates{"INR->ZAR": decimal.RequireFromString("0.15")})
	asOf := NewDate(2024, 1, 10)

	got, err := conv.Convert(context.Background(), decimal.NewFromInt(1000), "INR", "ZAR", asOf)
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	want := decimal.RequireFromString("150")
	if !got.Equal(want) {
		t.Errorf("Convert(1000, INR, ZAR) = %s, want %s", got, want)
	}
}

func TestConvertInverseFallback(t *testing.T) {
	// Only INR->ZAR stored; converting ZAR->INR must use 1/rate.
	conv := NewConverter(stubRates{"INR->ZAR": decimal.RequireFromString("0.15")})
	asOf := NewDate(2024, 1, 10)

	got, err := conv.Convert(context.Background(), decimal.NewFromInt(150), "ZAR", "INR", asOf)
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	want := decimal.NewFromInt(1000)
	if !got.Equal(want) {
		t.Errorf("Convert(150, ZAR, INR) = %s, want %s", got, want)
	}
}

func TestConvertRoundTrip(t *testing.T) {
	// One direction stored, the other derived by inversion: converting there
	// and back must land within rounding tolerance of the original.
	conv := NewConverter(stubRates{"EUR->ZAR": decimal.RequireFromString("19.73")})
	asOf := NewDate(2024, 6, 1)
	ctx := context.Background()

	for _, amount := range []string{"1", "0.01", "12345.67", "3.33"} {
		a := decimal.RequireFromString(amount)
		there, err := conv.Convert(ctx, a, "EUR", "ZAR", asOf)
		if err != nil {
			t.Fatalf("forward conversion failed: %v", err)
		}
		back, err := conv.Convert(ctx, there, "ZAR", "EUR", asOf)
		if err != nil {
			t.Fatalf("reverse conversion failed: %v", err)
		}
		tolerance := decimal.RequireFromString("0.005")
		if back.Sub(a).Abs().GreaterThan(tolerance) {
			t.Errorf("round trip of %s drifted to %s", amount, back)
		}
	}
}

func TestConvertRateNotFound(t *testing.T) {
	conv := NewConverter(stubRates{})
	asOf := NewDate(2024, 1, 10)

	_, err := conv.Convert(context.Background(), decimal.NewFromInt(100), "USD", "ZAR", asOf)
	if err == nil {
		t.Fatal("expected error for missing rate pair")
	}
	var rnf *RateNotFoundError
	if !errors.As(err, &rnf) {
		t.Fatalf("expected *RateNotFoundError, got %T: %v", err, err)
	}
	if rnf.From != "USD" || rnf.To != "ZAR" {
		t.Errorf("error names wrong pair: %v", rnf)
	}
	if !IsRateNotFound(err) {
		t.Error("IsRateNotFound should report true")
	}
}

func TestConvertPropagatesSourceError(t *testing.T) {
	boom := errors.New("db unavailable")
	conv := NewConverter(failingRates{err: boom})

	_, err := conv.Convert(context.Background(), decimal.NewFromInt(1), "USD", "ZAR", NewDate(2024, 1, 1))
	if !errors.Is(err, boom) {
		t.Fatalf("expected underlying source error, got %v", err)
	}
}

type failingRates struct{ err error }

func (f failingRates) EffectiveRate(context.Context, string, string, Date) (decimal.Decimal, error) {
	return decimal.Zero, f.err
}

package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// UpsertRate stores an exchange rate. Posting the same pair and effective
// date again updates the rate in place.
func (r *SQLiteRepository) UpsertRate(ctx context.Context, rate core.CurrencyRate) (core.CurrencyRate, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO currency_rates (user_id, from_currency, to_currency, rate, effective_date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, from_currency, to_currency, effective_date)
		 DO UPDATE SET rate = excluded.rate, updated_at = excluded.updated_at`,
		rate.UserID, rate.FromCurrency, rate.ToCurrency, rate.Rate.String(),
		rate.EffectiveDate.String(), now, now,
	)
	if err != nil {
		return core.CurrencyRate{}, fmt.Errorf("upsert rate: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil && id > 0 {
		rate.ID = id
	}
	rate.CreatedAt, rate.UpdatedAt = now, now
	return rate, nil
}

// ListRates returns the user's stored rates newest-first, optionally filtered
// by either side of the pair.
func (r *SQLiteRepository) ListRates(ctx context.Context, userID int64, from, to *string) ([]core.CurrencyRate, error) {
	query := `SELECT id, user_id, from_currency, to_currency, rate, effective_date, created_at, updated_at
	          FROM currency_rates WHERE user_id = ?`
	args := []any{userID}
	if from != nil {
		query += ` AND from_currency = ?`
		args = append(args, *from)
	}
	if to != nil {
		query += ` AND to_currency = ?`
		args = append(args, *to)
	}
	query += ` ORDER BY effective_date DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list rates: %w", err)
	}
	defer rows.Close()

	var out []core.CurrencyRate
	for rows.Next() {
		var (
			cr      core.CurrencyRate
			rateStr string
			dateStr string
		)
		if err := rows.Scan(&cr.ID, &cr.UserID, &cr.FromCurrency, &cr.ToCurrency, &rateStr, &dateStr, &cr.CreatedAt, &cr.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan rate: %w", err)
		}
		if cr.Rate, err = decimal.NewFromString(rateStr); err != nil {
			return nil, fmt.Errorf("parse rate %q: %w", rateStr, err)
		}
		if cr.EffectiveDate, err = core.ParseDate(dateStr); err != nil {
			return nil, fmt.Errorf("parse effective date %q: %w", dateStr, err)
		}
		out = append(out, cr)
	}
	return out, rows.Err()
}

// LatestRate returns the rate for the exact pair with the newest effective
// date not after asOf, or core.ErrNotFound. Inverse-pair fallback is the
// converter's concern, not storage's.
func (r *SQLiteRepository) LatestRate(ctx context.Context, userID int64, from, to string, asOf core.Date) (decimal.Decimal, error) {
	var rateStr string
	err := r.db.QueryRowContext(ctx,
		`SELECT rate FROM currency_rates
		 WHERE user_id = ? AND from_currency = ? AND to_currency = ? AND effective_date <= ?
		 ORDER BY effective_date DESC, id DESC LIMIT 1`,
		userID, from, to, asOf.String(),
	).Scan(&rateStr)
	if err != nil {
		return decimal.Zero, notFound(err)
	}
	rate, err := decimal.NewFromString(rateStr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse rate %q: %w", rateStr, err)
	}
	return rate, nil
}

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// BudgetFilter narrows ListBudgets. Nil fields are ignored; ActiveOn keeps
// only budgets whose period contains that date.
type BudgetFilter struct {
	CategoryID    *int64
	SubcategoryID *int64
	Currency      *string
	ActiveOn      *core.Date
	Limit         int
	Offset        int
}

func (r *SQLiteRepository) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (user_id, category_id, subcategory_id, amount, currency, start_date, end_date, period_type, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.UserID, b.CategoryID, nullID(b.SubcategoryID), b.Amount.String(), b.Currency,
		b.StartDate.String(), b.EndDate.String(), string(b.PeriodType), now, now,
	)
	if err != nil {
		return core.Budget{}, fmt.Errorf("create budget: %w", err)
	}
	b.ID, err = res.LastInsertId()
	if err != nil {
		return core.Budget{}, fmt.Errorf("create budget id: %w", err)
	}
	b.CreatedAt, b.UpdatedAt = now, now
	return b, nil
}

func (r *SQLiteRepository) GetBudget(ctx context.Context, userID, id int64) (core.Budget, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, category_id, subcategory_id, amount, currency, start_date, end_date, period_type, created_at, updated_at
		 FROM budgets WHERE id = ? AND user_id = ?`, id, userID)
	b, err := scanBudget(row)
	if err != nil {
		return core.Budget{}, fmt.Errorf("get budget: %w", notFound(err))
	}
	return b, nil
}

func (r *SQLiteRepository) ListBudgets(ctx context.Context, userID int64, f BudgetFilter) ([]core.Budget, error) {
	query := `SELECT id, user_id, category_id, subcategory_id, amount, currency, start_date, end_date, period_type, created_at, updated_at
	          FROM budgets WHERE user_id = ?`
	args := []any{userID}

	if f.CategoryID != nil {
		query += ` AND category_id = ?`
		args = append(args, *f.CategoryID)
	}
	if f.SubcategoryID != nil {
		query += ` AND subcategory_id = ?`
		args = append(args, *f.SubcategoryID)
	}
	if f.Currency != nil {
		query += ` AND currency = ?`
		args = append(args, *f.Currency)
	}
	if f.ActiveOn != nil {
		query += ` AND start_date <= ? AND end_date >= ?`
		args = append(args, f.ActiveOn.String(), f.ActiveOn.String())
	}

	query += ` ORDER BY start_date, id`
	if f.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ListBudgetsOverlapping returns the user's budgets whose period intersects
// [start, end].
func (r *SQLiteRepository) ListBudgetsOverlapping(ctx context.Context, userID int64, start, end core.Date) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, category_id, subcategory_id, amount, currency, start_date, end_date, period_type, created_at, updated_at
		 FROM budgets WHERE user_id = ? AND start_date <= ? AND end_date >= ?
		 ORDER BY start_date, id`,
		userID, end.String(), start.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("list overlapping budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpdateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE budgets
		 SET category_id = ?, subcategory_id = ?, amount = ?, currency = ?, start_date = ?, end_date = ?, period_type = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		b.CategoryID, nullID(b.SubcategoryID), b.Amount.String(), b.Currency,
		b.StartDate.String(), b.EndDate.String(), string(b.PeriodType), time.Now().UTC(),
		b.ID, b.UserID,
	)
	if err != nil {
		return core.Budget{}, fmt.Errorf("update budget: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return core.Budget{}, fmt.Errorf("update budget: %w", err)
	} else if n == 0 {
		return core.Budget{}, core.ErrNotFound
	}
	return r.GetBudget(ctx, b.UserID, b.ID)
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM budgets WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("delete budget: %w", err)
	} else if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func scanBudget(row rowScanner) (core.Budget, error) {
	var (
		b        core.Budget
		subID    sql.NullInt64
		amount   string
		startStr string
		endStr   string
		period   string
	)
	err := row.Scan(&b.ID, &b.UserID, &b.CategoryID, &subID, &amount, &b.Currency,
		&startStr, &endStr, &period, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return core.Budget{}, err
	}
	b.SubcategoryID = idPtr(subID)
	if b.Amount, err = decimal.NewFromString(amount); err != nil {
		return core.Budget{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	if b.StartDate, err = core.ParseDate(startStr); err != nil {
		return core.Budget{}, fmt.Errorf("parse start date %q: %w", startStr, err)
	}
	if b.EndDate, err = core.ParseDate(endStr); err != nil {
		return core.Budget{}, fmt.Errorf("parse end date %q: %w", endStr, err)
	}
	b.PeriodType = core.PeriodType(period)
	return b, nil
}

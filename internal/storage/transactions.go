package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// TransactionFilter narrows ListTransactions. Nil fields are ignored.
type TransactionFilter struct {
	CategoryID    *int64
	SubcategoryID *int64
	Type          *core.CategoryType
	StartDate     *core.Date
	EndDate       *core.Date
	Limit         int
	Offset        int
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (user_id, category_id, subcategory_id, amount, currency, tx_date, description, type, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.UserID, tx.CategoryID, nullID(tx.SubcategoryID), tx.Amount.String(), tx.Currency,
		tx.Date.String(), tx.Description, string(tx.Type), now, now,
	)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	tx.ID, err = res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction id: %w", err)
	}
	tx.CreatedAt, tx.UpdatedAt = now, now
	return tx, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, userID, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, category_id, subcategory_id, amount, currency, tx_date, description, type, created_at, updated_at
		 FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	tx, err := scanTransaction(row)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", notFound(err))
	}
	return tx, nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID int64, f TransactionFilter) ([]core.Transaction, error) {
	query := `SELECT id, user_id, category_id, subcategory_id, amount, currency, tx_date, description, type, created_at, updated_at
	          FROM transactions WHERE user_id = ?`
	args := []any{userID}

	if f.CategoryID != nil {
		query += ` AND category_id = ?`
		args = append(args, *f.CategoryID)
	}
	if f.SubcategoryID != nil {
		query += ` AND subcategory_id = ?`
		args = append(args, *f.SubcategoryID)
	}
	if f.Type != nil {
		query += ` AND type = ?`
		args = append(args, string(*f.Type))
	}
	if f.StartDate != nil {
		query += ` AND tx_date >= ?`
		args = append(args, f.StartDate.String())
	}
	if f.EndDate != nil {
		query += ` AND tx_date <= ?`
		args = append(args, f.EndDate.String())
	}

	query += ` ORDER BY tx_date DESC, id DESC`
	if f.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

// ListTransactionsBetween returns the user's transactions dated within
// [start, end] inclusive, the bounded read reports aggregate over.
func (r *SQLiteRepository) ListTransactionsBetween(ctx context.Context, userID int64, start, end core.Date) ([]core.Transaction, error) {
	return r.ListTransactions(ctx, userID, TransactionFilter{StartDate: &start, EndDate: &end})
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions
		 SET category_id = ?, subcategory_id = ?, amount = ?, currency = ?, tx_date = ?, description = ?, type = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		tx.CategoryID, nullID(tx.SubcategoryID), tx.Amount.String(), tx.Currency,
		tx.Date.String(), tx.Description, string(tx.Type), time.Now().UTC(),
		tx.ID, tx.UserID,
	)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	} else if n == 0 {
		return core.Transaction{}, core.ErrNotFound
	}
	return r.GetTransaction(ctx, tx.UserID, tx.ID)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	} else if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		tx       core.Transaction
		subID    sql.NullInt64
		amount   string
		dateStr  string
		typeStr  string
	)
	err := row.Scan(&tx.ID, &tx.UserID, &tx.CategoryID, &subID, &amount, &tx.Currency,
		&dateStr, &tx.Description, &typeStr, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		return core.Transaction{}, err
	}
	tx.SubcategoryID = idPtr(subID)
	if tx.Amount, err = decimal.NewFromString(amount); err != nil {
		return core.Transaction{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	if tx.Date, err = core.ParseDate(dateStr); err != nil {
		return core.Transaction{}, fmt.Errorf("parse date %q: %w", dateStr, err)
	}
	tx.Type = core.CategoryType(typeStr)
	return tx, nil
}

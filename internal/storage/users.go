package storage

import (
	"context"
	"fmt"
	"time"

	"fintrack/internal/core"
)

// CreateUser inserts a new user. A taken username yields core.ErrConflict.
func (r *SQLiteRepository) CreateUser(ctx context.Context, username, passwordHash, defaultCurrency string) (core.User, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, default_currency, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		username, passwordHash, defaultCurrency, now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return core.User{}, fmt.Errorf("username %q: %w", username, core.ErrConflict)
		}
		return core.User{}, fmt.Errorf("create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.User{}, fmt.Errorf("create user id: %w", err)
	}
	return core.User{
		ID:              id,
		Username:        username,
		PasswordHash:    passwordHash,
		DefaultCurrency: defaultCurrency,
		CreatedAt:       now,
	}, nil
}

func (r *SQLiteRepository) GetUserByUsername(ctx context.Context, username string) (core.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, default_currency, created_at
		 FROM users WHERE username = ?`, username))
}

func (r *SQLiteRepository) GetUserByID(ctx context.Context, id int64) (core.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, default_currency, created_at
		 FROM users WHERE id = ?`, id))
}

// UpdateUserCurrency changes the user's default display currency, the only
// mutable user preference.
func (r *SQLiteRepository) UpdateUserCurrency(ctx context.Context, userID int64, currency string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET default_currency = ?, updated_at = ? WHERE id = ?`,
		currency, time.Now().UTC(), userID,
	)
	if err != nil {
		return fmt.Errorf("update user currency: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user currency: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SQLiteRepository) scanUser(row rowScanner) (core.User, error) {
	var u core.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.DefaultCurrency, &u.CreatedAt)
	if err != nil {
		return core.User{}, fmt.Errorf("scan user: %w", notFound(err))
	}
	return u, nil
}

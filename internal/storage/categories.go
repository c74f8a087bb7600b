package storage

import (
	"context"
	"fmt"
	"time"

	"fintrack/internal/core"
)

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (user_id, name, type, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		c.UserID, c.Name, string(c.Type), now, now,
	)
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return core.Category{}, fmt.Errorf("create category id: %w", err)
	}
	c.CreatedAt, c.UpdatedAt = now, now
	return c, nil
}

func (r *SQLiteRepository) GetCategory(ctx context.Context, userID, id int64) (core.Category, error) {
	var c core.Category
	var typ string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, type, created_at, updated_at
		 FROM categories WHERE id = ? AND user_id = ?`, id, userID,
	).Scan(&c.ID, &c.UserID, &c.Name, &typ, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return core.Category{}, fmt.Errorf("get category: %w", notFound(err))
	}
	c.Type = core.CategoryType(typ)
	return c, nil
}

// ListCategories returns the user's categories, optionally filtered by type.
func (r *SQLiteRepository) ListCategories(ctx context.Context, userID int64, typeFilter *core.CategoryType) ([]core.Category, error) {
	query := `SELECT id, user_id, name, type, created_at, updated_at
	          FROM categories WHERE user_id = ?`
	args := []any{userID}
	if typeFilter != nil {
		query += ` AND type = ?`
		args = append(args, string(*typeFilter))
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		var typ string
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &typ, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.Type = core.CategoryType(typ)
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpdateCategory renames a category. The type is fixed at creation.
func (r *SQLiteRepository) UpdateCategory(ctx context.Context, userID, id int64, name string) (core.Category, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		name, time.Now().UTC(), id, userID,
	)
	if err != nil {
		return core.Category{}, fmt.Errorf("update category: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return core.Category{}, fmt.Errorf("update category: %w", err)
	} else if n == 0 {
		return core.Category{}, core.ErrNotFound
	}
	return r.GetCategory(ctx, userID, id)
}

// DeleteCategory removes a category and, through foreign key cascades, its
// subcategories, budgets and transactions.
func (r *SQLiteRepository) DeleteCategory(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM categories WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("delete category: %w", err)
	} else if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) CreateSubcategory(ctx context.Context, s core.Subcategory) (core.Subcategory, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO subcategories (user_id, category_id, name, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		s.UserID, s.CategoryID, s.Name, now, now,
	)
	if err != nil {
		return core.Subcategory{}, fmt.Errorf("create subcategory: %w", err)
	}
	s.ID, err = res.LastInsertId()
	if err != nil {
		return core.Subcategory{}, fmt.Errorf("create subcategory id: %w", err)
	}
	s.CreatedAt, s.UpdatedAt = now, now
	return s, nil
}

func (r *SQLiteRepository) GetSubcategory(ctx context.Context, userID, id int64) (core.Subcategory, error) {
	var s core.Subcategory
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, category_id, name, created_at, updated_at
		 FROM subcategories WHERE id = ? AND user_id = ?`, id, userID,
	).Scan(&s.ID, &s.UserID, &s.CategoryID, &s.Name, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return core.Subcategory{}, fmt.Errorf("get subcategory: %w", notFound(err))
	}
	return s, nil
}

func (r *SQLiteRepository) ListSubcategories(ctx context.Context, userID int64, categoryID *int64) ([]core.Subcategory, error) {
	query := `SELECT id, user_id, category_id, name, created_at, updated_at
	          FROM subcategories WHERE user_id = ?`
	args := []any{userID}
	if categoryID != nil {
		query += ` AND category_id = ?`
		args = append(args, *categoryID)
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	defer rows.Close()

	var out []core.Subcategory
	for rows.Next() {
		var s core.Subcategory
		if err := rows.Scan(&s.ID, &s.UserID, &s.CategoryID, &s.Name, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan subcategory: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpdateSubcategory(ctx context.Context, userID, id int64, name string) (core.Subcategory, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE subcategories SET name = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		name, time.Now().UTC(), id, userID,
	)
	if err != nil {
		return core.Subcategory{}, fmt.Errorf("update subcategory: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return core.Subcategory{}, fmt.Errorf("update subcategory: %w", err)
	} else if n == 0 {
		return core.Subcategory{}, core.ErrNotFound
	}
	return r.GetSubcategory(ctx, userID, id)
}

// DeleteSubcategory removes a subcategory unless transactions or budgets
// still reference it, in which case it fails with core.ErrConflict.
func (r *SQLiteRepository) DeleteSubcategory(ctx context.Context, userID, id int64) error {
	var refs int
	err := r.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM transactions WHERE subcategory_id = ? AND user_id = ?)
		      + (SELECT COUNT(*) FROM budgets WHERE subcategory_id = ? AND user_id = ?)`,
		id, userID, id, userID,
	).Scan(&refs)
	if err != nil {
		return fmt.Errorf("count subcategory references: %w", err)
	}
	if refs > 0 {
		return fmt.Errorf("subcategory has %d references: %w", refs, core.ErrConflict)
	}

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM subcategories WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete subcategory: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("delete subcategory: %w", err)
	} else if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

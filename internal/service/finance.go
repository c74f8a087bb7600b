package service

import (
	"context"
	"fmt"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// FinanceService owns category, subcategory, transaction, budget and
// exchange-rate mutations. Every method takes the acting user's id and only
// ever touches that user's rows.
type FinanceService struct {
	repo *storage.SQLiteRepository
}

func NewFinanceService(repo *storage.SQLiteRepository) *FinanceService {
	return &FinanceService{repo: repo}
}

// Categories

func (s *FinanceService) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	return s.repo.CreateCategory(ctx, c)
}

func (s *FinanceService) GetCategory(ctx context.Context, userID, id int64) (core.Category, error) {
	return s.repo.GetCategory(ctx, userID, id)
}

func (s *FinanceService) ListCategories(ctx context.Context, userID int64, typeFilter *core.CategoryType) ([]core.Category, error) {
	return s.repo.ListCategories(ctx, userID, typeFilter)
}

func (s *FinanceService) RenameCategory(ctx context.Context, userID, id int64, name string) (core.Category, error) {
	if err := (core.Category{Name: name, Type: core.Expense}).Validate(); err != nil {
		return core.Category{}, err
	}
	return s.repo.UpdateCategory(ctx, userID, id, name)
}

func (s *FinanceService) DeleteCategory(ctx context.Context, userID, id int64) error {
	return s.repo.DeleteCategory(ctx, userID, id)
}

// Subcategories

func (s *FinanceService) CreateSubcategory(ctx context.Context, sc core.Subcategory) (core.Subcategory, error) {
	if err := sc.Validate(); err != nil {
		return core.Subcategory{}, err
	}
	// The parent must exist and belong to the same user.
	if _, err := s.repo.GetCategory(ctx, sc.UserID, sc.CategoryID); err != nil {
		return core.Subcategory{}, err
	}
	return s.repo.CreateSubcategory(ctx, sc)
}

func (s *FinanceService) GetSubcategory(ctx context.Context, userID, id int64) (core.Subcategory, error) {
	return s.repo.GetSubcategory(ctx, userID, id)
}

func (s *FinanceService) ListSubcategories(ctx context.Context, userID int64, categoryID *int64) ([]core.Subcategory, error) {
	return s.repo.ListSubcategories(ctx, userID, categoryID)
}

func (s *FinanceService) RenameSubcategory(ctx context.Context, userID, id int64, name string) (core.Subcategory, error) {
	if err := (core.Subcategory{Name: name}).Validate(); err != nil {
		return core.Subcategory{}, err
	}
	return s.repo.UpdateSubcategory(ctx, userID, id, name)
}

func (s *FinanceService) DeleteSubcategory(ctx context.Context, userID, id int64) error {
	return s.repo.DeleteSubcategory(ctx, userID, id)
}

// Transactions

// resolveClassification checks that the category (and subcategory, when set)
// exists, belongs to the user, and that the two are linked. It returns the
// category so callers can align the record's type with it.
func (s *FinanceService) resolveClassification(ctx context.Context, userID, categoryID int64, subcategoryID *int64) (core.Category, error) {
	cat, err := s.repo.GetCategory(ctx, userID, categoryID)
	if err != nil {
		return core.Category{}, err
	}
	if subcategoryID != nil {
		sub, err := s.repo.GetSubcategory(ctx, userID, *subcategoryID)
		if err != nil {
			return core.Category{}, err
		}
		if sub.CategoryID != categoryID {
			return core.Category{}, fmt.Errorf("subcategory %d does not belong to category %d: %w",
				sub.ID, categoryID, core.ErrNotFound)
		}
	}
	return cat, nil
}

func (s *FinanceService) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	cat, err := s.resolveClassification(ctx, tx.UserID, tx.CategoryID, tx.SubcategoryID)
	if err != nil {
		return core.Transaction{}, err
	}
	// The transaction's direction follows its category.
	tx.Type = cat.Type
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return s.repo.CreateTransaction(ctx, tx)
}

func (s *FinanceService) GetTransaction(ctx context.Context, userID, id int64) (core.Transaction, error) {
	return s.repo.GetTransaction(ctx, userID, id)
}

func (s *FinanceService) ListTransactions(ctx context.Context, userID int64, f storage.TransactionFilter) ([]core.Transaction, error) {
	return s.repo.ListTransactions(ctx, userID, f)
}

func (s *FinanceService) UpdateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	cat, err := s.resolveClassification(ctx, tx.UserID, tx.CategoryID, tx.SubcategoryID)
	if err != nil {
		return core.Transaction{}, err
	}
	tx.Type = cat.Type
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return s.repo.UpdateTransaction(ctx, tx)
}

func (s *FinanceService) DeleteTransaction(ctx context.Context, userID, id int64) error {
	return s.repo.DeleteTransaction(ctx, userID, id)
}

// Budgets

func (s *FinanceService) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	if _, err := s.resolveClassification(ctx, b.UserID, b.CategoryID, b.SubcategoryID); err != nil {
		return core.Budget{}, err
	}
	return s.repo.CreateBudget(ctx, b)
}

func (s *FinanceService) GetBudget(ctx context.Context, userID, id int64) (core.Budget, error) {
	return s.repo.GetBudget(ctx, userID, id)
}

func (s *FinanceService) ListBudgets(ctx context.Context, userID int64, f storage.BudgetFilter) ([]core.Budget, error) {
	return s.repo.ListBudgets(ctx, userID, f)
}

func (s *FinanceService) UpdateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	if _, err := s.resolveClassification(ctx, b.UserID, b.CategoryID, b.SubcategoryID); err != nil {
		return core.Budget{}, err
	}
	return s.repo.UpdateBudget(ctx, b)
}

func (s *FinanceService) DeleteBudget(ctx context.Context, userID, id int64) error {
	return s.repo.DeleteBudget(ctx, userID, id)
}

// Exchange rates

func (s *FinanceService) SaveRate(ctx context.Context, rate core.CurrencyRate) (core.CurrencyRate, error) {
	if err := rate.Validate(); err != nil {
		return core.CurrencyRate{}, err
	}
	return s.repo.UpsertRate(ctx, rate)
}

func (s *FinanceService) ListRates(ctx context.Context, userID int64, from, to *string) ([]core.CurrencyRate, error) {
	return s.repo.ListRates(ctx, userID, from, to)
}

package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"fintrack/internal/core"
)

// RepositoryTestSuite exercises the SQLite repository against a fresh
// database per test.
type RepositoryTestSuite struct {
	suite.Suite
	repo *SQLiteRepository
	ctx  context.Context
	user core.User
}

func (s *RepositoryTestSuite) SetupTest() {
	repo, err := NewSQLiteRepository(filepath.Join(s.T().TempDir(), "test.db"))
	require.NoError(s.T(), err, "failed to open test database")
	s.repo = repo
	s.ctx = context.Background()

	s.user, err = repo.CreateUser(s.ctx, "alice", "hash", "ZAR")
	require.NoError(s.T(), err)
}

func (s *RepositoryTestSuite) TearDownTest() {
	if s.repo != nil {
		s.repo.Close()
	}
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}

func (s *RepositoryTestSuite) mustCategory(name string, typ core.CategoryType) core.Category {
	cat, err := s.repo.CreateCategory(s.ctx, core.Category{UserID: s.user.ID, Name: name, Type: typ})
	require.NoError(s.T(), err)
	return cat
}

func (s *RepositoryTestSuite) TestCreateUserDuplicateUsername() {
	_, err := s.repo.CreateUser(s.ctx, "alice", "other", "INR")
	assert.ErrorIs(s.T(), err, core.ErrConflict)
}

func (s *RepositoryTestSuite) TestGetUserByUsername() {
	user, err := s.repo.GetUserByUsername(s.ctx, "alice")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), s.user.ID, user.ID)
	assert.Equal(s.T(), "ZAR", user.DefaultCurrency)

	_, err = s.repo.GetUserByUsername(s.ctx, "nobody")
	assert.ErrorIs(s.T(), err, core.ErrNotFound)
}

func (s *RepositoryTestSuite) TestUpdateUserCurrency() {
	require.NoError(s.T(), s.repo.UpdateUserCurrency(s.ctx, s.user.ID, "INR"))

	user, err := s.repo.GetUserByID(s.ctx, s.user.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "INR", user.DefaultCurrency)

	assert.ErrorIs(s.T(), s.repo.UpdateUserCurrency(s.ctx, 9999, "INR"), core.ErrNotFound)
}

func (s *RepositoryTestSuite) TestCategoryCRUD() {
	cat := s.mustCategory("Groceries", core.Expense)
	assert.NotZero(s.T(), cat.ID)

	got, err := s.repo.GetCategory(s.ctx, s.user.ID, cat.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Groceries", got.Name)
	assert.Equal(s.T(), core.Expense, got.Type)

	renamed, err := s.repo.UpdateCategory(s.ctx, s.user.ID, cat.ID, "Food")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Food", renamed.Name)

	require.NoError(s.T(), s.repo.DeleteCategory(s.ctx, s.user.ID, cat.ID))
	_, err = s.repo.GetCategory(s.ctx, s.user.ID, cat.ID)
	assert.ErrorIs(s.T(), err, core.ErrNotFound)
}

func (s *RepositoryTestSuite) TestCategoryOwnershipIsolation() {
	other, err := s.repo.CreateUser(s.ctx, "bob", "hash", "ZAR")
	require.NoError(s.T(), err)

	cat := s.mustCategory("Groceries", core.Expense)

	// Another user's lookup behaves exactly like a missing row.
	_, err = s.repo.GetCategory(s.ctx, other.ID, cat.ID)
	assert.ErrorIs(s.T(), err, core.ErrNotFound)
	assert.ErrorIs(s.T(), s.repo.DeleteCategory(s.ctx, other.ID, cat.ID), core.ErrNotFound)
}

func (s *RepositoryTestSuite) TestListCategoriesByType() {
	s.mustCategory("Groceries", core.Expense)
	s.mustCategory("Salary", core.Income)

	all, err := s.repo.ListCategories(s.ctx, s.user.ID, nil)
	require.NoError(s.T(), err)
	assert.Len(s.T(), all, 2)

	income := core.Income
	onlyIncome, err := s.repo.ListCategories(s.ctx, s.user.ID, &income)
	require.NoError(s.T(), err)
	require.Len(s.T(), onlyIncome, 1)
	assert.Equal(s.T(), "Salary", onlyIncome[0].Name)
}

func (s *RepositoryTestSuite) TestSubcategoryDeleteRestricted() {
	cat := s.mustCategory("Groceries", core.Expense)
	sub, err := s.repo.CreateSubcategory(s.ctx, core.Subcategory{UserID: s.user.ID, CategoryID: cat.ID, Name: "Fruit"})
	require.NoError(s.T(), err)

	_, err = s.repo.CreateTransaction(s.ctx, core.Transaction{
		UserID:        s.user.ID,
		CategoryID:    cat.ID,
		SubcategoryID: &sub.ID,
		Amount:        decimal.NewFromInt(50),
		Currency:      "ZAR",
		Date:          core.NewDate(2024, 1, 5),
		Description:   "apples",
		Type:          core.Expense,
	})
	require.NoError(s.T(), err)

	// Referenced subcategories cannot be deleted.
	assert.ErrorIs(s.T(), s.repo.DeleteSubcategory(s.ctx, s.user.ID, sub.ID), core.ErrConflict)

	// Once the reference is gone the delete succeeds.
	txs, err := s.repo.ListTransactions(s.ctx, s.user.ID, TransactionFilter{})
	require.NoError(s.T(), err)
	require.Len(s.T(), txs, 1)
	require.NoError(s.T(), s.repo.DeleteTransaction(s.ctx, s.user.ID, txs[0].ID))
	assert.NoError(s.T(), s.repo.DeleteSubcategory(s.ctx, s.user.ID, sub.ID))
}

func (s *RepositoryTestSuite) TestTransactionRoundTrip() {
	cat := s.mustCategory("Groceries", core.Expense)

	created, err := s.repo.CreateTransaction(s.ctx, core.Transaction{
		UserID:      s.user.ID,
		CategoryID:  cat.ID,
		Amount:      decimal.RequireFromString("123.45"),
		Currency:    "ZAR",
		Date:        core.NewDate(2024, 1, 5),
		Description: "weekly shop",
		Type:        core.Expense,
	})
	require.NoError(s.T(), err)

	got, err := s.repo.GetTransaction(s.ctx, s.user.ID, created.ID)
	require.NoError(s.T(), err)
	assert.True(s.T(), got.Amount.Equal(decimal.RequireFromString("123.45")), "amount survives storage exactly")
	assert.Equal(s.T(), "2024-01-05", got.Date.String())
	assert.Nil(s.T(), got.SubcategoryID)
}

func (s *RepositoryTestSuite) TestListTransactionsBetween() {
	cat := s.mustCategory("Groceries", core.Expense)
	for _, day := range []int{5, 20} {
		_, err := s.repo.CreateTransaction(s.ctx, core.Transaction{
			UserID: s.user.ID, CategoryID: cat.ID,
			Amount: decimal.NewFromInt(100), Currency: "ZAR",
			Date: core.NewDate(2024, 1, day), Description: "shop", Type: core.Expense,
		})
		require.NoError(s.T(), err)
	}
	_, err := s.repo.CreateTransaction(s.ctx, core.Transaction{
		UserID: s.user.ID, CategoryID: cat.ID,
		Amount: decimal.NewFromInt(100), Currency: "ZAR",
		Date: core.NewDate(2024, 2, 1), Description: "shop", Type: core.Expense,
	})
	require.NoError(s.T(), err)

	jan, err := s.repo.ListTransactionsBetween(s.ctx, s.user.ID, core.NewDate(2024, 1, 1), core.NewDate(2024, 1, 31))
	require.NoError(s.T(), err)
	assert.Len(s.T(), jan, 2)
}

func (s *RepositoryTestSuite) TestBudgetOverlapQuery() {
	cat := s.mustCategory("Groceries", core.Expense)
	mk := func(start, end core.Date) {
		_, err := s.repo.CreateBudget(s.ctx, core.Budget{
			UserID: s.user.ID, CategoryID: cat.ID,
			Amount: decimal.NewFromInt(1000), Currency: "ZAR",
			StartDate: start, EndDate: end, PeriodType: core.Monthly,
		})
		require.NoError(s.T(), err)
	}
	mk(core.NewDate(2024, 1, 1), core.NewDate(2024, 1, 31))
	mk(core.NewDate(2024, 3, 1), core.NewDate(2024, 3, 31))

	overlapping, err := s.repo.ListBudgetsOverlapping(s.ctx, s.user.ID, core.NewDate(2024, 1, 15), core.NewDate(2024, 2, 15))
	require.NoError(s.T(), err)
	assert.Len(s.T(), overlapping, 1)
}

func (s *RepositoryTestSuite) TestBudgetActiveFilter() {
	cat := s.mustCategory("Groceries", core.Expense)
	_, err := s.repo.CreateBudget(s.ctx, core.Budget{
		UserID: s.user.ID, CategoryID: cat.ID,
		Amount: decimal.NewFromInt(1000), Currency: "ZAR",
		StartDate: core.NewDate(2024, 1, 1), EndDate: core.NewDate(2024, 1, 31),
		PeriodType: core.Monthly,
	})
	require.NoError(s.T(), err)

	inside := core.NewDate(2024, 1, 15)
	active, err := s.repo.ListBudgets(s.ctx, s.user.ID, BudgetFilter{ActiveOn: &inside})
	require.NoError(s.T(), err)
	assert.Len(s.T(), active, 1)

	outside := core.NewDate(2024, 2, 15)
	active, err = s.repo.ListBudgets(s.ctx, s.user.ID, BudgetFilter{ActiveOn: &outside})
	require.NoError(s.T(), err)
	assert.Empty(s.T(), active)
}

func (s *RepositoryTestSuite) TestLatestRatePicksNewestEffective() {
	upsert := func(rate string, date core.Date) {
		_, err := s.repo.UpsertRate(s.ctx, core.CurrencyRate{
			UserID: s.user.ID, FromCurrency: "INR", ToCurrency: "ZAR",
			Rate: decimal.RequireFromString(rate), EffectiveDate: date,
		})
		require.NoError(s.T(), err)
	}
	upsert("0.10", core.NewDate(2023, 12, 1))
	upsert("0.15", core.NewDate(2024, 1, 1))
	upsert("0.20", core.NewDate(2024, 2, 1))

	// The applicable rate is the newest one not after the reference date.
	rate, err := s.repo.LatestRate(s.ctx, s.user.ID, "INR", "ZAR", core.NewDate(2024, 1, 10))
	require.NoError(s.T(), err)
	assert.True(s.T(), rate.Equal(decimal.RequireFromString("0.15")), "got %s", rate)

	_, err = s.repo.LatestRate(s.ctx, s.user.ID, "INR", "ZAR", core.NewDate(2023, 1, 1))
	assert.ErrorIs(s.T(), err, core.ErrNotFound)

	_, err = s.repo.LatestRate(s.ctx, s.user.ID, "USD", "ZAR", core.NewDate(2024, 6, 1))
	assert.ErrorIs(s.T(), err, core.ErrNotFound)
}

func (s *RepositoryTestSuite) TestUpsertRateReplacesSameEffectiveDate() {
	day := core.NewDate(2024, 1, 1)
	for _, rate := range []string{"0.15", "0.16"} {
		_, err := s.repo.UpsertRate(s.ctx, core.CurrencyRate{
			UserID: s.user.ID, FromCurrency: "INR", ToCurrency: "ZAR",
			Rate: decimal.RequireFromString(rate), EffectiveDate: day,
		})
		require.NoError(s.T(), err)
	}

	rates, err := s.repo.ListRates(s.ctx, s.user.ID, nil, nil)
	require.NoError(s.T(), err)
	require.Len(s.T(), rates, 1)
	assert.True(s.T(), rates[0].Rate.Equal(decimal.RequireFromString("0.16")))
}

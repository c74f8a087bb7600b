package service

import (
	"context"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// ReportService loads a user's rows for a date range and hands them to the
// aggregator. Rates come from the same user's stored table, so one user's
// rates never leak into another's reports.
type ReportService struct {
	repo *storage.SQLiteRepository
}

func NewReportService(repo *storage.SQLiteRepository) *ReportService {
	return &ReportService{repo: repo}
}

// userRateSource adapts the rate table to the converter for one user.
type userRateSource struct {
	repo   *storage.SQLiteRepository
	userID int64
}

func (s userRateSource) EffectiveRate(ctx context.Context, from, to string, asOf core.Date) (decimal.Decimal, error) {
	return s.repo.LatestRate(ctx, s.userID, from, to, asOf)
}

func (s *ReportService) aggregator(userID int64) *core.Aggregator {
	return core.NewAggregator(core.NewConverter(userRateSource{repo: s.repo, userID: userID}))
}

// loadInput gathers everything a report over [start, end] can touch: budgets
// overlapping the range, transactions inside it, and the user's full category
// tree for naming and type lookups.
func (s *ReportService) loadInput(ctx context.Context, userID int64, start, end core.Date) (core.ReportInput, error) {
	budgets, err := s.repo.ListBudgetsOverlapping(ctx, userID, start, end)
	if err != nil {
		return core.ReportInput{}, err
	}
	transactions, err := s.repo.ListTransactionsBetween(ctx, userID, start, end)
	if err != nil {
		return core.ReportInput{}, err
	}
	categories, err := s.repo.ListCategories(ctx, userID, nil)
	if err != nil {
		return core.ReportInput{}, err
	}
	subcategories, err := s.repo.ListSubcategories(ctx, userID, nil)
	if err != nil {
		return core.ReportInput{}, err
	}

	in := core.ReportInput{
		Budgets:       budgets,
		Transactions:  transactions,
		Categories:    make(map[int64]core.Category, len(categories)),
		Subcategories: make(map[int64]core.Subcategory, len(subcategories)),
	}
	for _, c := range categories {
		in.Categories[c.ID] = c
	}
	for _, sc := range subcategories {
		in.Subcategories[sc.ID] = sc
	}
	return in, nil
}

// displayCurrency resolves the requested display currency, defaulting to the
// user's preference when the request leaves it blank.
func (s *ReportService) displayCurrency(ctx context.Context, userID int64, requested string) (string, error) {
	if requested != "" {
		return requested, nil
	}
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.DefaultCurrency, nil
}

// BudgetSummary rolls up all budgets overlapping [start, end].
func (s *ReportService) BudgetSummary(ctx context.Context, userID int64, start, end core.Date, display string) (core.BudgetSummary, error) {
	display, err := s.displayCurrency(ctx, userID, display)
	if err != nil {
		return core.BudgetSummary{}, err
	}
	in, err := s.loadInput(ctx, userID, start, end)
	if err != nil {
		return core.BudgetSummary{}, err
	}
	return s.aggregator(userID).BudgetSummary(ctx, in, start, end, display)
}

// TransactionSummary totals a user's transactions over [start, end].
func (s *ReportService) TransactionSummary(ctx context.Context, userID int64, start, end core.Date, display string) (core.TransactionSummary, error) {
	if start.After(end.Time) {
		return core.TransactionSummary{}, core.ErrInvalidDateRange
	}
	display, err := s.displayCurrency(ctx, userID, display)
	if err != nil {
		return core.TransactionSummary{}, err
	}
	in, err := s.loadInput(ctx, userID, start, end)
	if err != nil {
		return core.TransactionSummary{}, err
	}
	return s.aggregator(userID).TransactionSummary(ctx, in, start, end, display)
}

// SingleBudgetSummary reports one budget against its own period.
func (s *ReportService) SingleBudgetSummary(ctx context.Context, userID, budgetID int64, display string) (core.BudgetSummary, error) {
	budget, err := s.repo.GetBudget(ctx, userID, budgetID)
	if err != nil {
		return core.BudgetSummary{}, err
	}
	display, err = s.displayCurrency(ctx, userID, display)
	if err != nil {
		return core.BudgetSummary{}, err
	}
	in, err := s.loadInput(ctx, userID, budget.StartDate, budget.EndDate)
	if err != nil {
		return core.BudgetSummary{}, err
	}
	in.Budgets = []core.Budget{budget}
	return s.aggregator(userID).BudgetSummary(ctx, in, budget.StartDate, budget.EndDate, display)
}

// MonthlyReport aggregates one calendar month.
func (s *ReportService) MonthlyReport(ctx context.Context, userID int64, year, month int, display string) (core.MonthlyReport, error) {
	if month < 1 || month > 12 {
		return core.MonthlyReport{}, core.ErrInvalidDateRange
	}
	display, err := s.displayCurrency(ctx, userID, display)
	if err != nil {
		return core.MonthlyReport{}, err
	}
	start, end := core.MonthBounds(year, month)
	in, err := s.loadInput(ctx, userID, start, end)
	if err != nil {
		return core.MonthlyReport{}, err
	}
	return s.aggregator(userID).MonthlyReport(ctx, in, year, month, display)
}

// Trends produces the month-by-month budget-vs-actual series.
func (s *ReportService) Trends(ctx context.Context, userID int64, start, end core.Date, display string, filter core.TrendFilter) (core.TrendData, error) {
	if start.After(end.Time) {
		return core.TrendData{}, core.ErrInvalidDateRange
	}
	display, err := s.displayCurrency(ctx, userID, display)
	if err != nil {
		return core.TrendData{}, err
	}
	in, err := s.loadInput(ctx, userID, start, end)
	if err != nil {
		return core.TrendData{}, err
	}
	return s.aggregator(userID).Trends(ctx, in, start, end, display, filter)
}

package core

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// ReportInput carries the owner-scoped rows a report computation works on.
// Loading is a bounded set of queries; aggregation is one in-memory pass.
type ReportInput struct {
	Budgets       []Budget
	Transactions  []Transaction
	Categories    map[int64]Category
	Subcategories map[int64]Subcategory
}

type (
	// DataPoint is one labelled value in a category breakdown.
	DataPoint struct {
		Label string
		Value decimal.Decimal
	}

	// Dataset is one named series of a chart-shaped report.
	Dataset struct {
		Label string
		Data  []decimal.Decimal
	}

	// TrendData is the chart-shaped report payload: one label per bucket and
	// datasets of equal length.
	TrendData struct {
		Labels   []string
		Datasets []Dataset
	}

	BudgetSummaryItem struct {
		BudgetID        int64
		CategoryID      int64
		CategoryName    string
		SubcategoryID   *int64
		SubcategoryName *string
		BudgetAmount    decimal.Decimal
		ActualAmount    decimal.Decimal
		Currency        string
		PercentageUsed  decimal.Decimal
	}

	// BudgetSummary is the budget-vs-actual rollup for a date range. Item
	// amounts are in each budget's own currency; totals are in the requested
	// display currency.
	BudgetSummary struct {
		Items             []BudgetSummaryItem
		TotalBudget       decimal.Decimal
		TotalActual       decimal.Decimal
		OverallPercentage decimal.Decimal
		Currency          string
		Period            string
	}

	MonthlyReport struct {
		IncomeByCategory  []DataPoint
		ExpenseByCategory []DataPoint
		BudgetVsActual    TrendData
		DailyTransactions TrendData
		NetIncomeExpense  TrendData
	}

	// TrendFilter optionally narrows trends to one category or subcategory.
	TrendFilter struct {
		CategoryID    *int64
		SubcategoryID *int64
	}

	// TransactionSummary totals a date range's transactions in one currency.
	TransactionSummary struct {
		TotalIncome  decimal.Decimal
		TotalExpense decimal.Decimal
		Net          decimal.Decimal
		Count        int
		Currency     string
		Period       string
	}
)

// Aggregator computes derived report views from budgets, transactions and
// exchange rates. It holds no state between requests.
type Aggregator struct {
	converter *Converter
}

func NewAggregator(converter *Converter) *Aggregator {
	return &Aggregator{converter: converter}
}

// monthlyPortion is the share of a budget's amount attributed to one calendar
// month: yearly budgets spread over twelve months, custom budgets over the
// months their period spans, monthly budgets count in full.
func monthlyPortion(b Budget) decimal.Decimal {
	switch b.PeriodType {
	case Yearly:
		return b.Amount.Div(decimal.NewFromInt(12))
	case Custom:
		months := MonthsSpanned(b.StartDate, b.EndDate)
		if months <= 1 {
			return b.Amount
		}
		return b.Amount.Div(decimal.NewFromInt(int64(months)))
	default:
		return b.Amount
	}
}

// BudgetSummary rolls up every budget overlapping [start, end] against its
// matching transactions. Actuals are converted into each budget's currency as
// of the transaction date; budget and actual totals are then converted into
// the display currency as of the range end. A missing rate aborts the whole
// report.
func (a *Aggregator) BudgetSummary(ctx context.Context, in ReportInput, start, end Date, display string) (BudgetSummary, error) {
	summary := BudgetSummary{
		TotalBudget: decimal.Zero,
		TotalActual: decimal.Zero,
		Currency:    display,
		Period:      fmt.Sprintf("%s to %s", start, end),
	}

	for _, b := range in.Budgets {
		if b.StartDate.After(end.Time) || b.EndDate.Before(start.Time) {
			continue
		}
		cat, ok := in.Categories[b.CategoryID]
		if !ok {
			continue
		}

		actual := decimal.Zero
		for _, tx := range in.Transactions {
			if !tx.Date.Within(start, end) {
				continue
			}
			if !BudgetMatches(b, tx, cat.Type) {
				continue
			}
			amount, err := a.converter.Convert(ctx, tx.Amount, tx.Currency, b.Currency, tx.Date)
			if err != nil {
				return BudgetSummary{}, err
			}
			actual = actual.Add(amount)
		}

		item := BudgetSummaryItem{
			BudgetID:       b.ID,
			CategoryID:     b.CategoryID,
			CategoryName:   cat.Name,
			SubcategoryID:  b.SubcategoryID,
			BudgetAmount:   b.Amount,
			ActualAmount:   actual,
			Currency:       b.Currency,
			PercentageUsed: Percentage(actual, b.Amount),
		}
		if b.SubcategoryID != nil {
			if sub, ok := in.Subcategories[*b.SubcategoryID]; ok {
				name := sub.Name
				item.SubcategoryName = &name
			}
		}
		summary.Items = append(summary.Items, item)

		budgetDisplay, err := a.converter.Convert(ctx, b.Amount, b.Currency, display, end)
		if err != nil {
			return BudgetSummary{}, err
		}
		actualDisplay, err := a.converter.Convert(ctx, actual, b.Currency, display, end)
		if err != nil {
			return BudgetSummary{}, err
		}
		summary.TotalBudget = summary.TotalBudget.Add(budgetDisplay)
		summary.TotalActual = summary.TotalActual.Add(actualDisplay)
	}

	summary.OverallPercentage = Percentage(summary.TotalActual, summary.TotalBudget)
	return summary, nil
}

// TransactionSummary totals the transactions dated within [start, end],
// converted into the display currency as of each transaction's date.
func (a *Aggregator) TransactionSummary(ctx context.Context, in ReportInput, start, end Date, display string) (TransactionSummary, error) {
	summary := TransactionSummary{
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
		Currency:     display,
		Period:       fmt.Sprintf("%s to %s", start, end),
	}

	for _, tx := range in.Transactions {
		if !tx.Date.Within(start, end) {
			continue
		}
		amount, err := a.converter.Convert(ctx, tx.Amount, tx.Currency, display, tx.Date)
		if err != nil {
			return TransactionSummary{}, err
		}
		if tx.Type == Income {
			summary.TotalIncome = summary.TotalIncome.Add(amount)
		} else {
			summary.TotalExpense = summary.TotalExpense.Add(amount)
		}
		summary.Count++
	}

	summary.Net = summary.TotalIncome.Sub(summary.TotalExpense)
	return summary, nil
}

// MonthlyReport aggregates one calendar month: income and expense broken down
// by category, budget-vs-actual per expense category, per-day totals, and the
// net income/expense figures. All values are in the display currency.
func (a *Aggregator) MonthlyReport(ctx context.Context, in ReportInput, year, month int, display string) (MonthlyReport, error) {
	if month < 1 || month > 12 {
		return MonthlyReport{}, fmt.Errorf("%w: month %d", ErrInvalidDateRange, month)
	}
	start, end := MonthBounds(year, month)
	daysInMonth := end.Day()

	incomeByCat := map[string]decimal.Decimal{}
	expenseByCat := map[string]decimal.Decimal{}
	dailyIncome := zeros(daysInMonth)
	dailyExpense := zeros(daysInMonth)

	for _, tx := range in.Transactions {
		if !tx.Date.Within(start, end) {
			continue
		}
		amount, err := a.converter.Convert(ctx, tx.Amount, tx.Currency, display, tx.Date)
		if err != nil {
			return MonthlyReport{}, err
		}
		name := "Unknown"
		if cat, ok := in.Categories[tx.CategoryID]; ok {
			name = cat.Name
		}
		day := tx.Date.Day() - 1
		if tx.Type == Income {
			incomeByCat[name] = incomeByCat[name].Add(amount)
			dailyIncome[day] = dailyIncome[day].Add(amount)
		} else {
			expenseByCat[name] = expenseByCat[name].Add(amount)
			dailyExpense[day] = dailyExpense[day].Add(amount)
		}
	}

	budgetByCat := map[string]decimal.Decimal{}
	for _, b := range in.Budgets {
		if b.StartDate.After(end.Time) || b.EndDate.Before(start.Time) {
			continue
		}
		cat, ok := in.Categories[b.CategoryID]
		if !ok || cat.Type != Expense {
			continue
		}
		portion, err := a.converter.Convert(ctx, monthlyPortion(b), b.Currency, display, end)
		if err != nil {
			return MonthlyReport{}, err
		}
		budgetByCat[cat.Name] = budgetByCat[cat.Name].Add(portion)
	}

	bvaLabels := labelUnion(budgetByCat, expenseByCat)
	budgetData := make([]decimal.Decimal, len(bvaLabels))
	actualData := make([]decimal.Decimal, len(bvaLabels))
	for i, label := range bvaLabels {
		budgetData[i] = budgetByCat[label]
		actualData[i] = expenseByCat[label]
	}

	dailyLabels := make([]string, daysInMonth)
	for i := range dailyLabels {
		dailyLabels[i] = fmt.Sprintf("%d", i+1)
	}

	totalIncome := sum(dailyIncome)
	totalExpense := sum(dailyExpense)

	return MonthlyReport{
		IncomeByCategory:  sortedPoints(incomeByCat),
		ExpenseByCategory: sortedPoints(expenseByCat),
		BudgetVsActual: TrendData{
			Labels: bvaLabels,
			Datasets: []Dataset{
				{Label: "Budget", Data: budgetData},
				{Label: "Actual", Data: actualData},
			},
		},
		DailyTransactions: TrendData{
			Labels: dailyLabels,
			Datasets: []Dataset{
				{Label: "Income", Data: dailyIncome},
				{Label: "Expense", Data: dailyExpense},
			},
		},
		NetIncomeExpense: TrendData{
			Labels: []string{"Income", "Expense", "Net"},
			Datasets: []Dataset{
				{Label: "Amount", Data: []decimal.Decimal{totalIncome, totalExpense, totalIncome.Sub(totalExpense)}},
			},
		},
	}, nil
}

// Trends produces one budget-vs-actual point per calendar month across
// [start, end] inclusive. The series is contiguous: months without data carry
// zero, never a gap. Only expense budgets and expense transactions enter the
// comparison.
func (a *Aggregator) Trends(ctx context.Context, in ReportInput, start, end Date, display string, filter TrendFilter) (TrendData, error) {
	months := MonthsSpanned(start, end)
	if months < 1 {
		return TrendData{}, ErrInvalidDateRange
	}

	labels := make([]string, months)
	monthEnds := make([]Date, months)
	for i := 0; i < months; i++ {
		m := NewDate(start.Year(), int(start.Month())+i, 1)
		_, last := MonthBounds(m.Year(), int(m.Month()))
		labels[i] = m.Format("Jan 2006")
		monthEnds[i] = last
	}

	budgetData := zeros(months)
	actualData := zeros(months)
	origin := NewDate(start.Year(), int(start.Month()), 1)

	for _, b := range in.Budgets {
		if b.StartDate.After(end.Time) || b.EndDate.Before(start.Time) {
			continue
		}
		cat, ok := in.Categories[b.CategoryID]
		if !ok || cat.Type != Expense {
			continue
		}
		if !filter.matchesBudget(b) {
			continue
		}
		first := b.StartDate.MonthIndex(origin)
		lastIdx := b.EndDate.MonthIndex(origin)
		for i := max(first, 0); i <= min(lastIdx, months-1); i++ {
			portion, err := a.converter.Convert(ctx, monthlyPortion(b), b.Currency, display, monthEnds[i])
			if err != nil {
				return TrendData{}, err
			}
			budgetData[i] = budgetData[i].Add(portion)
		}
	}

	for _, tx := range in.Transactions {
		if tx.Type != Expense || !tx.Date.Within(start, end) {
			continue
		}
		if !filter.matchesTransaction(tx) {
			continue
		}
		i := tx.Date.MonthIndex(origin)
		if i < 0 || i >= months {
			continue
		}
		amount, err := a.converter.Convert(ctx, tx.Amount, tx.Currency, display, tx.Date)
		if err != nil {
			return TrendData{}, err
		}
		actualData[i] = actualData[i].Add(amount)
	}

	return TrendData{
		Labels: labels,
		Datasets: []Dataset{
			{Label: "Budget", Data: budgetData},
			{Label: "Actual", Data: actualData},
		},
	}, nil
}

func (f TrendFilter) matchesBudget(b Budget) bool {
	if f.CategoryID != nil && b.CategoryID != *f.CategoryID {
		return false
	}
	if f.SubcategoryID != nil {
		if b.SubcategoryID == nil || *b.SubcategoryID != *f.SubcategoryID {
			return false
		}
	}
	return true
}

func (f TrendFilter) matchesTransaction(tx Transaction) bool {
	if f.CategoryID != nil && tx.CategoryID != *f.CategoryID {
		return false
	}
	if f.SubcategoryID != nil {
		if tx.SubcategoryID == nil || *tx.SubcategoryID != *f.SubcategoryID {
			return false
		}
	}
	return true
}

func zeros(n int) []decimal.Decimal {
	data := make([]decimal.Decimal, n)
	for i := range data {
		data[i] = decimal.Zero
	}
	return data
}

func sum(data []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, d := range data {
		total = total.Add(d)
	}
	return total
}

func sortedPoints(byLabel map[string]decimal.Decimal) []DataPoint {
	points := make([]DataPoint, 0, len(byLabel))
	for label, value := range byLabel {
		points = append(points, DataPoint{Label: label, Value: value})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Label < points[j].Label })
	return points
}

func labelUnion(a, b map[string]decimal.Decimal) []string {
	seen := map[string]struct{}{}
	for label := range a {
		seen[label] = struct{}{}
	}
	for label := range b {
		seen[label] = struct{}{}
	}
	labels := make([]string, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

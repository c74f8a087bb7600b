package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func ptr(v int64) *int64 { return &v }

func TestBudgetMatches(t *testing.T) {
	budget := Budget{
		ID:         1,
		CategoryID: 10,
		Amount:     decimal.NewFromInt(1000),
		Currency:   "ZAR",
		StartDate:  NewDate(2024, 1, 1),
		EndDate:    NewDate(2024, 1, 31),
		PeriodType: Monthly,
	}

	tests := []struct {
		name    string
		budget  Budget
		tx      Transaction
		catType CategoryType
		want    bool
	}{
		{
			name:    "category and date match",
			budget:  budget,
			tx:      Transaction{CategoryID: 10, Date: NewDate(2024, 1, 15), Type: Expense},
			catType: Expense,
			want:    true,
		},
		{
			name:    "different category",
			budget:  budget,
			tx:      Transaction{CategoryID: 11, Date: NewDate(2024, 1, 15), Type: Expense},
			catType: Expense,
			want:    false,
		},
		{
			name:    "date before period",
			budget:  budget,
			tx:      Transaction{CategoryID: 10, Date: NewDate(2023, 12, 31), Type: Expense},
			catType: Expense,
			want:    false,
		},
		{
			name:    "date after period",
			budget:  budget,
			tx:      Transaction{CategoryID: 10, Date: NewDate(2024, 2, 1), Type: Expense},
			catType: Expense,
			want:    false,
		},
		{
			name:    "period boundaries are inclusive",
			budget:  budget,
			tx:      Transaction{CategoryID: 10, Date: NewDate(2024, 1, 31), Type: Expense},
			catType: Expense,
			want:    true,
		},
		{
			name:    "income transaction never matches expense budget",
			budget:  budget,
			tx:      Transaction{CategoryID: 10, Date: NewDate(2024, 1, 15), Type: Income},
			catType: Expense,
			want:    false,
		},
		{
			name: "subcategory budget requires same subcategory",
			budget: func() Budget {
				b := budget
				b.SubcategoryID = ptr(5)
				return b
			}(),
			tx:      Transaction{CategoryID: 10, SubcategoryID: ptr(6), Date: NewDate(2024, 1, 15), Type: Expense},
			catType: Expense,
			want:    false,
		},
		{
			name: "subcategory budget matches same subcategory",
			budget: func() Budget {
				b := budget
				b.SubcategoryID = ptr(5)
				return b
			}(),
			tx:      Transaction{CategoryID: 10, SubcategoryID: ptr(5), Date: NewDate(2024, 1, 15), Type: Expense},
			catType: Expense,
			want:    true,
		},
		{
			name: "subcategory budget never matches transaction without one",
			budget: func() Budget {
				b := budget
				b.SubcategoryID = ptr(5)
				return b
			}(),
			tx:      Transaction{CategoryID: 10, Date: NewDate(2024, 1, 15), Type: Expense},
			catType: Expense,
			want:    false,
		},
		{
			name:    "category-wide budget matches transaction with subcategory",
			budget:  budget,
			tx:      Transaction{CategoryID: 10, SubcategoryID: ptr(5), Date: NewDate(2024, 1, 15), Type: Expense},
			catType: Expense,
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BudgetMatches(tt.budget, tt.tx, tt.catType); got != tt.want {
				t.Errorf("BudgetMatches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchingBudgetsOverlap(t *testing.T) {
	// A category-wide budget and a subcategory budget both count the same
	// transaction. Buckets overlap on purpose.
	categories := map[int64]Category{10: {ID: 10, Name: "Groceries", Type: Expense}}
	budgets := []Budget{
		{ID: 1, CategoryID: 10, StartDate: NewDate(2024, 1, 1), EndDate: NewDate(2024, 1, 31)},
		{ID: 2, CategoryID: 10, SubcategoryID: ptr(5), StartDate: NewDate(2024, 1, 1), EndDate: NewDate(2024, 1, 31)},
	}
	tx := Transaction{CategoryID: 10, SubcategoryID: ptr(5), Date: NewDate(2024, 1, 10), Type: Expense}

	matched := MatchingBudgets(tx, budgets, categories)
	if len(matched) != 2 {
		t.Fatalf("expected both budgets to match, got %d", len(matched))
	}
}

func TestMatchingBudgetsUnknownCategory(t *testing.T) {
	budgets := []Budget{{ID: 1, CategoryID: 99, StartDate: NewDate(2024, 1, 1), EndDate: NewDate(2024, 1, 31)}}
	tx := Transaction{CategoryID: 99, Date: NewDate(2024, 1, 10), Type: Expense}

	if matched := MatchingBudgets(tx, budgets, map[int64]Category{}); matched != nil {
		t.Errorf("budgets with unknown categories must not match, got %v", matched)
	}
}

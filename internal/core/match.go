package core

// BudgetMatches reports whether a budget counts the given transaction:
// same category, subcategory either unset on the budget or equal to the
// transaction's, transaction date inside the budget period, and the budget's
// category type equal to the transaction type. An income transaction never
// matches an expense budget, and vice versa.
//
// catType is the type of the budget's category. Budgets overlap on purpose:
// a category-wide budget and a subcategory budget both count the same
// transaction.
func BudgetMatches(b Budget, tx Transaction, catType CategoryType) bool {
	if b.CategoryID != tx.CategoryID {
		return false
	}
	if catType != tx.Type {
		return false
	}
	if b.SubcategoryID != nil {
		if tx.SubcategoryID == nil || *b.SubcategoryID != *tx.SubcategoryID {
			return false
		}
	}
	return tx.Date.Within(b.StartDate, b.EndDate)
}

// MatchingBudgets returns every budget the transaction counts against.
// The categories map supplies each budget's category for the type check;
// budgets whose category is unknown never match.
func MatchingBudgets(tx Transaction, budgets []Budget, categories map[int64]Category) []Budget {
	var matched []Budget
	for _, b := range budgets {
		cat, ok := categories[b.CategoryID]
		if !ok {
			continue
		}
		if BudgetMatches(b, tx, cat.Type) {
			matched = append(matched, b)
		}
	}
	return matched
}

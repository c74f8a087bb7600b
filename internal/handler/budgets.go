package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fintrack/internal/core"
	"fintrack/internal/middleware"
	"fintrack/internal/storage"
)

type budgetRequest struct {
	CategoryID    int64  `json:"category_id" binding:"required"`
	SubcategoryID *int64 `json:"subcategory_id"`
	Amount        string `json:"amount" binding:"required"`
	Currency      string `json:"currency" binding:"required,currency_code"`
	StartDate     string `json:"start_date" binding:"required"`
	EndDate       string `json:"end_date" binding:"required"`
	PeriodType    string `json:"period_type" binding:"required,oneof=monthly yearly custom"`
}

type budgetResponse struct {
	ID            int64  `json:"id"`
	CategoryID    int64  `json:"category_id"`
	SubcategoryID *int64 `json:"subcategory_id,omitempty"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	PeriodType    string `json:"period_type"`
}

func toBudgetResponse(b core.Budget) budgetResponse {
	return budgetResponse{
		ID:            b.ID,
		CategoryID:    b.CategoryID,
		SubcategoryID: b.SubcategoryID,
		Amount:        core.FormatAmount(b.Amount),
		Currency:      b.Currency,
		StartDate:     b.StartDate.String(),
		EndDate:       b.EndDate.String(),
		PeriodType:    string(b.PeriodType),
	}
}

func (r budgetRequest) toDomain(userID int64) (core.Budget, error) {
	amount, err := core.ParseAmount(r.Amount)
	if err != nil {
		return core.Budget{}, err
	}
	start, err := core.ParseDate(r.StartDate)
	if err != nil {
		return core.Budget{}, core.ErrInvalidDateRange
	}
	end, err := core.ParseDate(r.EndDate)
	if err != nil {
		return core.Budget{}, core.ErrInvalidDateRange
	}
	return core.Budget{
		UserID:        userID,
		CategoryID:    r.CategoryID,
		SubcategoryID: r.SubcategoryID,
		Amount:        amount,
		Currency:      r.Currency,
		StartDate:     start,
		EndDate:       end,
		PeriodType:    core.PeriodType(r.PeriodType),
	}, nil
}

func (h *Handler) CreateBudget(c *gin.Context) {
	var req budgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	b, err := req.toDomain(middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	created, err := h.finance.CreateBudget(c.Request.Context(), b)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBudgetResponse(created))
}

func (h *Handler) ListBudgets(c *gin.Context) {
	var f storage.BudgetFilter
	var err error
	if f.CategoryID, err = queryInt64(c, "category_id"); err != nil {
		badRequest(c, err)
		return
	}
	if f.SubcategoryID, err = queryInt64(c, "subcategory_id"); err != nil {
		badRequest(c, err)
		return
	}
	if raw := c.Query("currency"); raw != "" {
		f.Currency = &raw
	}
	if f.ActiveOn, err = queryDate(c, "active_on"); err != nil {
		badRequest(c, err)
		return
	}
	if f.ActiveOn == nil && c.Query("active_only") == "true" {
		today := core.Today()
		f.ActiveOn = &today
	}

	budgets, err := h.finance.ListBudgets(c.Request.Context(), middleware.UserID(c), f)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]budgetResponse, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, toBudgetResponse(b))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) GetBudget(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b, err := h.finance.GetBudget(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBudgetResponse(b))
}

func (h *Handler) UpdateBudget(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req budgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	b, err := req.toDomain(middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	b.ID = id

	updated, err := h.finance.UpdateBudget(c.Request.Context(), b)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBudgetResponse(updated))
}

func (h *Handler) DeleteBudget(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.finance.DeleteBudget(c.Request.Context(), middleware.UserID(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Summaries

type budgetSummaryItemResponse struct {
	BudgetID        int64   `json:"budget_id"`
	CategoryID      int64   `json:"category_id"`
	CategoryName    string  `json:"category_name"`
	SubcategoryID   *int64  `json:"subcategory_id,omitempty"`
	SubcategoryName *string `json:"subcategory_name,omitempty"`
	BudgetAmount    string  `json:"budget_amount"`
	ActualAmount    string  `json:"actual_amount"`
	Currency        string  `json:"currency"`
	PercentageUsed  string  `json:"percentage_used"`
}

type budgetSummaryResponse struct {
	Items             []budgetSummaryItemResponse `json:"items"`
	TotalBudget       string                      `json:"total_budget"`
	TotalActual       string                      `json:"total_actual"`
	OverallPercentage string                      `json:"overall_percentage"`
	Currency          string                      `json:"currency"`
	Period            string                      `json:"period"`
}

func toBudgetSummaryResponse(s core.BudgetSummary) budgetSummaryResponse {
	items := make([]budgetSummaryItemResponse, 0, len(s.Items))
	for _, item := range s.Items {
		items = append(items, budgetSummaryItemResponse{
			BudgetID:        item.BudgetID,
			CategoryID:      item.CategoryID,
			CategoryName:    item.CategoryName,
			SubcategoryID:   item.SubcategoryID,
			SubcategoryName: item.SubcategoryName,
			BudgetAmount:    core.FormatAmount(item.BudgetAmount),
			ActualAmount:    core.FormatAmount(item.ActualAmount),
			Currency:        item.Currency,
			PercentageUsed:  core.FormatAmount(item.PercentageUsed),
		})
	}
	return budgetSummaryResponse{
		Items:             items,
		TotalBudget:       core.FormatAmount(s.TotalBudget),
		TotalActual:       core.FormatAmount(s.TotalActual),
		OverallPercentage: core.FormatAmount(s.OverallPercentage),
		Currency:          s.Currency,
		Period:            s.Period,
	}
}

// BudgetSummary reports all budgets overlapping the requested range, which
// defaults to the current calendar month.
func (h *Handler) BudgetSummary(c *gin.Context) {
	start, err := queryDate(c, "start_date")
	if err != nil {
		badRequest(c, err)
		return
	}
	end, err := queryDate(c, "end_date")
	if err != nil {
		badRequest(c, err)
		return
	}
	if start == nil || end == nil {
		first, last := core.CurrentMonthBounds()
		if start == nil {
			start = &first
		}
		if end == nil {
			end = &last
		}
	}
	if start.After(end.Time) {
		writeError(c, core.ErrInvalidDateRange)
		return
	}

	summary, err := h.reports.BudgetSummary(c.Request.Context(), middleware.UserID(c), *start, *end, c.Query("currency"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBudgetSummaryResponse(summary))
}

func (h *Handler) SingleBudgetSummary(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	summary, err := h.reports.SingleBudgetSummary(c.Request.Context(), middleware.UserID(c), id, c.Query("currency"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBudgetSummaryResponse(summary))
}

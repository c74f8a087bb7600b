package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"fintrack/internal/core"
	"fintrack/internal/middleware"
)

type dataPointResponse struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type datasetResponse struct {
	Label string   `json:"label"`
	Data  []string `json:"data"`
}

type trendDataResponse struct {
	Labels   []string          `json:"labels"`
	Datasets []datasetResponse `json:"datasets"`
}

type monthlyReportResponse struct {
	IncomeByCategory  []dataPointResponse `json:"income_by_category"`
	ExpenseByCategory []dataPointResponse `json:"expense_by_category"`
	BudgetVsActual    trendDataResponse   `json:"budget_vs_actual"`
	DailyTransactions trendDataResponse   `json:"daily_transactions"`
	NetIncomeExpense  trendDataResponse   `json:"net_income_expense"`
}

func toDataPoints(points []core.DataPoint) []dataPointResponse {
	out := make([]dataPointResponse, 0, len(points))
	for _, p := range points {
		out = append(out, dataPointResponse{Label: p.Label, Value: core.FormatAmount(p.Value)})
	}
	return out
}

func toTrendData(t core.TrendData) trendDataResponse {
	resp := trendDataResponse{Labels: t.Labels, Datasets: make([]datasetResponse, 0, len(t.Datasets))}
	if resp.Labels == nil {
		resp.Labels = []string{}
	}
	for _, ds := range t.Datasets {
		data := make([]string, len(ds.Data))
		for i, v := range ds.Data {
			data[i] = core.FormatAmount(v)
		}
		resp.Datasets = append(resp.Datasets, datasetResponse{Label: ds.Label, Data: data})
	}
	return resp
}

func (h *Handler) MonthlyReport(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1970 || year > 9999 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
		return
	}

	report, err := h.reports.MonthlyReport(c.Request.Context(), middleware.UserID(c), year, month, c.Query("currency"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, monthlyReportResponse{
		IncomeByCategory:  toDataPoints(report.IncomeByCategory),
		ExpenseByCategory: toDataPoints(report.ExpenseByCategory),
		BudgetVsActual:    toTrendData(report.BudgetVsActual),
		DailyTransactions: toTrendData(report.DailyTransactions),
		NetIncomeExpense:  toTrendData(report.NetIncomeExpense),
	})
}

// Trends returns the month-by-month budget-vs-actual series. Without an
// explicit range it covers the last six months including the current one.
func (h *Handler) Trends(c *gin.Context) {
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
		now := time.Now().UTC()
		if end == nil {
			_, last := core.MonthBounds(now.Year(), int(now.Month()))
			end = &last
		}
		if start == nil {
			first := core.NewDate(now.Year(), int(now.Month())-5, 1)
			start = &first
		}
	}

	var filter core.TrendFilter
	if filter.CategoryID, err = queryInt64(c, "category_id"); err != nil {
		badRequest(c, err)
		return
	}
	if filter.SubcategoryID, err = queryInt64(c, "subcategory_id"); err != nil {
		badRequest(c, err)
		return
	}

	trend, err := h.reports.Trends(c.Request.Context(), middleware.UserID(c), *start, *end, c.Query("currency"), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTrendData(trend))
}

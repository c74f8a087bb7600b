package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fintrack/internal/core"
	"fintrack/internal/middleware"
	"fintrack/internal/storage"
)

type transactionRequest struct {
	CategoryID    int64  `json:"category_id" binding:"required"`
	SubcategoryID *int64 `json:"subcategory_id"`
	Amount        string `json:"amount" binding:"required"`
	Currency      string `json:"currency" binding:"required,currency_code"`
	Date          string `json:"date" binding:"required"`
	Description   string `json:"description" binding:"required"`
}

type transactionResponse struct {
	ID            int64  `json:"id"`
	CategoryID    int64  `json:"category_id"`
	SubcategoryID *int64 `json:"subcategory_id,omitempty"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	Date          string `json:"date"`
	Description   string `json:"description"`
	Type          string `json:"type"`
}

func toTransactionResponse(tx core.Transaction) transactionResponse {
	return transactionResponse{
		ID:            tx.ID,
		CategoryID:    tx.CategoryID,
		SubcategoryID: tx.SubcategoryID,
		Amount:        core.FormatAmount(tx.Amount),
		Currency:      tx.Currency,
		Date:          tx.Date.String(),
		Description:   tx.Description,
		Type:          string(tx.Type),
	}
}

func (r transactionRequest) toDomain(userID int64) (core.Transaction, error) {
	amount, err := core.ParseAmount(r.Amount)
	if err != nil {
		return core.Transaction{}, err
	}
	date, err := core.ParseDate(r.Date)
	if err != nil {
		return core.Transaction{}, core.ErrInvalidDateRange
	}
	return core.Transaction{
		UserID:        userID,
		CategoryID:    r.CategoryID,
		SubcategoryID: r.SubcategoryID,
		Amount:        amount,
		Currency:      r.Currency,
		Date:          date,
		Description:   r.Description,
	}, nil
}

func (h *Handler) CreateTransaction(c *gin.Context) {
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	tx, err := req.toDomain(middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	created, err := h.finance.CreateTransaction(c.Request.Context(), tx)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTransactionResponse(created))
}

func (h *Handler) ListTransactions(c *gin.Context) {
	filter, err := parseTransactionFilter(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	txs, err := h.finance.ListTransactions(c.Request.Context(), middleware.UserID(c), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionResponse(tx))
	}
	c.JSON(http.StatusOK, out)
}

func parseTransactionFilter(c *gin.Context) (storage.TransactionFilter, error) {
	var f storage.TransactionFilter
	var err error

	if f.CategoryID, err = queryInt64(c, "category_id"); err != nil {
		return f, err
	}
	if f.SubcategoryID, err = queryInt64(c, "subcategory_id"); err != nil {
		return f, err
	}
	if raw := c.Query("type"); raw != "" {
		t := core.CategoryType(raw)
		if !t.Valid() {
			return f, core.ErrInvalidType
		}
		f.Type = &t
	}
	if f.StartDate, err = queryDate(c, "start_date"); err != nil {
		return f, err
	}
	if f.EndDate, err = queryDate(c, "end_date"); err != nil {
		return f, err
	}
	if raw := c.Query("limit"); raw != "" {
		if f.Limit, err = strconv.Atoi(raw); err != nil || f.Limit < 0 {
			return f, errors.New("invalid limit")
		}
	}
	if raw := c.Query("offset"); raw != "" {
		if f.Offset, err = strconv.Atoi(raw); err != nil || f.Offset < 0 {
			return f, errors.New("invalid offset")
		}
	}
	return f, nil
}

type transactionSummaryResponse struct {
	TotalIncome  string `json:"total_income"`
	TotalExpense string `json:"total_expense"`
	Net          string `json:"net"`
	Count        int    `json:"count"`
	Currency     string `json:"currency"`
	Period       string `json:"period"`
}

// TransactionSummary totals the range's transactions, defaulting to the
// current calendar month.
func (h *Handler) TransactionSummary(c *gin.Context) {
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

	summary, err := h.reports.TransactionSummary(c.Request.Context(), middleware.UserID(c), *start, *end, c.Query("currency"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, transactionSummaryResponse{
		TotalIncome:  core.FormatAmount(summary.TotalIncome),
		TotalExpense: core.FormatAmount(summary.TotalExpense),
		Net:          core.FormatAmount(summary.Net),
		Count:        summary.Count,
		Currency:     summary.Currency,
		Period:       summary.Period,
	})
}

func (h *Handler) GetTransaction(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	tx, err := h.finance.GetTransaction(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTransactionResponse(tx))
}

func (h *Handler) UpdateTransaction(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	tx, err := req.toDomain(middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	tx.ID = id

	updated, err := h.finance.UpdateTransaction(c.Request.Context(), tx)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTransactionResponse(updated))
}

func (h *Handler) DeleteTransaction(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.finance.DeleteTransaction(c.Request.Context(), middleware.UserID(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

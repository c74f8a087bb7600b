package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fintrack/internal/core"
	"fintrack/internal/middleware"
)

func (h *Handler) AvailableCurrencies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"available": h.cfg.AvailableCurrencies,
		"default":   h.cfg.DefaultCurrency,
	})
}

type rateRequest struct {
	FromCurrency  string `json:"from_currency" binding:"required,currency_code"`
	ToCurrency    string `json:"to_currency" binding:"required,currency_code"`
	Rate          string `json:"rate" binding:"required"`
	EffectiveDate string `json:"effective_date" binding:"required"`
}

type rateResponse struct {
	ID            int64  `json:"id"`
	FromCurrency  string `json:"from_currency"`
	ToCurrency    string `json:"to_currency"`
	Rate          string `json:"rate"`
	EffectiveDate string `json:"effective_date"`
}

func toRateResponse(r core.CurrencyRate) rateResponse {
	return rateResponse{
		ID:            r.ID,
		FromCurrency:  r.FromCurrency,
		ToCurrency:    r.ToCurrency,
		Rate:          r.Rate.String(),
		EffectiveDate: r.EffectiveDate.String(),
	}
}

// SaveRate stores an exchange rate; posting the same pair and effective date
// again overwrites the stored rate.
func (h *Handler) SaveRate(c *gin.Context) {
	var req rateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	rate, err := core.ParseAmount(req.Rate)
	if err != nil {
		writeError(c, core.ErrInvalidRate)
		return
	}
	effective, err := core.ParseDate(req.EffectiveDate)
	if err != nil {
		badRequest(c, err)
		return
	}

	saved, err := h.finance.SaveRate(c.Request.Context(), core.CurrencyRate{
		UserID:        middleware.UserID(c),
		FromCurrency:  req.FromCurrency,
		ToCurrency:    req.ToCurrency,
		Rate:          rate,
		EffectiveDate: effective,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toRateResponse(saved))
}

func (h *Handler) ListRates(c *gin.Context) {
	var from, to *string
	if raw := c.Query("from_currency"); raw != "" {
		from = &raw
	}
	if raw := c.Query("to_currency"); raw != "" {
		to = &raw
	}

	rates, err := h.finance.ListRates(c.Request.Context(), middleware.UserID(c), from, to)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]rateResponse, 0, len(rates))
	for _, r := range rates {
		out = append(out, toRateResponse(r))
	}
	c.JSON(http.StatusOK, out)
}

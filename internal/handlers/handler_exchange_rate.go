package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
)

// exchangeRateHandler handles HTTP requests related to exchange rates.
type exchangeRateHandler struct {
	exchangeRateService portssvc.ExchangeRateSvcFacade
}

// newExchangeRateHandler creates a new exchangeRateHandler.
func newExchangeRateHandler(ers portssvc.ExchangeRateSvcFacade) *exchangeRateHandler {
	return &exchangeRateHandler{exchangeRateService: ers}
}

// RegisterExchangeRateRoutes registers exchange rate routes on an organization-scoped group.
func RegisterExchangeRateRoutes(rg *gin.RouterGroup, ers portssvc.ExchangeRateSvcFacade) {
	h := newExchangeRateHandler(ers)

	rates := rg.Group("/exchange-rates")
	{
		rates.POST("", h.createExchangeRate)
		rates.GET("", h.listExchangeRates)
		rates.GET("/effective", h.getEffectiveRate)
	}
}

// createExchangeRate godoc
// @Summary Create a new exchange rate
// @Description Records a rate such that amount(to) = amount(from) * rate, effective from the given date.
// @Tags exchange-rates
// @Accept  json
// @Produce  json
// @Param   orgID path string true "Organization ID"
// @Param   exchange_rate body dto.CreateExchangeRateRequest true "Exchange Rate details"
// @Success 201 {object} domain.ExchangeRate
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create exchange rate"
// @Security BearerAuth
// @Router /organizations/{orgID}/exchange-rates [post]
func (h *exchangeRateHandler) createExchangeRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateExchangeRate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("from", req.FromCurrency), slog.String("to", req.ToCurrency))
	rate, err := h.exchangeRateService.CreateExchangeRate(c.Request.Context(), c.Param("orgID"), req, actorID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create exchange rate")
		return
	}

	logger.Info("Exchange rate created successfully", slog.String("exchange_rate_id", rate.ExchangeRateID))
	c.JSON(http.StatusCreated, rate)
}

// listExchangeRates godoc
// @Summary List exchange rates
// @Tags exchange-rates
// @Produce  json
// @Param   orgID path string true "Organization ID"
// @Success 200 {array} domain.ExchangeRate
// @Failure 500 {object} map[string]string "Failed to list exchange rates"
// @Security BearerAuth
// @Router /organizations/{orgID}/exchange-rates [get]
func (h *exchangeRateHandler) listExchangeRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	rates, err := h.exchangeRateService.ListExchangeRates(c.Request.Context(), c.Param("orgID"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to list exchange rates")
		return
	}
	c.JSON(http.StatusOK, rates)
}

// getEffectiveRate godoc
// @Summary Resolve the effective rate between two currencies
// @Description Uses the latest direct rate on or before date, then the inverse of the reverse pair, then 1.
// @Tags exchange-rates
// @Produce  json
// @Param   orgID path string true "Organization ID"
// @Param   from query string true "From currency code"
// @Param   to query string true "To currency code"
// @Param   date query string false "Rate date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 500 {object} map[string]string "Failed to resolve exchange rate"
// @Security BearerAuth
// @Router /organizations/{orgID}/exchange-rates/effective [get]
func (h *exchangeRateHandler) getEffectiveRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	from := strings.ToUpper(c.Query("from"))
	to := strings.ToUpper(c.Query("to"))
	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameters 'from' and 'to' are required"})
		return
	}

	onDate := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD"})
			return
		}
		onDate = parsed
	}

	rate, err := h.exchangeRateService.GetFxRate(c.Request.Context(), c.Param("orgID"), from, to, onDate)
	if err != nil {
		respondWithError(c, logger, err, "Failed to resolve exchange rate")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"fromCurrency": from,
		"toCurrency":   to,
		"date":         onDate.Format(time.DateOnly),
		"rate":         rate.String(),
	})
}

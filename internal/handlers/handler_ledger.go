package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
)

// ledgerHandler serves balance queries and ledger maintenance.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// RegisterLedgerRoutes registers balance, ledger and report routes on an organization-scoped group.
func RegisterLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := &ledgerHandler{ledgerService: ledgerService}

	rg.GET("/accounts/:accountID/balance", h.getAccountBalance)
	rg.GET("/accounts/:accountID/ledger", h.listAccountLedger)
	rg.GET("/reports/trial-balance", h.getTrialBalance)
	rg.POST("/ledger/rebuild", h.rebuildRunningBalances)
}

// bindAsOf reads the optional asOf query parameter, defaulting to today.
func bindAsOf(c *gin.Context, logger *slog.Logger) (time.Time, bool) {
	var q dto.AsOfQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		logger.Warn("Invalid asOf date format", slog.String("asOf", c.Query("asOf")), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD"})
		return time.Time{}, false
	}
	if q.AsOf == "" {
		return time.Now().UTC(), true
	}
	asOf, err := time.Parse(time.DateOnly, q.AsOf)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD"})
		return time.Time{}, false
	}
	return asOf, true
}

// getAccountBalance godoc
// @Summary Get an account balance
// @Description Returns the account balance at the end of asOf, in the account's normal-balance sign convention.
// @Tags ledger
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param accountID path string true "Account ID"
// @Param asOf query string false "Balance date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} domain.AccountBalance
// @Failure 400 {object} map[string]string "Invalid date"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to compute balance"
// @Security BearerAuth
// @Router /organizations/{orgID}/accounts/{accountID}/balance [get]
func (h *ledgerHandler) getAccountBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	asOf, ok := bindAsOf(c, logger)
	if !ok {
		return
	}

	balance, err := h.ledgerService.GetAccountBalance(c.Request.Context(), c.Param("orgID"), c.Param("accountID"), asOf)
	if err != nil {
		respondWithError(c, logger.With(slog.String("account_id", c.Param("accountID"))), err, "Failed to compute balance")
		return
	}
	c.JSON(http.StatusOK, balance)
}

// getTrialBalance godoc
// @Summary Generate trial balance report
// @Description Generates a trial balance as of a specific date, with control totals and the balanced flag.
// @Tags reports
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param asOf query string false "Report date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} domain.TrialBalance
// @Failure 400 {object} map[string]string "Invalid date"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /organizations/{orgID}/reports/trial-balance [get]
func (h *ledgerHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	asOf, ok := bindAsOf(c, logger)
	if !ok {
		return
	}

	report, err := h.ledgerService.GetTrialBalance(c.Request.Context(), c.Param("orgID"), asOf)
	if err != nil {
		respondWithError(c, logger, err, "Failed to generate report")
		return
	}
	if !report.IsBalanced {
		logger.Warn("Trial balance is out of balance", slog.String("net_difference", report.NetDifference.String()))
	}
	c.JSON(http.StatusOK, report)
}

// listAccountLedger godoc
// @Summary List an account's ledger rows
// @Description Lists posted ledger rows oldest first with their running balances.
// @Tags ledger
// @Produce json
// @Param orgID path string true "Organization ID"
// @Param accountID path string true "Account ID"
// @Param limit query int false "Page size" default(50)
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListLedgerEntriesResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to list ledger"
// @Security BearerAuth
// @Router /organizations/{orgID}/accounts/{accountID}/ledger [get]
func (h *ledgerHandler) listAccountLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListLedgerEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListAccountLedger", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.ledgerService.ListAccountLedger(c.Request.Context(), c.Param("orgID"), c.Param("accountID"), params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list ledger")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// rebuildRunningBalances godoc
// @Summary Rebuild running balances
// @Description Replays every account's ledger history and refreshes the cached balances.
// @Tags ledger
// @Param orgID path string true "Organization ID"
// @Success 204 "No Content"
// @Failure 409 {object} map[string]string "An account changed during the rebuild"
// @Failure 500 {object} map[string]string "Failed to rebuild running balances"
// @Security BearerAuth
// @Router /organizations/{orgID}/ledger/rebuild [post]
func (h *ledgerHandler) rebuildRunningBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("orgID")

	if err := h.ledgerService.RebuildRunningBalances(c.Request.Context(), orgID); err != nil {
		respondWithError(c, logger, err, "Failed to rebuild running balances")
		return
	}

	logger.Info("Running balances rebuilt", slog.String("organization_id", orgID))
	c.Status(http.StatusNoContent)
}

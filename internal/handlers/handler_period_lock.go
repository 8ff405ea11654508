package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
)

type periodLockHandler struct {
	periodLockService portssvc.PeriodLockSvcFacade
}

// RegisterPeriodLockRoutes registers accounting period administration routes.
func RegisterPeriodLockRoutes(rg *gin.RouterGroup, pls portssvc.PeriodLockSvcFacade) {
	h := &periodLockHandler{periodLockService: pls}

	locks := rg.Group("/period-locks")
	{
		locks.POST("", h.lockPeriod)
		locks.GET("", h.listPeriodLocks)
		locks.GET("/status", h.getPeriodStatus)
		locks.POST("/:periodLockID/unlock", h.unlockPeriod)
	}
}

// lockPeriod godoc
// @Summary Lock an accounting period
// @Description Closes the inclusive date range. Entries dated inside it can no longer be created, posted or reversed into.
// @Tags period-locks
// @Accept  json
// @Produce  json
// @Param   orgID path string true "Organization ID"
// @Param   period body dto.LockPeriodRequest true "Period bounds"
// @Success 201 {object} domain.PeriodLock
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Failed to lock period"
// @Security BearerAuth
// @Router /organizations/{orgID}/period-locks [post]
func (h *periodLockHandler) lockPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LockPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for LockPeriod", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}

	lock, err := h.periodLockService.LockPeriod(c.Request.Context(), c.Param("orgID"), req, actorID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to lock period")
		return
	}

	logger.Info("Period locked", slog.String("period_lock_id", lock.PeriodLockID))
	c.JSON(http.StatusCreated, lock)
}

// unlockPeriod godoc
// @Summary Reopen a locked accounting period
// @Tags period-locks
// @Produce  json
// @Param   orgID path string true "Organization ID"
// @Param   periodLockID path string true "Period lock ID"
// @Success 200 {object} domain.PeriodLock
// @Failure 404 {object} map[string]string "Period lock not found"
// @Failure 500 {object} map[string]string "Failed to unlock period"
// @Security BearerAuth
// @Router /organizations/{orgID}/period-locks/{periodLockID}/unlock [post]
func (h *periodLockHandler) unlockPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actorID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}

	lock, err := h.periodLockService.UnlockPeriod(c.Request.Context(), c.Param("orgID"), c.Param("periodLockID"), actorID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to unlock period")
		return
	}
	c.JSON(http.StatusOK, lock)
}

// listPeriodLocks godoc
// @Summary List accounting period locks
// @Tags period-locks
// @Produce  json
// @Param   orgID path string true "Organization ID"
// @Success 200 {array} domain.PeriodLock
// @Failure 500 {object} map[string]string "Failed to list period locks"
// @Security BearerAuth
// @Router /organizations/{orgID}/period-locks [get]
func (h *periodLockHandler) listPeriodLocks(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	locks, err := h.periodLockService.ListPeriodLocks(c.Request.Context(), c.Param("orgID"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to list period locks")
		return
	}
	c.JSON(http.StatusOK, locks)
}

// getPeriodStatus godoc
// @Summary Check whether a date is locked
// @Tags period-locks
// @Produce  json
// @Param   orgID path string true "Organization ID"
// @Param   asOf query string false "Date to check (YYYY-MM-DD)" default(current date)
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Invalid date"
// @Failure 500 {object} map[string]string "Failed to check period lock"
// @Security BearerAuth
// @Router /organizations/{orgID}/period-locks/status [get]
func (h *periodLockHandler) getPeriodStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	date, ok := bindAsOf(c, logger)
	if !ok {
		return
	}

	locked, err := h.periodLockService.IsPeriodLocked(c.Request.Context(), c.Param("orgID"), date)
	if err != nil {
		respondWithError(c, logger, err, "Failed to check period lock")
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date.Format("2006-01-02"), "locked": locked})
}

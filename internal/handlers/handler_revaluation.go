package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
)

type revaluationHandler struct {
	revaluationService portssvc.RevaluationSvcFacade
}

// RegisterRevaluationRoutes registers the FX revaluation run route.
func RegisterRevaluationRoutes(rg *gin.RouterGroup, rs portssvc.RevaluationSvcFacade) {
	h := &revaluationHandler{revaluationService: rs}
	rg.POST("/revaluations", h.runRevaluation)
}

// runRevaluation godoc
// @Summary Run an FX revaluation
// @Description Books unrealized gains and losses for foreign-currency balances in the requested categories, optionally with next-day reversals.
// @Tags revaluations
// @Accept  json
// @Produce  json
// @Param   orgID path string true "Organization ID"
// @Param   run body dto.RunRevaluationRequest true "Revaluation parameters"
// @Success 201 {object} domain.RevaluationResult
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 422 {object} map[string]string "Revaluation accounts missing or unknown"
// @Failure 423 {object} map[string]string "Revaluation or reversal date falls in a locked period"
// @Failure 500 {object} map[string]string "Failed to run revaluation"
// @Security BearerAuth
// @Router /organizations/{orgID}/revaluations [post]
func (h *revaluationHandler) runRevaluation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RunRevaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RunRevaluation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}

	result, err := h.revaluationService.RunRevaluation(c.Request.Context(), c.Param("orgID"), req, actorID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to run revaluation")
		return
	}

	logger.Info("Revaluation completed", slog.String("run_id", result.RunID), slog.Int("entries", result.Count))
	c.JSON(http.StatusCreated, result)
}

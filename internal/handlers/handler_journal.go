package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
)

// journalHandler handles HTTP requests related to journal entries.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(js portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{journalService: js}
}

// RegisterJournalRoutes registers journal entry routes on an organization-scoped group.
func RegisterJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	entries := rg.Group("/journal-entries")
	{
		entries.POST("", h.createJournalEntry)
		entries.GET("", h.listJournalEntries)
		entries.GET("/:entryID", h.getJournalEntry)
		entries.POST("/:entryID/post", h.postJournalEntry)
		entries.POST("/:entryID/reverse", h.reverseJournalEntry)
	}

	rg.GET("/source-documents/:documentType/:documentID/journal-entries", h.findBySourceDocument)
}

// createJournalEntry godoc
// @Summary Create a journal entry
// @Description Validates and stores a journal entry as a draft, or posts it straight to the ledger when postImmediately is set.
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   orgID path string true "Organization ID"
// @Param   entry body dto.CreateJournalEntryRequest true "Journal entry"
// @Success 201 {object} domain.JournalEntry
// @Failure 400 {object} map[string]string "Malformed request or line"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 422 {object} map[string]string "Unbalanced entry or unknown account"
// @Failure 423 {object} map[string]string "Entry date falls in a locked period"
// @Failure 500 {object} map[string]string "Failed to create journal entry"
// @Security BearerAuth
// @Router /organizations/{orgID}/journal-entries [post]
func (h *journalHandler) createJournalEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("orgID")

	var req dto.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateJournalEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("organization_id", orgID))
	entry, err := h.journalService.CreateJournalEntry(c.Request.Context(), orgID, req, actorID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create journal entry")
		return
	}

	logger.Info("Journal entry created",
		slog.String("journal_entry_id", entry.JournalEntryID),
		slog.String("entry_number", entry.EntryNumber),
		slog.String("status", string(entry.Status)))
	c.JSON(http.StatusCreated, entry)
}

// getJournalEntry godoc
// @Summary Get a journal entry
// @Tags journal-entries
// @Produce  json
// @Param   orgID path string true "Organization ID"
// @Param   entryID path string true "Journal entry ID"
// @Success 200 {object} domain.JournalEntry
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 500 {object} map[string]string "Failed to retrieve journal entry"
// @Security BearerAuth
// @Router /organizations/{orgID}/journal-entries/{entryID} [get]
func (h *journalHandler) getJournalEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	entry, err := h.journalService.GetJournalEntry(c.Request.Context(), c.Param("orgID"), entryID)
	if err != nil {
		respondWithError(c, logger.With(slog.String("journal_entry_id", entryID)), err, "Failed to retrieve journal entry")
		return
	}
	c.JSON(http.StatusOK, entry)
}

// listJournalEntries godoc
// @Summary List journal entries
// @Description Lists entries newest first, optionally filtered by status. Use nextToken to fetch the following page.
// @Tags journal-entries
// @Produce  json
// @Param   orgID path string true "Organization ID"
// @Param   status query string false "DRAFT, POSTED or REVERSED"
// @Param   limit query int false "Page size" default(50)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListJournalEntriesResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 500 {object} map[string]string "Failed to list journal entries"
// @Security BearerAuth
// @Router /organizations/{orgID}/journal-entries [get]
func (h *journalHandler) listJournalEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListJournalEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListJournalEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.journalService.ListJournalEntries(c.Request.Context(), c.Param("orgID"), params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list journal entries")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// postJournalEntry godoc
// @Summary Post a draft journal entry
// @Description Moves a draft entry to posted and writes its ledger rows.
// @Tags journal-entries
// @Produce  json
// @Param   orgID path string true "Organization ID"
// @Param   entryID path string true "Journal entry ID"
// @Success 200 {object} domain.JournalEntry
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 409 {object} map[string]string "Entry is not a draft"
// @Failure 423 {object} map[string]string "Entry date falls in a locked period"
// @Failure 500 {object} map[string]string "Failed to post journal entry"
// @Security BearerAuth
// @Router /organizations/{orgID}/journal-entries/{entryID}/post [post]
func (h *journalHandler) postJournalEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	actorID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("journal_entry_id", entryID))
	entry, err := h.journalService.PostJournalEntry(c.Request.Context(), c.Param("orgID"), entryID, actorID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to post journal entry")
		return
	}

	logger.Info("Journal entry posted", slog.String("entry_number", entry.EntryNumber))
	c.JSON(http.StatusOK, entry)
}

// reverseJournalEntry godoc
// @Summary Reverse a posted journal entry
// @Description Posts a mirror entry with debits and credits swapped and marks the original as reversed.
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   orgID path string true "Organization ID"
// @Param   entryID path string true "Journal entry ID"
// @Param   reversal body dto.ReverseJournalEntryRequest false "Optional description override"
// @Success 201 {object} dto.ReverseJournalEntryResponse
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 409 {object} map[string]string "Entry is not posted"
// @Failure 423 {object} map[string]string "Reversal date falls in a locked period"
// @Failure 500 {object} map[string]string "Failed to reverse journal entry"
// @Security BearerAuth
// @Router /organizations/{orgID}/journal-entries/{entryID}/reverse [post]
func (h *journalHandler) reverseJournalEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	var req dto.ReverseJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		logger.Warn("Failed to bind JSON for ReverseJournalEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("journal_entry_id", entryID))
	result, err := h.journalService.ReverseJournalEntry(c.Request.Context(), c.Param("orgID"), entryID, actorID, req.Description)
	if err != nil {
		respondWithError(c, logger, err, "Failed to reverse journal entry")
		return
	}

	logger.Info("Journal entry reversed", slog.String("reversal_entry_id", result.Reversal.JournalEntryID))
	c.JSON(http.StatusCreated, dto.ReverseJournalEntryResponse{Original: result.Original, Reversal: result.Reversal})
}

// findBySourceDocument godoc
// @Summary Find journal entries by source document
// @Tags journal-entries
// @Produce  json
// @Param   orgID path string true "Organization ID"
// @Param   documentType path string true "Source document type, e.g. FXRevaluation"
// @Param   documentID path string true "Source document ID"
// @Success 200 {array} domain.JournalEntry
// @Failure 500 {object} map[string]string "Failed to find journal entries"
// @Security BearerAuth
// @Router /organizations/{orgID}/source-documents/{documentType}/{documentID}/journal-entries [get]
func (h *journalHandler) findBySourceDocument(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	entries, err := h.journalService.FindBySourceDocument(c.Request.Context(), c.Param("orgID"), c.Param("documentType"), c.Param("documentID"))
	if err != nil {
		respondWithError(c, logger, err, "Failed to find journal entries")
		return
	}
	c.JSON(http.StatusOK, entries)
}

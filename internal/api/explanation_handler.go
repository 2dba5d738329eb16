package api

import (
	"net/http"
	"strconv"

	"golime/app"
	"golime/domain/core"
	"golime/domain/explanation"
	"golime/internal"
	"golime/internal/errors"
	"golime/ports"

	"github.com/gin-gonic/gin"
)

// ReverseNormalizeRequest is the body of POST /api/v1/explanations/reverse-normalize.
// Columns and SequenceSteps fall back to the server's configured layout when omitted.
type ReverseNormalizeRequest struct {
	Explanation   *explanation.Explanation `json:"explanation" binding:"required"`
	Columns       []string                 `json:"columns"`
	SequenceSteps *int                     `json:"sequence_steps"`
}

// ReverseNormalizeResponse wraps the de-normalized explanation with the layout it was read with
type ReverseNormalizeResponse struct {
	*ports.ExplanationRecord
	Archived bool `json:"archived"`
}

// ExplanationHandler serves reverse normalization and the optional archive
type ExplanationHandler struct {
	normalizer    *app.ReverseNormalizer
	scaler        ports.Scaler
	columns       []string
	sequenceSteps int
	repo          ports.ExplanationRepository // nil when archiving is disabled
	logger        *internal.Logger
}

// NewExplanationHandler creates a new explanation handler. repo may be nil.
func NewExplanationHandler(
	normalizer *app.ReverseNormalizer,
	scaler ports.Scaler,
	columns []string,
	sequenceSteps int,
	repo ports.ExplanationRepository,
	logger *internal.Logger,
) *ExplanationHandler {
	if len(columns) == 0 {
		columns = scaler.FeatureNames()
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &ExplanationHandler{
		normalizer:    normalizer,
		scaler:        scaler,
		columns:       columns,
		sequenceSteps: sequenceSteps,
		repo:          repo,
		logger:        logger.With("api"),
	}
}

// ReverseNormalize de-normalizes the posted explanation with the configured scaler
func (h *ExplanationHandler) ReverseNormalize(c *gin.Context) {
	var req ReverseNormalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "code": errors.CodeInvalidInput, "details": err.Error()})
		return
	}

	columns := req.Columns
	if len(columns) == 0 {
		columns = h.columns
	}
	if len(columns) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "columns are required", "code": errors.CodeInvalidInput})
		return
	}
	steps := h.sequenceSteps
	if req.SequenceSteps != nil {
		steps = *req.SequenceSteps
	}

	out, err := h.normalizer.ReverseNormalize(req.Explanation, columns, steps, h.scaler)
	if err != nil {
		h.respondError(c, err)
		return
	}

	id, err := core.ParseExplanationID(string(out.ID))
	if err != nil {
		if out.ID != "" {
			h.logger.Warn("replacing explanation id %q: %v", out.ID, err)
		}
		id = core.NewExplanationID()
	}
	out.ID = id
	record := &ports.ExplanationRecord{
		ID:            out.ID,
		Columns:       columns,
		SequenceSteps: steps,
		Scaler:        h.scaler.Fingerprint(),
		Explanation:   out,
		CreatedAt:     core.Now(),
	}

	archived := false
	if h.repo != nil {
		if err := h.repo.Save(c.Request.Context(), record); err != nil {
			// archive failures do not fail the request
			h.logger.Error("failed to archive explanation %s: %v", record.ID, err)
		} else {
			archived = true
		}
	}

	c.JSON(http.StatusOK, ReverseNormalizeResponse{ExplanationRecord: record, Archived: archived})
}

// GetExplanation returns an archived explanation by ID
func (h *ExplanationHandler) GetExplanation(c *gin.Context) {
	if h.repo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Explanation archive is not configured"})
		return
	}

	id, err := core.ParseExplanationID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid explanation ID", "code": errors.CodeInvalidInput})
		return
	}

	record, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		if core.IsNotFoundError(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Explanation not found", "code": errors.CodeNotFound})
			return
		}
		h.logger.Error("failed to load explanation %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load explanation", "code": errors.CodeDatabaseError})
		return
	}

	c.JSON(http.StatusOK, record)
}

// ListExplanations returns the most recently archived explanations
func (h *ExplanationHandler) ListExplanations(c *gin.Context) {
	if h.repo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Explanation archive is not configured"})
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 500 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 500", "code": errors.CodeInvalidInput})
			return
		}
		limit = parsed
	}

	records, err := h.repo.ListRecent(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list explanations: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list explanations", "code": errors.CodeDatabaseError})
		return
	}

	c.JSON(http.StatusOK, gin.H{"explanations": records, "count": len(records)})
}

// Health reports liveness and the scaler the server de-normalizes with
func (h *ExplanationHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"scaler_kind":    h.scaler.Kind(),
		"scaler":         core.Hash(h.scaler.Fingerprint()).Short(),
		"columns":        h.columns,
		"sequence_steps": h.sequenceSteps,
		"archive":        h.repo != nil,
	})
}

// respondError maps normalizer failures to HTTP statuses
func (h *ExplanationHandler) respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.CodeInvalidInput:
		status = http.StatusBadRequest
	case errors.CodeParseError, errors.CodeShapeMismatch, errors.CodeScalerError:
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("reverse normalization failed: %v", err)
	} else {
		h.logger.Debug("rejected explanation: %v", err)
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}

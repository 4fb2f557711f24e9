package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "dompet/internal/errors"
	"dompet/internal/logger"
	"dompet/internal/uuid"
)

// WebhookHandler receives change notifications for rows written outside the
// API, such as Supabase database webhooks on the finance tables.
type WebhookHandler struct {
	invalidator Invalidator
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(invalidator Invalidator) *WebhookHandler {
	return &WebhookHandler{invalidator: invalidator}
}

// InvalidateRequest accepts either an explicit user_id or a Supabase
// database webhook payload, whose record or old_record carries user_id.
type InvalidateRequest struct {
	UserID    string                 `json:"user_id"`
	Type      string                 `json:"type"`
	Table     string                 `json:"table"`
	Record    map[string]interface{} `json:"record"`
	OldRecord map[string]interface{} `json:"old_record"`
}

func (r InvalidateRequest) userID() string {
	if r.UserID != "" {
		return r.UserID
	}
	for _, rec := range []map[string]interface{}{r.Record, r.OldRecord} {
		if id, ok := rec["user_id"].(string); ok && id != "" {
			return id
		}
	}
	return ""
}

// Invalidate drops a user's cached dashboards and reports
// @Summary     Invalidate cached views
// @Description Called by database webhooks when a user's transactions, categories, bank accounts or assets change
// @Tags        hooks
// @Accept      json
// @Produce     json
// @Param       X-API-Key header string            true "Webhook key"
// @Param       request   body   InvalidateRequest true "Change notification"
// @Success     202 {object} map[string]string "Invalidated"
// @Failure     400 {object} ErrorResponse "No user in payload"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     503 {object} ErrorResponse "Webhook not configured"
// @Router      /hooks/invalidate [post]
func (h *WebhookHandler) Invalidate(c *gin.Context) {
	var req InvalidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	userID := req.userID()
	if !uuid.IsValid(userID) {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "payload does not carry a valid user_id"))
		return
	}

	h.invalidator.Invalidate(c.Request.Context(), userID)
	logger.Get().Debugw("cache invalidated by webhook", "user_id", userID, "table", req.Table, "type", req.Type)

	c.JSON(http.StatusAccepted, gin.H{"status": "invalidated"})
}

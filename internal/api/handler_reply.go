package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"leadbox/internal/service"
	"leadbox/pkg/logger"
)

type ReplyHandler struct {
	replyService *service.ReplyService
	logger       *zap.Logger
}

func NewReplyHandler(replyService *service.ReplyService, log *zap.Logger) *ReplyHandler {
	return &ReplyHandler{
		replyService: replyService,
		logger:       log,
	}
}

// Generate handles POST /emails/:id/reply. The caller may only request
// replies for emails belonging to their own accounts.
func (h *ReplyHandler) Generate(c *gin.Context) {
	emailID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email id"})
		return
	}

	callerID, ok := callerOwnerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing caller identity"})
		return
	}

	ctx := c.Request.Context()
	log := logger.WithTrace(ctx, h.logger)

	reply, err := h.replyService.GenerateReply(ctx, emailID, callerID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"reply": gin.H{
				"id":               reply.ID,
				"email_id":         reply.EmailID,
				"suggested_text":   reply.Text,
				"confidence_score": reply.Confidence,
				"created_at":       reply.CreatedAt,
			},
		})
	case errors.Is(err, pgx.ErrNoRows):
		c.JSON(http.StatusNotFound, gin.H{"error": "email not found"})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "email belongs to another owner"})
	case errors.Is(err, service.ErrCapabilityUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "reply capability unavailable"})
	default:
		log.Error("Reply generation failed", zap.String("email_id", emailID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate reply"})
	}
}

package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"leadbox/internal/model"
	"leadbox/pkg/logger"
)

// EmailLister is satisfied by the email repository.
type EmailLister interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Email, error)
}

type EmailQueryHandler struct {
	emails EmailLister
	logger *zap.Logger
}

func NewEmailQueryHandler(emails EmailLister, log *zap.Logger) *EmailQueryHandler {
	return &EmailQueryHandler{
		emails: emails,
		logger: log,
	}
}

// List handles GET /emails. It returns every stored email across the
// caller's accounts, newest first.
func (h *EmailQueryHandler) List(c *gin.Context) {
	callerID, ok := callerOwnerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing caller identity"})
		return
	}

	ctx := c.Request.Context()
	log := logger.WithTrace(ctx, h.logger)

	emails, err := h.emails.ListByOwner(ctx, callerID)
	if err != nil {
		log.Error("Failed to list emails", zap.String("owner_id", callerID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list emails"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(emails),
		"emails":  emails,
	})
}

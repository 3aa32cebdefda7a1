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

type ClassifyHandler struct {
	classifyService *service.ClassifyService
	logger          *zap.Logger
}

func NewClassifyHandler(classifyService *service.ClassifyService, log *zap.Logger) *ClassifyHandler {
	return &ClassifyHandler{
		classifyService: classifyService,
		logger:          log,
	}
}

// Classify handles POST /emails/:id/classify.
func (h *ClassifyHandler) Classify(c *gin.Context) {
	emailID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email id"})
		return
	}

	ctx := c.Request.Context()
	log := logger.WithTrace(ctx, h.logger)

	category, err := h.classifyService.ClassifyEmail(ctx, emailID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"category": category,
		})
	case errors.Is(err, pgx.ErrNoRows):
		c.JSON(http.StatusNotFound, gin.H{"error": "email not found"})
	case errors.Is(err, service.ErrUnrecognizedCategory):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "classifier returned an unrecognized category"})
	case errors.Is(err, service.ErrCapabilityUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "classification capability unavailable"})
	default:
		log.Error("Classification failed", zap.String("email_id", emailID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to classify email"})
	}
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"leadbox/internal/service"
	"leadbox/pkg/logger"
)

type SyncHandler struct {
	syncService *service.SyncService
	logger      *zap.Logger
}

func NewSyncHandler(syncService *service.SyncService, log *zap.Logger) *SyncHandler {
	return &SyncHandler{
		syncService: syncService,
		logger:      log,
	}
}

// Run handles POST /sync/run. It processes every active account to
// completion before returning; per-account failures are already
// isolated inside the service.
func (h *SyncHandler) Run(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.WithTrace(ctx, h.logger)

	count, err := h.syncService.SyncAll(ctx)
	if err != nil {
		log.Error("Sync run failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load accounts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"accounts_synced": count,
	})
}

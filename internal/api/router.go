package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Sync       *SyncHandler
	Classify   *ClassifyHandler
	Reply      *ReplyHandler
	EmailQuery *EmailQueryHandler
}

// NewRouter builds the HTTP surface. Everything under the authenticated
// group requires a bearer token; health and metrics stay open.
func NewRouter(h Handlers, jwtSecret string) *gin.Engine {
	r := gin.Default()
	r.Use(TraceMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authed := r.Group("/")
	authed.Use(AuthMiddleware(jwtSecret))
	{
		authed.POST("/sync/run", h.Sync.Run)
		authed.GET("/emails", h.EmailQuery.List)
		authed.POST("/emails/:id/classify", h.Classify.Classify)
		authed.POST("/emails/:id/reply", h.Reply.Generate)
	}

	return r
}

package api

import (
	"github.com/gin-gonic/gin"

	"github.com/verona-ai/profilesearch/v1/logger"
)

// NewRouter builds the gin engine. rec may be nil. middleware runs before
// metrics and logging, so a tracing middleware sees the whole request.
func NewRouter(h *Handler, rec HTTPRecorder, log logger.Logger, middleware ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware...)
	if rec != nil {
		r.Use(Metrics(rec))
	}
	if log != nil {
		r.Use(RequestLogger(log))
	}

	r.GET("/health", h.Health)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/collection/info", h.CollectionInfo)
		v1.POST("/parse", h.Parse)

		v1.POST("/search", h.Search)
		v1.GET("/search", h.SearchGet)
		v1.POST("/filters/impact", h.FilterImpact)

		v1.POST("/ingest", h.Ingest)
		v1.GET("/profile/:id", h.GetProfile)
	}

	return r
}

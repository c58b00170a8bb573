package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter wires middleware and routes.
func NewRouter(h *Handler, metrics *Metrics, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), AccessLog(logger), Instrument(metrics))

	r.GET("/healthz", h.Health)
	r.GET("/metrics", h.Prometheus)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/schedules", h.Compute)
		v1.POST("/schedules/phases", h.EditPhase)
		v1.GET("/templates", h.Templates)
		v1.GET("/calendar", h.Calendar)
		v1.GET("/holidays", h.Holidays)
	}

	return r
}

package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/genkan-institute/genkan-api/internal/service"
)

// MetricsHandler exposes the Prometheus scrape endpoint.
type MetricsHandler struct {
	metrics *service.MetricsService
}

// NewMetricsHandler constructs a metrics handler.
func NewMetricsHandler(metrics *service.MetricsService) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// Expose serves the Prometheus metrics payload.
func (h *MetricsHandler) Expose(c *gin.Context) {
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/gflcollect/boxes-backend-go/internal/service"
	"github.com/gflcollect/boxes-backend-go/pkg/response"
)

// StatsHandler handles HTTP requests for network statistics
type StatsHandler struct {
	optimizer *service.OptimizerService
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(optimizer *service.OptimizerService) *StatsHandler {
	return &StatsHandler{optimizer: optimizer}
}

// GetStats handles GET /api/v1/stats
func (h *StatsHandler) GetStats(c *gin.Context) {
	response.Success(c, h.optimizer.NetworkStats())
}

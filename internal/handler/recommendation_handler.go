package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gflcollect/boxes-backend-go/internal/models"
	"github.com/gflcollect/boxes-backend-go/internal/service"
	"github.com/gflcollect/boxes-backend-go/pkg/response"
)

// RecommendationHandler handles HTTP requests for pickup recommendations
type RecommendationHandler struct {
	optimizer *service.OptimizerService
	export    *service.ExportService
}

// NewRecommendationHandler creates a new recommendation handler
func NewRecommendationHandler(optimizer *service.OptimizerService, export *service.ExportService) *RecommendationHandler {
	return &RecommendationHandler{optimizer: optimizer, export: export}
}

// GetRecommendations handles GET /api/v1/recommendations
func (h *RecommendationHandler) GetRecommendations(c *gin.Context) {
	filter := models.RecommendationFilter{
		MaxBoxes: service.DefaultMaxBoxes,
		MinScore: service.DefaultMinScore,
	}
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	recs := h.optimizer.Rank(filter)
	response.Success(c, gin.H{
		"recommendations": recs,
		"total":           len(recs),
	})
}

// ExportRecommendations handles GET /api/v1/recommendations/export
func (h *RecommendationHandler) ExportRecommendations(c *gin.Context) {
	filter := models.RecommendationFilter{
		MaxBoxes: service.DefaultMaxBoxes,
		MinScore: service.DefaultMinScore,
	}
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	recs := h.optimizer.Rank(filter)
	if len(recs) == 0 {
		response.BadRequest(c, "No recommendations to export")
		return
	}

	var buf bytes.Buffer
	if err := h.export.WriteCSV(&buf, recs); err != nil {
		response.InternalError(c, err.Error())
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.export.Filename()))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

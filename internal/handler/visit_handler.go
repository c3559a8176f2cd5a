package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gflcollect/boxes-backend-go/internal/models"
	"github.com/gflcollect/boxes-backend-go/internal/service"
	"github.com/gflcollect/boxes-backend-go/pkg/response"
)

// VisitHandler handles HTTP requests for visit tracking
type VisitHandler struct {
	optimizer *service.OptimizerService
}

// NewVisitHandler creates a new visit handler
func NewVisitHandler(optimizer *service.OptimizerService) *VisitHandler {
	return &VisitHandler{optimizer: optimizer}
}

// RecordVisit handles POST /api/v1/visits
func (h *VisitHandler) RecordVisit(c *gin.Context) {
	var req models.VisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	event, err := h.optimizer.RecordVisit(req.BoxID, req.ObservedFill)
	if err != nil {
		// The visit is already recorded in memory when only the
		// durable write failed; report success with a warning.
		if models.IsPersistenceWarning(err) {
			response.SuccessWithWarning(c, event, err.Error())
			return
		}
		respondError(c, err)
		return
	}
	response.Success(c, event)
}

// ListVisited handles GET /api/v1/visits
func (h *VisitHandler) ListVisited(c *gin.Context) {
	visited := h.optimizer.VisitedBoxes()
	response.Success(c, gin.H{
		"visited_boxes": visited,
		"total":         len(visited),
	})
}

// ListEvents handles GET /api/v1/visits/events
func (h *VisitHandler) ListEvents(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	events, err := h.optimizer.RecentEvents(limit)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{
		"events": events,
		"total":  len(events),
	})
}

// ResetVisits handles DELETE /api/v1/visits
func (h *VisitHandler) ResetVisits(c *gin.Context) {
	cleared, err := h.optimizer.ResetAllVisits()
	if err != nil {
		if models.IsPersistenceWarning(err) {
			response.SuccessWithWarning(c, gin.H{"cleared": cleared}, err.Error())
			return
		}
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"cleared": cleared})
}

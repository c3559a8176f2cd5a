package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gflcollect/boxes-backend-go/internal/models"
	"github.com/gflcollect/boxes-backend-go/internal/service"
	"github.com/gflcollect/boxes-backend-go/pkg/response"
)

// BoxHandler handles HTTP requests for box catalog management
type BoxHandler struct {
	optimizer *service.OptimizerService
}

// NewBoxHandler creates a new box handler
func NewBoxHandler(optimizer *service.OptimizerService) *BoxHandler {
	return &BoxHandler{optimizer: optimizer}
}

// ListBoxes handles GET /api/v1/boxes
func (h *BoxHandler) ListBoxes(c *gin.Context) {
	search := c.Query("search")
	boxes := h.optimizer.AllBoxes(search)
	response.Success(c, gin.H{
		"boxes": boxes,
		"total": len(boxes),
	})
}

// GetBox handles GET /api/v1/boxes/:id
func (h *BoxHandler) GetBox(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid box id")
		return
	}

	detail, err := h.optimizer.BoxDetail(id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, detail)
}

// CreateBox handles POST /api/v1/boxes
func (h *BoxHandler) CreateBox(c *gin.Context) {
	var req models.BoxCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.optimizer.AddBox(req); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"box_id": req.ID})
}

// UpdateBox handles PUT /api/v1/boxes/:id
func (h *BoxHandler) UpdateBox(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid box id")
		return
	}

	var req models.BoxUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.optimizer.UpdateBox(id, req); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"box_id": id})
}

// DeleteBox handles DELETE /api/v1/boxes/:id
func (h *BoxHandler) DeleteBox(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid box id")
		return
	}

	if err := h.optimizer.RemoveBox(id); err != nil {
		if models.IsPersistenceWarning(err) {
			response.SuccessWithWarning(c, gin.H{"box_id": id}, err.Error())
			return
		}
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"box_id": id})
}

// respondError maps domain errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrBoxNotFound):
		response.NotFound(c, "Box not found")
	case models.IsValidation(err):
		response.BadRequest(c, err.Error())
	default:
		response.InternalError(c, err.Error())
	}
}

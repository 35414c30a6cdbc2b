package handler

import (
	"net/http"
	"strconv"

	"estateagent/internal/model"
	"estateagent/internal/service"

	"github.com/gin-gonic/gin"
)

// PropertyHandler handles property detail, amenity, and deal endpoints
type PropertyHandler struct {
	orchestrator *service.Orchestrator
}

// NewPropertyHandler creates a new property handler
func NewPropertyHandler(orchestrator *service.Orchestrator) *PropertyHandler {
	return &PropertyHandler{orchestrator: orchestrator}
}

func propertyID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, model.Error("Invalid property ID"))
		return 0, false
	}
	return id, true
}

// respond writes the envelope with HTTP 200; the envelope status field
// carries the outcome.
func respond(c *gin.Context, envelope model.Envelope) {
	c.JSON(http.StatusOK, envelope)
}

// GetProperty handles GET /api/property/:id
func (h *PropertyHandler) GetProperty(c *gin.Context) {
	id, ok := propertyID(c)
	if !ok {
		return
	}

	envelope := h.orchestrator.Property(c.Request.Context(), id)
	if envelope.Status == model.StatusError {
		c.JSON(http.StatusNotFound, envelope)
		return
	}
	c.JSON(http.StatusOK, envelope)
}

// GetAmenities handles GET /api/property/:id/amenities
func (h *PropertyHandler) GetAmenities(c *gin.Context) {
	id, ok := propertyID(c)
	if !ok {
		return
	}
	respond(c, h.orchestrator.PropertyAmenities(c.Request.Context(), id))
}

// NegotiateRequest is the body of POST /api/property/:id/negotiate
type NegotiateRequest struct {
	Offer float64 `json:"offer"`
}

// Negotiate handles POST /api/property/:id/negotiate
func (h *PropertyHandler) Negotiate(c *gin.Context) {
	id, ok := propertyID(c)
	if !ok {
		return
	}

	var req NegotiateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Offer <= 0 {
		c.JSON(http.StatusBadRequest, model.Error("Offer amount is required"))
		return
	}

	respond(c, h.orchestrator.Negotiate(c.Request.Context(), id, req.Offer))
}

// CloseDeal handles POST /api/property/:id/close-deal
func (h *PropertyHandler) CloseDeal(c *gin.Context) {
	id, ok := propertyID(c)
	if !ok {
		return
	}

	// deal details are free-form and optional
	var details map[string]any
	_ = c.ShouldBindJSON(&details)

	respond(c, h.orchestrator.CloseDeal(c.Request.Context(), id, details))
}

// FinalizeDeal handles POST /api/property/:id/finalize
func (h *PropertyHandler) FinalizeDeal(c *gin.Context) {
	id, ok := propertyID(c)
	if !ok {
		return
	}
	respond(c, h.orchestrator.FinalizeDeal(c.Request.Context(), id))
}

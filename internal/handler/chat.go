package handler

import (
	"net/http"
	"strings"
	"time"

	"estateagent/internal/model"
	"estateagent/internal/service"

	"github.com/gin-gonic/gin"
)

// ChatHandler handles conversational queries
type ChatHandler struct {
	orchestrator *service.Orchestrator
}

// NewChatHandler creates a new chat handler
func NewChatHandler(orchestrator *service.Orchestrator) *ChatHandler {
	return &ChatHandler{orchestrator: orchestrator}
}

// ChatRequest is the body of POST /api/chat
type ChatRequest struct {
	Query string `json:"query"`
}

// Chat handles POST /api/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.Error("Query is required"))
		return
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		c.JSON(http.StatusBadRequest, model.Error("Query is required"))
		return
	}

	c.JSON(http.StatusOK, h.orchestrator.HandleQuery(c.Request.Context(), query))
}

// Health handles GET /api/health
func (h *ChatHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    model.StatusSuccess,
		"message":   "Real estate agent is running",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	})
}

package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"estateagent/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestChatRejectsMissingQuery(t *testing.T) {
	h := NewChatHandler(nil)
	router := gin.New()
	router.POST("/api/chat", h.Chat)

	for _, body := range []string{"", "not json", `{}`, `{"query": "   "}`} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)

		var envelope model.Envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
		assert.Equal(t, model.StatusError, envelope.Status)
		assert.Equal(t, "Query is required", envelope.Message)
	}
}

func TestHealth(t *testing.T) {
	h := NewChatHandler(nil)
	router := gin.New()
	router.GET("/api/health", h.Health)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, model.StatusSuccess, body["status"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestPropertyRoutesRejectBadID(t *testing.T) {
	h := NewPropertyHandler(nil)
	router := gin.New()
	router.GET("/api/property/:id", h.GetProperty)
	router.GET("/api/property/:id/amenities", h.GetAmenities)
	router.POST("/api/property/:id/negotiate", h.Negotiate)

	for _, path := range []string{
		"/api/property/abc",
		"/api/property/-1",
		"/api/property/0/amenities",
	} {
		method := http.MethodGet
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(method, path, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, "path %s", path)
	}
}

func TestNegotiateRejectsMissingOffer(t *testing.T) {
	h := NewPropertyHandler(nil)
	router := gin.New()
	router.POST("/api/property/:id/negotiate", h.Negotiate)

	for _, body := range []string{"", `{}`, `{"offer": 0}`, `{"offer": -5}`} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/property/1/negotiate", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
	}
}

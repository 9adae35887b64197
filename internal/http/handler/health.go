package handler

import (
	"context"
	"net/http"

	"github.com/edirooss/vision-server/internal/http/dto"
	"github.com/gin-gonic/gin"
)

// ModelHealth reports whether the inference backend is reachable and has a
// model loaded.
type ModelHealth interface {
	Loaded(ctx context.Context) bool
}

// HealthHandler serves readiness for load balancers and supervisors.
//
// Supported operations:
//   - GET /health → {"status": "ok", "model_loaded": bool}
//
// The process answers 200 as long as it is serving; model availability is a
// field, not a status code, so a flapping model does not bounce the server
// out of rotation.
type HealthHandler struct {
	model ModelHealth
}

// NewHealthHandler constructs a HealthHandler instance.
func NewHealthHandler(model ModelHealth) *HealthHandler {
	return &HealthHandler{model: model}
}

func (h *HealthHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:      "ok",
		ModelLoaded: h.model.Loaded(c.Request.Context()),
	})
}

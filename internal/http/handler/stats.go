package handler

import (
	"net/http"
	"strconv"

	"github.com/edirooss/vision-server/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StatsHandler serves the aggregated pipeline snapshot.
//
// Supported operations:
//   - GET /stats → per-camera stats plus pipeline summary
type StatsHandler struct {
	log *zap.Logger
	svc *service.StatsService
}

// NewStatsHandler constructs a StatsHandler instance.
func NewStatsHandler(log *zap.Logger, svc *service.StatsService) *StatsHandler {
	return &StatsHandler{
		log: log.Named("stats"),
		svc: svc,
	}
}

func (h *StatsHandler) Get(c *gin.Context) {
	snap, hit := h.svc.Get()

	c.Header("X-Cache", map[bool]string{true: "HIT", false: "MISS"}[hit])
	c.Header("X-Stats-Generated-At", strconv.FormatInt(snap.GeneratedAt.UnixMilli(), 10))
	c.JSON(http.StatusOK, snap)
}

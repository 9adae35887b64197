package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/edirooss/vision-server/internal/domain/camera"
	"github.com/edirooss/vision-server/internal/engine"
	"github.com/edirooss/vision-server/internal/http/dto"
	"github.com/edirooss/vision-server/internal/service"
	"github.com/edirooss/vision-server/pkg/jsonx"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CamerasHandler provides the camera lifecycle endpoints.
//
// Supported operations:
//   - POST /camera/start              → begin decode + inference for a channel
//   - POST /camera/stop               → tear a channel down
//   - GET  /camera/{channel}/logs     → decode-process stderr tail
//
// Notes:
//   - Start and stop are idempotent at the API level: repeating a start
//     reports "already_running" with 200, repeating a stop reports 404.
//   - A concurrent mutation on the same channel yields 409.
type CamerasHandler struct {
	log *zap.Logger
	svc *service.CameraService
}

// NewCamerasHandler constructs a CamerasHandler instance.
func NewCamerasHandler(log *zap.Logger, svc *service.CameraService) *CamerasHandler {
	return &CamerasHandler{
		log: log.Named("cameras"),
		svc: svc,
	}
}

func (h *CamerasHandler) Start(c *gin.Context) {
	var req dto.CameraStartRequest
	if err := jsonx.ParseStrictJSONBody(c.Request, &req); err != nil {
		c.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	channel := *req.Channel.Value()

	already, err := h.svc.Start(c.Request.Context(), channel)
	if err != nil {
		c.Error(err)
		switch {
		case errors.Is(err, camera.ErrChannelRange):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		case errors.Is(err, service.ErrLocked):
			c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		}
		return
	}

	status := "started"
	if already {
		status = "already_running"
	}
	c.JSON(http.StatusOK, dto.CameraStartResponse{
		Success:   true,
		Channel:   channel,
		Status:    status,
		StreamURL: fmt.Sprintf("/stream/%d", channel),
	})
}

func (h *CamerasHandler) Stop(c *gin.Context) {
	var req dto.CameraStopRequest
	if err := jsonx.ParseStrictJSONBody(c.Request, &req); err != nil {
		c.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	channel := *req.Channel.Value()

	if err := h.svc.Stop(c.Request.Context(), channel); err != nil {
		c.Error(err)
		switch {
		case errors.Is(err, camera.ErrChannelRange):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		case errors.Is(err, engine.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
		case errors.Is(err, service.ErrLocked):
			c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, dto.CameraStopResponse{Success: true, Channel: channel})
}

const defaultLogLines = 100

func (h *CamerasHandler) Logs(c *gin.Context) {
	// Path param already validated by middleware.
	channel, _ := strconv.ParseInt(c.Param("channel"), 10, 64)

	lines := defaultLogLines
	if q := c.Query("lines"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil || v < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid lines"})
			return
		}
		lines = v
	}

	tail, err := h.svc.Logs(channel, lines)
	if err != nil {
		c.Error(err)
		switch {
		case errors.Is(err, camera.ErrChannelRange):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		case errors.Is(err, engine.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, dto.CameraLogsResponse{Channel: channel, Lines: tail})
}

package ws

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second

	// Subscribers send nothing but control frames; cap inbound reads hard.
	maxInboundBytes = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Origin enforcement is delegated to the CORS layer in front of the
	// router; the upgrader accepts what the router lets through.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Handler upgrades event-feed requests and pumps hub broadcasts to the peer.
type Handler struct {
	log *zap.Logger
	hub *Hub
}

func NewHandler(log *zap.Logger, hub *Hub) *Handler {
	return &Handler{log: log.Named("ws"), hub: hub}
}

// Serve upgrades the connection and subscribes it to the hub. An optional
// ?channel=N query restricts the feed to one camera.
func (h *Handler) Serve(c *gin.Context) {
	var channel int64
	if q := c.Query("channel"); q != "" {
		v, err := strconv.ParseInt(q, 10, 64)
		if err != nil || v <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid channel"})
			return
		}
		channel = v
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the handshake error response.
		c.Error(err)
		return
	}

	cl := &client{
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		channel: channel,
	}
	h.hub.register(cl)

	go h.writePump(cl)
	go h.readPump(cl)
}

// readPump discards inbound frames until the peer goes away. Its only job is
// detecting disconnects and keeping the pong-based read deadline fresh.
func (h *Handler) readPump(cl *client) {
	defer func() {
		h.hub.unregister(cl)
		cl.conn.Close()
	}()

	cl.conn.SetReadLimit(maxInboundBytes)
	cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Debug("subscriber read failed", zap.Error(err))
			}
			return
		}
	}
}

// writePump is the single writer for the connection. It drains the send
// buffer and keeps the peer alive with pings; a closed send channel means the
// hub dropped us and we say goodbye cleanly.
func (h *Handler) writePump(cl *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		cl.conn.Close()
	}()

	for {
		select {
		case data, ok := <-cl.send:
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				cl.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := cl.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

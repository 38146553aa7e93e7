// internal/handler/status_ws_handler.go
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"printer-service/internal/model"
	"printer-service/internal/service"
	"printer-service/internal/utils"
)

// StatusWSHandler pushes printer connectivity over WebSocket: the current
// value on connect, then one message per change.
type StatusWSHandler struct {
	upgrader websocket.Upgrader
	status   *service.StatusBroadcast
	logger   *utils.ServiceLogger
}

// NewStatusWSHandler creates a new status WebSocket handler
func NewStatusWSHandler(status *service.StatusBroadcast, logger *zap.Logger) *StatusWSHandler {
	return &StatusWSHandler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Kiosk front-ends connect from arbitrary origins.
				return true
			},
		},
		status: status,
		logger: utils.NewServiceLogger(logger, "status-ws-handler"),
	}
}

// RegisterRoutes registers WebSocket routes
func (h *StatusWSHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/status", h.HandleStatusConnection)
}

// HandleStatusConnection upgrades the connection and streams status changes
// until the client goes away.
func (h *StatusWSHandler) HandleStatusConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade WebSocket connection", zap.Error(err))
		return
	}
	defer conn.Close()

	updates, cancel := h.status.Subscribe()
	defer cancel()

	h.logger.Debug("Status WebSocket client connected",
		zap.String("remote", conn.RemoteAddr().String()),
	)

	// Reads are discarded; their only purpose is detecting a closed peer.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case online, ok := <-updates:
			if !ok {
				return
			}
			var payload model.StatusResponse
			if online {
				payload = model.StatusOK()
			} else {
				payload = model.StatusDisconnected("printer offline")
			}
			if err := conn.WriteJSON(payload); err != nil {
				h.logger.Debug("Status WebSocket write failed", zap.Error(err))
				return
			}
		case <-closed:
			return
		}
	}
}

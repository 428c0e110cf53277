// Package websocket upgrades chat connections and hands them to the Hub.
package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"feedchat/internal/hub"
	"feedchat/internal/middleware"
)

// WebSocketHandler upgrades HTTP requests to websocket clients.
type WebSocketHandler struct {
	upgrader websocket.Upgrader
	hub      *hub.Hub
}

// NewWebSocketHandler creates a WebSocketHandler.
func NewWebSocketHandler(h *hub.Hub) *WebSocketHandler {
	if h == nil {
		panic("Hub cannot be nil for WebSocketHandler")
	}
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			// Same-origin pages only in practice; cookies carry the session.
			return true
		},
	}
	return &WebSocketHandler{upgrader: upgrader, hub: h}
}

// HandleConnection upgrades the request and registers the client with the
// Hub. Anonymous connections are accepted; the Hub drops their inbound
// messages silently, so the session check happens per message, not here.
func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	username := middleware.CurrentUsername(c)
	logCtx := logrus.WithField("username", username)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		logCtx.WithError(err).Error("WS Handler: failed to upgrade connection")
		return
	}

	client := hub.NewClient(h.hub, conn, username)
	registerMsg := hub.Message{Type: hub.MessageRegister, Client: client}
	if !h.hub.QueueMessage(registerMsg) {
		logCtx.Error("WS Handler: Hub message channel full, failed to register client")
		client.CloseConn()
		return
	}
	client.Run()
	logCtx.Info("WS Handler: client connected")
}

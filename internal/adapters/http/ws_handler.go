package http

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/sharelist/core/internal/infrastructure/logger"
	"github.com/sharelist/core/internal/realtime"
)

// WSHandler upgrades requests into realtime connections. Authentication is
// deferred to the connection's first frame; the upgrade itself is open.
type WSHandler struct {
	hub      *realtime.Hub
	verifier realtime.TokenVerifier
	resolver realtime.TopicResolver
	logger   *logger.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new websocket handler
func NewWSHandler(hub *realtime.Hub, verifier realtime.TokenVerifier, resolver realtime.TopicResolver, logger *logger.Logger) *WSHandler {
	return &WSHandler{
		hub:      hub,
		verifier: verifier,
		resolver: resolver,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser clients carry arbitrary origins; the token in the
			// first frame is the access control.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Serve upgrades the request and runs the connection until it closes.
func (h *WSHandler) Serve(c echo.Context) error {
	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Debugw("Websocket upgrade failed", "error", err)
		return nil
	}

	conn := realtime.NewConn(ws, h.hub, h.verifier, h.resolver, h.logger)
	conn.Run(c.Request().Context())
	return nil
}

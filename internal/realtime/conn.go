package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sharelist/core/internal/infrastructure/logger"
	"github.com/sharelist/core/internal/ports"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 32
)

// TokenVerifier resolves a bearer token into claims.
type TokenVerifier interface {
	VerifyToken(token string) (*ports.Claims, error)
}

// TopicResolver computes the full topic set an authenticated user's
// connection joins: one per owned category, one per shared-in folder, plus
// the user's private topic.
type TopicResolver interface {
	TopicsForUser(ctx context.Context, userID int64) ([]Topic, error)
}

// authFrame is the first client message on a fresh connection.
type authFrame struct {
	Token string `json:"token"`
}

// Conn is one client connection moving through
// unauthenticated -> authenticated/subscribed -> disconnected. The first
// client frame must carry a bearer token; anything else closes the socket.
type Conn struct {
	ws       *websocket.Conn
	hub      *Hub
	verifier TokenVerifier
	resolver TopicResolver
	logger   *logger.Logger

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once

	userID int64
}

// NewConn wraps an upgraded websocket. Run must be called to start the
// read/write pumps.
func NewConn(ws *websocket.Conn, hub *Hub, verifier TokenVerifier, resolver TopicResolver, log *logger.Logger) *Conn {
	return &Conn{
		ws:       ws,
		hub:      hub,
		verifier: verifier,
		resolver: resolver,
		logger:   log.WithComponent("realtime"),
		send:     make(chan []byte, sendBufferSize),
		done:     make(chan struct{}),
	}
}

// Deliver queues a frame without blocking. A full buffer or a closed
// connection drops the frame; the client reconciles by refetching.
func (c *Conn) Deliver(frame []byte) bool {
	select {
	case <-c.done:
		return false
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// Run drives the connection until the client goes away. It blocks; callers
// start it on its own goroutine per connection.
func (c *Conn) Run(ctx context.Context) {
	go c.writePump()
	c.readPump(ctx)
}

func (c *Conn) readPump(ctx context.Context) {
	defer c.close()

	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	if !c.authenticate(ctx) {
		return
	}

	// Post-auth frames carry nothing the server acts on; the read loop only
	// keeps the connection's deadline fresh and notices the close.
	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debugw("Connection read error", "user_id", c.userID, "error", err)
			}
			return
		}
	}
}

// authenticate consumes the first frame, verifies the token, and joins the
// connection to its topics. Verification failure is terminal.
func (c *Conn) authenticate(ctx context.Context) bool {
	_, msg, err := c.ws.ReadMessage()
	if err != nil {
		return false
	}

	var frame authFrame
	if err := json.Unmarshal(msg, &frame); err != nil || frame.Token == "" {
		c.logger.Debugw("Connection sent malformed auth frame")
		return false
	}

	claims, err := c.verifier.VerifyToken(frame.Token)
	if err != nil {
		c.logger.Debugw("Connection auth failed", "error", err)
		return false
	}
	c.userID = claims.UserID

	topics, err := c.resolver.TopicsForUser(ctx, claims.UserID)
	if err != nil {
		c.logger.Errorw("Failed to resolve topics", "user_id", claims.UserID, "error", err)
		return false
	}

	c.hub.Register(c, claims.UserID)
	c.hub.Subscribe(c, topics...)

	ack, err := json.Marshal(envelope{Event: EventAuthenticated, Data: map[string]bool{"success": true}})
	if err != nil {
		return false
	}
	c.Deliver(ack)

	c.logger.Debugw("Connection authenticated", "user_id", claims.UserID, "topics", len(topics))
	return true
}

func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case frame := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// close tears the connection down exactly once: topic subscriptions drop,
// the pumps stop, and nothing is kept for a future reconnect.
func (c *Conn) close() {
	c.closeOnce.Do(func() {
		c.hub.Remove(c)
		close(c.done)
		c.ws.Close()
	})
}

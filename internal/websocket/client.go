package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"chat-relay/internal/models"
	"chat-relay/pkg/logger"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	sendBuffer = 256
)

// Dispatcher consumes the inbound events of a connection.
type Dispatcher interface {
	Dispatch(ctx context.Context, session models.Session, env models.Envelope) error
	Disconnect(connID string) (models.Identity, bool)
}

type ClientOptions struct {
	MaxMessageSize    int64
	RateLimitBurst    int
	RateLimitInterval time.Duration
}

type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	session    models.Session
	dispatcher Dispatcher
	limiter    *rate.Limiter
	opts       ClientOptions
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewClient(hub *Hub, conn *websocket.Conn, session models.Session, dispatcher Dispatcher, opts ClientOptions) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBuffer),
		session:    session,
		dispatcher: dispatcher,
		limiter:    newLimiter(opts.RateLimitBurst, opts.RateLimitInterval),
		opts:       opts,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// newLimiter refills a full burst once per interval. A non-positive burst
// disables limiting.
func newLimiter(burst int, interval time.Duration) *rate.Limiter {
	if burst <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	if interval <= 0 {
		interval = time.Second
	}
	return rate.NewLimiter(rate.Every(interval/time.Duration(burst)), burst)
}

func (c *Client) ID() string {
	return c.session.ConnectionID
}

func (c *Client) ReadPump() {
	defer func() {
		c.cancel()
		c.hub.Unregister(c)
		c.dispatcher.Disconnect(c.ID())
		c.conn.Close()
	}()

	if c.opts.MaxMessageSize > 0 {
		c.conn.SetReadLimit(c.opts.MaxMessageSize)
	}
	// Set read deadline and pong handler for connection health
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if errors.Is(err, websocket.ErrReadLimit) {
				logger.Warn("Message from %s exceeded %d bytes", c.ID(), c.opts.MaxMessageSize)
			} else if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				logger.Error("WebSocket error: %v", err)
			}
			break
		}

		if !c.limiter.Allow() {
			logger.Warn("Rate limit exceeded for %s; discarding message", c.ID())
			continue
		}

		var env models.Envelope
		if err := json.Unmarshal(message, &env); err != nil {
			logger.Debug("Invalid frame from %s: %v", c.ID(), err)
			c.hub.Send(models.Event{
				Type: models.EventError,
				Data: models.ErrorNotice{Message: "invalid frame"},
			}, c.ID())
			continue
		}

		if err := c.dispatcher.Dispatch(c.ctx, c.session, env); err != nil {
			logger.Debug("Event %s from %s: %v", env.Type, c.ID(), err)
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Error("Write error: %v", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

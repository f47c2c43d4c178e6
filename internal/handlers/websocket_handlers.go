package handlers

import (
	"context"
	"net/http"
	"strings"

	"chat-relay/internal/config"
	"chat-relay/internal/models"
	ws "chat-relay/internal/websocket"
	"chat-relay/pkg/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Authenticator verifies a bearer token and returns the user it belongs to.
type Authenticator interface {
	GetUserFromToken(ctx context.Context, tokenString string) (*models.User, error)
}

type WebSocketHandlers struct {
	authenticator Authenticator
	hub           *ws.Hub
	dispatcher    ws.Dispatcher
	clientOpts    ws.ClientOptions
	upgrader      websocket.Upgrader
}

func NewWebSocketHandlers(authenticator Authenticator, hub *ws.Hub, dispatcher ws.Dispatcher, cfg config.WebSocketConfig) *WebSocketHandlers {
	return &WebSocketHandlers{
		authenticator: authenticator,
		hub:           hub,
		dispatcher:    dispatcher,
		clientOpts: ws.ClientOptions{
			MaxMessageSize:    cfg.MaxMessageSize,
			RateLimitBurst:    cfg.RateLimitBurst,
			RateLimitInterval: cfg.RateLimitInterval,
		},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     ws.CheckOrigin(cfg.AllowedOrigins),
		},
	}
}

// HandleWebSocket authenticates before upgrading; no chat event is accepted
// from a connection that has not passed the gate.
func (h *WebSocketHandlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	tokenStr := tokenFromRequest(r)
	if tokenStr == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	user, err := h.authenticator.GetUserFromToken(r.Context(), tokenStr)
	if err != nil {
		logger.Debug("Rejected WebSocket token: %v", err)
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("Upgrade error: %v", err)
		return
	}

	session := models.Session{ConnectionID: uuid.NewString(), User: *user}
	client := ws.NewClient(h.hub, conn, session, h.dispatcher, h.clientOpts)
	if !h.hub.Register(client) {
		conn.Close()
		return
	}
	logger.Info("User connected: %s - %s", session.ConnectionID, user.Username)

	go client.WritePump()
	go client.ReadPump()
}

// tokenFromRequest reads ?token= first, then an Authorization bearer header.
func tokenFromRequest(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

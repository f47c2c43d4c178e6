package handlers

import (
	"net/http"

	"chat-relay/internal/models"
)

// MessageReader is the read-only view of the message log.
type MessageReader interface {
	QueryByRoom(room string, page, limit int) models.MessagePage
	Search(query, room string) []models.Message
}

type MessageHandlers struct {
	messages MessageReader
}

func NewMessageHandlers(messages MessageReader) *MessageHandlers {
	return &MessageHandlers{messages: messages}
}

// ListMessages serves GET /api/messages/{room}?page=&limit=, newest first.
func (h *MessageHandlers) ListMessages(w http.ResponseWriter, r *http.Request) {
	page := h.messages.QueryByRoom(r.PathValue("room"), queryInt(r, "page"), queryInt(r, "limit"))
	writeJSON(w, http.StatusOK, page)
}

// SearchMessages serves GET /api/messages/search/{query}?room=. Results keep
// log order.
func (h *MessageHandlers) SearchMessages(w http.ResponseWriter, r *http.Request) {
	results := h.messages.Search(r.PathValue("query"), r.URL.Query().Get("room"))
	writeJSON(w, http.StatusOK, results)
}

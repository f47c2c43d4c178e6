package handlers

import (
	"net/http"

	"chat-relay/internal/services"
)

type RoomHandlers struct {
	roomService *services.RoomService
}

func NewRoomHandlers(roomService *services.RoomService) *RoomHandlers {
	return &RoomHandlers{roomService: roomService}
}

// ListRooms serves GET /api/rooms.
func (h *RoomHandlers) ListRooms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.roomService.ListRooms())
}

// GetRoomUsers serves GET /api/rooms/{room}/users.
func (h *RoomHandlers) GetRoomUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.roomService.GetRoomUsers(r.PathValue("room"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

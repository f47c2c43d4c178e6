package handlers

import (
	"net/http"
	"testing"

	"chat-relay/internal/chat"
	"chat-relay/internal/models"
	"chat-relay/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomHandlers(t *testing.T) {
	dir := chat.NewDirectory()
	dir.AddUser("conn-a", models.User{ID: 1, Username: "alice"}, nil)
	dir.AddUser("conn-b", models.User{ID: 2, Username: "bob"}, nil)
	dir.JoinRoom("conn-a", "tech")
	dir.JoinRoom("conn-b", "general")

	h := NewRoomHandlers(services.NewRoomService([]string{"general", "random", "tech"}, dir))
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/rooms", h.ListRooms)
	mux.HandleFunc("GET /api/rooms/{room}/users", h.GetRoomUsers)

	var listing services.RoomListing
	rec := getJSON(t, mux, "/api/rooms", &listing)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"general", "random", "tech"}, listing.Static)
	assert.Equal(t, []string{"general", "tech"}, listing.Active)

	var tech services.RoomUsers
	rec = getJSON(t, mux, "/api/rooms/tech/users", &tech)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tech", tech.Room)
	assert.Equal(t, 1, tech.Count)
	require.Len(t, tech.Users, 1)
	assert.Equal(t, "alice", tech.Users[0].Username)

	var empty services.RoomUsers
	rec = getJSON(t, mux, "/api/rooms/random/users", &empty)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, empty.Count)
	assert.Contains(t, rec.Body.String(), `"users":[]`)
}

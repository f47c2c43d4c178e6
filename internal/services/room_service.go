package services

import (
	"fmt"
	"slices"

	"chat-relay/internal/models"
)

// Membership is the read side of the chat directory.
type Membership interface {
	Rooms() []string
	UsersInRoom(room string) []models.Identity
}

type RoomListing struct {
	Static []string `json:"static"`
	Active []string `json:"active"`
}

type RoomUsers struct {
	Room  string            `json:"room"`
	Users []models.Identity `json:"users"`
	Count int               `json:"count"`
}

// RoomService answers room questions for the HTTP surface. It never mutates
// membership.
type RoomService struct {
	static     []string
	membership Membership
}

func NewRoomService(static []string, membership Membership) *RoomService {
	return &RoomService{
		static:     slices.Clone(static),
		membership: membership,
	}
}

// ListRooms returns the advertised rooms and every room joined so far.
func (s *RoomService) ListRooms() RoomListing {
	return RoomListing{
		Static: slices.Clone(s.static),
		Active: s.membership.Rooms(),
	}
}

func (s *RoomService) GetRoomUsers(room string) (RoomUsers, error) {
	if room == "" {
		return RoomUsers{}, fmt.Errorf("room name is required")
	}
	users := s.membership.UsersInRoom(room)
	return RoomUsers{Room: room, Users: users, Count: len(users)}, nil
}

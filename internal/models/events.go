package models

import (
	"encoding/json"
	"time"
)

type EventType string

// Inbound events
const (
	EventUserJoin        EventType = "user_join"
	EventJoinRoom        EventType = "join_room"
	EventSendMessage     EventType = "send_message"
	EventTyping          EventType = "typing"
	EventPrivateMessage  EventType = "private_message"
	EventSendFile        EventType = "send_file"
	EventMessageReaction EventType = "message_reaction"
)

// Outbound events
const (
	EventUserList         EventType = "user_list"
	EventUserJoined       EventType = "user_joined"
	EventUserLeft         EventType = "user_left"
	EventUserLeftRoom     EventType = "user_left_room"
	EventUserJoinedRoom   EventType = "user_joined_room"
	EventRoomList         EventType = "room_list"
	EventRoomJoined       EventType = "room_joined"
	EventRoomUsers        EventType = "room_users"
	EventReceiveMessage   EventType = "receive_message"
	EventMessageDelivered EventType = "message_delivered"
	EventMessageUpdated   EventType = "message_updated"
	EventTypingUsers      EventType = "typing_users"
	EventMessageRead      EventType = "message_read"
	EventError            EventType = "error"
)

// Envelope is the inbound frame read from a client.
type Envelope struct {
	Type EventType       `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Event is an outbound frame.
type Event struct {
	Type EventType `json:"type"`
	Data any       `json:"data,omitempty"`
}

type PrivateMessageRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

type ReactionRequest struct {
	MessageID string `json:"messageId"`
	Reaction  string `json:"reaction"`
}

type RoomPresence struct {
	User Identity `json:"user"`
	Room string   `json:"room"`
}

type DeliveryReceipt struct {
	MessageID string    `json:"messageId"`
	Timestamp time.Time `json:"timestamp"`
}

type ReadReceipt struct {
	MessageID string `json:"messageId"`
}

type TypingUpdate struct {
	Room      string   `json:"room"`
	Usernames []string `json:"usernames"`
}

type ErrorNotice struct {
	Message string `json:"message"`
}

package chat

import (
	"fmt"
	"slices"
	"time"

	"chat-relay/internal/config"
	"chat-relay/internal/models"
	"chat-relay/pkg/logger"
)

// Transport delivers outbound events. Sends to connections that no longer
// exist must be silently dropped.
type Transport interface {
	Send(ev models.Event, connectionIDs ...string)
	Broadcast(ev models.Event)
}

type Options struct {
	DefaultRoom      string
	Rooms            []string
	ReadReceiptDelay time.Duration
	Now              func() time.Time
	NewID            IDGenerator
}

func OptionsFromConfig(cfg config.ChatConfig) Options {
	return Options{
		DefaultRoom:      cfg.DefaultRoom,
		Rooms:            cfg.Rooms,
		ReadReceiptDelay: cfg.ReadReceiptDelay,
	}
}

// Engine applies inbound events to State and fans the results out through
// Transport.
type Engine struct {
	state     *State
	transport Transport
	opts      Options
}

func NewEngine(state *State, transport Transport, opts Options) (*Engine, error) {
	if opts.DefaultRoom == "" {
		opts.DefaultRoom = "general"
	}
	if len(opts.Rooms) == 0 {
		opts.Rooms = []string{"general", "random", "tech"}
	}
	if opts.ReadReceiptDelay <= 0 {
		opts.ReadReceiptDelay = time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		gen, err := NewIDGenerator()
		if err != nil {
			return nil, err
		}
		opts.NewID = gen
	}

	return &Engine{
		state:     state,
		transport: transport,
		opts:      opts,
	}, nil
}

func (e *Engine) State() *State {
	return e.state
}

// RoomList is the static room catalogue sent to every joiner.
func (e *Engine) RoomList() []string {
	return slices.Clone(e.opts.Rooms)
}

func (e *Engine) now() time.Time {
	return e.opts.Now().UTC()
}

// Join registers the session's identity and puts it in the default room.
func (e *Engine) Join(session models.Session, profile map[string]any) models.Identity {
	dir := e.state.Directory
	connID := session.ConnectionID

	dir.AddUser(connID, session.User, profile)
	previous, _ := dir.JoinRoom(connID, e.opts.DefaultRoom)
	identity, _ := dir.GetUser(connID)

	// A repeated join from another room leaves that room first.
	if previous != "" && previous != e.opts.DefaultRoom {
		e.toRoom(previous, connID, models.Event{
			Type: models.EventUserLeftRoom,
			Data: models.RoomPresence{User: identity, Room: previous},
		})
		e.toRoom(previous, "", models.Event{Type: models.EventRoomUsers, Data: dir.UsersInRoom(previous)})
		if e.state.Typing.ClearTyping(connID) {
			e.toRoom(previous, connID, e.typingEvent(previous))
		}
	}

	e.transport.Broadcast(models.Event{Type: models.EventUserList, Data: dir.AllUsers()})
	e.transport.Broadcast(models.Event{Type: models.EventUserJoined, Data: identity})
	e.transport.Send(models.Event{Type: models.EventRoomList, Data: e.RoomList()}, connID)

	logger.Info("User %s joined as %s", identity.Username, connID)
	return identity
}

// SwitchRoom moves connID to room. An empty room name means the default room.
func (e *Engine) SwitchRoom(connID, room string) error {
	if room == "" {
		room = e.opts.DefaultRoom
	}

	dir := e.state.Directory
	previous, ok := dir.JoinRoom(connID, room)
	if !ok {
		return fmt.Errorf("switch room: %w", ErrNotJoined)
	}
	identity, _ := dir.GetUser(connID)

	if previous != "" {
		e.toRoom(previous, connID, models.Event{
			Type: models.EventUserLeftRoom,
			Data: models.RoomPresence{User: identity, Room: previous},
		})
		if previous != room && e.state.Typing.ClearTyping(connID) {
			e.toRoom(previous, connID, e.typingEvent(previous))
		}
	}

	e.transport.Send(models.Event{Type: models.EventRoomJoined, Data: room}, connID)
	e.toRoom(room, connID, models.Event{
		Type: models.EventUserJoinedRoom,
		Data: models.RoomPresence{User: identity, Room: room},
	})
	e.toRoom(room, "", models.Event{Type: models.EventRoomUsers, Data: dir.UsersInRoom(room)})

	logger.Debug("User %s moved from %q to %q", identity.Username, previous, room)
	return nil
}

// SendMessage appends a text message to the sender's room and acknowledges it.
func (e *Engine) SendMessage(connID, body string, meta map[string]any) (models.Message, error) {
	identity, ok := e.state.Directory.GetUser(connID)
	if !ok {
		return models.Message{}, fmt.Errorf("send message: %w", ErrNotJoined)
	}
	room := identity.Room
	if room == "" {
		room = e.opts.DefaultRoom
	}

	msg := models.Message{
		ID:        e.opts.NewID(),
		Room:      room,
		Sender:    identity.Username,
		SenderID:  connID,
		Type:      models.MessageKindText,
		Body:      body,
		Meta:      meta,
		Timestamp: e.now(),
	}
	e.state.Messages.Append(msg)

	e.toRoom(room, "", models.Event{Type: models.EventReceiveMessage, Data: msg})
	e.transport.Send(models.Event{
		Type: models.EventMessageDelivered,
		Data: models.DeliveryReceipt{MessageID: msg.ID, Timestamp: e.now()},
	}, connID)
	return msg, nil
}

// Typing sets or clears connID's typing flag and tells the rest of the room.
func (e *Engine) Typing(connID string, isTyping bool) error {
	identity, ok := e.state.Directory.GetUser(connID)
	if !ok || identity.Room == "" {
		return fmt.Errorf("typing: %w", ErrNotJoined)
	}

	if isTyping {
		e.state.Typing.SetTyping(connID, identity.Username, identity.Room)
	} else {
		e.state.Typing.ClearTyping(connID)
	}
	e.toRoom(identity.Room, connID, e.typingEvent(identity.Room))
	return nil
}

// PrivateMessage delivers body to the user named to. The read receipt that
// follows is simulated: it fires after a fixed delay whether or not the
// recipient saw the message, and is not cancelled by a disconnect.
func (e *Engine) PrivateMessage(connID, to, body string) (models.PrivateMessage, error) {
	dir := e.state.Directory
	from, ok := dir.GetUser(connID)
	if !ok {
		return models.PrivateMessage{}, fmt.Errorf("private message: %w", ErrNotJoined)
	}
	recipient, ok := dir.GetUserByUsername(to)
	if !ok {
		e.sendError(connID, "User not found")
		return models.PrivateMessage{}, fmt.Errorf("private message to %q: %w", to, ErrRecipientNotFound)
	}

	pm := models.PrivateMessage{
		ID:        e.opts.NewID(),
		From:      from.Username,
		FromID:    connID,
		To:        to,
		ToID:      recipient.ID,
		Body:      body,
		Timestamp: e.now(),
		IsPrivate: true,
	}

	ev := models.Event{Type: models.EventPrivateMessage, Data: pm}
	if recipient.ID == connID {
		e.transport.Send(ev, connID)
	} else {
		e.transport.Send(ev, recipient.ID, connID)
	}

	receipt := models.Event{Type: models.EventMessageRead, Data: models.ReadReceipt{MessageID: pm.ID}}
	time.AfterFunc(e.opts.ReadReceiptDelay, func() {
		e.transport.Send(receipt, connID)
	})
	return pm, nil
}

// SendFile appends a file message to the sender's room. Unlike SendMessage no
// delivery receipt is sent.
func (e *Engine) SendFile(connID string, file models.FileDescriptor) (models.Message, error) {
	identity, ok := e.state.Directory.GetUser(connID)
	if !ok || identity.Room == "" {
		return models.Message{}, fmt.Errorf("send file: %w", ErrNotJoined)
	}

	msg := models.Message{
		ID:        e.opts.NewID(),
		Room:      identity.Room,
		Sender:    identity.Username,
		SenderID:  connID,
		Type:      models.MessageKindFile,
		File:      &file,
		Timestamp: e.now(),
	}
	e.state.Messages.Append(msg)

	e.toRoom(msg.Room, "", models.Event{Type: models.EventReceiveMessage, Data: msg})
	return msg, nil
}

// React records connID's reaction on messageID. found is false, and nothing
// is sent, when the message is not in the log.
func (e *Engine) React(connID, messageID, reaction string) (msg models.Message, found bool, err error) {
	identity, ok := e.state.Directory.GetUser(connID)
	if !ok {
		return models.Message{}, false, fmt.Errorf("react: %w", ErrNotJoined)
	}

	msg, found = e.state.Messages.AddReaction(messageID, identity.Username, reaction)
	if !found {
		logger.Debug("Reaction from %s on unknown message %s ignored", identity.Username, messageID)
		return msg, false, nil
	}

	e.toRoom(msg.Room, "", models.Event{Type: models.EventMessageUpdated, Data: msg})
	return msg, true, nil
}

// Disconnect removes connID from every store. Only the first call for a
// connection produces left notices.
func (e *Engine) Disconnect(connID string) (models.Identity, bool) {
	identity, existed := e.state.Directory.RemoveUser(connID)
	e.state.Typing.ClearTyping(connID)

	if existed {
		e.transport.Broadcast(models.Event{Type: models.EventUserLeft, Data: identity})
		if identity.Room != "" {
			e.toRoom(identity.Room, connID, models.Event{
				Type: models.EventUserLeftRoom,
				Data: models.RoomPresence{User: identity, Room: identity.Room},
			})
		}
		logger.Info("%s left the chat", identity.Username)
	}

	e.transport.Broadcast(models.Event{Type: models.EventUserList, Data: e.state.Directory.AllUsers()})
	if identity.Room != "" {
		e.transport.Broadcast(e.typingEvent(identity.Room))
	}
	return identity, existed
}

func (e *Engine) typingEvent(room string) models.Event {
	return models.Event{
		Type: models.EventTypingUsers,
		Data: models.TypingUpdate{Room: room, Usernames: e.state.Typing.ListTypingInRoom(room)},
	}
}

func (e *Engine) sendError(connID, message string) {
	e.transport.Send(models.Event{Type: models.EventError, Data: models.ErrorNotice{Message: message}}, connID)
}

// toRoom sends ev to every member of room except the connection except.
func (e *Engine) toRoom(room, except string, ev models.Event) {
	ids := e.state.Directory.MemberIDs(room)
	if except != "" {
		ids = slices.DeleteFunc(ids, func(id string) bool { return id == except })
	}
	if len(ids) == 0 {
		return
	}
	e.transport.Send(ev, ids...)
}

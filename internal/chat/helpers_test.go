package chat

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"chat-relay/internal/config"
	"chat-relay/internal/models"

	"github.com/stretchr/testify/require"
)

type sentEvent struct {
	event models.Event
	to    []string
	all   bool
}

// recordingTransport captures every outbound event instead of delivering it.
type recordingTransport struct {
	mu   sync.Mutex
	sent []sentEvent
}

func (t *recordingTransport) Send(ev models.Event, connectionIDs ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sent = append(t.sent, sentEvent{event: ev, to: slices.Clone(connectionIDs)})
}

func (t *recordingTransport) Broadcast(ev models.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sent = append(t.sent, sentEvent{event: ev, all: true})
}

func (t *recordingTransport) reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sent = nil
}

// eventsFor returns what connID would have received, broadcasts included.
func (t *recordingTransport) eventsFor(connID string) []models.Event {
	t.mu.Lock()
	defer t.mu.Unlock()

	var events []models.Event
	for _, s := range t.sent {
		if s.all || slices.Contains(s.to, connID) {
			events = append(events, s.event)
		}
	}
	return events
}

func (t *recordingTransport) ofType(eventType models.EventType) []sentEvent {
	t.mu.Lock()
	defer t.mu.Unlock()

	var matched []sentEvent
	for _, s := range t.sent {
		if s.event.Type == eventType {
			matched = append(matched, s)
		}
	}
	return matched
}

func typesOf(events []models.Event) []models.EventType {
	types := make([]models.EventType, len(events))
	for i, ev := range events {
		types[i] = ev.Type
	}
	return types
}

func firstOfType(t *testing.T, events []models.Event, eventType models.EventType) models.Event {
	t.Helper()
	for _, ev := range events {
		if ev.Type == eventType {
			return ev
		}
	}
	t.Fatalf("no %s event among %v", eventType, typesOf(events))
	return models.Event{}
}

func sequentialIDs() IDGenerator {
	var n atomic.Int64
	return func() string {
		return fmt.Sprintf("msg-%d", n.Add(1))
	}
}

func newTestEngine(t *testing.T) (*Engine, *recordingTransport) {
	t.Helper()
	transport := &recordingTransport{}
	engine, err := NewEngine(NewState(config.ChatConfig{}), transport, Options{
		ReadReceiptDelay: 20 * time.Millisecond,
		NewID:            sequentialIDs(),
	})
	require.NoError(t, err)
	return engine, transport
}

func session(connID, username string, userID int) models.Session {
	return models.Session{
		ConnectionID: connID,
		User: models.User{
			ID:       userID,
			Username: username,
			Email:    username + "@example.com",
		},
	}
}

func textMessage(id, room, body string, ts time.Time) models.Message {
	return models.Message{
		ID:        id,
		Room:      room,
		Sender:    "alice",
		SenderID:  "conn-a",
		Type:      models.MessageKindText,
		Body:      body,
		Timestamp: ts,
	}
}

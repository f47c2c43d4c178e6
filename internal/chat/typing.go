package chat

import (
	"sort"
	"sync"
)

type typingEntry struct {
	username string
	room     string
}

// TypingRegistry tracks which connections are currently typing, and where.
type TypingRegistry struct {
	mu      sync.RWMutex
	entries map[string]typingEntry
}

func NewTypingRegistry() *TypingRegistry {
	return &TypingRegistry{entries: make(map[string]typingEntry)}
}

func (t *TypingRegistry) SetTyping(connID, username, room string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[connID] = typingEntry{username: username, room: room}
}

// ClearTyping reports whether connID had an entry.
func (t *TypingRegistry) ClearTyping(connID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.entries[connID]
	delete(t.entries, connID)
	return ok
}

// ListTypingInRoom returns the distinct usernames typing in room, sorted.
func (t *TypingRegistry) ListTypingInRoom(room string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	seen := make(map[string]struct{})
	usernames := make([]string, 0)
	for _, entry := range t.entries {
		if entry.room != room {
			continue
		}
		if _, dup := seen[entry.username]; dup {
			continue
		}
		seen[entry.username] = struct{}{}
		usernames = append(usernames, entry.username)
	}
	sort.Strings(usernames)
	return usernames
}

package chat

import (
	"slices"
	"strings"
	"sync"

	"chat-relay/internal/models"
)

const (
	DefaultLogCapacity = 1000
	DefaultLogEvict    = 100
	DefaultPageSize    = 50
	DefaultSearchLimit = 50
)

type LogOptions struct {
	Capacity    int
	Evict       int
	PageSize    int
	SearchLimit int
}

// MessageLog is the bounded, volatile history of room messages. When it grows
// past Capacity the oldest Evict messages are dropped.
type MessageLog struct {
	mu       sync.RWMutex
	messages []models.Message
	opts     LogOptions
}

func NewMessageLog(opts LogOptions) *MessageLog {
	if opts.Capacity <= 0 {
		opts.Capacity = DefaultLogCapacity
	}
	if opts.Evict <= 0 {
		opts.Evict = DefaultLogEvict
	}
	if opts.Evict > opts.Capacity {
		opts.Evict = opts.Capacity
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.SearchLimit <= 0 {
		opts.SearchLimit = DefaultSearchLimit
	}
	return &MessageLog{
		messages: make([]models.Message, 0, opts.Capacity+1),
		opts:     opts,
	}
}

func (l *MessageLog) Append(msg models.Message) {
	msg = msg.Clone()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.messages = append(l.messages, msg)
	if len(l.messages) > l.opts.Capacity {
		l.messages = slices.Delete(l.messages, 0, l.opts.Evict)
	}
}

func (l *MessageLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.messages)
}

func (l *MessageLog) FindByID(id string) (models.Message, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if i := l.indexOf(id); i >= 0 {
		return l.messages[i].Clone(), true
	}
	return models.Message{}, false
}

// indexOf scans newest first. Callers hold the lock.
func (l *MessageLog) indexOf(id string) int {
	for i := len(l.messages) - 1; i >= 0; i-- {
		if l.messages[i].ID == id {
			return i
		}
	}
	return -1
}

// QueryByRoom returns one page of the room's messages, newest first.
// Non-positive page or limit fall back to page 1 and the default page size.
func (l *MessageLog) QueryByRoom(room string, page, limit int) models.MessagePage {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = l.opts.PageSize
	}

	l.mu.RLock()
	matched := make([]models.Message, 0)
	for _, msg := range l.messages {
		if msg.Room == room {
			matched = append(matched, msg.Clone())
		}
	}
	l.mu.RUnlock()

	slices.SortStableFunc(matched, func(a, b models.Message) int {
		return b.Timestamp.Compare(a.Timestamp)
	})

	total := len(matched)
	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}
	result := models.MessagePage{
		Messages:   []models.Message{},
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
	}

	// Compare page numbers before multiplying so huge inputs cannot wrap.
	if page > totalPages {
		return result
	}
	start := (page - 1) * limit
	end := start + limit
	if end > total || end < start {
		end = total
	}
	result.Messages = matched[start:end]
	return result
}

// Search matches query case-insensitively against text bodies and returns the
// most recent matches in log order. An empty room matches every room.
func (l *MessageLog) Search(query, room string) []models.Message {
	needle := strings.ToLower(query)

	l.mu.RLock()
	defer l.mu.RUnlock()

	matches := make([]models.Message, 0)
	for _, msg := range l.messages {
		if room != "" && msg.Room != room {
			continue
		}
		if msg.Body == "" || !strings.Contains(strings.ToLower(msg.Body), needle) {
			continue
		}
		matches = append(matches, msg)
	}
	if len(matches) > l.opts.SearchLimit {
		matches = matches[len(matches)-l.opts.SearchLimit:]
	}

	result := make([]models.Message, len(matches))
	for i, msg := range matches {
		result[i] = msg.Clone()
	}
	return result
}

// AddReaction records username's reaction, replacing any earlier one, and
// returns the updated message. Unknown ids are ignored.
func (l *MessageLog) AddReaction(id, username, reaction string) (models.Message, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(id)
	if i < 0 {
		return models.Message{}, false
	}
	msg := &l.messages[i]
	if msg.Reactions == nil {
		msg.Reactions = make(map[string]string)
	}
	msg.Reactions[username] = reaction
	return msg.Clone(), true
}

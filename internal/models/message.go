package models

import "time"

type MessageKind string

const (
	MessageKindText MessageKind = "text"
	MessageKindFile MessageKind = "file"
)

// Message is a room message held by the message log. Only Reactions change
// after it has been appended.
type Message struct {
	ID        string            `json:"id"`
	Room      string            `json:"room"`
	Sender    string            `json:"sender"`
	SenderID  string            `json:"senderId"`
	Type      MessageKind       `json:"type"`
	Body      string            `json:"message,omitempty"`
	File      *FileDescriptor   `json:"file,omitempty"`
	Meta      map[string]any    `json:"meta,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Reactions map[string]string `json:"reactions,omitempty"`
}

// Clone returns a deep copy safe to hand out of the log.
func (m Message) Clone() Message {
	m.Meta = cloneMap(m.Meta)
	if m.Reactions != nil {
		reactions := make(map[string]string, len(m.Reactions))
		for k, v := range m.Reactions {
			reactions[k] = v
		}
		m.Reactions = reactions
	}
	if m.File != nil {
		file := *m.File
		file.Meta = cloneMap(file.Meta)
		m.File = &file
	}
	return m
}

// FileDescriptor describes a shared file. The relay never inspects the
// payload; unknown fields end up in Meta.
type FileDescriptor struct {
	Name string         `json:"name,omitempty"`
	Type string         `json:"type,omitempty"`
	Size int64          `json:"size,omitempty"`
	URL  string         `json:"url,omitempty"`
	Data string         `json:"data,omitempty"`
	Meta map[string]any `json:"meta,omitempty"`
}

// PrivateMessage is delivered directly and never stored.
type PrivateMessage struct {
	ID        string    `json:"id"`
	From      string    `json:"from"`
	FromID    string    `json:"fromId"`
	To        string    `json:"to"`
	ToID      string    `json:"toId"`
	Body      string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	IsPrivate bool      `json:"isPrivate"`
}

type MessagePage struct {
	Messages   []Message `json:"messages"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	TotalPages int       `json:"totalPages"`
}

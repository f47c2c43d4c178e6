package chat

import "chat-relay/internal/config"

// State bundles the relay's stores. Each Engine owns exactly one.
type State struct {
	Directory *Directory
	Messages  *MessageLog
	Typing    *TypingRegistry
}

func NewState(cfg config.ChatConfig) *State {
	return &State{
		Directory: NewDirectory(),
		Messages: NewMessageLog(LogOptions{
			Capacity:    cfg.MessageLogCapacity,
			Evict:       cfg.MessageLogEvict,
			PageSize:    cfg.PageSize,
			SearchLimit: cfg.SearchLimit,
		}),
		Typing: NewTypingRegistry(),
	}
}

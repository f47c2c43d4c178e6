package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"slices"

	"chat-relay/internal/models"
	"chat-relay/pkg/logger"
)

// Keys of a send_message payload the engine assigns itself.
var messageOwnedKeys = []string{"id", "room", "sender", "senderId", "type", "message", "file", "timestamp", "reactions", "meta"}

// Dispatch routes one inbound envelope. Errors are informational: a failed
// event never affects other connections, and panics are recovered here.
func (e *Engine) Dispatch(ctx context.Context, session models.Session, env models.Envelope) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic handling %s from %s: %v\n%s", env.Type, session.ConnectionID, r, debug.Stack())
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, r)
		}
	}()

	connID := session.ConnectionID

	switch env.Type {
	case models.EventUserJoin:
		var profile map[string]any
		if err := e.decode(connID, env, &profile); err != nil {
			return err
		}
		e.Join(session, profile)
		return nil

	case models.EventJoinRoom:
		var room string
		if err := e.decode(connID, env, &room); err != nil {
			return err
		}
		return e.SwitchRoom(connID, room)

	case models.EventSendMessage:
		body, meta, err := e.decodeMessage(connID, env)
		if err != nil {
			return err
		}
		_, err = e.SendMessage(connID, body, meta)
		return err

	case models.EventTyping:
		var isTyping bool
		if err := e.decode(connID, env, &isTyping); err != nil {
			return err
		}
		return e.Typing(connID, isTyping)

	case models.EventPrivateMessage:
		var req models.PrivateMessageRequest
		if err := e.decode(connID, env, &req); err != nil {
			return err
		}
		_, err := e.PrivateMessage(connID, req.To, req.Message)
		return err

	case models.EventSendFile:
		file, err := e.decodeFile(connID, env)
		if err != nil {
			return err
		}
		_, err = e.SendFile(connID, file)
		return err

	case models.EventMessageReaction:
		var req models.ReactionRequest
		if err := e.decode(connID, env, &req); err != nil {
			return err
		}
		_, _, err := e.React(connID, req.MessageID, req.Reaction)
		return err

	default:
		e.sendError(connID, fmt.Sprintf("unknown event %q", env.Type))
		return fmt.Errorf("%w: %q", ErrUnknownEvent, env.Type)
	}
}

// decode leaves v untouched when the payload is absent or null.
func (e *Engine) decode(connID string, env models.Envelope, v any) error {
	if isEmptyPayload(env.Data) {
		return nil
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		e.sendError(connID, fmt.Sprintf("invalid %s payload", env.Type))
		return fmt.Errorf("%s: %w: %v", env.Type, ErrMalformedPayload, err)
	}
	return nil
}

// decodeMessage accepts either a bare string or an object whose "message"
// field is the body. Other object fields are kept as metadata.
func (e *Engine) decodeMessage(connID string, env models.Envelope) (string, map[string]any, error) {
	var raw any
	if err := e.decode(connID, env, &raw); err != nil {
		return "", nil, err
	}

	switch payload := raw.(type) {
	case string:
		return payload, nil, nil
	case map[string]any:
		body, _ := payload["message"].(string)
		meta := make(map[string]any)
		for k, v := range payload {
			if !slices.Contains(messageOwnedKeys, k) {
				meta[k] = v
			}
		}
		if len(meta) == 0 {
			meta = nil
		}
		return body, meta, nil
	default:
		return "", nil, nil
	}
}

// decodeFile keeps unrecognised descriptor fields in Meta.
func (e *Engine) decodeFile(connID string, env models.Envelope) (models.FileDescriptor, error) {
	var file models.FileDescriptor
	if err := e.decode(connID, env, &file); err != nil {
		return file, err
	}
	if isEmptyPayload(env.Data) {
		return file, nil
	}

	var fields map[string]any
	if err := json.Unmarshal(env.Data, &fields); err != nil {
		return file, nil
	}
	for _, known := range []string{"name", "type", "size", "url", "data", "meta"} {
		delete(fields, known)
	}
	if len(fields) > 0 {
		if file.Meta == nil {
			file.Meta = make(map[string]any, len(fields))
		}
		for k, v := range fields {
			file.Meta[k] = v
		}
	}
	return file, nil
}

func isEmptyPayload(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

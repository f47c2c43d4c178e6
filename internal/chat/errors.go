package chat

import "errors"

var (
	ErrUnknownEvent      = errors.New("unknown event type")
	ErrMalformedPayload  = errors.New("malformed payload")
	ErrNotJoined         = errors.New("connection has not joined")
	ErrRecipientNotFound = errors.New("recipient not found")
	ErrHandlerPanic      = errors.New("event handler panicked")
)

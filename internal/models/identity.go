package models

// Identity is a connected, joined user. ID is the transport connection id.
type Identity struct {
	ID       string         `json:"id"`
	UserID   int            `json:"userId"`
	Username string         `json:"username"`
	Email    string         `json:"email,omitempty"`
	Room     string         `json:"room,omitempty"`
	Profile  map[string]any `json:"profile,omitempty"`
}

// Clone returns a copy that shares no maps with the receiver.
func (i Identity) Clone() Identity {
	i.Profile = cloneMap(i.Profile)
	return i
}

// Session is what the authentication gate attaches to a connection.
type Session struct {
	ConnectionID string
	User         User
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

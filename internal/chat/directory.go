package chat

import (
	"slices"
	"sync"

	"chat-relay/internal/models"
)

// Reserved profile keys. Verified identity attributes always win over these
// when a join payload carries them.
var reservedProfileKeys = []string{"id", "userId", "username", "email", "room"}

// Directory owns connected identities and the room index. Both directions of
// membership (connection -> room, room -> connections) change under one lock.
type Directory struct {
	mu    sync.RWMutex
	users map[string]*models.Identity
	order []string
	rooms *roomIndex
}

func NewDirectory() *Directory {
	return &Directory{
		users: make(map[string]*models.Identity),
		rooms: newRoomIndex(),
	}
}

// AddUser registers or overwrites the identity for connID. A re-registered
// connection keeps its position and its current room.
func (d *Directory) AddUser(connID string, verified models.User, profile map[string]any) models.Identity {
	extra := make(map[string]any, len(profile))
	for k, v := range profile {
		if !slices.Contains(reservedProfileKeys, k) {
			extra[k] = v
		}
	}
	if len(extra) == 0 {
		extra = nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	identity := &models.Identity{
		ID:       connID,
		UserID:   verified.ID,
		Username: verified.Username,
		Email:    verified.Email,
		Profile:  extra,
	}
	if existing, ok := d.users[connID]; ok {
		identity.Room = existing.Room
	} else {
		d.order = append(d.order, connID)
	}
	d.users[connID] = identity
	return identity.Clone()
}

func (d *Directory) GetUser(connID string) (models.Identity, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	identity, ok := d.users[connID]
	if !ok {
		return models.Identity{}, false
	}
	return identity.Clone(), true
}

// GetUserByUsername returns the earliest joined identity with that username.
// Usernames are not unique across connections; later duplicates are shadowed.
func (d *Directory) GetUserByUsername(username string) (models.Identity, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, connID := range d.order {
		if identity := d.users[connID]; identity.Username == username {
			return identity.Clone(), true
		}
	}
	return models.Identity{}, false
}

// JoinRoom moves connID into room and returns the room it left ("" if none).
// ok is false when connID has no identity; nothing changes in that case.
func (d *Directory) JoinRoom(connID, room string) (previous string, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	identity, ok := d.users[connID]
	if !ok {
		return "", false
	}
	previous = identity.Room
	if previous != "" {
		d.rooms.remove(previous, connID)
	}
	d.rooms.add(room, connID)
	identity.Room = room
	return previous, true
}

// RemoveUser deletes connID and returns the identity as it was, including its
// room. Removing an unknown connection is a no-op.
func (d *Directory) RemoveUser(connID string) (models.Identity, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	identity, ok := d.users[connID]
	if !ok {
		return models.Identity{}, false
	}
	if identity.Room != "" {
		d.rooms.remove(identity.Room, connID)
	}
	delete(d.users, connID)
	d.order = slices.DeleteFunc(d.order, func(id string) bool { return id == connID })
	return *identity, true
}

// AllUsers returns a snapshot in join order.
func (d *Directory) AllUsers() []models.Identity {
	d.mu.RLock()
	defer d.mu.RUnlock()

	users := make([]models.Identity, 0, len(d.order))
	for _, connID := range d.order {
		users = append(users, d.users[connID].Clone())
	}
	return users
}

// UsersInRoom returns a snapshot of the room's members in join order. Unknown
// rooms yield an empty slice.
func (d *Directory) UsersInRoom(room string) []models.Identity {
	d.mu.RLock()
	defer d.mu.RUnlock()

	users := make([]models.Identity, 0, d.rooms.size(room))
	for _, connID := range d.order {
		if d.rooms.contains(room, connID) {
			users = append(users, d.users[connID].Clone())
		}
	}
	return users
}

// MemberIDs returns the connection ids currently in room.
func (d *Directory) MemberIDs(room string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ids := make([]string, 0, d.rooms.size(room))
	for _, connID := range d.order {
		if d.rooms.contains(room, connID) {
			ids = append(ids, connID)
		}
	}
	return ids
}

// Rooms lists every room that has ever been joined, empty ones included.
func (d *Directory) Rooms() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.rooms.names()
}

func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.users)
}

package chat

import "sort"

// roomIndex maps room names to member connection ids. It is not safe for
// concurrent use on its own; Directory guards it.
type roomIndex struct {
	members map[string]map[string]struct{}
}

func newRoomIndex() *roomIndex {
	return &roomIndex{members: make(map[string]map[string]struct{})}
}

func (r *roomIndex) add(room, connID string) {
	set, ok := r.members[room]
	if !ok {
		set = make(map[string]struct{})
		r.members[room] = set
	}
	set[connID] = struct{}{}
}

// remove keeps the room itself, even when it becomes empty.
func (r *roomIndex) remove(room, connID string) {
	if set, ok := r.members[room]; ok {
		delete(set, connID)
	}
}

func (r *roomIndex) contains(room, connID string) bool {
	_, ok := r.members[room][connID]
	return ok
}

func (r *roomIndex) size(room string) int {
	return len(r.members[room])
}

func (r *roomIndex) names() []string {
	names := make([]string, 0, len(r.members))
	for name := range r.members {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package chat

import (
	"sync"
	"time"
)

// Registry is the authoritative mapping of rooms to member sessions. It
// maintains both sides of the membership relation under one lock: the
// per-room member set and the reverse username -> current room pointer are
// always mutated together, so for every username with a current room R a
// member entry (R, username) exists, and vice versa. A username belongs to
// at most one room at a time.
type Registry struct {
	mu      sync.RWMutex
	rooms   map[string]time.Time           // room -> creation time
	members map[string]map[string]*Session // room -> username -> session
	current map[string]string              // username -> room
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		rooms:   make(map[string]time.Time),
		members: make(map[string]map[string]*Session),
		current: make(map[string]string),
	}
}

// CreateRoom explicitly creates a room. Duplicate creation is the only
// room-level error; rooms are never deleted.
func (r *Registry) CreateRoom(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[name]; ok {
		return ErrRoomExists
	}
	r.rooms[name] = time.Now()
	r.members[name] = make(map[string]*Session)
	return nil
}

// Join moves username into room, removing any prior membership first (exit
// semantics). Joining the room the user is already in is a no-op that still
// succeeds and rebinds the session pointer. It returns the room the user
// was removed from ("" if none or unchanged) and whether the target room
// was created by this join.
func (r *Registry) Join(room, username string, sess *Session) (prior string, created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[room]; !ok {
		r.rooms[room] = time.Now()
		r.members[room] = make(map[string]*Session)
		created = true
	}

	if cur, ok := r.current[username]; ok && cur != room {
		delete(r.members[cur], username)
		prior = cur
	}

	r.members[room][username] = sess
	r.current[username] = room
	return prior, created
}

// Leave removes username from whichever room it occupies. It is a no-op,
// not an error, when the user is in no room.
func (r *Registry) Leave(username string) (room string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok = r.current[username]
	if !ok {
		return "", false
	}
	delete(r.members[room], username)
	delete(r.current, username)
	return room, true
}

// LeaveSession is Leave restricted to the session that currently owns the
// membership. A disconnect of a stale connection must not tear down the
// membership a newer connection for the same username has since taken over.
func (r *Registry) LeaveSession(username string, sess *Session) (room string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok = r.current[username]
	if !ok {
		return "", false
	}
	if r.members[room][username] != sess {
		return "", false
	}
	delete(r.members[room], username)
	delete(r.current, username)
	return room, true
}

// RoomOf returns the room username currently occupies, if any.
func (r *Registry) RoomOf(username string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.current[username]
	return room, ok
}

// Members returns a snapshot of the usernames in room.
func (r *Registry) Members(room string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := r.members[room]
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	return names
}

// sessions returns a snapshot of the member sessions of room, for fan-out.
func (r *Registry) sessions(room string) []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := r.members[room]
	out := make([]*Session, 0, len(set))
	for _, s := range set {
		out = append(out, s)
	}
	return out
}

// Rooms returns the directory view of all known rooms.
func (r *Registry) Rooms() []RoomInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	infos := make([]RoomInfo, 0, len(r.rooms))
	for name, createdAt := range r.rooms {
		infos = append(infos, RoomInfo{
			Name:      name,
			CreatedAt: createdAt,
			Members:   len(r.members[name]),
		})
	}
	return infos
}

// CurrentRooms returns a snapshot of every username's current room.
func (r *Registry) CurrentRooms() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snapshot := make(map[string]string, len(r.current))
	for username, room := range r.current {
		snapshot[username] = room
	}
	return snapshot
}

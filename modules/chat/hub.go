package chat

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// Observer receives committed room events after the hub has applied them,
// for publication outside the core (the module forwards them to the
// EventBus). Calls happen inside the room's serialization domain, so
// observers see events in room-local order.
type Observer interface {
	MessageSent(room, username, content string, seq int64, at time.Time)
	UserJoined(room, username string, at time.Time)
	UserLeft(room, username string, at time.Time)
	RoomCreated(room string, at time.Time)
}

// Hub is the single authority that sequences room-affecting events and fans
// them out. Events targeting the same room are processed one at a time in
// arrival order; events targeting different rooms proceed concurrently. A
// cross-room move holds both room domains, acquired in lexicographic order,
// so two users swapping rooms cannot deadlock.
type Hub struct {
	registry *Registry
	store    MessageStore
	observer Observer
	logger   *slog.Logger

	domMu   sync.Mutex
	domains map[string]*sync.Mutex // room -> serialization domain, kept forever
}

// NewHub creates a hub over the given registry and message store.
func NewHub(registry *Registry, store MessageStore) *Hub {
	return &Hub{
		registry: registry,
		store:    store,
		logger:   slog.Default(),
		domains:  make(map[string]*sync.Mutex),
	}
}

// SetObserver attaches the event observer. Must be called before the hub
// starts accepting events.
func (h *Hub) SetObserver(o Observer) {
	h.observer = o
}

// domain returns room's serialization lock, creating it on first reference.
// Domains are never destroyed, so there is no teardown race to handle.
func (h *Hub) domain(room string) *sync.Mutex {
	h.domMu.Lock()
	defer h.domMu.Unlock()
	m, ok := h.domains[room]
	if !ok {
		m = &sync.Mutex{}
		h.domains[room] = m
	}
	return m
}

// lockOrdered acquires the serialization domains of the given rooms in
// lexicographic order, skipping empty names and duplicates. The returned
// function releases them in reverse order.
func (h *Hub) lockOrdered(rooms ...string) func() {
	names := make([]string, 0, len(rooms))
	for _, r := range rooms {
		if r == "" {
			continue
		}
		dup := false
		for _, n := range names {
			if n == r {
				dup = true
				break
			}
		}
		if !dup {
			names = append(names, r)
		}
	}
	sort.Strings(names)

	locks := make([]*sync.Mutex, len(names))
	for i, n := range names {
		locks[i] = h.domain(n)
		locks[i].Lock()
	}
	return func() {
		for i := len(locks) - 1; i >= 0; i-- {
			locks[i].Unlock()
		}
	}
}

// CreateRoom explicitly creates a room through the directory.
func (h *Hub) CreateRoom(name string) error {
	if err := ValidateRoomName(name); err != nil {
		return err
	}
	if err := h.registry.CreateRoom(name); err != nil {
		return err
	}
	if h.observer != nil {
		h.observer.RoomCreated(name, time.Now())
	}
	return nil
}

// OnJoin moves the session's user into room and notifies the room's members
// after the join completes, so the joiner receives the notification too.
// A user already in another room is removed from it first; that room's
// remaining members see a "left" notice. Joining the current room again is
// a no-op that still succeeds.
func (h *Hub) OnJoin(sess *Session, room string) error {
	username, ok := sess.Username()
	if !ok {
		return ErrNotAuthenticated
	}
	if err := ValidateRoomName(room); err != nil {
		return err
	}

	for {
		prior, _ := h.registry.RoomOf(username)
		unlock := h.lockOrdered(room, prior)

		// The user may have moved between the read and the lock; retry
		// until the locked domains cover the actual source room.
		cur, _ := h.registry.RoomOf(username)
		if cur != prior {
			unlock()
			continue
		}

		if cur == room {
			// Rebind the session pointer so a reconnecting user's
			// notifications reach the live connection.
			h.registry.Join(room, username, sess)
			unlock()
			return nil
		}

		left, created := h.registry.Join(room, username, sess)
		now := time.Now()
		if created && h.observer != nil {
			h.observer.RoomCreated(room, now)
		}
		if left != "" {
			h.broadcast(left, Notification{
				Kind:     KindSystem,
				Room:     left,
				Username: username,
				Msg:      username + " left room",
				At:       now,
			})
			if h.observer != nil {
				h.observer.UserLeft(left, username, now)
			}
		}
		h.broadcast(room, Notification{
			Kind:     KindSystem,
			Room:     room,
			Username: username,
			Msg:      username + " joined room " + room,
			At:       now,
		})
		if h.observer != nil {
			h.observer.UserJoined(room, username, now)
		}
		unlock()
		return nil
	}
}

// OnMessage appends the message to the room's log and, only after the
// append succeeds, delivers it to every current member, sender included.
// Senders that are not members of room are rejected with ErrNotInRoom; a
// failed append is reported as ErrStorageUnavailable and nothing is
// broadcast. Both rejections leave all shared state untouched.
func (h *Hub) OnMessage(ctx context.Context, sess *Session, room, content string) error {
	username, ok := sess.Username()
	if !ok {
		return ErrNotAuthenticated
	}
	if err := ValidateMessage(content); err != nil {
		return err
	}

	unlock := h.lockOrdered(room)
	defer unlock()

	cur, in := h.registry.RoomOf(username)
	if !in || cur != room {
		return ErrNotInRoom
	}

	seq, err := h.store.Append(ctx, room, username, content)
	if err != nil {
		h.logger.Error("message append failed", "room", room, "username", username, "error", err)
		if errors.Is(err, ErrStorageUnavailable) {
			return err
		}
		return ErrStorageUnavailable
	}

	now := time.Now()
	h.broadcast(room, Notification{
		Kind:     KindMessage,
		Room:     room,
		Username: username,
		Msg:      content,
		Seq:      seq,
		At:       now,
	})
	if h.observer != nil {
		h.observer.MessageSent(room, username, content, seq, now)
	}
	return nil
}

// OnLeave removes the session's user from their room and delivers a "left"
// notice to the members remaining in room, whether or not the user was
// actually a member there.
func (h *Hub) OnLeave(sess *Session, room string) error {
	username, ok := sess.Username()
	if !ok {
		return ErrNotAuthenticated
	}

	for {
		cur, _ := h.registry.RoomOf(username)
		unlock := h.lockOrdered(room, cur)

		recheck, _ := h.registry.RoomOf(username)
		if recheck != cur {
			unlock()
			continue
		}

		left, wasMember := h.registry.Leave(username)
		now := time.Now()
		note := Notification{
			Kind:     KindSystem,
			Room:     room,
			Username: username,
			Msg:      username + " left room",
			At:       now,
		}
		h.broadcast(room, note)
		if wasMember && left != room {
			note.Room = left
			h.broadcast(left, note)
		}
		if wasMember && h.observer != nil {
			h.observer.UserLeft(left, username, now)
		}
		unlock()
		return nil
	}
}

// Disconnect runs leave semantics for a closing session and then closes it.
// It must be invoked exactly once per transport teardown; the membership is
// only removed if this session still owns it, so a disconnect racing a
// reconnect of the same user cannot evict the newer connection.
func (h *Hub) Disconnect(sess *Session) {
	defer sess.close()

	username, ok := sess.Username()
	if !ok {
		return
	}

	for {
		cur, in := h.registry.RoomOf(username)
		if !in {
			return
		}
		unlock := h.lockOrdered(cur)

		recheck, in := h.registry.RoomOf(username)
		if !in {
			unlock()
			return
		}
		if recheck != cur {
			unlock()
			continue
		}

		room, owned := h.registry.LeaveSession(username, sess)
		if owned {
			now := time.Now()
			h.broadcast(room, Notification{
				Kind:     KindSystem,
				Room:     room,
				Username: username,
				Msg:      username + " left room",
				At:       now,
			})
			if h.observer != nil {
				h.observer.UserLeft(room, username, now)
			}
		}
		unlock()
		return
	}
}

// broadcast delivers a notification to every current member of room. A
// member whose queue is full or whose session is closed misses this
// notification; the drop is logged and never blocks the rest of the room.
func (h *Hub) broadcast(room string, n Notification) {
	for _, s := range h.registry.sessions(room) {
		if !s.deliver(n) {
			h.logger.Warn("dropping notification for slow or closed session",
				"room", room, "session", s.ID())
		}
	}
}

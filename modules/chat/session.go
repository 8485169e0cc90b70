package chat

import (
	"sync"
)

// sendQueueSize bounds the per-session outbound queue. A session that falls
// this far behind starts losing notifications rather than stalling the room.
const sendQueueSize = 64

// Session is the per-connection state tying a transport connection to an
// authenticated identity. It starts unauthenticated; the transport attaches
// a verified username before the hub accepts join or message events from it.
// The session's current room lives in the Registry, not here, so there is a
// single source of truth for membership.
type Session struct {
	id string

	mu            sync.Mutex
	username      string
	authenticated bool
	closed        bool

	out chan Notification
}

// NewSession creates an unauthenticated session with a bounded outbound
// queue. id should be unique per connection.
func NewSession(id string) *Session {
	return &Session{
		id:  id,
		out: make(chan Notification, sendQueueSize),
	}
}

// ID returns the transport-assigned session identifier.
func (s *Session) ID() string {
	return s.id
}

// Authenticate attaches a verified username to the session. The identity is
// asserted by the auth collaborator; the core trusts it from here on.
func (s *Session) Authenticate(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.username = username
	s.authenticated = true
}

// Username returns the attached identity and whether the session has one.
func (s *Session) Username() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.username, s.authenticated
}

// Out is the stream of notifications for the transport to deliver. It is
// closed when the session is closed; the transport's write loop should exit
// when the channel drains.
func (s *Session) Out() <-chan Notification {
	return s.out
}

// deliver queues a notification without blocking. It reports false when the
// session is closed or its queue is full; the caller drops the notification
// in that case rather than stalling the broadcast.
func (s *Session) deliver(n Notification) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.out <- n:
		return true
	default:
		return false
	}
}

// close marks the session terminal and closes the outbound channel. Safe to
// call more than once; only the first call has an effect.
func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.out)
}

package chat

import "errors"

// Error kinds reported back to the originating session. A rejected event
// leaves the registry and the message store exactly as they were before it.
var (
	// ErrNotAuthenticated is returned for events from a session that has no
	// verified identity attached yet.
	ErrNotAuthenticated = errors.New("session is not authenticated")

	// ErrNotInRoom is returned when a message targets a room the sender is
	// not currently a member of.
	ErrNotInRoom = errors.New("not a member of this room")

	// ErrStorageUnavailable is returned when the message log cannot be
	// written. The message is not broadcast: persistence is a precondition
	// of delivery.
	ErrStorageUnavailable = errors.New("message storage unavailable")

	// ErrRoomExists is returned for a duplicate explicit room-create
	// request. Joining an existing room is never an error.
	ErrRoomExists = errors.New("room already exists")
)

package chat

import (
	"context"

	domain "github.com/example/roomchat/domain/chat"
)

// MessageStore is the durable, append-only per-room message log the hub
// writes through before fanning a message out. Append may block on I/O; the
// hub holds only the room's serialization domain across it, never the
// registry lock. A failed Append maps to ErrStorageUnavailable and the
// message is not broadcast.
type MessageStore interface {
	// Append durably records the message and returns its room-scoped,
	// monotonically increasing sequence number.
	Append(ctx context.Context, room, username, content string) (int64, error)

	// History returns every message ever appended to room, oldest first.
	// Each call re-reads the full log.
	History(ctx context.Context, room string) ([]domain.Message, error)
}

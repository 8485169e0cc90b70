package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// MessageSentEvent is emitted after a message has been durably appended to
// the room log and broadcast to the room's members.
type MessageSentEvent struct {
	Room     string    `json:"room"`
	Username string    `json:"username"`
	Content  string    `json:"content"`
	Seq      int64     `json:"seq"`
	SentAt   time.Time `json:"sent_at"`
}

// UserJoinedEvent is emitted when a user becomes a member of a room.
type UserJoinedEvent struct {
	Room     string    `json:"room"`
	Username string    `json:"username"`
	JoinedAt time.Time `json:"joined_at"`
}

// UserLeftEvent is emitted when a user's membership in a room ends, whether
// by explicit leave, by switching rooms, or by disconnect.
type UserLeftEvent struct {
	Room     string    `json:"room"`
	Username string    `json:"username"`
	LeftAt   time.Time `json:"left_at"`
}

// RoomCreatedEvent is emitted when a room is created, explicitly via the
// directory or implicitly on first join.
type RoomCreatedEvent struct {
	Room      string    `json:"room"`
	CreatedAt time.Time `json:"created_at"`
}

// Event definitions for the chat domain.
var (
	MessageSentV1 = helper.EventDefinition[MessageSentEvent](
		"chat",
		"MessageSent",
		"v1",
	)

	UserJoinedV1 = helper.EventDefinition[UserJoinedEvent](
		"chat",
		"UserJoined",
		"v1",
	)

	UserLeftV1 = helper.EventDefinition[UserLeftEvent](
		"chat",
		"UserLeft",
		"v1",
	)

	RoomCreatedV1 = helper.EventDefinition[RoomCreatedEvent](
		"chat",
		"RoomCreated",
		"v1",
	)
)

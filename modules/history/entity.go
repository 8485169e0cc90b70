package history

import "time"

// MessageRecord is the persisted form of one chat message. (Room, Seq) is
// unique and Seq is monotonically increasing within a room, so ordering by
// it reproduces the order in which the hub accepted the messages.
type MessageRecord struct {
	ID        string    `gorm:"primaryKey"`
	Room      string    `gorm:"uniqueIndex:idx_room_seq;not null"`
	Seq       int64     `gorm:"uniqueIndex:idx_room_seq;not null"`
	Username  string    `gorm:"not null"`
	Content   string    `gorm:"not null"`
	CreatedAt time.Time
}

// TableName keeps the table name stable regardless of struct renames.
func (MessageRecord) TableName() string {
	return "messages"
}

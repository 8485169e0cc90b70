package chat

import "time"

// Room is a named channel grouping zero or more members. Rooms are created
// explicitly through the directory or implicitly on first join, and are
// never deleted.
type Room struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Message is one immutable entry in a room's log. Seq is the room-scoped
// sequence number assigned when the message was accepted; messages within a
// room are totally ordered by it.
type Message struct {
	Room     string    `json:"room"`
	Username string    `json:"username"`
	Content  string    `json:"msg"`
	Seq      int64     `json:"seq"`
	SentAt   time.Time `json:"sent_at"`
}

// User is the directory view of a registered user: the identity string plus
// the room they currently occupy, if any.
type User struct {
	Username string `json:"username"`
	Room     string `json:"room,omitempty"`
}

package api

import (
	"time"

	"github.com/example/roomchat/modules/chat"
)

// ErrorResponse is the uniform error body for REST endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status  string         `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}

// RegisterRequest represents an HTTP registration request.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest represents an HTTP login request.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RefreshRequest represents an HTTP token refresh request.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UserResponse represents a newly registered user.
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenResponse represents a token pair response.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// CreateRoomRequest represents a room creation request.
type CreateRoomRequest struct {
	Name string `json:"name"`
}

// RoomListResponse carries the room directory.
type RoomListResponse struct {
	Rooms []chat.RoomInfo `json:"rooms"`
	Total int             `json:"total"`
}

// RoomMembersResponse carries a room's member snapshot.
type RoomMembersResponse struct {
	Room    string   `json:"room"`
	Members []string `json:"members"`
	Total   int      `json:"total"`
}

// MessageResponse is one message in a room history response.
type MessageResponse struct {
	Username string    `json:"username"`
	Msg      string    `json:"msg"`
	Seq      int64     `json:"seq"`
	SentAt   time.Time `json:"sent_at"`
}

// HistoryResponse carries a room's message log, oldest first.
type HistoryResponse struct {
	Room     string            `json:"room"`
	Messages []MessageResponse `json:"messages"`
	Total    int               `json:"total"`
}

// UserStatusResponse is one entry of the user directory: a registered
// username and, if the user is connected, the room they are currently in.
type UserStatusResponse struct {
	Username string `json:"username"`
	Room     string `json:"room,omitempty"`
}

// UserListResponse carries the user directory.
type UserListResponse struct {
	Users []UserStatusResponse `json:"users"`
	Total int                  `json:"total"`
}

// WebSocket frame types accepted from clients.
const (
	FrameAuth    = "auth"
	FrameJoin    = "join"
	FrameMessage = "message"
	FrameLeave   = "leave"
)

// ClientFrame is one inbound WebSocket frame.
type ClientFrame struct {
	Type    string `json:"type"`
	Token   string `json:"token,omitempty"`
	Room    string `json:"room,omitempty"`
	Content string `json:"content,omitempty"`
}

// ServerFrame is a control frame pushed to a WebSocket client in response to
// its own frames. Room traffic is delivered separately as chat notifications.
type ServerFrame struct {
	Kind     string `json:"kind"`
	Username string `json:"username,omitempty"`
	Room     string `json:"room,omitempty"`
	Error    string `json:"error,omitempty"`
}

// ServerFrame kinds.
const (
	KindAuthenticated = "authenticated"
	KindError         = "error"
)

package chat

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// Service payload types for the room-directory services.

// CreateRoomRequest asks for an explicit room creation.
type CreateRoomRequest struct {
	Name string `json:"name"`
}

// CreateRoomResponse reports the outcome of a create-room request. A
// duplicate name is a response, not a transport error, so callers can map
// it to a conflict instead of a failure.
type CreateRoomResponse struct {
	Created bool   `json:"created"`
	Error   string `json:"error,omitempty"`
}

// ListRoomsRequest asks for the room directory.
type ListRoomsRequest struct{}

// ListRoomsResponse carries the room directory.
type ListRoomsResponse struct {
	Rooms []RoomInfo `json:"rooms"`
}

// RoomMembersRequest asks for a room's member snapshot.
type RoomMembersRequest struct {
	Room string `json:"room"`
}

// RoomMembersResponse carries a room's member snapshot.
type RoomMembersResponse struct {
	Room    string   `json:"room"`
	Members []string `json:"members"`
}

// CurrentRoomsRequest asks for every user's current room.
type CurrentRoomsRequest struct{}

// CurrentRoomsResponse maps username to current room.
type CurrentRoomsResponse struct {
	Rooms map[string]string `json:"rooms"`
}

// ChatPort is the interface other modules use to reach the room directory.
type ChatPort interface {
	CreateRoom(ctx context.Context, name string) (*CreateRoomResponse, error)
	ListRooms(ctx context.Context) ([]RoomInfo, error)
	RoomMembers(ctx context.Context, room string) ([]string, error)
	CurrentRooms(ctx context.Context) (map[string]string, error)
}

// chatAdapter wraps ServiceContainer for type-safe cross-module calls.
type chatAdapter struct {
	container mono.ServiceContainer
}

// NewChatAdapter creates an adapter for the chat directory services.
// container is the ServiceContainer received via SetDependencyServiceContainer.
func NewChatAdapter(container mono.ServiceContainer) ChatPort {
	if container == nil {
		panic("chat adapter requires non-nil ServiceContainer")
	}
	return &chatAdapter{container: container}
}

// CreateRoom creates a room via the create-room service.
func (a *chatAdapter) CreateRoom(ctx context.Context, name string) (*CreateRoomResponse, error) {
	req := CreateRoomRequest{Name: name}
	var resp CreateRoomResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"create-room",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("create-room service call failed: %w", err)
	}
	return &resp, nil
}

// ListRooms returns the room directory via the list-rooms service.
func (a *chatAdapter) ListRooms(ctx context.Context) ([]RoomInfo, error) {
	req := ListRoomsRequest{}
	var resp ListRoomsResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"list-rooms",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("list-rooms service call failed: %w", err)
	}
	return resp.Rooms, nil
}

// RoomMembers returns a room's member snapshot via the room-members service.
func (a *chatAdapter) RoomMembers(ctx context.Context, room string) ([]string, error) {
	req := RoomMembersRequest{Room: room}
	var resp RoomMembersResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"room-members",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("room-members service call failed: %w", err)
	}
	return resp.Members, nil
}

// CurrentRooms returns every user's current room via the current-rooms service.
func (a *chatAdapter) CurrentRooms(ctx context.Context) (map[string]string, error) {
	req := CurrentRoomsRequest{}
	var resp CurrentRoomsResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"current-rooms",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("current-rooms service call failed: %w", err)
	}
	return resp.Rooms, nil
}

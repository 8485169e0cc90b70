package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/example/roomchat/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// Module hosts the room membership and broadcast core: the registry, the
// hub, and the directory services other modules consume. The message store
// is injected from main.go before the application starts, because the hub
// needs a synchronous write path (persistence is a precondition of
// delivery, not an event consumer running after it).
type Module struct {
	registry *Registry
	hub      *Hub
	eventBus mono.EventBus
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
	_ mono.EventBusAwareModule   = (*Module)(nil)
	_ mono.EventEmitterModule    = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
	_ Observer                   = (*Module)(nil)
)

// NewModule creates the chat module with the given message store.
func NewModule(store MessageStore) *Module {
	m := &Module{}
	m.registry = NewRegistry()
	m.hub = NewHub(m.registry, store)
	m.hub.SetObserver(m)
	return m
}

// Name returns the module name.
func (m *Module) Name() string {
	return "chat"
}

// Hub returns the broadcast hub for the transport module to drive.
func (m *Module) Hub() *Hub {
	return m.hub
}

// SetEventBus receives the EventBus from the framework.
func (m *Module) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module can emit.
func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.MessageSentV1.ToBase(),
		events.UserJoinedV1.ToBase(),
		events.UserLeftV1.ToBase(),
		events.RoomCreatedV1.ToBase(),
	}
}

// Start brings up the module.
func (m *Module) Start(_ context.Context) error {
	log.Println("[chat] Module started")
	return nil
}

// Stop shuts down the module.
func (m *Module) Stop(_ context.Context) error {
	log.Println("[chat] Module stopped")
	return nil
}

// Health reports hub-level counters.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"rooms":         len(m.registry.Rooms()),
			"users_in_room": len(m.registry.CurrentRooms()),
		},
	}
}

// RegisterServices registers the room-directory request-reply services.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "create-room", json.Unmarshal, json.Marshal, m.handleCreateRoom,
	); err != nil {
		return fmt.Errorf("failed to register create-room service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list-rooms", json.Unmarshal, json.Marshal, m.handleListRooms,
	); err != nil {
		return fmt.Errorf("failed to register list-rooms service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "room-members", json.Unmarshal, json.Marshal, m.handleRoomMembers,
	); err != nil {
		return fmt.Errorf("failed to register room-members service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "current-rooms", json.Unmarshal, json.Marshal, m.handleCurrentRooms,
	); err != nil {
		return fmt.Errorf("failed to register current-rooms service: %w", err)
	}

	log.Printf("[chat] Registered services: create-room, list-rooms, room-members, current-rooms")
	return nil
}

func (m *Module) handleCreateRoom(_ context.Context, req CreateRoomRequest, _ *mono.Msg) (CreateRoomResponse, error) {
	if err := m.hub.CreateRoom(req.Name); err != nil {
		return CreateRoomResponse{Error: err.Error()}, nil
	}
	return CreateRoomResponse{Created: true}, nil
}

func (m *Module) handleListRooms(_ context.Context, _ ListRoomsRequest, _ *mono.Msg) (ListRoomsResponse, error) {
	return ListRoomsResponse{Rooms: m.registry.Rooms()}, nil
}

func (m *Module) handleRoomMembers(_ context.Context, req RoomMembersRequest, _ *mono.Msg) (RoomMembersResponse, error) {
	return RoomMembersResponse{
		Room:    req.Room,
		Members: m.registry.Members(req.Room),
	}, nil
}

func (m *Module) handleCurrentRooms(_ context.Context, _ CurrentRoomsRequest, _ *mono.Msg) (CurrentRoomsResponse, error) {
	return CurrentRoomsResponse{Rooms: m.registry.CurrentRooms()}, nil
}

// Observer implementation: forward committed room events to the EventBus.
// Publish failures are logged, never surfaced to the session; the broadcast
// already happened and a lost integration event must not fail the op.

// MessageSent publishes a MessageSent event.
func (m *Module) MessageSent(room, username, content string, seq int64, at time.Time) {
	if m.eventBus == nil {
		return
	}
	evt := events.MessageSentEvent{Room: room, Username: username, Content: content, Seq: seq, SentAt: at}
	if err := events.MessageSentV1.Publish(m.eventBus, evt, nil); err != nil {
		log.Printf("[chat] Failed to publish MessageSent event: %v", err)
	}
}

// UserJoined publishes a UserJoined event.
func (m *Module) UserJoined(room, username string, at time.Time) {
	if m.eventBus == nil {
		return
	}
	evt := events.UserJoinedEvent{Room: room, Username: username, JoinedAt: at}
	if err := events.UserJoinedV1.Publish(m.eventBus, evt, nil); err != nil {
		log.Printf("[chat] Failed to publish UserJoined event: %v", err)
	}
}

// UserLeft publishes a UserLeft event.
func (m *Module) UserLeft(room, username string, at time.Time) {
	if m.eventBus == nil {
		return
	}
	evt := events.UserLeftEvent{Room: room, Username: username, LeftAt: at}
	if err := events.UserLeftV1.Publish(m.eventBus, evt, nil); err != nil {
		log.Printf("[chat] Failed to publish UserLeft event: %v", err)
	}
}

// RoomCreated publishes a RoomCreated event.
func (m *Module) RoomCreated(room string, at time.Time) {
	if m.eventBus == nil {
		return
	}
	evt := events.RoomCreatedEvent{Room: room, CreatedAt: at}
	if err := events.RoomCreatedV1.Publish(m.eventBus, evt, nil); err != nil {
		log.Printf("[chat] Failed to publish RoomCreated event: %v", err)
	}
}

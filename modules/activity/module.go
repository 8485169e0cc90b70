// Package activity keeps in-memory counters of room traffic by consuming
// the chat module's events. It has no services of its own; its numbers
// surface through the health endpoint.
package activity

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/example/roomchat/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// roomStats holds the counters for a single room.
type roomStats struct {
	Messages int64 `json:"messages"`
	Joins    int64 `json:"joins"`
	Leaves   int64 `json:"leaves"`
}

// ActivityModule tallies per-room message and membership traffic.
type ActivityModule struct {
	mu           sync.Mutex
	rooms        map[string]*roomStats
	totalEvents  int64
	roomsCreated int64
}

// Compile-time interface checks.
var _ mono.Module = (*ActivityModule)(nil)
var _ mono.EventConsumerModule = (*ActivityModule)(nil)
var _ mono.HealthCheckableModule = (*ActivityModule)(nil)

// NewModule creates a new ActivityModule.
func NewModule() *ActivityModule {
	return &ActivityModule{
		rooms: make(map[string]*roomStats),
	}
}

// Name returns the module name.
func (m *ActivityModule) Name() string {
	return "activity"
}

// Start initializes the activity module.
func (m *ActivityModule) Start(_ context.Context) error {
	log.Println("[activity] Module started")
	return nil
}

// Stop shuts down the module.
func (m *ActivityModule) Stop(_ context.Context) error {
	m.mu.Lock()
	total := m.totalEvents
	m.mu.Unlock()
	log.Printf("[activity] Module stopped (%d events observed)", total)
	return nil
}

// RegisterEventConsumers registers event handlers.
func (m *ActivityModule) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(
		registry, events.MessageSentV1, m.handleMessageSent, m,
	); err != nil {
		return fmt.Errorf("failed to register MessageSent consumer: %w", err)
	}

	if err := helper.RegisterTypedEventConsumer(
		registry, events.UserJoinedV1, m.handleUserJoined, m,
	); err != nil {
		return fmt.Errorf("failed to register UserJoined consumer: %w", err)
	}

	if err := helper.RegisterTypedEventConsumer(
		registry, events.UserLeftV1, m.handleUserLeft, m,
	); err != nil {
		return fmt.Errorf("failed to register UserLeft consumer: %w", err)
	}

	if err := helper.RegisterTypedEventConsumer(
		registry, events.RoomCreatedV1, m.handleRoomCreated, m,
	); err != nil {
		return fmt.Errorf("failed to register RoomCreated consumer: %w", err)
	}

	log.Println("[activity] Registered event consumers: MessageSent, UserJoined, UserLeft, RoomCreated")
	return nil
}

// Health reports the accumulated traffic counters.
func (m *ActivityModule) Health(_ context.Context) mono.HealthStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	perRoom := make(map[string]any, len(m.rooms))
	for name, stats := range m.rooms {
		perRoom[name] = *stats
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"total_events":  m.totalEvents,
			"rooms_created": m.roomsCreated,
			"rooms":         perRoom,
		},
	}
}

// stats returns the counters for a room, creating them if needed.
// Caller must hold m.mu.
func (m *ActivityModule) stats(room string) *roomStats {
	s, ok := m.rooms[room]
	if !ok {
		s = &roomStats{}
		m.rooms[room] = s
	}
	return s
}

func (m *ActivityModule) handleMessageSent(_ context.Context, event events.MessageSentEvent, _ *mono.Msg) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats(event.Room).Messages++
	m.totalEvents++
	return nil
}

func (m *ActivityModule) handleUserJoined(_ context.Context, event events.UserJoinedEvent, _ *mono.Msg) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats(event.Room).Joins++
	m.totalEvents++
	return nil
}

func (m *ActivityModule) handleUserLeft(_ context.Context, event events.UserLeftEvent, _ *mono.Msg) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats(event.Room).Leaves++
	m.totalEvents++
	return nil
}

func (m *ActivityModule) handleRoomCreated(_ context.Context, _ events.RoomCreatedEvent, _ *mono.Msg) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roomsCreated++
	m.totalEvents++
	return nil
}

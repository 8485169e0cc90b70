package activity

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/example/roomchat/events"
)

func TestActivityModule_CountsPerRoom(t *testing.T) {
	m := NewModule()
	ctx := context.Background()
	now := time.Now()

	for i := 0; i < 3; i++ {
		if err := m.handleMessageSent(ctx, events.MessageSentEvent{
			Room: "lobby", Username: "alice", Content: "hi", Seq: int64(i + 1), SentAt: now,
		}, nil); err != nil {
			t.Fatalf("handleMessageSent() unexpected error: %v", err)
		}
	}
	if err := m.handleUserJoined(ctx, events.UserJoinedEvent{Room: "lobby", Username: "bob", JoinedAt: now}, nil); err != nil {
		t.Fatalf("handleUserJoined() unexpected error: %v", err)
	}
	if err := m.handleUserLeft(ctx, events.UserLeftEvent{Room: "lobby", Username: "bob", LeftAt: now}, nil); err != nil {
		t.Fatalf("handleUserLeft() unexpected error: %v", err)
	}
	if err := m.handleRoomCreated(ctx, events.RoomCreatedEvent{Room: "lobby", CreatedAt: now}, nil); err != nil {
		t.Fatalf("handleRoomCreated() unexpected error: %v", err)
	}

	m.mu.Lock()
	stats := m.rooms["lobby"]
	total := m.totalEvents
	created := m.roomsCreated
	m.mu.Unlock()

	if stats == nil {
		t.Fatal("no stats recorded for lobby")
	}
	if stats.Messages != 3 || stats.Joins != 1 || stats.Leaves != 1 {
		t.Errorf("lobby stats = %+v, want 3 messages, 1 join, 1 leave", *stats)
	}
	if total != 6 {
		t.Errorf("totalEvents = %d, want 6", total)
	}
	if created != 1 {
		t.Errorf("roomsCreated = %d, want 1", created)
	}
}

func TestActivityModule_HealthDetails(t *testing.T) {
	m := NewModule()
	ctx := context.Background()

	_ = m.handleMessageSent(ctx, events.MessageSentEvent{Room: "a", Username: "alice", Content: "x", Seq: 1, SentAt: time.Now()}, nil)

	status := m.Health(ctx)
	if !status.Healthy {
		t.Error("Health() should report healthy")
	}
	if status.Details["total_events"].(int64) != 1 {
		t.Errorf("Health() total_events = %v, want 1", status.Details["total_events"])
	}
	rooms, ok := status.Details["rooms"].(map[string]any)
	if !ok {
		t.Fatalf("Health() rooms detail has unexpected type %T", status.Details["rooms"])
	}
	if _, ok := rooms["a"]; !ok {
		t.Error("Health() rooms detail missing room a")
	}
}

func TestActivityModule_ConcurrentEvents(t *testing.T) {
	m := NewModule()
	ctx := context.Background()
	now := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = m.handleMessageSent(ctx, events.MessageSentEvent{
					Room: "lobby", Username: "u", Content: "x", Seq: 1, SentAt: now,
				}, nil)
			}
		}()
	}
	wg.Wait()

	m.mu.Lock()
	got := m.rooms["lobby"].Messages
	m.mu.Unlock()
	if got != 400 {
		t.Errorf("lobby messages = %d, want 400", got)
	}
}

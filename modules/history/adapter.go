package history

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/example/roomchat/domain/chat"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// RoomHistoryRequest asks for a room's full message log.
type RoomHistoryRequest struct {
	Room string `json:"room"`
}

// RoomHistoryResponse carries a room's messages, oldest first.
type RoomHistoryResponse struct {
	Room     string           `json:"room"`
	Messages []domain.Message `json:"messages"`
}

// HistoryPort is the interface other modules use to read the message log.
type HistoryPort interface {
	RoomHistory(ctx context.Context, room string) ([]domain.Message, error)
}

type historyAdapter struct {
	container mono.ServiceContainer
}

// NewHistoryAdapter creates an adapter for the history services.
func NewHistoryAdapter(container mono.ServiceContainer) HistoryPort {
	if container == nil {
		panic("history adapter requires non-nil ServiceContainer")
	}
	return &historyAdapter{container: container}
}

// RoomHistory returns a room's full log via the room-history service.
func (a *historyAdapter) RoomHistory(ctx context.Context, room string) ([]domain.Message, error) {
	req := RoomHistoryRequest{Room: room}
	var resp RoomHistoryResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"room-history",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("room-history service call failed: %w", err)
	}
	return resp.Messages, nil
}

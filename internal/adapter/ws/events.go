package ws

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/felipeotarola/cfo-orchestrator/internal/domain/task"
)

// Event type constants for WebSocket messages.
const (
	EventAgentActivity = "agent.activity"
	EventChatReply     = "chat.reply"
)

// AgentActivityEvent is broadcast whenever an agent finishes (or fails) a task.
type AgentActivityEvent struct {
	ConversationID string        `json:"conversation_id,omitempty"`
	Activity       task.Activity `json:"activity"`
}

// ChatReplyEvent is broadcast when a full chat reply has been assembled.
type ChatReplyEvent struct {
	ConversationID string   `json:"conversation_id,omitempty"`
	Response       string   `json:"response"`
	Insights       []string `json:"insights,omitempty"`
}

// BroadcastEvent marshals a typed event and fans it out. Events that name a
// conversation are routed only to clients watching it.
func (h *Hub) BroadcastEvent(ctx context.Context, eventType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal ws event payload", "type", eventType, "error", err)
		return
	}

	msg := Message{Type: eventType, Payload: json.RawMessage(data)}

	switch p := payload.(type) {
	case AgentActivityEvent:
		h.BroadcastTo(ctx, p.ConversationID, msg)
	case ChatReplyEvent:
		h.BroadcastTo(ctx, p.ConversationID, msg)
	default:
		h.Broadcast(ctx, msg)
	}
}

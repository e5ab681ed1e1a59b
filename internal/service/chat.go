package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/felipeotarola/cfo-orchestrator/internal/domain"
	"github.com/felipeotarola/cfo-orchestrator/internal/domain/conversation"
	"github.com/felipeotarola/cfo-orchestrator/internal/domain/task"
	"github.com/felipeotarola/cfo-orchestrator/internal/logger"
	"github.com/felipeotarola/cfo-orchestrator/internal/port/database"
)

// ChatService persists conversations and messages around the orchestrator:
// one user message in, one assistant message out, both stored.
type ChatService struct {
	store        database.Store
	orchestrator *Orchestrator
}

// NewChatService creates a ChatService.
func NewChatService(store database.Store, orchestrator *Orchestrator) *ChatService {
	return &ChatService{store: store, orchestrator: orchestrator}
}

// CreateConversation starts a new conversation. An empty title gets a
// timestamped default.
func (s *ChatService) CreateConversation(ctx context.Context, req conversation.CreateRequest) (*conversation.Conversation, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "Konversation " + time.Now().Format("2006-01-02 15:04")
	}
	now := time.Now()
	return s.store.CreateConversation(ctx, &conversation.Conversation{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// GetConversation returns one conversation by id.
func (s *ChatService) GetConversation(ctx context.Context, id string) (*conversation.Conversation, error) {
	return s.store.GetConversation(ctx, id)
}

// ListConversations returns all conversations, newest first.
func (s *ChatService) ListConversations(ctx context.Context) ([]conversation.Conversation, error) {
	return s.store.ListConversations(ctx)
}

// DeleteConversation removes a conversation and its messages.
func (s *ChatService) DeleteConversation(ctx context.Context, id string) error {
	return s.store.DeleteConversation(ctx, id)
}

// ListMessages returns the messages of a conversation in chronological order.
func (s *ChatService) ListMessages(ctx context.Context, conversationID string) ([]conversation.Message, error) {
	if _, err := s.store.GetConversation(ctx, conversationID); err != nil {
		return nil, err
	}
	return s.store.ListMessages(ctx, conversationID)
}

// SendMessage stores the user message, lets the orchestrator answer it, and
// stores the assistant reply with its activity log. Persistence failures on
// the assistant side are logged but do not lose the reply.
func (s *ChatService) SendMessage(ctx context.Context, conversationID, content string) (*task.ProcessResult, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: message content is empty", domain.ErrValidation)
	}

	if _, err := s.store.GetConversation(ctx, conversationID); err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}
	ctx = logger.WithConversationID(ctx, conversationID)

	now := time.Now()
	if _, err := s.store.CreateMessage(ctx, &conversation.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Role:           "user",
		Content:        content,
		CreatedAt:      now,
	}); err != nil {
		return nil, fmt.Errorf("store user message: %w", err)
	}

	result, err := s.orchestrator.ProcessMessage(ctx, conversationID, content)
	if err != nil {
		return nil, err
	}

	activities, err := json.Marshal(result.AgentActivities)
	if err != nil {
		slog.Error("marshal agent activities", "error", err)
		activities = []byte("[]")
	}

	if _, err := s.store.CreateMessage(ctx, &conversation.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Role:           "assistant",
		Content:        result.Response,
		Activities:     activities,
		Insights:       result.Insights,
		CreatedAt:      time.Now(),
	}); err != nil {
		slog.Error("store assistant message", "conversation_id", conversationID, "error", err)
	}

	return result, nil
}

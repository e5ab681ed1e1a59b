// Package conversation defines the chat conversation entities.
package conversation

import "time"

// Conversation is one chat thread between a user and the assistant.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message is a single chat message. Assistant messages carry the activity
// log and insights produced while answering.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           string    `json:"role"` // "user" or "assistant"
	Content        string    `json:"content"`
	Activities     []byte    `json:"activities,omitempty"` // JSON, assistant only
	Insights       []string  `json:"insights,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateRequest holds the fields needed to start a conversation.
type CreateRequest struct {
	Title string `json:"title"`
}

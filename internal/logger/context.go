package logger

import "context"

// contextKey is unexported so other packages cannot collide with our keys.
type contextKey string

const (
	requestIDKey      contextKey = "request_id"
	conversationIDKey contextKey = "conversation_id"
)

// WithRequestID stores the HTTP request ID for log correlation.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the request ID stored in ctx, or "" if none is set.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithConversationID tags ctx with the chat conversation being processed,
// so logs emitted deep in the dispatch pipeline can be traced back to it.
func WithConversationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, conversationIDKey, id)
}

// ConversationID returns the conversation ID stored in ctx, or "".
func ConversationID(ctx context.Context) string {
	id, _ := ctx.Value(conversationIDKey).(string)
	return id
}

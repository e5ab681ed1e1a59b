package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/felipeotarola/cfo-orchestrator/internal/config"
	"github.com/felipeotarola/cfo-orchestrator/internal/domain"
	"github.com/felipeotarola/cfo-orchestrator/internal/domain/conversation"
	"github.com/felipeotarola/cfo-orchestrator/internal/port/database"
	"github.com/felipeotarola/cfo-orchestrator/internal/service"
)

// stubStore implements only the Store methods the handlers under test hit.
// The embedded interface panics on anything else, which is what we want.
type stubStore struct {
	database.Store
	conversations []conversation.Conversation
	messages      []conversation.Message
}

func (s *stubStore) GetConversation(_ context.Context, id string) (*conversation.Conversation, error) {
	for i := range s.conversations {
		if s.conversations[i].ID == id {
			return &s.conversations[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubStore) ListConversations(_ context.Context) ([]conversation.Conversation, error) {
	return s.conversations, nil
}

func (s *stubStore) CreateConversation(_ context.Context, c *conversation.Conversation) (*conversation.Conversation, error) {
	s.conversations = append(s.conversations, *c)
	return c, nil
}

func (s *stubStore) CreateMessage(_ context.Context, m *conversation.Message) (*conversation.Message, error) {
	s.messages = append(s.messages, *m)
	return m, nil
}

func newTestRouter(store *stubStore) *chi.Mux {
	// No LLM configured: classification falls back to keywords, and with no
	// agents registered the orchestrator answers with its fallback reply.
	classifier := service.NewClassifierService(nil, "", config.Classifier{})
	orch := service.NewOrchestrator(classifier, nil, nil, nil)
	chat := service.NewChatService(store, orch)

	h := NewHandlers(chat, orch, store, nil)
	r := chi.NewRouter()
	MountRoutes(r, h)
	return r
}

func TestHealth(t *testing.T) {
	r := newTestRouter(&stubStore{})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestGetConversationNotFound(t *testing.T) {
	r := newTestRouter(&stubStore{})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/conversations/missing", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestCreateConversation(t *testing.T) {
	store := &stubStore{}
	r := newTestRouter(store)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/conversations", strings.NewReader(`{"title":"Q3"}`))
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if len(store.conversations) != 1 || store.conversations[0].Title != "Q3" {
		t.Errorf("conversations = %+v", store.conversations)
	}
}

func TestSendMessageValidation(t *testing.T) {
	store := &stubStore{conversations: []conversation.Conversation{{ID: "conv-1"}}}
	r := newTestRouter(store)

	// Missing message field.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/conversations/conv-1/messages", strings.NewReader(`{}`))
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty message: status = %d, want 400", rec.Code)
	}

	// Malformed body.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/conversations/conv-1/messages", strings.NewReader(`{`))
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body: status = %d, want 400", rec.Code)
	}
}

func TestSendMessageRoundTrip(t *testing.T) {
	store := &stubStore{conversations: []conversation.Conversation{{ID: "conv-1"}}}
	r := newTestRouter(store)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/conversations/conv-1/messages",
		strings.NewReader(`{"message":"hello"}`))
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "agent_activities") {
		t.Errorf("reply missing activity log: %s", rec.Body.String())
	}
	if len(store.messages) != 2 {
		t.Errorf("expected user + assistant messages persisted, got %d", len(store.messages))
	}
}

func TestChatStartsConversationWhenMissing(t *testing.T) {
	store := &stubStore{}
	r := newTestRouter(store)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat",
		strings.NewReader(`{"message":"visa fakturor"}`))
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if len(store.conversations) != 1 {
		t.Fatalf("expected an implicit conversation, got %d", len(store.conversations))
	}
	if !strings.Contains(rec.Body.String(), store.conversations[0].ID) {
		t.Errorf("reply does not name the new conversation: %s", rec.Body.String())
	}
	if len(store.messages) != 2 {
		t.Errorf("expected user + assistant messages persisted, got %d", len(store.messages))
	}
}

func TestChatReusesConversation(t *testing.T) {
	store := &stubStore{conversations: []conversation.Conversation{{ID: "conv-9"}}}
	r := newTestRouter(store)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat",
		strings.NewReader(`{"conversation_id":"conv-9","message":"hej"}`))
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if len(store.conversations) != 1 {
		t.Errorf("expected no new conversation, got %d", len(store.conversations))
	}
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	rec := httptest.NewRecorder()
	SecurityHeaders(inner).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
}

func TestCORSPreflights(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	rec := httptest.NewRecorder()
	CORS("http://localhost:3000")(inner).ServeHTTP(rec,
		httptest.NewRequest(http.MethodOptions, "/api/v1/conversations", nil))

	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("allow-origin = %q", got)
	}
}

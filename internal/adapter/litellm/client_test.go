package litellm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/felipeotarola/cfo-orchestrator/internal/resilience"
)

func TestChatCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"choices":[{"message":{"content":"{\"intent\":\"invoicing\"}"}}],
			"usage":{"prompt_tokens":42,"completion_tokens":7}
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	resp, err := c.ChatCompletion(context.Background(), ChatCompletionRequest{
		Model:    "openai/gpt-4o-mini",
		Messages: []ChatMessage{{Role: "user", Content: "hello"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Content != `{"intent":"invoicing"}` {
		t.Errorf("unexpected content %q", resp.Content)
	}
	if resp.TokensIn != 42 || resp.TokensOut != 7 {
		t.Errorf("unexpected usage %d/%d", resp.TokensIn, resp.TokensOut)
	}
}

func TestChatCompletionEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	if _, err := c.ChatCompletion(context.Background(), ChatCompletionRequest{}); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestChatCompletionServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	if _, err := c.ChatCompletion(context.Background(), ChatCompletionRequest{}); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	c.SetBreaker(resilience.NewBreaker(2, time.Minute))

	for i := 0; i < 2; i++ {
		_, _ = c.ChatCompletion(context.Background(), ChatCompletionRequest{})
	}

	_, err := c.ChatCompletion(context.Background(), ChatCompletionRequest{})
	if err == nil {
		t.Fatal("expected circuit open error")
	}
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/felipeotarola/cfo-orchestrator/internal/adapter/litellm"
	"github.com/felipeotarola/cfo-orchestrator/internal/config"
	"github.com/felipeotarola/cfo-orchestrator/internal/domain/intent"
)

// completionClient is the slice of the LLM client the classifier needs.
type completionClient interface {
	ChatCompletion(ctx context.Context, req litellm.ChatCompletionRequest) (*litellm.ChatCompletionResponse, error)
}

// ClassifierService maps a free-text message to an intent, the agents
// required to handle it, and extracted entities. The primary path asks the
// completion service for a structured answer; the deterministic keyword
// fallback covers every failure mode of that call.
type ClassifierService struct {
	llm   completionClient
	model string
	cfg   config.Classifier

	// onFallback is called whenever keyword classification is used.
	onFallback func()
}

// NewClassifierService creates a ClassifierService.
func NewClassifierService(llm completionClient, model string, cfg config.Classifier) *ClassifierService {
	return &ClassifierService{llm: llm, model: model, cfg: cfg}
}

// SetFallbackHook registers a callback fired on every fallback classification.
func (s *ClassifierService) SetFallbackHook(fn func()) {
	s.onFallback = fn
}

const classifierSystemPrompt = `You are the intent classifier for a Swedish small-business CFO assistant.
Classify the user's message and respond with ONLY a JSON object, no prose:

{
  "intent": "invoicing" | "bookkeeping" | "reporting" | "receipts" | "general",
  "required_agents": ["Invoicing Agent" | "Bookkeeping Agent" | "Reporting Agent" | "Receipts Agent", ...],
  "entities": {"client_name": "...", "amount": 0, "invoice_number": "...", "action": "create|view|update|delete|analyze"},
  "confidence": 0.0,
  "reasoning": "..."
}

Keyword guidance:
- invoice, bill, payment, faktura -> invoicing (Invoicing Agent)
- expense, categorize, transaction, bokföring -> bookkeeping (Bookkeeping Agent)
- report, summary, analysis, rapport -> reporting (Reporting Agent)
- receipt, kvitto, photo, scan -> receipts (Receipts Agent)

Examples:
"create a new invoice for Joakim, 12000 SEK" ->
{"intent":"invoicing","required_agents":["Invoicing Agent"],"entities":{"client_name":"Joakim","amount":12000,"action":"create"},"confidence":0.95}
"show me all receipts pending approval" ->
{"intent":"receipts","required_agents":["Receipts Agent"],"entities":{"action":"view"},"confidence":0.9}
"how is my cash flow this month?" ->
{"intent":"reporting","required_agents":["Reporting Agent","Bookkeeping Agent"],"entities":{"action":"analyze"},"confidence":0.85}`

// Classify returns a CFORequest for the message. It never returns an error:
// when the completion call fails, times out, or violates the schema, the
// keyword fallback answers with a fixed low confidence.
func (s *ClassifierService) Classify(ctx context.Context, message string) intent.CFORequest {
	req, err := s.classifyLLM(ctx, message)
	if err != nil {
		slog.Warn("intent classification fell back to keywords", "error", err)
		if s.onFallback != nil {
			s.onFallback()
		}
		return intent.ClassifyFallback(message)
	}
	return req
}

func (s *ClassifierService) classifyLLM(ctx context.Context, message string) (intent.CFORequest, error) {
	if s.llm == nil {
		return intent.CFORequest{}, fmt.Errorf("no completion client configured")
	}

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	resp, err := s.llm.ChatCompletion(ctx, litellm.ChatCompletionRequest{
		Model: s.model,
		Messages: []litellm.ChatMessage{
			{Role: "system", Content: classifierSystemPrompt},
			{Role: "user", Content: message},
		},
		Temperature: 0,
		MaxTokens:   s.cfg.MaxTokens,
	})
	if err != nil {
		return intent.CFORequest{}, fmt.Errorf("llm classification: %w", err)
	}

	var req intent.CFORequest
	content := extractJSON(resp.Content)
	if err := json.Unmarshal([]byte(content), &req); err != nil {
		return intent.CFORequest{}, fmt.Errorf("parse classification: %w (content: %s)", err, truncate(resp.Content, 200))
	}

	req.UserMessage = message
	if !req.Valid() {
		return intent.CFORequest{}, fmt.Errorf("classification violates schema: intent=%s agents=%v", req.Intent, req.RequiredAgents)
	}

	// The LLM occasionally misses entities the regex heuristics catch.
	if req.Entities.ClientName == "" {
		req.Entities.ClientName = intent.ExtractClientName(message)
	}
	if req.Entities.Amount == 0 {
		req.Entities.Amount = intent.ExtractAmount(message)
	}

	return req, nil
}

// extractJSON strips any surrounding prose or markdown fences from an LLM
// answer and returns the first top-level JSON object.
func extractJSON(content string) string {
	content = strings.TrimSpace(content)
	if after, ok := strings.CutPrefix(content, "```json"); ok {
		content = after
	} else if after, ok := strings.CutPrefix(content, "```"); ok {
		content = after
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		return content[start : end+1]
	}
	return content
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

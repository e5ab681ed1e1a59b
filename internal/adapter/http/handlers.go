package http

import (
	"net/http"

	"github.com/felipeotarola/cfo-orchestrator/internal/adapter/litellm"
	"github.com/felipeotarola/cfo-orchestrator/internal/port/database"
	"github.com/felipeotarola/cfo-orchestrator/internal/service"
)

// Handlers bundles the dependencies for all HTTP handlers.
type Handlers struct {
	ChatSvc      *service.ChatService
	Orchestrator *service.Orchestrator
	Store        database.Store
	LLM          *litellm.Client
}

// NewHandlers creates the handler set.
func NewHandlers(chat *service.ChatService, orch *service.Orchestrator, store database.Store, llm *litellm.Client) *Handlers {
	return &Handlers{ChatSvc: chat, Orchestrator: orch, Store: store, LLM: llm}
}

// Health reports service liveness and the state of the completion backend.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	llmStatus := "ok"
	breakerState := "disabled"
	if h.LLM != nil {
		if ok, _ := h.LLM.Health(r.Context()); !ok {
			llmStatus = "unreachable"
		}
		breakerState = h.LLM.BreakerState()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"llm":         llmStatus,
		"llm_breaker": breakerState,
	})
}

// ListAgents returns the registered agents and their capabilities.
func (h *Handlers) ListAgents(w http.ResponseWriter, _ *http.Request) {
	type agentInfo struct {
		Name         string   `json:"name"`
		Type         string   `json:"type"`
		Active       bool     `json:"active"`
		Capabilities []string `json:"capabilities"`
	}
	agents := h.Orchestrator.Agents()
	out := make([]agentInfo, 0, len(agents))
	for _, a := range agents {
		out = append(out, agentInfo{
			Name:         a.Name(),
			Type:         string(a.Type()),
			Active:       a.Active(),
			Capabilities: a.Capabilities(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// ListActiveTasks returns a snapshot of tasks currently being processed.
func (h *Handlers) ListActiveTasks(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.Orchestrator.ActiveTasks())
}

package http

import (
	"net/http"

	"github.com/felipeotarola/cfo-orchestrator/internal/domain/conversation"
	"github.com/felipeotarola/cfo-orchestrator/internal/domain/task"
)

type sendMessageRequest struct {
	Message string `json:"message"`
}

type chatRequest struct {
	ConversationID string `json:"conversation_id,omitempty"`
	Message        string `json:"message"`
}

type chatResponse struct {
	ConversationID string              `json:"conversation_id"`
	Result         *task.ProcessResult `json:"result"`
}

// Chat is the one-shot entry point: it accepts a message with an optional
// conversation ID, starting a new conversation when none is given.
func (h *Handlers) Chat(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[chatRequest](w, r)
	if !ok {
		return
	}
	if !requireField(w, req.Message, "message") {
		return
	}

	conversationID := req.ConversationID
	if conversationID == "" {
		conv, err := h.ChatSvc.CreateConversation(r.Context(), conversation.CreateRequest{})
		if err != nil {
			writeInternalError(w, err)
			return
		}
		conversationID = conv.ID
	}

	result, err := h.ChatSvc.SendMessage(r.Context(), conversationID, req.Message)
	if err != nil {
		writeDomainError(w, err, "conversation not found")
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{ConversationID: conversationID, Result: result})
}

// SendMessage processes one chat message in a conversation and returns the
// assistant's reply together with the agent activity log.
func (h *Handlers) SendMessage(w http.ResponseWriter, r *http.Request) {
	conversationID := urlParam(r, "id")
	if !requireField(w, conversationID, "conversation id") {
		return
	}
	req, ok := readJSON[sendMessageRequest](w, r)
	if !ok {
		return
	}
	if !requireField(w, req.Message, "message") {
		return
	}

	result, err := h.ChatSvc.SendMessage(r.Context(), conversationID, req.Message)
	if err != nil {
		writeDomainError(w, err, "conversation not found")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// CreateConversation starts a new conversation.
func (h *Handlers) CreateConversation(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[conversation.CreateRequest](w, r)
	if !ok {
		return
	}
	conv, err := h.ChatSvc.CreateConversation(r.Context(), req)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, conv)
}

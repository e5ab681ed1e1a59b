package http

import "net/http"

// ListConversations returns all conversations, newest first.
func (h *Handlers) ListConversations(w http.ResponseWriter, r *http.Request) {
	convs, err := h.ChatSvc.ListConversations(r.Context())
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, convs)
}

// GetConversation returns one conversation by id.
func (h *Handlers) GetConversation(w http.ResponseWriter, r *http.Request) {
	id := urlParam(r, "id")
	if !requireField(w, id, "conversation id") {
		return
	}
	conv, err := h.ChatSvc.GetConversation(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "conversation not found")
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

// DeleteConversation removes a conversation and its messages.
func (h *Handlers) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	id := urlParam(r, "id")
	if !requireField(w, id, "conversation id") {
		return
	}
	if err := h.ChatSvc.DeleteConversation(r.Context(), id); err != nil {
		writeDomainError(w, err, "conversation not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListConversationMessages returns a conversation's messages in order.
func (h *Handlers) ListConversationMessages(w http.ResponseWriter, r *http.Request) {
	id := urlParam(r, "id")
	if !requireField(w, id, "conversation id") {
		return
	}
	messages, err := h.ChatSvc.ListMessages(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "conversation not found")
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

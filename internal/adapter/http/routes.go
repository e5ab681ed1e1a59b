package http

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers all API routes on the given chi router.
func MountRoutes(r chi.Router, h *Handlers) {
	r.Get("/health", h.Health)

	r.Route("/api/v1", func(r chi.Router) {
		// Conversations and chat
		r.Post("/chat", h.Chat)
		r.Get("/conversations", h.ListConversations)
		r.Post("/conversations", h.CreateConversation)
		r.Get("/conversations/{id}", h.GetConversation)
		r.Delete("/conversations/{id}", h.DeleteConversation)
		r.Get("/conversations/{id}/messages", h.ListConversationMessages)
		r.Post("/conversations/{id}/messages", h.SendMessage)

		// Agents
		r.Get("/agents", h.ListAgents)
		r.Get("/tasks/active", h.ListActiveTasks)

		// Finance data
		r.Get("/clients", h.ListClients)
		r.Post("/clients", h.CreateClient)
		r.Get("/invoices", h.ListInvoices)
		r.Get("/invoices/{id}", h.GetInvoice)
		r.Get("/receipts", h.ListReceipts)
		r.Get("/transactions", h.ListTransactions)
	})
}

// Package database defines the persistence port (interface).
package database

import (
	"context"
	"time"

	"github.com/felipeotarola/cfo-orchestrator/internal/domain/client"
	"github.com/felipeotarola/cfo-orchestrator/internal/domain/conversation"
	"github.com/felipeotarola/cfo-orchestrator/internal/domain/invoice"
	"github.com/felipeotarola/cfo-orchestrator/internal/domain/ledger"
	"github.com/felipeotarola/cfo-orchestrator/internal/domain/receipt"
)

// Store is the port interface for all persisted financial data.
type Store interface {
	// Clients
	ListClients(ctx context.Context) ([]client.Client, error)
	GetClient(ctx context.Context, id string) (*client.Client, error)
	FindClientByName(ctx context.Context, partial string) (*client.Client, error)
	CreateClient(ctx context.Context, req client.CreateRequest) (*client.Client, error)

	// Invoices
	ListInvoices(ctx context.Context) ([]invoice.Invoice, error)
	ListInvoicesByStatus(ctx context.Context, status invoice.Status) ([]invoice.Invoice, error)
	ListInvoicesByClient(ctx context.Context, clientID string) ([]invoice.Invoice, error)
	GetInvoice(ctx context.Context, id string) (*invoice.Invoice, error)
	LastInvoiceNumber(ctx context.Context) (string, error)
	CreateInvoice(ctx context.Context, inv *invoice.Invoice) (*invoice.Invoice, error)
	ListRecurringTemplates(ctx context.Context) ([]invoice.RecurringTemplate, error)
	CreateRecurringTemplate(ctx context.Context, t *invoice.RecurringTemplate) (*invoice.RecurringTemplate, error)

	// Receipts
	ListReceipts(ctx context.Context, limit int) ([]receipt.Receipt, error)
	ListReceiptsByStatus(ctx context.Context, status receipt.Status) ([]receipt.Receipt, error)
	UpdateReceiptStatus(ctx context.Context, id string, status receipt.Status, approvedAt *time.Time) error

	// Transactions
	ListTransactions(ctx context.Context, limit int) ([]ledger.Transaction, error)
	ListUncategorizedTransactions(ctx context.Context) ([]ledger.Transaction, error)
	ListTransactionsBetween(ctx context.Context, from, to time.Time) ([]ledger.Transaction, error)
	CreateTransaction(ctx context.Context, req ledger.CreateRequest) (*ledger.Transaction, error)
	UpdateTransactionCategory(ctx context.Context, id, category string) error

	// Conversations
	CreateConversation(ctx context.Context, c *conversation.Conversation) (*conversation.Conversation, error)
	GetConversation(ctx context.Context, id string) (*conversation.Conversation, error)
	ListConversations(ctx context.Context) ([]conversation.Conversation, error)
	DeleteConversation(ctx context.Context, id string) error
	CreateMessage(ctx context.Context, m *conversation.Message) (*conversation.Message, error)
	ListMessages(ctx context.Context, conversationID string) ([]conversation.Message, error)
}

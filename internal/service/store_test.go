package service

import (
	"context"
	"strings"
	"time"

	"github.com/felipeotarola/cfo-orchestrator/internal/domain"
	"github.com/felipeotarola/cfo-orchestrator/internal/domain/client"
	"github.com/felipeotarola/cfo-orchestrator/internal/domain/conversation"
	"github.com/felipeotarola/cfo-orchestrator/internal/domain/invoice"
	"github.com/felipeotarola/cfo-orchestrator/internal/domain/ledger"
	"github.com/felipeotarola/cfo-orchestrator/internal/domain/receipt"
	"github.com/felipeotarola/cfo-orchestrator/internal/port/database"
)

// Ensure mockStore implements database.Store at compile time.
var _ database.Store = (*mockStore)(nil)

// mockStore is a minimal in-memory implementation of database.Store for testing.
type mockStore struct {
	clients       []client.Client
	invoices      []invoice.Invoice
	templates     []invoice.RecurringTemplate
	receipts      []receipt.Receipt
	transactions  []ledger.Transaction
	conversations []conversation.Conversation
	messages      []conversation.Message

	// Error hooks — set these to inject failures.
	createInvoiceErr error
	listInvoicesErr  error
	listReceiptsErr  error
	updateReceiptErr error
	createMessageErr error
	listTxErr        error

	// createInvoiceConflicts makes that many CreateInvoice calls fail with
	// ErrConflict before succeeding, simulating a lost numbering race.
	createInvoiceConflicts int
}

func (m *mockStore) ListClients(_ context.Context) ([]client.Client, error) {
	return m.clients, nil
}

func (m *mockStore) GetClient(_ context.Context, id string) (*client.Client, error) {
	for i := range m.clients {
		if m.clients[i].ID == id {
			return &m.clients[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) FindClientByName(_ context.Context, partial string) (*client.Client, error) {
	for i := range m.clients {
		if strings.Contains(strings.ToLower(m.clients[i].Name), strings.ToLower(partial)) {
			return &m.clients[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) CreateClient(_ context.Context, req client.CreateRequest) (*client.Client, error) {
	c := client.Client{ID: "client-new", Name: req.Name, Email: req.Email, PaymentTerms: req.PaymentTerms}
	m.clients = append(m.clients, c)
	return &c, nil
}

func (m *mockStore) ListInvoices(_ context.Context) ([]invoice.Invoice, error) {
	return m.invoices, m.listInvoicesErr
}

func (m *mockStore) ListInvoicesByStatus(_ context.Context, status invoice.Status) ([]invoice.Invoice, error) {
	if m.listInvoicesErr != nil {
		return nil, m.listInvoicesErr
	}
	var out []invoice.Invoice
	for _, inv := range m.invoices {
		if inv.Status == status {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (m *mockStore) ListInvoicesByClient(_ context.Context, clientID string) ([]invoice.Invoice, error) {
	var out []invoice.Invoice
	for _, inv := range m.invoices {
		if inv.ClientID == clientID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (m *mockStore) GetInvoice(_ context.Context, id string) (*invoice.Invoice, error) {
	for i := range m.invoices {
		if m.invoices[i].ID == id {
			return &m.invoices[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) LastInvoiceNumber(_ context.Context) (string, error) {
	if len(m.invoices) == 0 {
		return "", nil
	}
	return m.invoices[len(m.invoices)-1].Number, nil
}

func (m *mockStore) CreateInvoice(_ context.Context, inv *invoice.Invoice) (*invoice.Invoice, error) {
	if m.createInvoiceErr != nil {
		return nil, m.createInvoiceErr
	}
	if m.createInvoiceConflicts > 0 {
		m.createInvoiceConflicts--
		m.invoices = append(m.invoices, invoice.Invoice{ID: "racer", Number: inv.Number, Status: invoice.StatusDraft})
		return nil, domain.ErrConflict
	}
	m.invoices = append(m.invoices, *inv)
	return inv, nil
}

func (m *mockStore) ListRecurringTemplates(_ context.Context) ([]invoice.RecurringTemplate, error) {
	return m.templates, nil
}

func (m *mockStore) CreateRecurringTemplate(_ context.Context, t *invoice.RecurringTemplate) (*invoice.RecurringTemplate, error) {
	m.templates = append(m.templates, *t)
	return t, nil
}

func (m *mockStore) ListReceipts(_ context.Context, limit int) ([]receipt.Receipt, error) {
	if m.listReceiptsErr != nil {
		return nil, m.listReceiptsErr
	}
	if limit > 0 && len(m.receipts) > limit {
		return m.receipts[:limit], nil
	}
	return m.receipts, nil
}

func (m *mockStore) ListReceiptsByStatus(_ context.Context, status receipt.Status) ([]receipt.Receipt, error) {
	if m.listReceiptsErr != nil {
		return nil, m.listReceiptsErr
	}
	var out []receipt.Receipt
	for _, r := range m.receipts {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockStore) UpdateReceiptStatus(_ context.Context, id string, status receipt.Status, approvedAt *time.Time) error {
	if m.updateReceiptErr != nil {
		return m.updateReceiptErr
	}
	for i := range m.receipts {
		if m.receipts[i].ID == id {
			m.receipts[i].Status = status
			m.receipts[i].ApprovedAt = approvedAt
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) ListTransactions(_ context.Context, limit int) ([]ledger.Transaction, error) {
	if m.listTxErr != nil {
		return nil, m.listTxErr
	}
	if limit > 0 && len(m.transactions) > limit {
		return m.transactions[:limit], nil
	}
	return m.transactions, nil
}

func (m *mockStore) ListUncategorizedTransactions(_ context.Context) ([]ledger.Transaction, error) {
	var out []ledger.Transaction
	for _, tx := range m.transactions {
		if tx.Category == "" {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (m *mockStore) ListTransactionsBetween(_ context.Context, from, to time.Time) ([]ledger.Transaction, error) {
	if m.listTxErr != nil {
		return nil, m.listTxErr
	}
	var out []ledger.Transaction
	for _, tx := range m.transactions {
		if !tx.Date.Before(from) && !tx.Date.After(to) {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (m *mockStore) CreateTransaction(_ context.Context, req ledger.CreateRequest) (*ledger.Transaction, error) {
	tax, _ := ledger.BackCalculateVAT(req.Amount, ledger.VATRateForCategory(req.Category))
	tx := ledger.Transaction{
		ID:          "tx-new",
		Description: req.Description,
		Vendor:      req.Vendor,
		Amount:      req.Amount,
		Tax:         tax,
		Category:    req.Category,
		Direction:   req.Direction,
		Date:        req.Date,
	}
	m.transactions = append(m.transactions, tx)
	return &tx, nil
}

func (m *mockStore) UpdateTransactionCategory(_ context.Context, id, category string) error {
	for i := range m.transactions {
		if m.transactions[i].ID == id {
			m.transactions[i].Category = category
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) CreateConversation(_ context.Context, c *conversation.Conversation) (*conversation.Conversation, error) {
	m.conversations = append(m.conversations, *c)
	return c, nil
}

func (m *mockStore) GetConversation(_ context.Context, id string) (*conversation.Conversation, error) {
	for i := range m.conversations {
		if m.conversations[i].ID == id {
			return &m.conversations[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) ListConversations(_ context.Context) ([]conversation.Conversation, error) {
	return m.conversations, nil
}

func (m *mockStore) DeleteConversation(_ context.Context, id string) error {
	for i := range m.conversations {
		if m.conversations[i].ID == id {
			m.conversations = append(m.conversations[:i], m.conversations[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockStore) CreateMessage(_ context.Context, msg *conversation.Message) (*conversation.Message, error) {
	if m.createMessageErr != nil {
		return nil, m.createMessageErr
	}
	m.messages = append(m.messages, *msg)
	return msg, nil
}

func (m *mockStore) ListMessages(_ context.Context, conversationID string) ([]conversation.Message, error) {
	var out []conversation.Message
	for _, msg := range m.messages {
		if msg.ConversationID == conversationID {
			out = append(out, msg)
		}
	}
	return out, nil
}

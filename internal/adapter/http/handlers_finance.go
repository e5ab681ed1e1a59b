package http

import (
	"net/http"
	"strconv"

	"github.com/felipeotarola/cfo-orchestrator/internal/domain/client"
	"github.com/felipeotarola/cfo-orchestrator/internal/domain/invoice"
	"github.com/felipeotarola/cfo-orchestrator/internal/domain/receipt"
)

// ListClients returns all clients.
func (h *Handlers) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.Store.ListClients(r.Context())
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, clients)
}

// CreateClient adds a new client.
func (h *Handlers) CreateClient(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[client.CreateRequest](w, r)
	if !ok {
		return
	}
	if !requireField(w, req.Name, "name") {
		return
	}
	cl, err := h.Store.CreateClient(r.Context(), req)
	if err != nil {
		writeDomainError(w, err, "client not found")
		return
	}
	writeJSON(w, http.StatusCreated, cl)
}

// ListInvoices returns invoices, optionally filtered by ?status=.
func (h *Handlers) ListInvoices(w http.ResponseWriter, r *http.Request) {
	if status := r.URL.Query().Get("status"); status != "" {
		invoices, err := h.Store.ListInvoicesByStatus(r.Context(), invoice.Status(status))
		if err != nil {
			writeInternalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, invoices)
		return
	}
	invoices, err := h.Store.ListInvoices(r.Context())
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invoices)
}

// GetInvoice returns one invoice by id.
func (h *Handlers) GetInvoice(w http.ResponseWriter, r *http.Request) {
	id := urlParam(r, "id")
	if !requireField(w, id, "invoice id") {
		return
	}
	inv, err := h.Store.GetInvoice(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "invoice not found")
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

// ListReceipts returns receipts, optionally filtered by ?status=.
func (h *Handlers) ListReceipts(w http.ResponseWriter, r *http.Request) {
	if status := r.URL.Query().Get("status"); status != "" {
		receipts, err := h.Store.ListReceiptsByStatus(r.Context(), receipt.Status(status))
		if err != nil {
			writeInternalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, receipts)
		return
	}
	receipts, err := h.Store.ListReceipts(r.Context(), queryLimit(r, 50))
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, receipts)
}

// ListTransactions returns the most recent transactions.
func (h *Handlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.Store.ListTransactions(r.Context(), queryLimit(r, 50))
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, txs)
}

// queryLimit parses ?limit= with a default and an upper bound.
func queryLimit(r *http.Request, def int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	if n > 500 {
		return 500
	}
	return n
}

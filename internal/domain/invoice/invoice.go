// Package invoice defines the Invoice domain entity, the invoice number
// sequence, and overdue reminder rules.
package invoice

import "time"

// Status represents the lifecycle state of an invoice.
type Status string

const (
	StatusDraft   Status = "draft"
	StatusSent    Status = "sent"
	StatusPaid    Status = "paid"
	StatusOverdue Status = "overdue"
)

// Invoice represents a customer invoice with Swedish VAT applied.
type Invoice struct {
	ID         string     `json:"id"`
	Number     string     `json:"number"`
	ClientID   string     `json:"client_id"`
	ClientName string     `json:"client_name,omitempty"`
	Amount     float64    `json:"amount"` // pre-tax base
	Tax        float64    `json:"tax"`
	Total      float64    `json:"total"`
	Status     Status     `json:"status"`
	DueDate    time.Time  `json:"due_date"`
	PaidAt     *time.Time `json:"paid_at,omitempty"`
	Lines      []LineItem `json:"lines,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// LineItem is one row on an invoice.
type LineItem struct {
	ID          string  `json:"id"`
	InvoiceID   string  `json:"invoice_id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Amount      float64 `json:"amount"`
}

// CreateRequest holds the fields needed to create a new invoice.
// Amount is the pre-tax base; tax and total are derived.
type CreateRequest struct {
	ClientID    string  `json:"client_id"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	DueDate     time.Time
}

// RecurringTemplate describes a billing template that generates an invoice
// on a fixed interval.
type RecurringTemplate struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"client_id"`
	Amount    float64   `json:"amount"`
	Interval  string    `json:"interval"` // "monthly", "quarterly", "yearly"
	NextRunAt time.Time `json:"next_run_at"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// DaysOverdue returns how many whole days past due the invoice is at the
// given instant, or 0 when it is not overdue.
func (i *Invoice) DaysOverdue(now time.Time) int {
	if i.Status == StatusPaid || !now.After(i.DueDate) {
		return 0
	}
	return int(now.Sub(i.DueDate).Hours() / 24)
}

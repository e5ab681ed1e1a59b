// Package ledger defines transactions and the Swedish VAT calculations.
package ledger

import "time"

// Direction says which way money moved.
type Direction string

const (
	DirectionIncome  Direction = "income"
	DirectionExpense Direction = "expense"
)

// Transaction is one bookkeeping entry.
type Transaction struct {
	ID          string            `json:"id"`
	Description string            `json:"description"`
	Vendor      string            `json:"vendor,omitempty"`
	Amount      float64           `json:"amount"` // gross, incl. VAT
	Tax         float64           `json:"tax"`
	Category    string            `json:"category,omitempty"`
	Direction   Direction         `json:"direction"`
	Date        time.Time         `json:"date"`
	Lines       []TransactionLine `json:"lines,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// TransactionLine is one row of a split transaction.
type TransactionLine struct {
	ID            string  `json:"id"`
	TransactionID string  `json:"transaction_id"`
	Account       string  `json:"account"`
	Amount        float64 `json:"amount"`
}

// CreateRequest holds the fields needed to record a new transaction.
// Amount is the gross amount; tax is back-calculated from it.
type CreateRequest struct {
	Description string    `json:"description"`
	Vendor      string    `json:"vendor"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Direction   Direction `json:"direction"`
	Date        time.Time `json:"date"`
}

// Package client defines the Client domain entity and payment-risk rules.
package client

import "time"

// Risk classifies a client's payment risk from their payment terms.
type Risk string

const (
	RiskLow    Risk = "low"
	RiskMedium Risk = "medium"
	RiskHigh   Risk = "high"
)

// Client represents a customer that can be invoiced.
type Client struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email,omitempty"`
	OrgNumber    string    `json:"org_number,omitempty"`
	PaymentTerms int       `json:"payment_terms"` // days
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateRequest holds the fields needed to create a new client.
type CreateRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	OrgNumber    string `json:"org_number"`
	PaymentTerms int    `json:"payment_terms"`
}

// RiskForTerms is a step function over payment terms in days:
// up to 15 days is low risk, up to 30 medium, anything longer high.
func RiskForTerms(days int) Risk {
	switch {
	case days <= 15:
		return RiskLow
	case days <= 30:
		return RiskMedium
	default:
		return RiskHigh
	}
}

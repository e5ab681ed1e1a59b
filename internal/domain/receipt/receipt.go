// Package receipt defines the Receipt domain entity and the auto-approval rule.
package receipt

import "time"

// Status represents the review state of a receipt.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// UnknownVendor is the sentinel vendor name set by the upload pipeline when
// OCR could not identify the merchant. Receipts from it are never auto-approved.
const UnknownVendor = "Unknown Vendor"

// AutoApproveThreshold is the amount (gross, SEK) up to and including which a
// complete receipt is approved without human review.
const AutoApproveThreshold = 1000.00

// Receipt represents an uploaded expense receipt.
type Receipt struct {
	ID         string     `json:"id"`
	Vendor     string     `json:"vendor"`
	Amount     float64    `json:"amount"` // gross, incl. VAT
	Tax        float64    `json:"tax"`
	Category   string     `json:"category,omitempty"`
	Status     Status     `json:"status"`
	ImageURL   string     `json:"image_url,omitempty"`
	Date       time.Time  `json:"date"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Review reasons for receipts left pending.
const (
	ReasonAmountTooHigh  = "amount above auto-approval threshold"
	ReasonIncompleteInfo = "incomplete information"
)

// EvaluateApproval applies the auto-approval rule: amount at or below the
// threshold, a category set, and a known vendor. It returns whether the
// receipt can be approved and, if not, the reason it needs manual review.
func EvaluateApproval(r *Receipt) (approved bool, reason string) {
	if r.Amount > AutoApproveThreshold {
		return false, ReasonAmountTooHigh
	}
	if r.Category == "" || r.Vendor == "" || r.Vendor == UnknownVendor {
		return false, ReasonIncompleteInfo
	}
	return true, ""
}

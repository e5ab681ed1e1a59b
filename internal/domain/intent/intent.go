// Package intent defines the intent classification contract: the classified
// request shape, the deterministic keyword fallback rules, and the heuristic
// entity extraction shared by the agents.
package intent

// Intent is the classified purpose of a user message.
type Intent string

const (
	IntentInvoicing   Intent = "invoicing"
	IntentBookkeeping Intent = "bookkeeping"
	IntentReporting   Intent = "reporting"
	IntentReceipts    Intent = "receipts"
	IntentAnalysis    Intent = "analysis"
	IntentGeneral     Intent = "general"
)

// Agent display names used as registry keys and in classifier output.
const (
	AgentBookkeeping = "Bookkeeping Agent"
	AgentInvoicing   = "Invoicing Agent"
	AgentReporting   = "Reporting Agent"
	AgentReceipts    = "Receipts Agent"
)

// Entities holds structured values extracted from free text. All optional.
type Entities struct {
	ClientName    string  `json:"client_name,omitempty"`
	Amount        float64 `json:"amount,omitempty"`
	InvoiceNumber string  `json:"invoice_number,omitempty"`
	Action        string  `json:"action,omitempty"`
}

// CFORequest is the classifier's output, consumed by the orchestrator.
type CFORequest struct {
	UserMessage    string   `json:"user_message"`
	Intent         Intent   `json:"intent"`
	Entities       Entities `json:"entities"`
	RequiredAgents []string `json:"required_agents"`
	Reasoning      string   `json:"reasoning,omitempty"`
	Confidence     float64  `json:"confidence"`
}

// Valid reports whether the classified request satisfies the schema:
// a known intent and at least one known agent name.
func (r *CFORequest) Valid() bool {
	switch r.Intent {
	case IntentInvoicing, IntentBookkeeping, IntentReporting, IntentReceipts, IntentAnalysis, IntentGeneral:
	default:
		return false
	}
	if len(r.RequiredAgents) == 0 {
		return false
	}
	for _, name := range r.RequiredAgents {
		switch name {
		case AgentBookkeeping, AgentInvoicing, AgentReporting, AgentReceipts:
		default:
			return false
		}
	}
	return true
}

// DedupeAgents removes duplicate agent names, preserving first-occurrence order.
func DedupeAgents(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := names[:0:0]
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

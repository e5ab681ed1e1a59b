package intent

import "strings"

// FallbackConfidence is the fixed confidence reported by keyword
// classification, signalling a low-trust result to callers that inspect it.
const FallbackConfidence = 0.5

// Rule maps keyword patterns to an intent and the agents it requires.
// A rule matches when any of its Keywords is a substring of the lower-cased
// message, or when all of its AllOf terms are.
type Rule struct {
	Keywords []string
	AllOf    []string
	Intent   Intent
	Agents   []string
}

// FallbackRules is the ordered keyword rule table used when the LLM
// classifier is unavailable. Rules are evaluated independently: a message can
// match several rules and accumulate agents from each. The first matching
// rule decides the intent.
var FallbackRules = []Rule{
	{
		Keywords: []string{"transaction", "expense", "categorize"},
		Intent:   IntentBookkeeping,
		Agents:   []string{AgentBookkeeping},
	},
	{
		Keywords: []string{"invoice", "bill", "payment"},
		Intent:   IntentInvoicing,
		Agents:   []string{AgentInvoicing},
	},
	{
		AllOf:  []string{"create", "client"},
		Intent: IntentInvoicing,
		Agents: []string{AgentInvoicing},
	},
	{
		AllOf:  []string{"create", "joakim"},
		Intent: IntentInvoicing,
		Agents: []string{AgentInvoicing},
	},
	{
		Keywords: []string{"receipt", "kvitto", "expense photo", "upload photo", "scan receipt"},
		Intent:   IntentReceipts,
		Agents:   []string{AgentReceipts},
	},
	{
		Keywords: []string{"report", "analysis", "summary"},
		Intent:   IntentReporting,
		Agents:   []string{AgentReporting},
	},
	{
		Keywords: []string{"cash flow", "profit", "revenue"},
		Intent:   IntentAnalysis,
		Agents:   []string{AgentReporting, AgentBookkeeping},
	},
}

func (r *Rule) matches(lower string) bool {
	for _, kw := range r.Keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	if len(r.AllOf) == 0 {
		return false
	}
	for _, term := range r.AllOf {
		if !strings.Contains(lower, term) {
			return false
		}
	}
	return true
}

// ClassifyFallback runs the keyword rule table against a message. When no
// rule matches it defaults to the bookkeeping agent with the general intent.
// Required agents are deduplicated, preserving match order.
func ClassifyFallback(message string) CFORequest {
	lower := strings.ToLower(message)

	req := CFORequest{
		UserMessage: message,
		Intent:      IntentGeneral,
		Confidence:  FallbackConfidence,
	}

	matched := false
	for i := range FallbackRules {
		r := &FallbackRules[i]
		if !r.matches(lower) {
			continue
		}
		if !matched {
			req.Intent = r.Intent
			matched = true
		}
		req.RequiredAgents = append(req.RequiredAgents, r.Agents...)
	}

	if len(req.RequiredAgents) == 0 {
		req.RequiredAgents = []string{AgentBookkeeping}
	}
	req.RequiredAgents = DedupeAgents(req.RequiredAgents)
	req.Entities = Extract(message)
	return req
}

package service

import (
	"strings"

	"github.com/felipeotarola/cfo-orchestrator/internal/domain/intent"
	"github.com/felipeotarola/cfo-orchestrator/internal/domain/task"
)

// opRule maps description keywords to an agent operation. The first rule
// whose keywords match wins; agents fall back to their overview operation.
type opRule struct {
	keywords []string
	op       string
}

func matchOp(rules []opRule, description, fallback string) string {
	desc := strings.ToLower(description)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(desc, kw) {
				return r.op
			}
		}
	}
	return fallback
}

// taskEntities pulls the classified entities out of a task's input.
func taskEntities(t *task.Task) intent.Entities {
	if t.Input == nil {
		return intent.Entities{}
	}
	if e, ok := t.Input["entities"].(intent.Entities); ok {
		return e
	}
	return intent.Entities{}
}

func failure(message string) *task.Response {
	return &task.Response{Success: false, Message: message}
}

// suggestCategory guesses a bookkeeping category from a vendor or
// description. Unknown vendors map to the catch-all.
func suggestCategory(vendor, description string) string {
	text := strings.ToLower(vendor + " " + description)
	switch {
	case containsAny(text, "sl ", "taxi", "uber", "sj ", "parkering", "bensin"):
		return "Resor"
	case containsAny(text, "restaurang", "restaurant", "lunch", "cafe", "café", "espresso"):
		return "Representation"
	case containsAny(text, "ica", "coop", "willys", "hemköp"):
		return "Mat"
	case containsAny(text, "aws", "google", "microsoft", "github", "slack", "hosting", "domän"):
		return "IT & Mjukvara"
	case containsAny(text, "kontor", "office", "staples", "clas ohlson"):
		return "Kontorsmaterial"
	case containsAny(text, "telia", "telenor", "tre ", "hallon"):
		return "Telefoni"
	default:
		return "Övrigt"
	}
}

// descContains reports whether the lowered description contains any keyword.
func descContains(description string, subs ...string) bool {
	return containsAny(strings.ToLower(description), subs...)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

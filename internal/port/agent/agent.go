// Package agent defines the domain agent port: the capability contract every
// registrable agent must satisfy.
package agent

import (
	"context"

	"github.com/felipeotarola/cfo-orchestrator/internal/domain/task"
)

// Agent is a self-contained handler for one financial domain.
type Agent interface {
	// Name returns the unique registry key (e.g. "Invoicing Agent").
	Name() string

	// Type returns the domain tag stamped onto tasks built for this agent.
	Type() task.Type

	// Capabilities lists what the agent can do. Informational only.
	Capabilities() []string

	// Active reports whether the agent accepts tasks. Inactive agents are
	// skipped during dispatch even when the classifier selects them.
	Active() bool

	// ProcessTask classifies the task description into a sub-intent and
	// executes the matching operation. Expected failures are returned as a
	// Response with Success=false, not as an error.
	ProcessTask(ctx context.Context, t *task.Task) (*task.Response, error)
}

// Package task defines the unit-of-work envelope exchanged between the
// orchestrator and the domain agents.
package task

import "time"

// Type tags a task with the financial domain it belongs to.
type Type string

const (
	TypeBookkeeping Type = "bookkeeping"
	TypeInvoicing   Type = "invoicing"
	TypeReporting   Type = "reporting"
	TypeReceipts    Type = "receipts"
	TypeAnalysis    Type = "analysis"
)

// Status represents the current state of a task.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Task is a single unit of work submitted to exactly one agent.
// The orchestrator owns the task for its whole lifecycle; the agent only
// sees it for the duration of the ProcessTask call.
type Task struct {
	ID          string         `json:"id"`
	Type        Type           `json:"type"`
	Description string         `json:"description"`
	Input       map[string]any `json:"input"`
	Status      Status         `json:"status"`
	Result      map[string]any `json:"result,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
}

// Response is the uniform contract every agent operation returns.
// When Success is false, Data must be nil and Message describes the cause.
type Response struct {
	Success     bool     `json:"success"`
	Data        any      `json:"data,omitempty"`
	Message     string   `json:"message"`
	Insights    []string `json:"insights,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Activity is one entry in the per-message activity log: which agent ran,
// what it was asked to do, and how it went.
type Activity struct {
	Agent  string `json:"agent"`
	Action string `json:"action"`
	Status Status `json:"status"`
	Result any    `json:"result,omitempty"`
}

// ProcessResult is what one processed chat message yields.
type ProcessResult struct {
	Response        string     `json:"response"`
	AgentActivities []Activity `json:"agent_activities"`
	Insights        []string   `json:"insights"`
}

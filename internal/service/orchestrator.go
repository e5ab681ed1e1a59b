package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/felipeotarola/cfo-orchestrator/internal/adapter/otel"
	"github.com/felipeotarola/cfo-orchestrator/internal/adapter/ws"
	"github.com/felipeotarola/cfo-orchestrator/internal/domain/intent"
	"github.com/felipeotarola/cfo-orchestrator/internal/domain/task"
	"github.com/felipeotarola/cfo-orchestrator/internal/logger"
	"github.com/felipeotarola/cfo-orchestrator/internal/port/agent"
	"github.com/felipeotarola/cfo-orchestrator/internal/port/broadcast"
	"github.com/felipeotarola/cfo-orchestrator/internal/port/messagequeue"
)

// classifier is the slice of ClassifierService the orchestrator needs.
type classifier interface {
	Classify(ctx context.Context, message string) intent.CFORequest
}

// Orchestrator routes each chat message to the agents the classifier names,
// runs them sequentially, and assembles the reply. Agent failures are
// contained per task: one failing agent never aborts the message.
type Orchestrator struct {
	classifier classifier
	queue      messagequeue.Queue
	hub        broadcast.Broadcaster
	metrics    *otel.Metrics

	mu     sync.RWMutex
	agents map[string]agent.Agent
	active map[string]*task.Task
}

// NewOrchestrator creates an Orchestrator. queue, hub and metrics are
// optional; nil disables the corresponding side channel.
func NewOrchestrator(c classifier, queue messagequeue.Queue, hub broadcast.Broadcaster, metrics *otel.Metrics) *Orchestrator {
	return &Orchestrator{
		classifier: c,
		queue:      queue,
		hub:        hub,
		metrics:    metrics,
		agents:     make(map[string]agent.Agent),
		active:     make(map[string]*task.Task),
	}
}

// RegisterAgent adds an agent to the registry under its display name.
// Registering the same name twice replaces the earlier agent.
func (o *Orchestrator) RegisterAgent(a agent.Agent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.agents[a.Name()]; ok {
		slog.Warn("replacing registered agent", "agent", a.Name())
	}
	o.agents[a.Name()] = a
}

// Agents returns a snapshot of the registered agents.
func (o *Orchestrator) Agents() []agent.Agent {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]agent.Agent, 0, len(o.agents))
	for _, a := range o.agents {
		out = append(out, a)
	}
	return out
}

// ActiveTasks returns a snapshot of tasks currently being processed.
// Advisory only: tasks may complete between the snapshot and its use.
func (o *Orchestrator) ActiveTasks() []*task.Task {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]*task.Task, 0, len(o.active))
	for _, t := range o.active {
		out = append(out, t)
	}
	return out
}

// ProcessMessage classifies the message, dispatches a task per required
// agent, and assembles the final reply together with the activity log.
func (o *Orchestrator) ProcessMessage(ctx context.Context, conversationID, message string) (*task.ProcessResult, error) {
	start := time.Now()
	req := o.classifier.Classify(ctx, message)
	req.RequiredAgents = intent.DedupeAgents(req.RequiredAgents)

	ctx, span := otel.StartMessageSpan(ctx, string(req.Intent), len(req.RequiredAgents))
	defer span.End()

	slog.Info("message classified",
		"intent", req.Intent,
		"agents", req.RequiredAgents,
		"confidence", req.Confidence)

	var (
		activities []task.Activity
		insights   []string
		anySuccess bool
	)

	for _, name := range req.RequiredAgents {
		o.mu.RLock()
		a, ok := o.agents[name]
		o.mu.RUnlock()
		if !ok {
			slog.Warn("classifier named unknown agent", "agent", name)
			continue
		}
		if !a.Active() {
			slog.Warn("skipping inactive agent", "agent", name)
			continue
		}

		t := o.newTask(a.Type(), req, message)
		act := o.dispatch(ctx, a, t, conversationID)
		activities = append(activities, act)
		if act.Status == task.StatusCompleted {
			anySuccess = true
			if resp, ok := act.Result.(*task.Response); ok {
				insights = append(insights, resp.Insights...)
			}
		}
	}

	result := &task.ProcessResult{
		Response:        o.composeReply(req, activities, anySuccess),
		AgentActivities: activities,
		Insights:        insights,
	}

	o.publishReply(ctx, conversationID, result)

	if o.metrics != nil {
		o.metrics.MessagesProcessed.Add(ctx, 1)
		o.metrics.ProcessDuration.Record(ctx, time.Since(start).Seconds())
	}

	return result, nil
}

func (o *Orchestrator) newTask(tt task.Type, req intent.CFORequest, message string) *task.Task {
	return &task.Task{
		ID:          uuid.NewString(),
		Type:        tt,
		Description: taskDescription(tt, message),
		Input: map[string]any{
			"user_message": message,
			"entities":     req.Entities,
			"intent":       string(req.Intent),
		},
		Status:    task.StatusProcessing,
		CreatedAt: time.Now(),
	}
}

// dispatch runs one task on one agent. Errors and panics are converted to a
// failed activity; the caller keeps going.
func (o *Orchestrator) dispatch(ctx context.Context, a agent.Agent, t *task.Task, conversationID string) (act task.Activity) {
	o.mu.Lock()
	o.active[t.ID] = t
	o.mu.Unlock()
	defer func() {
		o.mu.Lock()
		delete(o.active, t.ID)
		o.mu.Unlock()
	}()

	ctx, span := otel.StartAgentSpan(ctx, a.Name(), t.ID)
	defer span.End()

	act = task.Activity{Agent: a.Name(), Action: t.Description}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("agent panicked", "agent", a.Name(), "task_id", t.ID, "panic", r)
			o.finishTask(t, task.StatusFailed)
			act.Status = task.StatusFailed
			act.Result = fmt.Sprintf("internal error: %v", r)
		}
		o.publishActivity(ctx, conversationID, act)
		o.countTask(ctx, act.Status)
	}()

	resp, err := a.ProcessTask(ctx, t)
	if err != nil || resp == nil || !resp.Success {
		o.finishTask(t, task.StatusFailed)
		act.Status = task.StatusFailed
		switch {
		case err != nil:
			slog.Error("agent task failed", "agent", a.Name(), "task_id", t.ID, "error", err)
			act.Result = err.Error()
		case resp != nil:
			act.Result = resp.Message
		default:
			act.Result = "agent returned no response"
		}
		return act
	}

	o.finishTask(t, task.StatusCompleted)
	act.Status = task.StatusCompleted
	act.Result = resp
	return act
}

func (o *Orchestrator) finishTask(t *task.Task, status task.Status) {
	now := time.Now()
	t.Status = status
	t.CompletedAt = &now
}

func (o *Orchestrator) countTask(ctx context.Context, status task.Status) {
	if o.metrics == nil {
		return
	}
	if status == task.StatusCompleted {
		o.metrics.TasksCompleted.Add(ctx, 1)
	} else {
		o.metrics.TasksFailed.Add(ctx, 1)
	}
}

// publishActivity pushes one activity to NATS and the WebSocket hub.
// Both channels are best effort.
func (o *Orchestrator) publishActivity(ctx context.Context, conversationID string, act task.Activity) {
	event := ws.AgentActivityEvent{ConversationID: conversationID, Activity: act}
	if o.hub != nil {
		o.hub.BroadcastEvent(ctx, ws.EventAgentActivity, event)
	}
	if o.queue != nil {
		data, err := json.Marshal(event)
		if err == nil {
			err = o.queue.Publish(ctx, messagequeue.SubjectAgentActivity, data)
		}
		if err != nil {
			slog.Warn("publish agent activity", "conversation_id", logger.ConversationID(ctx), "error", err)
		}
	}
}

func (o *Orchestrator) publishReply(ctx context.Context, conversationID string, result *task.ProcessResult) {
	event := ws.ChatReplyEvent{
		ConversationID: conversationID,
		Response:       result.Response,
		Insights:       result.Insights,
	}
	if o.hub != nil {
		o.hub.BroadcastEvent(ctx, ws.EventChatReply, event)
	}
	if o.queue != nil {
		data, err := json.Marshal(event)
		if err == nil {
			err = o.queue.Publish(ctx, messagequeue.SubjectChatReply, data)
		}
		if err != nil {
			slog.Warn("publish chat reply", "conversation_id", logger.ConversationID(ctx), "error", err)
		}
	}
}

// taskDescription synthesizes the task description an agent classifies on.
// The user's own words are carried through so the agents can route on them.
func taskDescription(tt task.Type, message string) string {
	switch tt {
	case task.TypeInvoicing:
		return "Handle invoicing request: " + message
	case task.TypeBookkeeping:
		return "Handle bookkeeping request: " + message
	case task.TypeReporting, task.TypeAnalysis:
		return "Handle reporting request: " + message
	case task.TypeReceipts:
		return "Handle receipt request: " + message
	default:
		return fmt.Sprintf("Processing %s task", tt)
	}
}

// composeReply builds the user-facing reply from the agent responses.
// Successful agent messages are concatenated; when every agent failed, or
// none ran at all, an intent-specific apology is returned instead.
func (o *Orchestrator) composeReply(req intent.CFORequest, activities []task.Activity, anySuccess bool) string {
	if !anySuccess {
		return failureReply(req.Intent)
	}

	var reply string
	for _, act := range activities {
		if act.Status != task.StatusCompleted {
			continue
		}
		resp, ok := act.Result.(*task.Response)
		if !ok || resp.Message == "" {
			continue
		}
		if reply != "" {
			reply += "\n\n"
		}
		reply += resp.Message
	}
	if reply == "" {
		return failureReply(req.Intent)
	}
	return reply
}

func failureReply(in intent.Intent) string {
	switch in {
	case intent.IntentInvoicing:
		return "Jag kunde tyvärr inte hantera din fakturaförfrågan just nu. Försök igen om en stund."
	case intent.IntentBookkeeping:
		return "Jag kunde tyvärr inte hantera din bokföringsförfrågan just nu. Försök igen om en stund."
	case intent.IntentReporting, intent.IntentAnalysis:
		return "Jag kunde tyvärr inte ta fram rapporten just nu. Försök igen om en stund."
	case intent.IntentReceipts:
		return "Jag kunde tyvärr inte hantera dina kvitton just nu. Försök igen om en stund."
	default:
		return "Jag förstod inte riktigt vad du ville göra. Prova att fråga om fakturor, bokföring, rapporter eller kvitton."
	}
}

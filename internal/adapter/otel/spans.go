package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "cfo-orchestrator"

// StartMessageSpan starts a span for processing one chat message.
func StartMessageSpan(ctx context.Context, intent string, agents int) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "process_message",
		trace.WithAttributes(
			attribute.String("message.intent", intent),
			attribute.Int("message.agents", agents),
		),
	)
}

// StartAgentSpan starts a span for one agent task.
func StartAgentSpan(ctx context.Context, agentName, taskID string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "agent_task",
		trace.WithAttributes(
			attribute.String("agent.name", agentName),
			attribute.String("task.id", taskID),
		),
	)
}

package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "cfo-orchestrator"

// Metrics holds all assistant metric instruments.
type Metrics struct {
	MessagesProcessed metric.Int64Counter
	TasksCompleted    metric.Int64Counter
	TasksFailed       metric.Int64Counter
	ClassifierFallback metric.Int64Counter
	ProcessDuration   metric.Float64Histogram
}

// NewMetrics creates all metric instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.MessagesProcessed, err = meter.Int64Counter("cfo.messages.processed",
		metric.WithDescription("Number of chat messages processed"))
	if err != nil {
		return nil, err
	}

	m.TasksCompleted, err = meter.Int64Counter("cfo.tasks.completed",
		metric.WithDescription("Number of agent tasks completed"))
	if err != nil {
		return nil, err
	}

	m.TasksFailed, err = meter.Int64Counter("cfo.tasks.failed",
		metric.WithDescription("Number of agent tasks failed"))
	if err != nil {
		return nil, err
	}

	m.ClassifierFallback, err = meter.Int64Counter("cfo.classifier.fallback",
		metric.WithDescription("Number of messages classified by the keyword fallback"))
	if err != nil {
		return nil, err
	}

	m.ProcessDuration, err = meter.Float64Histogram("cfo.message.duration_seconds",
		metric.WithDescription("End-to-end message processing duration in seconds"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// Package otel provides OpenTelemetry instrumentation for the assistant.
// Exporter wiring is left to the deployment environment; instruments fall
// back to the global no-op providers when none is installed.
package otel

import (
	"context"
	"log/slog"
)

// ShutdownFunc is called to flush and shut down the telemetry providers.
type ShutdownFunc func(ctx context.Context) error

// Init prepares telemetry for the given service name and returns a shutdown
// function. With no exporter configured this is a no-op.
func Init(serviceName string) ShutdownFunc {
	slog.Info("otel initialized", "service", serviceName)
	return func(_ context.Context) error {
		return nil
	}
}

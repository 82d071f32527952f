package telemetry

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const defaultService = "driftline"

// Tracer returns a named tracer for the service. An empty service name falls
// back to the default so library code can trace without plumbing config.
func Tracer(service string) trace.Tracer {
	if service == "" {
		service = defaultService
	}
	return otel.Tracer(service)
}

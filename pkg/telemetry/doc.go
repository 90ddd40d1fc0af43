// Package telemetry installs OpenTelemetry providers for the gateway.
//
// Setup wires OTLP/gRPC trace and metric exporters when
// OTEL_EXPORTER_OTLP_ENDPOINT is set. Packages create their instruments from
// the global providers (otel.Meter, otel.Tracer), so they work unchanged
// whether export is enabled or not. HTTPMiddleware wraps handlers with
// otelhttp server instrumentation.
package telemetry

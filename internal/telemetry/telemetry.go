// Package telemetry wires the OpenTelemetry tracer provider for runs that
// were started with tracing enabled. Without Setup the global provider stays
// a no-op, so instrumented code costs nothing in normal runs.
package telemetry

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Setup installs a tracer provider. With an empty endpoint spans are written
// to w as they finish; otherwise they are pushed to an OTLP gRPC collector at
// endpoint. The returned shutdown flushes and uninstalls the provider.
func Setup(ctx context.Context, w io.Writer, version, endpoint string) (func(context.Context) error, error) {
	exp, err := newExporter(ctx, w, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		attribute.String("service.name", "zoomport"),
		attribute.String("service.version", version),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to build trace resource: %w", err)
	}

	// A syncer rather than a batcher: runs are short and spans few, so
	// exporting inline keeps shutdown from racing process exit.
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exp),
		sdktrace.WithResource(res),
	)

	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)

	return func(ctx context.Context) error {
		otel.SetTracerProvider(prev)
		return tp.Shutdown(ctx)
	}, nil
}

func newExporter(ctx context.Context, w io.Writer, endpoint string) (sdktrace.SpanExporter, error) {
	if endpoint != "" {
		return otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(endpoint),
			otlptracegrpc.WithInsecure(),
		)
	}
	return stdouttrace.New(
		stdouttrace.WithWriter(w),
		stdouttrace.WithPrettyPrint(),
	)
}

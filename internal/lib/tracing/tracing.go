package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"ticketing/internal/config"
)

// Configure installs the global tracer provider and the W3C trace context
// propagator. With tracing disabled spans are still created but never exported.
func Configure(cfg config.Tracing) (*tracesdk.TracerProvider, error) {
	var opts []tracesdk.TracerProviderOption

	if cfg.Enabled {
		exp, err := jaeger.New(
			jaeger.WithCollectorEndpoint(
				jaeger.WithEndpoint(cfg.JaegerEndpoint),
			),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create jaeger exporter: %w", err)
		}
		opts = append(opts, tracesdk.WithBatcher(exp))
	}

	tp := newProvider(cfg.ServiceName, opts...)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp, nil
}

func newProvider(serviceName string, opts ...tracesdk.TracerProviderOption) *tracesdk.TracerProvider {
	opts = append(opts, tracesdk.WithResource(resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
	)))

	return tracesdk.NewTracerProvider(opts...)
}

func Shutdown(ctx context.Context, tp *tracesdk.TracerProvider) error {
	if err := tp.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown tracer provider: %w", err)
	}

	return nil
}

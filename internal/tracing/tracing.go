package tracing

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"tasksApp/internal/config"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Provider owns the SDK tracer provider and the propagator used for incoming requests.
type Provider struct {
	tp         *sdktrace.TracerProvider
	propagator propagation.TextMapPropagator
}

// New builds a tracer provider for serviceName and installs it, together with a
// W3C trace context propagator, as the otel globals. Extra options are applied last.
func New(cfg config.TracingConfig, serviceName string, opts ...sdktrace.TracerProviderOption) (*Provider, error) {
	res := resource.NewSchemaless(attribute.String("service.name", serviceName))

	base := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
	}

	if cfg.Exporter == config.TracingExporterStdout {
		exp, err := stdouttrace.New(stdouttrace.WithWriter(os.Stdout))
		if err != nil {
			return nil, fmt.Errorf("create stdout trace exporter: %w", err)
		}
		base = append(base, sdktrace.WithBatcher(exp))
	}

	p := &Provider{
		tp:         sdktrace.NewTracerProvider(append(base, opts...)...),
		propagator: propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}),
	}

	otel.SetTracerProvider(p.tp)
	otel.SetTextMapPropagator(p.propagator)
	return p, nil
}

// Handler starts a server span per request, continuing any incoming traceparent.
func (p *Provider) Handler(next http.Handler, operation string) http.Handler {
	return otelhttp.NewHandler(next, operation,
		otelhttp.WithTracerProvider(p.tp),
		otelhttp.WithPropagators(p.propagator),
	)
}

// Shutdown flushes pending spans.
func (p *Provider) Shutdown(ctx context.Context) error {
	return p.tp.Shutdown(ctx)
}

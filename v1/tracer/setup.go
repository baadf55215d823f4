package tracer

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

// Tracer provides a simplified API for distributed tracing with
// OpenTelemetry. It wraps the TracerProvider and offers convenience methods
// for creating spans, recording errors, and propagating trace context across
// service boundaries.
//
// Tracer is safe for concurrent use and can be shared across goroutines.
type Tracer struct {
	tracer *trace.TracerProvider
	logger Logger
}

// NewClient creates a Tracer with the provided configuration.
//
// When export is enabled an OTLP HTTP exporter ships spans to the configured
// collector; a failure to initialize the exporter is fatal. Resource
// attributes carry the service name and deployment environment. The global
// OpenTelemetry tracer provider and the W3C trace-context propagator are set
// as side effects, so instrumented libraries pick the tracer up
// automatically.
//
// Example:
//
//	tracerClient := tracer.NewClient(tracer.Config{
//	    ServiceName:  "smartsearch",
//	    AppEnv:       "production",
//	    EnableExport: true,
//	}, log)
//
//	ctx, span := tracerClient.StartSpan(ctx, "search-request")
//	defer span.End()
func NewClient(cfg Config, logger Logger) *Tracer {
	var options []trace.TracerProviderOption

	if cfg.EnableExport {
		var clientOpts []otlptracehttp.Option
		if cfg.Endpoint != "" {
			clientOpts = append(clientOpts, otlptracehttp.WithEndpoint(cfg.Endpoint))
			if cfg.Insecure {
				clientOpts = append(clientOpts, otlptracehttp.WithInsecure())
			}
		}
		client := otlptracehttp.NewClient(clientOpts...)
		exporter, err := otlptrace.New(context.Background(), client)
		if err != nil {
			logger.Fatal("cannot initiate tracer", err, nil)
			return nil
		}
		options = append(options, trace.WithBatcher(exporter))
	}

	options = append(options, trace.WithResource(resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.DeploymentEnvironment(cfg.AppEnv),
		attribute.String("environment", cfg.AppEnv),
	)))

	tp := trace.NewTracerProvider(options...)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return &Tracer{tracer: tp, logger: logger}
}

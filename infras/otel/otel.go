package otel

import (
	"context"
	"fmt"
	"salon/config"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"google.golang.org/grpc/credentials/insecure"
)

type Otel interface {
	NewScope(ctx context.Context, scopeName, spanName string) (context.Context, Scope)
	Shutdown(ctx context.Context) error
}

type provider struct {
	traces *trace.TracerProvider
}

func (p *provider) NewScope(ctx context.Context, scopeName, spanName string) (context.Context, Scope) {
	ctx, span := p.traces.Tracer(scopeName).Start(ctx, spanName)

	return ctx, NewScope(span)
}

// Shutdown flushes pending spans.
func (p *provider) Shutdown(ctx context.Context) error {
	if err := p.traces.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown tracer provider: %w", err)
	}

	return nil
}

// sampler keeps the parent's decision and samples root spans at ratio.
func sampler(ratio float64) trace.Sampler {
	return trace.ParentBased(trace.TraceIDRatioBased(ratio))
}

// New builds the tracer provider and installs it, with W3C trace context propagation,
// as the global one. Without EXTERNAL_OTEL_ENABLE spans are recorded but never exported.
func New(cfg *config.Config) Otel {
	settings := cfg.External.Otel

	options := []trace.TracerProviderOption{
		trace.WithSampler(sampler(settings.SampleRatio)),
		trace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.App.Name),
			semconv.DeploymentEnvironment(cfg.Server.Env),
		)),
	}

	if settings.Enable {
		exporter, err := otlptracegrpc.New(context.Background(),
			otlptracegrpc.WithEndpoint(settings.Endpoint),
			otlptracegrpc.WithTLSCredentials(insecure.NewCredentials()),
		)
		if err != nil {
			log.Fatal().Err(err).Str("endpoint", settings.Endpoint).Msg("failed to create OTLP exporter")
		}

		options = append(options, trace.WithBatcher(exporter))

		log.Info().Str("endpoint", settings.Endpoint).Float64("sample_ratio", settings.SampleRatio).Msg("tracing exporter enabled")
	}

	traces := trace.NewTracerProvider(options...)
	otel.SetTracerProvider(traces)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return &provider{traces: traces}
}

package utils

import (
	"context"

	"levi/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/zap"
)

// SetupTracing installs an OTLP trace exporter when OTEL_EXPORTER_OTLP_ENDPOINT is set and
// returns the provider's shutdown func. Without an endpoint it is a no-op.
func SetupTracing(ctx context.Context, serviceName string) func(context.Context) error {
	noop := func(context.Context) error { return nil }
	endpoint := config.AppConfig.OtelEndpoint
	if endpoint == "" {
		return noop
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(endpoint)}
	if config.AppConfig.OtelInsecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		GetLogger().Warn("Tracing disabled, exporter failed", zap.Error(err))
		return noop
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(serviceName)))
	if err != nil {
		GetLogger().Warn("Tracing resource incomplete", zap.Error(err))
	}
	provider := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	GetLogger().Info("Tracing enabled", zap.String("endpoint", endpoint))
	return provider.Shutdown
}

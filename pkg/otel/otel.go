package otel

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/log/global"

	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.38.0"
)

// Shutdown flushes and stops the exporters installed by Setup.
type Shutdown func(ctx context.Context) error

// Setup configures logging and, when TELEMETRY is set, the OTLP log, metric
// and trace pipelines. Exporters use http unless the OTLP protocol is grpc.
func Setup(ctx context.Context, service, version string) (Shutdown, error) {
	level := slog.LevelInfo

	if EnableDebug {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if !EnableTelemetry {
		return func(context.Context) error { return nil }, nil
	}

	resource, err := sdkresource.Merge(
		sdkresource.Default(),
		sdkresource.NewSchemaless(
			semconv.ServiceName(service),
			semconv.ServiceVersion(version),
		),
	)

	if err != nil {
		return nil, err
	}

	logs, err := setupLogger(ctx, resource)

	if err != nil {
		return nil, err
	}

	metrics, err := setupMeter(ctx, resource)

	if err != nil {
		return nil, errors.Join(err, logs.Shutdown(ctx))
	}

	traces, err := setupTracer(ctx, resource)

	if err != nil {
		return nil, errors.Join(err, logs.Shutdown(ctx), metrics.Shutdown(ctx))
	}

	return func(ctx context.Context) error {
		return errors.Join(
			traces.Shutdown(ctx),
			metrics.Shutdown(ctx),
			logs.Shutdown(ctx),
		)
	}, nil
}

// useGRPC reports whether the signal ("logs", "metrics", "traces") is exported over grpc.
func useGRPC(signal string) bool {
	protocol := os.Getenv("OTEL_EXPORTER_OTLP_" + strings.ToUpper(signal) + "_PROTOCOL")

	if protocol == "" {
		protocol = os.Getenv("OTEL_EXPORTER_OTLP_PROTOCOL")
	}

	return strings.EqualFold(protocol, "grpc")
}

func setupLogger(ctx context.Context, resource *sdkresource.Resource) (*sdklog.LoggerProvider, error) {
	var err error
	var exporter sdklog.Exporter

	if useGRPC("logs") {
		exporter, err = otlploggrpc.New(ctx)
	} else {
		exporter, err = otlploghttp.New(ctx)
	}

	if err != nil {
		return nil, err
	}

	provider := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
		sdklog.WithResource(resource),
	)

	global.SetLoggerProvider(provider)

	slog.SetDefault(otelslog.NewLogger(instrumentationName, otelslog.WithLoggerProvider(provider)))

	return provider, nil
}

func setupMeter(ctx context.Context, resource *sdkresource.Resource) (*sdkmetric.MeterProvider, error) {
	var err error
	var exporter sdkmetric.Exporter

	if useGRPC("metrics") {
		exporter, err = otlpmetricgrpc.New(ctx)
	} else {
		exporter, err = otlpmetrichttp.New(ctx)
	}

	if err != nil {
		return nil, err
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))),
		sdkmetric.WithResource(resource),
	)

	otel.SetMeterProvider(provider)

	return provider, nil
}

func setupTracer(ctx context.Context, resource *sdkresource.Resource) (*sdktrace.TracerProvider, error) {
	var err error
	var exporter sdktrace.SpanExporter

	if useGRPC("traces") {
		exporter, err = otlptracegrpc.New(ctx)
	} else {
		exporter, err = otlptracehttp.New(ctx)
	}

	if err != nil {
		return nil, err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(time.Second)),
		sdktrace.WithResource(resource),
	)

	otel.SetTracerProvider(provider)

	return provider, nil
}

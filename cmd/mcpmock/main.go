package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/i2y/mcpmock/configs"
	"github.com/i2y/mcpmock/internal/adapter/inbound/stdio"
	"github.com/i2y/mcpmock/internal/adapter/outbound/memrepo"
	"github.com/i2y/mcpmock/internal/adapter/outbound/openapi"
	"github.com/i2y/mcpmock/internal/adapter/outbound/toolset"
	"github.com/i2y/mcpmock/internal/usecase"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func main() {
	// === Command Line Flags ===
	var toolsetName string
	flag.StringVar(&toolsetName, "toolset", "", "Toolset to serve: "+strings.Join(toolset.Names(), ", "))
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// === Configuration ===
	cfg, err := configs.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if toolsetName != "" {
		cfg.Toolset = toolsetName
	}

	// === Logging ===
	// Stdout carries protocol frames only.
	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()
	slog.SetDefault(logger)
	logger.Info("Logger initialized.", slog.String("level", cfg.ParsedLogLevel().String()), slog.String("format", cfg.LogFormat))

	if err := run(ctx, cfg, logger, os.Stdin, os.Stdout); err != nil {
		logger.Error("Server stopped with error", slog.Any("error", err))
		closeLog()
		os.Exit(1)
	}
	logger.Info("Server stopped.")
}

func run(ctx context.Context, cfg *configs.Config, logger *slog.Logger, in io.Reader, out io.Writer) error {
	// === OpenTelemetry Initialization ===
	shutdownOtel, err := initOtelProvider(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownOtel(shutdownCtx); err != nil {
			logger.Error("Failed to shutdown OpenTelemetry providers.", slog.Any("error", err))
		}
	}()

	// === Toolset ===
	ts, err := toolset.New(cfg.Toolset)
	if err != nil {
		return err
	}
	identity := cfg.ServerIdentity(ts.Identity())
	logger.Info("Toolset selected.",
		slog.String("toolset", ts.Name()),
		slog.String("server_name", identity.Name),
		slog.String("server_version", identity.Version),
		slog.String("protocol_version", identity.ProtocolVersion),
	)

	// === Dependency Injection ===
	registry := memrepo.NewInMemoryToolRegistry(logger)
	validator := openapi.NewSchemaValidator(logger)
	if err := usecase.NewLoadToolsetUseCase(validator, registry, logger).Execute(ctx, ts); err != nil {
		return err
	}

	dispatcher := usecase.NewDispatcher(
		identity,
		usecase.NewServeToolsUseCase(registry, logger),
		usecase.NewInvokeToolUseCase(registry, logger),
		logger,
	)

	// === Message Loop ===
	server := stdio.NewServer(dispatcher, logger)
	return server.Listen(ctx, in, out)
}

// newLogger builds the root logger on stderr or on the configured log file.
func newLogger(cfg *configs.Config) (*slog.Logger, func(), error) {
	var w io.Writer = os.Stderr
	closeFn := func() {}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, err
		}
		w = f
		closeFn = func() { _ = f.Close() }
	}

	opts := &slog.HandlerOptions{Level: cfg.ParsedLogLevel()}
	var handler slog.Handler
	if strings.EqualFold(cfg.LogFormat, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler), closeFn, nil
}

// initOtelProvider initializes the OpenTelemetry SDK and sets up the OTLP trace
// and metric exporters over one gRPC connection. It returns a shutdown function
// to be called on application exit.
func initOtelProvider(cfg *configs.Config) (func(context.Context) error, error) {
	ctx := context.Background()

	if cfg.OtelExporterOtlpEndpoint == "" {
		slog.Info("MCPMOCK_OTEL_EXPORTER_OTLP_ENDPOINT not set, OpenTelemetry export disabled.")
		return func(context.Context) error { return nil }, nil
	}

	slog.Info("Initializing OTLP exporter.", slog.String("endpoint", cfg.OtelExporterOtlpEndpoint))

	grpcOpts := []grpc.DialOption{}
	if cfg.OtelExporterOtlpInsecure {
		grpcOpts = append(grpcOpts, grpc.WithTransportCredentials(insecure.NewCredentials()))
		slog.Warn("Using insecure connection for OTLP exporter.")
	}

	conn, err := grpc.NewClient(cfg.OtelExporterOtlpEndpoint, grpcOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection to OTLP endpoint: %w", err)
	}

	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	metricExporter, err := otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithGRPCConn(conn))
	if err != nil {
		_ = traceExporter.Shutdown(ctx)
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create OTLP metric exporter: %w", err)
	}

	r, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String("mcpmock"),
			attribute.String("mcpmock.toolset", cfg.Toolset),
		),
	)
	if err != nil {
		_ = traceExporter.Shutdown(ctx)
		_ = metricExporter.Shutdown(ctx)
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(r),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(r),
	)
	otel.SetMeterProvider(mp)

	slog.Info("OpenTelemetry TracerProvider and MeterProvider configured.")

	return func(ctx context.Context) error {
		traceErr := tp.Shutdown(ctx)
		metricErr := mp.Shutdown(ctx)
		connErr := conn.Close()
		return errors.Join(traceErr, metricErr, connErr)
	}, nil
}

// Copyright (C) 2026 Lumenforge Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ontology

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/lumenforge/ontolens/services/ontology/observability"
	"github.com/lumenforge/ontolens/services/ontology/store"
)

// Config holds server configuration options.
//
// # Required Fields
//
// None - all fields have sensible defaults; a zero Config runs an
// in-memory catalog on the default port.
type Config struct {
	// Port is the HTTP server port. Default: 12310
	Port int

	// StorePath is the BadgerDB directory for the catalog.
	// If empty, the catalog lives in memory and is lost on shutdown.
	StorePath string

	// ScenarioDir is a directory of scenario dataset files to register.
	// If empty, no scenarios are registered.
	ScenarioDir string

	// SeedDataset is a dataset file loaded into the catalog at startup.
	// If empty, the catalog starts with whatever the store holds.
	SeedDataset string

	// OTelEndpoint is the OpenTelemetry collector endpoint.
	// If empty, tracing is disabled.
	OTelEndpoint string

	// EnableMetrics enables the Prometheus /metrics endpoint.
	EnableMetrics bool

	// GinMode sets the Gin framework mode.
	// Valid values: "debug", "release", "test"
	GinMode string
}

func applyConfigDefaults(cfg Config) Config {
	if cfg.Port == 0 {
		cfg.Port = 12310
	}
	return cfg
}

// Server wires the store, service, and HTTP router into a runnable unit.
type Server struct {
	config        Config
	svc           *Service
	router        *gin.Engine
	tracerCleanup func(context.Context)
}

// NewServer assembles a server from configuration.
//
// Description:
//
//	Opens the catalog store (Badger when StorePath is set, in-memory
//	otherwise), builds the service, registers scenarios, optionally
//	seeds the catalog, and mounts all routes. Tracing and metrics are
//	wired only when configured.
//
// Outputs:
//
//	*Server - Ready to Run(). Caller must call Run or Close.
//	error - Non-nil if the store, tracer, or seed dataset fails.
func NewServer(cfg Config) (*Server, error) {
	cfg = applyConfigDefaults(cfg)
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	s := &Server{config: cfg}

	var st store.Store
	if cfg.StorePath != "" {
		bdg, err := store.OpenBadger(store.DefaultBadgerConfig(cfg.StorePath))
		if err != nil {
			return nil, fmt.Errorf("open catalog store: %w", err)
		}
		st = bdg
		slog.Info("catalog store opened", "backend", "badger", "path", cfg.StorePath)
	} else {
		st = store.NewMemory()
		slog.Info("catalog store opened", "backend", "memory")
	}

	opts := []Option{}
	if cfg.EnableMetrics {
		opts = append(opts, WithMetrics(observability.NewMetrics()))
		slog.Info("Initialized Prometheus metrics for ontology queries")
	}
	s.svc = NewService(st, opts...)

	if cfg.ScenarioDir != "" {
		if err := s.svc.LoadScenarioDir(cfg.ScenarioDir); err != nil {
			s.cleanup()
			return nil, err
		}
	}
	if cfg.SeedDataset != "" {
		counts, err := s.svc.LoadDatasetFile(context.Background(), cfg.SeedDataset)
		if err != nil {
			s.cleanup()
			return nil, fmt.Errorf("seed catalog: %w", err)
		}
		slog.Info("catalog seeded",
			"dataset", cfg.SeedDataset,
			"observations", counts[store.KindObservation],
			"metrics", counts[store.KindMetric])
	}

	if cfg.OTelEndpoint != "" {
		cleanup, err := s.initTracer()
		if err != nil {
			s.cleanup()
			return nil, fmt.Errorf("failed to initialize tracer: %w", err)
		}
		s.tracerCleanup = cleanup
	}

	s.initRouter()
	return s, nil
}

// initTracer initializes OpenTelemetry distributed tracing.
//
// Uses an insecure gRPC connection, appropriate for internal networks.
func (s *Server) initTracer() (func(context.Context), error) {
	ctx := context.Background()

	conn, err := grpc.NewClient(s.config.OTelEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
	}

	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("ontolens")))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))

	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	cleanup := func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}

	return cleanup, nil
}

func (s *Server) initRouter() {
	s.router = gin.Default()
	if s.config.OTelEndpoint != "" {
		s.router.Use(otelgin.Middleware("ontolens"))
	}
	if s.config.EnableMetrics {
		s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
	RegisterRoutes(s.router, NewHandlers(s.svc))
}

// cleanup releases all resources held by the server.
func (s *Server) cleanup() {
	if s.tracerCleanup != nil {
		s.tracerCleanup(context.Background())
	}
	if s.svc != nil {
		if err := s.svc.Close(); err != nil {
			slog.Warn("catalog store close error", "error", err)
		}
	}
}

// Run starts the HTTP server and blocks until it stops. Cleanup is
// automatic on return.
func (s *Server) Run() error {
	defer s.cleanup()

	addr := fmt.Sprintf(":%d", s.config.Port)
	slog.Info("Starting ontolens server", "port", s.config.Port)
	return s.router.Run(addr)
}

// Router returns the underlying Gin engine for testing. Callers must not
// modify routes after construction.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Service returns the underlying service, for embedding and tests.
func (s *Server) Service() *Service {
	return s.svc
}

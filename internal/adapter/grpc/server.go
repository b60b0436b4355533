// Package grpc exposes the grpc.health.v1 service so orchestrators can probe
// the service over gRPC as well as over HTTP.
package grpc

import (
	"context"
	"time"

	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/platform/logger"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
)

// Check probes one dependency.
type Check func(ctx context.Context) error

// NewHealthServer builds a gRPC server carrying only the health and
// reflection services. Status starts as NOT_SERVING until a reporter runs.
func NewHealthServer(log *logger.Logger) (*grpc.Server, *health.Server) {
	server := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler(
			otelgrpc.WithTracerProvider(otel.GetTracerProvider()),
			otelgrpc.WithPropagators(otel.GetTextMapPropagator()),
		)),
		grpc.ChainUnaryInterceptor(LoggingInterceptor(log)),
	)
	hs := health.NewServer()
	hs.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	grpc_health_v1.RegisterHealthServer(server, hs)
	reflection.Register(server)
	return server, hs
}

// LoggingInterceptor logs each unary call with its duration and status code.
func LoggingInterceptor(log *logger.Logger) grpc.UnaryServerInterceptor {
	log = log.Named("grpc")
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.Duration("duration", time.Since(start)),
			zap.String("status_code", status.Code(err).String()),
		}
		if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
			fields = append(fields, zap.String("trace_id", sc.TraceID().String()))
		}
		if err != nil {
			log.Warn("gRPC request failed", append(fields, zap.Error(err))...)
		} else {
			log.Debug("gRPC request completed", fields...)
		}
		return resp, err
	}
}

// HealthReporter keeps the gRPC health status in line with dependency checks.
type HealthReporter struct {
	hs       *health.Server
	service  string
	checks   map[string]Check
	interval time.Duration
	logger   *logger.Logger
}

func NewHealthReporter(hs *health.Server, service string, checks map[string]Check, interval time.Duration, log *logger.Logger) *HealthReporter {
	return &HealthReporter{hs: hs, service: service, checks: checks, interval: interval, logger: log.Named("HealthReporter")}
}

// Probe runs every check once and publishes the result for both the
// overall ("") and the named service.
func (r *HealthReporter) Probe(ctx context.Context) grpc_health_v1.HealthCheckResponse_ServingStatus {
	st := grpc_health_v1.HealthCheckResponse_SERVING
	for name, check := range r.checks {
		cctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := check(cctx)
		cancel()
		if err != nil {
			r.logger.Warn("Dependency check failed", zap.String("dependency", name), zap.Error(err))
			st = grpc_health_v1.HealthCheckResponse_NOT_SERVING
		}
	}
	r.hs.SetServingStatus("", st)
	r.hs.SetServingStatus(r.service, st)
	return st
}

// Run probes until ctx is cancelled, then marks the service NOT_SERVING.
func (r *HealthReporter) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	r.Probe(ctx)
	for {
		select {
		case <-ctx.Done():
			r.hs.Shutdown()
			return
		case <-ticker.C:
			r.Probe(ctx)
		}
	}
}

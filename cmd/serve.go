package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	redisAdapter "github.com/Abdurahmanit/GroupProject/bookreview-service/internal/adapter/cache/redis"
	grpcAdapter "github.com/Abdurahmanit/GroupProject/bookreview-service/internal/adapter/grpc"
	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/adapter/http/handler"
	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/adapter/http/response"
	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/adapter/http/router"
	s3Adapter "github.com/Abdurahmanit/GroupProject/bookreview-service/internal/adapter/storage/s3"
	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/auth"
	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/platform/tracer"
	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/usecase"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API (default)",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Logger, configuration and connections
	a, err := bootstrap(ctx)
	defer a.close()
	if err != nil {
		a.log.Error("Startup failed", zap.Error(err))
		return err
	}
	cfg, log := a.cfg, a.log
	log.Info("Application starting...", zap.String("service_name", cfg.ServiceName), zap.String("env", cfg.Env))

	// 2. Tracing
	tp, err := tracer.InitTracer(ctx, cfg.ServiceName, cfg.OTExporterOTLPEndpoint, log)
	if err != nil {
		log.Error("Failed to initialize tracer", zap.Error(err))
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(sctx); err != nil {
			log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}()

	// 3. Repositories
	if err := a.openRepositories(); err != nil {
		log.Error("Failed to initialize repositories", zap.Error(err))
		return err
	}

	// 4. Cover storage
	var storage usecase.CoverStorage
	if cfg.StorageEnabled() {
		s, err := s3Adapter.NewCoverStorage(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL, log)
		if err != nil {
			log.Error("Failed to initialize cover storage", zap.Error(err))
			return err
		}
		storage = s
	} else {
		log.Info("MINIO_ENDPOINT not set, cover uploads are disabled")
	}

	// 5. Usecases
	books, reviews, users := a.usecases(storage)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiresIn, cfg.ServiceName)
	authUC := usecase.NewAuthUsecase(a.users, tokens, redisAdapter.NewTokenStore(a.redis, log), a.events, a.metrics, log)

	// 6. HTTP
	rs := response.New(log, a.metrics, !cfg.IsProduction())
	httpChecks := make(map[string]handler.Check)
	grpcChecks := make(map[string]grpcAdapter.Check)
	for name, check := range a.checks() {
		httpChecks[name] = check
		grpcChecks[name] = check
	}
	api := router.New(
		router.Options{
			ServiceName:       cfg.ServiceName,
			CORSOrigins:       cfg.CORSOrigins(),
			RateLimitRequests: cfg.RateLimitRequests,
			RateLimitWindow:   cfg.RateLimitWindow,
			RequestTimeout:    cfg.RequestTimeout,
		},
		router.Handlers{
			Auth:    handler.NewAuthHandler(authUC, rs),
			Users:   handler.NewUserHandler(users, rs),
			Books:   handler.NewBookHandler(books, rs),
			Reviews: handler.NewReviewHandler(reviews, rs),
			Health:  handler.NewHealthHandler(httpChecks, rs),
		},
		authUC, rs, a.metrics, log,
	)
	httpSrv := router.NewServer(":"+cfg.HTTPPort, api)
	errCh := make(chan error, 3)
	go func() {
		log.Info("Starting HTTP server", zap.String("port", cfg.HTTPPort))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 7. Prometheus metrics
	var metricsSrv *http.Server
	if cfg.PrometheusMetricsPort != "" {
		metricsSrv = a.metrics.NewServer(cfg.PrometheusMetricsPort)
		go func() {
			log.Info("Starting Prometheus metrics server", zap.String("port", cfg.PrometheusMetricsPort))
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("Prometheus metrics server failed", zap.Error(err))
			}
		}()
	} else {
		log.Info("Prometheus metrics server not started (PROMETHEUS_METRICS_PORT not set)")
	}

	// 8. gRPC health
	var grpcSrv *grpc.Server
	if cfg.GRPCHealthPort != "" {
		lis, err := net.Listen("tcp", ":"+cfg.GRPCHealthPort)
		if err != nil {
			log.Error("Failed to listen for gRPC health", zap.String("port", cfg.GRPCHealthPort), zap.Error(err))
			return err
		}
		srv, healthSrv := grpcAdapter.NewHealthServer(log)
		grpcSrv = srv
		reporter := grpcAdapter.NewHealthReporter(healthSrv, cfg.ServiceName, grpcChecks, 10*time.Second, log)
		go reporter.Run(ctx)
		go func() {
			log.Info("Starting gRPC health server", zap.String("port", cfg.GRPCHealthPort))
			if err := grpcSrv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				errCh <- err
			}
		}()
	}

	// 9. Graceful shutdown
	select {
	case <-ctx.Done():
		log.Info("Received shutdown signal")
	case err = <-errCh:
		log.Error("Server failed", zap.Error(err))
	}
	stop()

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(sctx); err != nil {
		log.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(sctx)
	}
	if grpcSrv != nil {
		grpcSrv.GracefulStop()
	}
	log.Info("Application shut down")
	return err
}

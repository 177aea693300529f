// Command binstat runs a registry of binned statistics stores behind the
// management HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/hyp3rd/binstat"
	"github.com/hyp3rd/binstat/internal/constants"
	"github.com/hyp3rd/binstat/pkg/backend/redis"
	"github.com/hyp3rd/binstat/pkg/backend/rediscluster"
	"github.com/hyp3rd/binstat/pkg/middleware"
)

const (
	startupTimeout  = 5 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	err := run()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", ":8080", "management HTTP listen address")
	backendType := flag.String("backend", "", `snapshot backend: "", "in-memory", "redis" or "redis-cluster"`)
	redisAddr := flag.String("redis", "localhost:6379", "redis address, or comma separated cluster seeds with -backend=redis-cluster")
	serializerName := flag.String("serializer", constants.DefaultSerializer, "snapshot encoding: json, msgpack or cbor")
	ddof := flag.Uint("ddof", constants.DefaultDDOF, "default delta degrees of freedom for new stores")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}

	defer func() { _ = logger.Sync() }()

	stdLogger := zap.NewStdLog(logger)

	cfg := binstat.NewConfig()
	cfg.BackendType = *backendType
	cfg.RedisOptions = []redis.Option{redis.WithAddr(*redisAddr)}
	cfg.RedisClusterOptions = []rediscluster.Option{rediscluster.WithAddrs(strings.Split(*redisAddr, ",")...)}
	cfg.RegistryOptions = append(cfg.RegistryOptions,
		binstat.WithDefaultDDOF(*ddof),
		binstat.WithSerializer(*serializerName),
		binstat.WithLogger(stdLogger),
	)

	pingCtx, cancelPing := context.WithTimeout(context.Background(), startupTimeout)
	registry, err := binstat.NewRegistryFromConfig(pingCtx, cfg)

	cancelPing()

	if err != nil {
		return err
	}

	meter := otel.GetMeterProvider().Meter("github.com/hyp3rd/binstat")
	tracer := otel.Tracer("github.com/hyp3rd/binstat")

	metricsMW, err := middleware.NewOTelMetricsMiddleware(registry, meter)
	if err != nil {
		return err
	}

	svc := binstat.ApplyMiddleware(metricsMW,
		func(next binstat.Service) binstat.Service {
			return middleware.NewOTelTracingMiddleware(next, tracer, middleware.WithCommonAttributes(
				attribute.String("component", "binstat"),
			))
		},
		func(next binstat.Service) binstat.Service {
			return middleware.NewLoggingMiddleware(next, stdLogger)
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := binstat.NewManagementHTTPServer(*addr, svc)

	err = srv.Start(ctx)
	if err != nil {
		return err
	}

	logger.Info("binstat listening",
		zap.String("addr", srv.Address()),
		zap.String("backend", *backendType),
		zap.String("serializer", *serializerName))

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err = srv.Shutdown(shutdownCtx)
	if err != nil {
		logger.Warn("management server shutdown", zap.Error(err))
	}

	err = svc.Stop(shutdownCtx)
	if err != nil {
		return err
	}

	logger.Info("binstat stopped", zap.Any("stats", svc.GetStats()))

	return nil
}

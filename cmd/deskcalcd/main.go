package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"deskcalc/internal/observability"
	"deskcalc/internal/server"
)

func main() {

	ctx := context.Background()

	if err := loadDotEnv(); err != nil {
		panic(err)
	}

	// Logger
	err := observability.InitLogger()
	if err != nil {
		panic(err)
	}
	defer observability.SyncLogger()

	// Tracing
	traceShutdown, err := observability.InitTracing(ctx)
	if err != nil {
		panic(err)
	}
	defer traceShutdown(ctx)

	// Metrics
	metricShutdown, err := initMetrics(ctx)
	if err != nil {
		panic(err)
	}
	defer metricShutdown(ctx)

	// Log export over OTLP is opt-in; stdout logging always stays on.
	if os.Getenv("OTEL_LOGS_ENABLED") == "true" {
		logShutdown, err := observability.InitLogging(ctx)
		if err != nil {
			panic(err)
		}
		defer logShutdown(ctx)
	}

	// Router
	router := server.NewRouter()

	srv := &http.Server{
		Addr:    listenAddr(),
		Handler: router,
	}

	go func() {
		observability.Logger.Info("server started", zap.String("addr", srv.Addr))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			observability.Logger.Fatal("server failed", zap.Error(err))
		}
	}()

	waitForShutdown(srv)
}

func listenAddr() string {
	if addr := os.Getenv("ADDR"); addr != "" {
		return addr
	}
	return ":8080"
}

func waitForShutdown(srv *http.Server) {

	stop := make(chan os.Signal, 1)

	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop

	observability.Logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		observability.Logger.Error("shutdown incomplete", zap.Error(err))
	}
}

package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	grpcapi "call-insights-dashboard/internal/api/grpc"
	"call-insights-dashboard/internal/app"
	"call-insights-dashboard/internal/config"
	dashhttp "call-insights-dashboard/internal/http"
	"call-insights-dashboard/internal/observability"
	"call-insights-dashboard/internal/observability/logging"
	"call-insights-dashboard/internal/observability/metrics"
)

func main() {
	cfg := config.Load()

	logging.Init(logging.Config{
		Level:      cfg.Observability.LogLevel,
		Format:     cfg.Observability.LogFormat,
		TimeFormat: time.RFC3339,
		Service:    "call-insights-dashboard",
	})

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	application, err := app.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create application")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	obs := observability.NewServer(cfg.Observability.MetricsAddr, prometheus.DefaultGatherer, application.Ready)
	obs.Start()

	httpServer := &http.Server{
		Addr:              ":" + cfg.Service.HTTPPort,
		Handler:           dashhttp.NewRouter(application, application.Bus, metrics.DefaultMetrics),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		log.Info().Str("addr", httpServer.Addr).Msg("Call insights dashboard started")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP serve failed")
		}
	}()

	var grpcServer *grpcapi.Server
	if cfg.Service.GRPCPort != "" {
		lis, err := net.Listen("tcp", ":"+cfg.Service.GRPCPort)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to listen for gRPC")
		}
		grpcServer = grpcapi.New(metrics.DefaultMetrics)
		grpcServer.SetServing(true)
		go func() {
			if err := grpcServer.Serve(lis); err != nil {
				log.Fatal().Err(err).Msg("gRPC serve failed")
			}
		}()
	}

	<-ctx.Done()
	stop()
	log.Info().Msg("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP shutdown error")
	}
	application.Shutdown()
	if err := obs.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Observability shutdown error")
	}
}

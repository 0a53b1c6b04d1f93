package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/togengine-byte/CRM-sub003/internal/config"
	"github.com/togengine-byte/CRM-sub003/internal/events"
	"github.com/togengine-byte/CRM-sub003/internal/httpapi"
	"github.com/togengine-byte/CRM-sub003/internal/metrics"
	"github.com/togengine-byte/CRM-sub003/internal/service"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API until SIGINT or SIGTERM.

Stores are chosen by the store.history and store.weights settings. In-flight
requests get server.shutdown_timeout to finish after a signal.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(opts)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, cfg, logger)
		},
	}
}

func runServer(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("starting "+cfg.Service,
		zap.String("environment", cfg.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("version", version),
	)

	b, err := buildBackends(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		b.Close(closeCtx)
	}()

	pub := newPublisher(cfg, logger)
	srv := newHTTPServer(cfg, b, pub, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	pub.Wait()
	logger.Info("server stopped")
	return nil
}

func newHTTPServer(cfg *config.Config, b *backends, pub *events.Publisher, logger *zap.Logger) *http.Server {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	svc := service.New(b.history, b.weights, service.Options{
		Defaults:    cfg.Weights,
		Publisher:   pub,
		Metrics:     m,
		Logger:      logger,
		Concurrency: cfg.Scoring.LeaderboardConcurrency,
		MaxBatch:    cfg.Scoring.MaxLeaderboardSize,
	})

	return &http.Server{
		Addr: ":" + cfg.Server.Port,
		Handler: httpapi.NewRouter(httpapi.Deps{
			Service:  svc,
			Metrics:  m,
			Gatherer: reg,
			Logger:   logger,
		}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
}

func newPublisher(cfg *config.Config, logger *zap.Logger) *events.Publisher {
	pub := events.NewPublisher(cfg.Service, nil, logger, events.WithDeliveryTimeout(cfg.Events.DeliveryTimeout))
	endpoints := map[string]string{
		events.EventWeightsUpdated:           cfg.Events.WeightsUpdatedURL,
		events.EventSupplierScored:           cfg.Events.SupplierScoredURL,
		events.EventRecommendationsGenerated: cfg.Events.RecommendationsURL,
	}
	for eventType, url := range endpoints {
		if url != "" {
			pub.RegisterEndpoint(eventType, url)
		}
	}
	return pub
}

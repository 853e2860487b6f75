package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"time"

	"github.com/jllopis/agora/pkg/config"
	"github.com/jllopis/agora/pkg/core"
	"github.com/jllopis/agora/pkg/gateway"
	"github.com/jllopis/agora/pkg/telemetry"
)

// runServe starts the HTTP gateway and blocks until the context is
// canceled.
func runServe(ctx context.Context, global globalFlags, cfg *config.Config, logger *slog.Logger, args []string) {
	cmd := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := cmd.String("addr", cfg.HTTP.Addr, "Listen address")
	if err := cmd.Parse(args); err != nil {
		fatal(err)
	}
	ensureNoArgs(cmd.Args())

	shutdownTelemetry, err := telemetry.InitWithConfig("agora", version, telemetry.Config{
		Exporter:           cfg.Telemetry.Exporter,
		OTLPEndpoint:       cfg.Telemetry.OTLPEndpoint,
		OTLPInsecure:       cfg.Telemetry.OTLPInsecure,
		OTLPTimeoutSeconds: cfg.Telemetry.OTLPTimeoutSeconds,
		OTLPHeaders:        cfg.Telemetry.OTLPHeaders,
		OTLPUser:           cfg.Telemetry.OTLPUser,
		OTLPToken:          cfg.Telemetry.OTLPToken,
	})
	if err != nil {
		fatal(err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			logger.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	metrics, err := telemetry.NewMetrics(ctx)
	if err != nil {
		fatal(err)
	}

	svc, closeWeather, err := buildWeather(cfg, logger)
	if err != nil {
		fatal(err)
	}
	defer closeWeather()

	responder, _, err := buildAssistant(ctx, cfg, logger, svc)
	if err != nil {
		fatal(err)
	}
	g, err := buildGraph(cfg)
	if err != nil {
		fatal(err)
	}
	recorder, closeTranscript, err := buildTranscript(cfg)
	if err != nil {
		fatal(err)
	}
	defer closeTranscript()
	mailboxes, closeMailboxes, err := buildMailboxes(cfg)
	if err != nil {
		fatal(err)
	}
	defer closeMailboxes()

	health := core.NewHealthRegistry()
	if svc != nil {
		health.Register("weather", svc.Health())
	}
	health.Register("gateway", core.NewStaticChecker(core.HealthHealthy, ""))

	gw := gateway.New(
		gateway.WithAssistant(responder),
		gateway.WithGraph(g),
		gateway.WithWeather(svc, cfg.Weather.City),
		gateway.WithTranscript(recorder),
		gateway.WithMailboxes(mailboxes),
		gateway.WithHealth(health),
		gateway.WithMetrics(metrics),
		gateway.WithLogger(logger),
	)

	server := &http.Server{
		Addr:              *addr,
		Handler:           gw.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("gateway listening", "addr", *addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			fatal(err)
		}
	}
}

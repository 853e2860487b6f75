package main

import (
	"context"
	"log/slog"

	"github.com/jllopis/agora/pkg/config"
	"github.com/jllopis/agora/pkg/mcp"
)

// runMCPServe exposes the assistant, knowledge base, weather service
// and graph as MCP tools over stdio.
func runMCPServe(ctx context.Context, global globalFlags, cfg *config.Config, logger *slog.Logger, args []string) {
	ensureNoArgs(args)

	svc, closeWeather, err := buildWeather(cfg, logger)
	if err != nil {
		fatal(err)
	}
	defer closeWeather()

	responder, base, err := buildAssistant(ctx, cfg, logger, svc)
	if err != nil {
		fatal(err)
	}
	g, err := buildGraph(cfg)
	if err != nil {
		fatal(err)
	}

	srv := mcp.NewServer("agora", version)
	mcp.RegisterAgoraTools(srv, mcp.Tools{
		Assistant: responder,
		Base:      base,
		Weather:   svc,
		City:      cfg.Weather.City,
		Graph:     g,
	})

	logger.Info("serving MCP tools over stdio")
	if err := srv.ServeStdio(); err != nil {
		fatal(err)
	}
}

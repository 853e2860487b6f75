// Copyright 2026 © The Agora Authors
// SPDX-License-Identifier: Apache-2.0

package scaffold

const goModTemplate = `module {{.Module}}

go 1.25

require github.com/jllopis/agora v0.0.0
`

const gitignoreTemplate = `/bin/
*.out
*.exe

.idea/
.vscode/
.DS_Store

.env
config/*.local.yaml
`

const makefileTemplate = `.PHONY: run run-dev build test tidy

run:
	go run ./cmd/agent --config ./config/config.yaml

run-dev:
	go run ./cmd/agent --config ./config/config.yaml --env dev

build:
	go build -o bin/agent ./cmd/agent

test:
	go test ./...

tidy:
	go mod tidy
`

const readmeTemplate = `# {{.ProjectName}}

An Agora agent ({{.Archetype}} archetype).

## Quick Start

- Go 1.25+

` + "```" + `sh
go mod tidy
go run ./cmd/agent --config ./config/config.yaml
` + "```" + `

Configuration lives in config/config.yaml; config.dev.yaml overlays it
when the agent runs with --env dev. Environment variables prefixed
AGORA_ override both.
`

const mainTemplate = `package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jllopis/agora/pkg/config"
	"github.com/jllopis/agora/pkg/telemetry"

	"{{.Module}}/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadWithCLI(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := telemetry.ConfigureSlog(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	if err := app.Run(ctx, cfg, logger); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
`

const configYAMLTemplate = `log:
  level: info
  format: text

weather:
  enabled: true
  base_url: https://wttr.in
  city: Bangalore

knowledge:
  file: ""

graph:
  file: ""
`

const configDevYAMLTemplate = `log:
  level: debug
`

const assistantAppTemplate = `// Package app wires the {{.ProjectName}} assistant.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jllopis/agora/pkg/assistant"
	"github.com/jllopis/agora/pkg/config"
	"github.com/jllopis/agora/pkg/weather"
)

// Run answers a couple of sample prompts. Replace with your own loop.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	var opts []assistant.Option
	if cfg.Weather.Enabled {
		client := weather.NewClient(cfg.Weather.BaseURL, time.Duration(cfg.Weather.TimeoutSeconds)*time.Second)
		svc := weather.NewService(client, weather.WithServiceLogger(logger))
		opts = append(opts, assistant.WithWeather(svc, cfg.Weather.City))
	}
	responder := assistant.New("{{.ProjectName}}", opts...)

	for _, prompt := range []string{"Hello", "What's the weather like?"} {
		response, err := responder.Respond(ctx, prompt)
		if err != nil {
			return err
		}
		fmt.Println(response)
	}
	return nil
}
`

const graphAppTemplate = `// Package app wires the {{.ProjectName}} graph agent.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jllopis/agora/pkg/config"
	"github.com/jllopis/agora/pkg/graph"
)

// Run answers a sample query against the configured graph.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	g := graph.Hospital()
	if cfg.Graph.File != "" {
		loaded, err := graph.LoadFile(cfg.Graph.File)
		if err != nil {
			return err
		}
		g = loaded
	}

	responder := graph.NewResponder(g, graph.WithLogger(logger))
	response, err := responder.Respond(ctx, "Who is connected to Doctor?")
	if err != nil {
		return err
	}
	fmt.Println(response)

	dot, err := graph.MarshalDOT(g)
	if err != nil {
		return err
	}
	fmt.Print(string(dot))
	return nil
}
`

const graphYAMLTemplate = `name: {{.ProjectName}} graph
nodes:
  - Hospital
  - Doctor
edges:
  - from: Hospital
    to: Doctor
`

const swarmAppTemplate = `// Package app wires the {{.ProjectName}} agent swarm.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jllopis/agora/pkg/agent"
	"github.com/jllopis/agora/pkg/config"
	"github.com/jllopis/agora/pkg/runtime"
)

// Run registers two agents and routes a message between them.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	rt := runtime.New(runtime.WithLogger(logger))
	defer rt.Close()

	alice, err := agent.New("Alice", agent.WithRole("coordinator"), agent.WithLogger(logger))
	if err != nil {
		return err
	}
	bob, err := agent.New("Bob", agent.WithRole("analyst"), agent.WithLogger(logger))
	if err != nil {
		return err
	}
	for _, a := range []*agent.Agent{alice, bob} {
		if err := rt.Register(a); err != nil {
			return err
		}
	}

	if err := rt.Send(ctx, "Alice", "Bob", "Please prepare the weekly report."); err != nil {
		return err
	}
	inbox, err := bob.Inbox(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Bob's inbox: %v\n", inbox)
	return nil
}
`

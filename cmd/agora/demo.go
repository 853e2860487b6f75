package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/jllopis/agora/pkg/config"
	"github.com/jllopis/agora/pkg/runtime"
)

// runDemo runs the canned four-agent scenario and prints each step.
func runDemo(ctx context.Context, global globalFlags, cfg *config.Config, logger *slog.Logger, args []string) {
	cmd := flag.NewFlagSet("demo", flag.ContinueOnError)
	outPath := cmd.String("out", "", "Write the graph DOT export to a file")
	transcriptPath := cmd.String("transcript", "", "Persist the transcript to a sqlite file")
	if err := cmd.Parse(args); err != nil {
		fatal(err)
	}
	ensureNoArgs(cmd.Args())

	if *transcriptPath != "" {
		cfg.Transcript.Backend = "sqlite"
		cfg.Transcript.DSN = *transcriptPath
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
	dispatcher, err := buildDispatcher(cfg, logger)
	if err != nil {
		fatal(err)
	}
	defer func() { _ = dispatcher.Close() }()
	mailboxes, closeMailboxes, err := buildMailboxes(cfg)
	if err != nil {
		fatal(err)
	}
	defer closeMailboxes()

	result, err := runtime.RunDemo(ctx, runtime.DemoConfig{
		Assistant:  responder,
		Graph:      g,
		Dispatcher: dispatcher,
		Mailboxes:  mailboxes,
		Recorder:   recorder,
		Logger:     logger,
	})
	if err != nil {
		fatal(err)
	}

	if *outPath != "" {
		if err := os.WriteFile(*outPath, result.DOT, 0o644); err != nil {
			fatal(err)
		}
	}

	if global.JSON {
		printJSON(result)
		return
	}

	section := ""
	for _, step := range result.Steps {
		if step.Section != section {
			section = step.Section
			fmt.Printf("\n--- %s ---\n", section)
		}
		fmt.Println(step.Response)
	}
	if *outPath != "" {
		fmt.Printf("\nGraph exported to %s\n", *outPath)
	} else {
		fmt.Printf("\n%s", result.DOT)
	}
}

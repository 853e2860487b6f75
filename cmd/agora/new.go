// Copyright 2026 © The Agora Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/jllopis/agora/cmd/agora/scaffold"
)

func runNew(global globalFlags, args []string) {
	fs := flag.NewFlagSet("new", flag.ExitOnError)

	module := fs.String("module", "", "Go module path (e.g., github.com/myorg/my-agent)")
	archetype := fs.String("type", "assistant", "Project archetype: assistant, graph, swarm")
	interactive := fs.Bool("i", false, "Choose the options interactively")
	overwrite := fs.Bool("overwrite", false, "Overwrite an existing directory")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: agora new <directory> [flags]

Generate a new Agora agent project.

Arguments:
  directory    Target directory for the new project

Flags:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Archetypes:
  assistant   Knowledge-base assistant with the weather service (default)
  graph       Knowledge graph query agent
  swarm       Multi-agent runtime with a message bus

Examples:
  agora new my-agent --module github.com/myorg/my-agent
  agora new my-agent --module github.com/myorg/my-agent --type graph
  agora new my-agent -i
`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: directory argument required")
		fs.Usage()
		os.Exit(1)
	}
	dir := fs.Arg(0)

	if *interactive {
		if err := askNewOptions(module, archetype); err != nil {
			if errors.Is(err, terminal.InterruptErr) {
				return
			}
			fatal(err)
		}
	}
	if *module == "" {
		fmt.Fprintln(os.Stderr, "Error: --module flag is required")
		fs.Usage()
		os.Exit(1)
	}
	if *archetype != "assistant" && *archetype != "graph" && *archetype != "swarm" {
		fatal(fmt.Errorf("invalid --type %q, valid options: assistant, graph, swarm", *archetype))
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		fatal(fmt.Errorf("invalid directory path: %w", err))
	}
	if _, err := os.Stat(absDir); err == nil && !*overwrite {
		fatal(fmt.Errorf("directory %q already exists, use --overwrite to replace", dir))
	}

	opts := scaffold.Options{
		ProjectName: filepath.Base(absDir),
		Module:      *module,
		Archetype:   *archetype,
	}

	fmt.Printf("Creating Agora project %q...\n", opts.ProjectName)
	fmt.Printf("  Module:    %s\n", opts.Module)
	fmt.Printf("  Archetype: %s\n", opts.Archetype)

	if err := scaffold.Generate(absDir, opts); err != nil {
		fatal(fmt.Errorf("generating project: %w", err))
	}

	fmt.Println()
	fmt.Println("Project created. Next steps:")
	fmt.Printf("  cd %s\n", dir)
	fmt.Println("  go mod tidy")
	fmt.Println("  go run ./cmd/agent")
}

// askNewOptions fills the unset scaffold options interactively.
func askNewOptions(module, archetype *string) error {
	if *module == "" {
		if err := survey.AskOne(&survey.Input{Message: "Go module path:"}, module); err != nil {
			return err
		}
	}
	return survey.AskOne(&survey.Select{
		Message: "Project archetype:",
		Options: []string{"assistant", "graph", "swarm"},
		Default: *archetype,
	}, archetype)
}

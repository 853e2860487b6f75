// Copyright 2026 © The Agora Authors
// SPDX-License-Identifier: Apache-2.0

// Package scaffold generates Agora project scaffolding.
package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"text/template"
)

// Options configures project generation.
type Options struct {
	ProjectName string
	Module      string
	Archetype   string // assistant, graph, swarm
}

// Generate creates a new Agora project at the given directory.
func Generate(dir string, opts Options) error {
	dirs := []string{
		"cmd/agent",
		"internal/app",
		"config",
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	for _, f := range filesToGenerate(opts) {
		if err := generateFile(dir, f, opts); err != nil {
			return fmt.Errorf("generating %s: %w", f.Path, err)
		}
		fmt.Printf("  Created: %s\n", f.Path)
	}
	return nil
}

type fileSpec struct {
	Path     string
	Template string
}

func filesToGenerate(opts Options) []fileSpec {
	files := []fileSpec{
		{"go.mod", goModTemplate},
		{".gitignore", gitignoreTemplate},
		{"Makefile", makefileTemplate},
		{"README.md", readmeTemplate},
		{"cmd/agent/main.go", mainTemplate},
		{"config/config.yaml", configYAMLTemplate},
		{"config/config.dev.yaml", configDevYAMLTemplate},
	}

	switch opts.Archetype {
	case "graph":
		files = append(files,
			fileSpec{"internal/app/app.go", graphAppTemplate},
			fileSpec{"config/graph.yaml", graphYAMLTemplate},
		)
	case "swarm":
		files = append(files, fileSpec{"internal/app/app.go", swarmAppTemplate})
	default:
		files = append(files, fileSpec{"internal/app/app.go", assistantAppTemplate})
	}
	return files
}

func generateFile(dir string, spec fileSpec, opts Options) error {
	tmpl, err := template.New(spec.Path).Parse(spec.Template)
	if err != nil {
		return fmt.Errorf("parsing template: %w", err)
	}

	path := filepath.Join(dir, spec.Path)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	return tmpl.Execute(f, opts)
}

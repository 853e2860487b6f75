package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/jllopis/agora/pkg/config"
	"github.com/jllopis/agora/pkg/graph"
)

// runGraph handles the graph subcommands: neighbors, query, export and
// show.
func runGraph(ctx context.Context, global globalFlags, cfg *config.Config, logger *slog.Logger, args []string) {
	if len(args) == 0 {
		fatal(errors.New("usage: agora graph <neighbors|query|export|show>"))
	}

	g, err := buildGraph(cfg)
	if err != nil {
		fatal(err)
	}

	switch args[0] {
	case "neighbors":
		if len(args) < 2 {
			fatal(errors.New("usage: agora graph neighbors <node>"))
		}
		node := strings.Join(args[1:], " ")
		canonical, ok := g.Resolve(node)
		if !ok {
			fatal(fmt.Errorf("node %q is not in the graph", node))
		}
		neighbors := g.Neighbors(canonical)
		if global.JSON {
			printJSON(map[string]any{"node": canonical, "neighbors": neighbors})
			return
		}
		for _, neighbor := range neighbors {
			fmt.Println(neighbor)
		}
	case "query":
		if len(args) < 2 {
			fatal(errors.New(`usage: agora graph query "<question>"`))
		}
		query := strings.Join(args[1:], " ")
		responder := graph.NewResponder(g, graph.WithLogger(logger))
		response, err := responder.Respond(ctx, query)
		if err != nil {
			fatal(err)
		}
		if global.JSON {
			printJSON(map[string]string{"query": query, "response": response})
			return
		}
		fmt.Println(response)
	case "export":
		cmd := flag.NewFlagSet("graph export", flag.ContinueOnError)
		format := cmd.String("format", "dot", "Export format: dot, json or yaml")
		outPath := cmd.String("out", "", "Write to a file instead of stdout")
		if err := cmd.Parse(args[1:]); err != nil {
			fatal(err)
		}
		ensureNoArgs(cmd.Args())

		var payload []byte
		var err error
		switch *format {
		case "dot":
			payload, err = graph.MarshalDOT(g)
		case "json":
			payload, err = graph.MarshalJSON(g, true)
		case "yaml":
			payload, err = graph.MarshalYAML(g)
		default:
			fatal(fmt.Errorf("unknown format %q", *format))
		}
		if err != nil {
			fatal(err)
		}

		if *outPath != "" {
			if err := os.WriteFile(*outPath, payload, 0o644); err != nil {
				fatal(err)
			}
			fmt.Printf("Graph exported to %s\n", *outPath)
			return
		}
		fmt.Print(string(payload))
	case "show":
		ensureNoArgs(args[1:])
		if global.JSON {
			printJSON(map[string]any{"name": g.Name(), "nodes": g.Nodes(), "edges": g.Edges()})
			return
		}
		fmt.Println(g.Name())
		writer := newTabWriter()
		writeRow(writer, "NODE", "NEIGHBORS")
		for _, node := range g.Nodes() {
			writeRow(writer, node, strings.Join(g.Neighbors(node), ", "))
		}
		_ = writer.Flush()
	default:
		fatal(fmt.Errorf("unknown graph command %q", args[0]))
	}
}

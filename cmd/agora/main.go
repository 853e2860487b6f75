package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"

	"github.com/jllopis/agora/pkg/config"
	"github.com/jllopis/agora/pkg/telemetry"
)

const version = "dev"

type globalFlags struct {
	ConfigArgs []string
	LogLevel   string
	Timeout    time.Duration
	JSON       bool
	Help       bool
}

func main() {
	// Local .env overrides are optional.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	global, args, err := parseGlobalFlags(os.Args[1:])
	if err != nil {
		fatal(err)
	}
	if global.Help || len(args) == 0 {
		printUsage()
		return
	}

	cfg, err := config.LoadWithCLI(global.ConfigArgs)
	if err != nil {
		fatal(err)
	}
	level := cfg.Log.Level
	if global.LogLevel != "" {
		level = global.LogLevel
	}
	logger := telemetry.ConfigureSlog(os.Stderr, level, cfg.Log.Format)

	switch cmd := args[0]; cmd {
	case "demo":
		runDemo(ctx, global, cfg, logger, args[1:])
	case "ask":
		runAsk(ctx, global, cfg, logger, args[1:])
	case "weather":
		runWeather(ctx, global, cfg, logger, args[1:])
	case "graph":
		runGraph(ctx, global, cfg, logger, args[1:])
	case "serve":
		runServe(ctx, global, cfg, logger, args[1:])
	case "mcp":
		runMCPServe(ctx, global, cfg, logger, args[1:])
	case "new":
		runNew(global, args[1:])
	case "version":
		ensureNoArgs(args[1:])
		printVersion()
	case "help":
		printUsage()
	default:
		fatal(fmt.Errorf("unknown command %q", cmd))
	}
}

func parseGlobalFlags(args []string) (globalFlags, []string, error) {
	flags := globalFlags{
		Timeout: 30 * time.Second,
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return flags, args[i+1:], nil
		}
		if !strings.HasPrefix(arg, "-") {
			return flags, args[i:], nil
		}
		switch {
		case arg == "-h" || arg == "--help":
			flags.Help = true
			return flags, nil, nil
		case arg == "--json":
			flags.JSON = true
		case arg == "--config" || arg == "--profile" || arg == "--env" || arg == "--set":
			if i+1 >= len(args) {
				return flags, nil, fmt.Errorf("missing value for %s", arg)
			}
			flags.ConfigArgs = append(flags.ConfigArgs, arg, args[i+1])
			i++
		case strings.HasPrefix(arg, "--config="),
			strings.HasPrefix(arg, "--profile="),
			strings.HasPrefix(arg, "--env="),
			strings.HasPrefix(arg, "--set="):
			flags.ConfigArgs = append(flags.ConfigArgs, arg)
		case arg == "--log-level":
			if i+1 >= len(args) {
				return flags, nil, fmt.Errorf("missing value for --log-level")
			}
			flags.LogLevel = args[i+1]
			i++
		case strings.HasPrefix(arg, "--log-level="):
			flags.LogLevel = strings.TrimPrefix(arg, "--log-level=")
		case arg == "--timeout":
			if i+1 >= len(args) {
				return flags, nil, fmt.Errorf("missing value for --timeout")
			}
			value, err := time.ParseDuration(args[i+1])
			if err != nil {
				return flags, nil, fmt.Errorf("invalid --timeout: %w", err)
			}
			flags.Timeout = value
			i++
		case strings.HasPrefix(arg, "--timeout="):
			value, err := time.ParseDuration(strings.TrimPrefix(arg, "--timeout="))
			if err != nil {
				return flags, nil, fmt.Errorf("invalid --timeout: %w", err)
			}
			flags.Timeout = value
		default:
			return flags, nil, fmt.Errorf("unknown global flag %q", arg)
		}
	}
	return flags, nil, nil
}

func printJSON(value any) {
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		fatal(err)
	}
	fmt.Println(string(payload))
}

func newTabWriter() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
}

func writeRow(writer *tabwriter.Writer, cols ...string) {
	for i, col := range cols {
		cols[i] = normalizeCell(col)
	}
	fmt.Fprintln(writer, strings.Join(cols, "\t"))
}

func normalizeCell(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "-"
	}
	return strings.Join(strings.Fields(value), " ")
}

func printVersion() {
	fmt.Println(version)
}

const usageText = `Agora CLI

Usage:
  agora [global flags] <command> [args]

Global flags:
  --config <path>      Path to config.yaml
  --profile <name>     Config profile overlay (config.<name>.yaml)
  --set key=value      Override config (repeatable)
  --log-level <level>  Log level (debug, info, warn, error)
  --timeout <dur>      Operation timeout (default 30s)
  --json               JSON output

Commands:
  demo                           Run the canned four-agent demo
  ask [prompt]                   Ask the assistant; -i for an interactive session
  weather [city]                 Current weather report
  graph neighbors <node>         List a node's neighbors
  graph query "<question>"       Natural-language neighbor query
  graph export [--format dot|json|yaml] [--out <path>]
  graph show                     Print nodes and edges
  serve                          Start the HTTP gateway
  mcp                            Serve Agora tools over MCP stdio
  new <dir>                      Scaffold a new agent project
  version
`

func printUsage() {
	fmt.Print(usageText)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func ensureNoArgs(args []string) {
	if len(args) > 0 {
		fatal(fmt.Errorf("unexpected args: %v", args))
	}
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/jllopis/agora/pkg/config"
	"github.com/jllopis/agora/pkg/core"
)

// runAsk sends a prompt to the assistant, or starts an interactive
// session with -i.
func runAsk(ctx context.Context, global globalFlags, cfg *config.Config, logger *slog.Logger, args []string) {
	cmd := flag.NewFlagSet("ask", flag.ContinueOnError)
	interactive := cmd.Bool("i", false, "Interactive session")
	cmd.BoolVar(interactive, "interactive", false, "Interactive session")
	if err := cmd.Parse(args); err != nil {
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

	if *interactive {
		askLoop(ctx, global, responder)
		return
	}

	prompt := strings.TrimSpace(strings.Join(cmd.Args(), " "))
	if prompt == "" {
		fatal(errors.New("usage: agora ask <prompt> (or agora ask -i)"))
	}
	response, err := responder.Respond(ctx, prompt)
	if err != nil {
		fatal(err)
	}
	if global.JSON {
		printJSON(map[string]string{"prompt": prompt, "response": response})
		return
	}
	fmt.Println(response)
}

// askLoop reads prompts until an empty line, "exit" or "quit".
func askLoop(ctx context.Context, global globalFlags, responder core.Responder) {
	for {
		var prompt string
		err := survey.AskOne(&survey.Input{Message: "You:"}, &prompt)
		if err != nil {
			if errors.Is(err, terminal.InterruptErr) {
				return
			}
			fatal(err)
		}
		prompt = strings.TrimSpace(prompt)
		if prompt == "" || prompt == "exit" || prompt == "quit" {
			return
		}

		response, err := responder.Respond(ctx, prompt)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}
		if global.JSON {
			printJSON(map[string]string{"prompt": prompt, "response": response})
			continue
		}
		fmt.Printf("Cody: %s\n", response)
	}
}

package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jllopis/agora/pkg/agent"
	"github.com/jllopis/agora/pkg/assistant"
	"github.com/jllopis/agora/pkg/bus"
	"github.com/jllopis/agora/pkg/core"
	"github.com/jllopis/agora/pkg/graph"
	"github.com/jllopis/agora/pkg/mailbox"
	"github.com/jllopis/agora/pkg/telemetry"
	"github.com/jllopis/agora/pkg/transcript"
)

// MailboxFactory builds the inbox backend for one agent. The demo asks
// it once per agent, with the agent's name as owner.
type MailboxFactory func(owner string) (mailbox.Mailbox, error)

// Demo section titles.
const (
	SectionInteraction = "Demonstrating Agent Interaction"
	SectionAssistant   = "Demonstrating Simple Task Execution with AssistantAgent"
	SectionGraph       = "Demonstrating Knowledge Graph Agent and Visualization"
)

// DemoStep is one step of the canned demo.
type DemoStep struct {
	Section  string `json:"section"`
	Agent    string `json:"agent"`
	Kind     string `json:"kind"` // "send", "inbox", "act", "query"
	To       string `json:"to,omitempty"`
	Prompt   string `json:"prompt,omitempty"`
	Response string `json:"response"`
}

// DemoResult is the full demo output: the ordered steps plus the graph
// export artifact.
type DemoResult struct {
	Steps []DemoStep `json:"steps"`
	DOT   []byte     `json:"dot"`
}

// DemoConfig configures the canned demo. Zero-valued fields get
// offline defaults, so an empty config runs deterministically.
type DemoConfig struct {
	// Assistant answers Cody's prompts. Defaults to the seeded
	// assistant with the static weather reply.
	Assistant core.Responder

	// Graph is the knowledge graph GraphBot queries. Defaults to the
	// hospital graph.
	Graph *graph.Graph

	// Dispatcher routes messages between the demo agents. Defaults to
	// the in-process bus.
	Dispatcher bus.Dispatcher

	// Mailboxes builds each agent's inbox backend. Defaults to
	// in-memory inboxes.
	Mailboxes MailboxFactory

	Recorder transcript.Recorder
	Logger   *slog.Logger
	Metrics  *telemetry.Metrics
	Emitter  core.EventEmitter
}

// RunDemo runs the canonical four-agent demo: Alice messages Bob, Bob
// acts, Cody answers assistant prompts and GraphBot answers graph
// queries. The same config always produces the same steps.
func RunDemo(ctx context.Context, cfg DemoConfig) (*DemoResult, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	g := cfg.Graph
	if g == nil {
		g = graph.Hospital()
	}
	responder := cfg.Assistant
	if responder == nil {
		responder = assistant.New("Cody", assistant.WithLogger(logger), assistant.WithMetrics(cfg.Metrics))
	}

	common := []agent.Option{
		agent.WithLogger(logger),
		agent.WithMetrics(cfg.Metrics),
	}
	if cfg.Recorder != nil {
		common = append(common, agent.WithTranscript(cfg.Recorder))
	}
	if cfg.Emitter != nil {
		common = append(common, agent.WithEmitter(cfg.Emitter))
	}

	newAgent := func(name string, extra ...agent.Option) (*agent.Agent, error) {
		opts := append(append([]agent.Option{}, extra...), common...)
		if cfg.Mailboxes != nil {
			box, err := cfg.Mailboxes(name)
			if err != nil {
				return nil, fmt.Errorf("mailbox for %s: %w", name, err)
			}
			opts = append(opts, agent.WithMailbox(box))
		}
		return agent.New(name, opts...)
	}

	alice, err := newAgent("Alice", agent.WithRole("coordinator"))
	if err != nil {
		return nil, err
	}
	bob, err := newAgent("Bob", agent.WithRole("analyst"))
	if err != nil {
		return nil, err
	}
	cody, err := newAgent("Cody",
		agent.WithRole("assistant"),
		agent.WithResponder("knowledge", responder),
	)
	if err != nil {
		return nil, err
	}
	graphBot, err := newAgent("GraphBot",
		agent.WithRole("graph_query_agent"),
		agent.WithResponder("graph", graph.NewResponder(g, graph.WithLogger(logger), graph.WithMetrics(cfg.Metrics))),
	)
	if err != nil {
		return nil, err
	}

	rtOpts := []Option{WithLogger(logger), WithMetrics(cfg.Metrics), WithTranscript(cfg.Recorder)}
	if cfg.Dispatcher != nil {
		rtOpts = append(rtOpts, WithDispatcher(cfg.Dispatcher))
	}
	rt := New(rtOpts...)
	defer rt.Close()
	for _, a := range []core.Agent{alice, bob, cody, graphBot} {
		if err := rt.Register(a); err != nil {
			return nil, err
		}
	}

	ctx, _ = core.EnsureRunID(ctx)
	result := &DemoResult{}

	// Agent interaction: Alice messages Bob, Bob acts.
	report := "Please prepare the weekly report."
	if err := rt.Send(ctx, "Alice", "Bob", report); err != nil {
		return nil, err
	}
	result.Steps = append(result.Steps, DemoStep{
		Section:  SectionInteraction,
		Agent:    "Alice",
		Kind:     "send",
		To:       "Bob",
		Prompt:   report,
		Response: fmt.Sprintf("Agent Alice is sending a message to Bob: '%s'", report),
	})

	inbox, err := bob.Inbox(ctx)
	if err != nil {
		return nil, err
	}
	result.Steps = append(result.Steps, DemoStep{
		Section:  SectionInteraction,
		Agent:    "Bob",
		Kind:     "inbox",
		Response: fmt.Sprintf("Agent Bob's inbox: %s", formatInbox(inbox)),
	})

	if err := result.act(ctx, rt, SectionInteraction, "act", "Bob", "Begin report preparation."); err != nil {
		return nil, err
	}

	// Assistant prompts, including the weather request and a
	// knowledge-base miss.
	for _, prompt := range []string{
		"Hello",
		"What's the weather like?",
		"who are you?",
		"what's the capital of France?",
	} {
		if err := result.act(ctx, rt, SectionAssistant, "act", "Cody", prompt); err != nil {
			return nil, err
		}
	}

	// Graph queries, including an unknown node.
	for _, query := range []string{
		"Who is connected to Doctor?",
		"Who is connected to Hospital?",
		"Who is connected to Janitor?",
	} {
		if err := result.act(ctx, rt, SectionGraph, "query", "GraphBot", query); err != nil {
			return nil, err
		}
	}

	dot, err := graph.MarshalDOT(g)
	if err != nil {
		return nil, err
	}
	result.DOT = dot

	return result, nil
}

func (r *DemoResult) act(ctx context.Context, rt *Runtime, section, kind, name, prompt string) error {
	response, err := rt.Act(ctx, name, prompt)
	if err != nil {
		return err
	}
	r.Steps = append(r.Steps, DemoStep{
		Section:  section,
		Agent:    name,
		Kind:     kind,
		Prompt:   prompt,
		Response: response,
	})
	return nil
}

// formatInbox renders an inbox the way the demo displays it.
func formatInbox(entries []string) string {
	quoted := make([]string, len(entries))
	for i, entry := range entries {
		quoted[i] = "'" + entry + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

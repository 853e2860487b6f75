// Copyright 2026 © The Agora Authors
// SPDX-License-Identifier: Apache-2.0

// Package agent implements the base conversational agent: a name, a
// role and a mailbox. Behavior beyond the canned action is composed in
// through a Responder.
package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jllopis/agora/pkg/core"
	"github.com/jllopis/agora/pkg/errors"
	"github.com/jllopis/agora/pkg/mailbox"
	"github.com/jllopis/agora/pkg/telemetry"
	"github.com/jllopis/agora/pkg/transcript"
)

// Agent is the base implementation of core.Agent.
type Agent struct {
	name      string
	role      string
	inbox     mailbox.Mailbox
	responder core.Responder
	kind      string
	logger    *slog.Logger
	metrics   *telemetry.Metrics
	recorder  transcript.Recorder
	emitter   core.EventEmitter
}

// Option configures an Agent instance.
type Option func(*Agent)

// WithRole sets the agent role.
func WithRole(role string) Option {
	return func(a *Agent) { a.role = role }
}

// WithMailbox sets the inbox backend. Defaults to in-memory.
func WithMailbox(box mailbox.Mailbox) Option {
	return func(a *Agent) { a.inbox = box }
}

// WithResponder delegates Act to a responder. The kind labels the
// delegated exchanges in metrics and the transcript ("knowledge",
// "graph", ...).
func WithResponder(kind string, responder core.Responder) Option {
	return func(a *Agent) {
		a.kind = kind
		a.responder = responder
	}
}

// WithLogger sets the agent logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Agent) { a.logger = logger }
}

// WithMetrics attaches a metrics tracker.
func WithMetrics(metrics *telemetry.Metrics) Option {
	return func(a *Agent) { a.metrics = metrics }
}

// WithTranscript records every Act exchange to a recorder.
func WithTranscript(recorder transcript.Recorder) Option {
	return func(a *Agent) { a.recorder = recorder }
}

// WithEmitter sets the event emitter for streaming consumers.
func WithEmitter(emitter core.EventEmitter) Option {
	return func(a *Agent) { a.emitter = emitter }
}

// New creates an agent. The name is required.
func New(name string, opts ...Option) (*Agent, error) {
	if name == "" {
		return nil, errors.New(errors.CodeInvalidInput, "agent name is required", nil)
	}
	a := &Agent{
		name:    name,
		role:    "agent",
		inbox:   mailbox.NewMemory(),
		kind:    "canned",
		logger:  slog.Default(),
		emitter: core.NoopEventEmitter{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Name returns the agent name.
func (a *Agent) Name() string { return a.name }

// Role returns the agent role.
func (a *Agent) Role() string { return a.role }

// Act performs the agent's action for a prompt. Without a responder the
// reply is the canned acting line; with one, the responder's reply.
func (a *Agent) Act(ctx context.Context, prompt string) (string, error) {
	ctx, runID := core.EnsureRunID(ctx)

	a.emitter.Emit(ctx, core.NewEvent(core.EventAgentActing, a.name, runID, map[string]any{
		"prompt": prompt,
	}))
	a.logger.Info("agent acting",
		slog.String(telemetry.AttrAgentName, a.name),
		slog.String(telemetry.AttrAgentRole, a.role),
		slog.String("prompt", prompt),
	)

	response, err := a.respond(ctx, prompt)
	if err != nil {
		a.metrics.RecordError(ctx, err, "agent")
		a.emitter.Emit(ctx, core.NewEvent(core.EventRunError, a.name, runID, map[string]any{
			"error": err.Error(),
		}))
		return "", err
	}

	a.metrics.RecordPrompt(ctx, a.name, a.kind)
	if a.recorder != nil {
		if rerr := a.recorder.Record(ctx, transcript.Entry{
			RunID:    runID,
			Agent:    a.name,
			Role:     a.role,
			Kind:     a.kind,
			Prompt:   prompt,
			Response: response,
		}); rerr != nil {
			a.logger.Warn("transcript record failed", slog.String("error", rerr.Error()))
		}
	}

	a.emitter.Emit(ctx, core.NewEvent(core.EventAgentResponded, a.name, runID, map[string]any{
		"prompt":   prompt,
		"response": response,
	}))
	return response, nil
}

func (a *Agent) respond(ctx context.Context, prompt string) (string, error) {
	if a.responder != nil {
		return a.responder.Respond(ctx, prompt)
	}
	if prompt != "" {
		return fmt.Sprintf("Agent %s (%s) is acting on prompt: '%s'.", a.name, a.role, prompt), nil
	}
	return fmt.Sprintf("Agent %s (%s) is performing a generic action.", a.name, a.role), nil
}

// Send delivers a message directly to another agent's mailbox.
func (a *Agent) Send(ctx context.Context, recipient core.Agent, content string) error {
	if recipient == nil {
		return errors.New(errors.CodeInvalidInput, "recipient is nil", nil)
	}
	ctx, runID := core.EnsureRunID(ctx)
	msg := core.NewMessage(a.name, recipient.Name(), content)

	a.logger.Info(fmt.Sprintf("Agent %s is sending a message to %s: '%s'", a.name, recipient.Name(), content),
		slog.String(telemetry.AttrAgentName, a.name),
	)

	if err := recipient.Deliver(ctx, msg); err != nil {
		return errors.New(errors.CodeTransport, "deliver message", err).
			WithContext("from", a.name).
			WithContext("to", recipient.Name())
	}

	a.metrics.RecordMessageSent(ctx, a.name, recipient.Name())
	a.emitter.Emit(ctx, core.NewEvent(core.EventMessageSent, a.name, runID, map[string]any{
		"to":      recipient.Name(),
		"content": content,
	}))
	return nil
}

// Deliver appends the message content to the agent's mailbox.
func (a *Agent) Deliver(ctx context.Context, msg core.Message) error {
	if err := a.inbox.Append(ctx, msg.Content); err != nil {
		return errors.New(errors.CodeMailbox, "append to inbox", err).
			WithContext("agent", a.name)
	}
	runID, _ := core.RunID(ctx)
	a.emitter.Emit(ctx, core.NewEvent(core.EventMessageDelivered, a.name, runID, map[string]any{
		"from":    msg.From,
		"content": msg.Content,
	}))
	return nil
}

// Inbox returns the received message contents in delivery order.
func (a *Agent) Inbox(ctx context.Context) ([]string, error) {
	return a.inbox.Entries(ctx)
}

var _ core.Agent = (*Agent)(nil)

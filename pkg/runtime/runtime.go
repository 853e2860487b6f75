// Copyright 2026 © The Agora Authors
// SPDX-License-Identifier: Apache-2.0

// Package runtime wires agents to a message bus and runs multi-agent
// interactions.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jllopis/agora/pkg/bus"
	"github.com/jllopis/agora/pkg/core"
	"github.com/jllopis/agora/pkg/errors"
	"github.com/jllopis/agora/pkg/telemetry"
	"github.com/jllopis/agora/pkg/transcript"
)

// Runtime is a registry of agents sharing a message bus. Messages sent
// through the runtime travel over the bus; agents can still deliver to
// each other directly.
type Runtime struct {
	mu         sync.RWMutex
	agents     map[string]core.Agent
	order      []string
	dispatcher bus.Dispatcher
	recorder   transcript.Recorder
	logger     *slog.Logger
	metrics    *telemetry.Metrics
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithDispatcher sets the message bus. Defaults to in-process delivery.
func WithDispatcher(dispatcher bus.Dispatcher) Option {
	return func(r *Runtime) { r.dispatcher = dispatcher }
}

// WithTranscript records runtime exchanges to a recorder.
func WithTranscript(recorder transcript.Recorder) Option {
	return func(r *Runtime) { r.recorder = recorder }
}

// WithLogger sets the runtime logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) { r.logger = logger }
}

// WithMetrics attaches a metrics tracker.
func WithMetrics(metrics *telemetry.Metrics) Option {
	return func(r *Runtime) { r.metrics = metrics }
}

// New creates a runtime.
func New(opts ...Option) *Runtime {
	r := &Runtime{
		agents: make(map[string]core.Agent),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.dispatcher == nil {
		r.dispatcher = bus.NewLocal(bus.WithLocalLogger(r.logger), bus.WithLocalMetrics(r.metrics))
	}
	return r
}

// Register adds an agent and subscribes it to the bus. Registering a
// name twice is an error; agents are identities, not handlers.
func (r *Runtime) Register(agent core.Agent) error {
	if agent == nil {
		return errors.New(errors.CodeInvalidInput, "agent is nil", nil)
	}
	name := agent.Name()

	r.mu.Lock()
	if _, exists := r.agents[name]; exists {
		r.mu.Unlock()
		return errors.New(errors.CodeInvalidInput, "agent already registered", nil).
			WithContext("agent", name)
	}
	r.agents[name] = agent
	r.order = append(r.order, name)
	r.mu.Unlock()

	return r.dispatcher.Subscribe(name, agent.Deliver)
}

// Get returns a registered agent by name.
func (r *Runtime) Get(name string) (core.Agent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	agent, ok := r.agents[name]
	return agent, ok
}

// Agents returns the registered agent names in registration order.
func (r *Runtime) Agents() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Send routes a message from one registered agent to another over the
// bus.
func (r *Runtime) Send(ctx context.Context, from, to, content string) error {
	if _, ok := r.Get(from); !ok {
		return errors.New(errors.CodeNotFound, "sender not registered", nil).
			WithContext("agent", from)
	}
	ctx, _ = core.EnsureRunID(ctx)

	r.logger.Info(fmt.Sprintf("Agent %s is sending a message to %s: '%s'", from, to, content),
		slog.String(telemetry.AttrAgentName, from),
	)

	if err := r.dispatcher.Publish(ctx, core.NewMessage(from, to, content)); err != nil {
		r.metrics.RecordError(ctx, err, "runtime")
		return err
	}
	return nil
}

// Act runs a registered agent's action for a prompt.
func (r *Runtime) Act(ctx context.Context, name, prompt string) (string, error) {
	agent, ok := r.Get(name)
	if !ok {
		return "", errors.New(errors.CodeNotFound, "agent not registered", nil).
			WithContext("agent", name)
	}
	return agent.Act(ctx, prompt)
}

// Transcript returns the configured recorder, if any.
func (r *Runtime) Transcript() transcript.Recorder {
	return r.recorder
}

// Close releases the bus.
func (r *Runtime) Close() error {
	return r.dispatcher.Close()
}

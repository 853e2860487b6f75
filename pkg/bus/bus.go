// Copyright 2026 © The Agora Authors
// SPDX-License-Identifier: Apache-2.0

// Package bus routes messages between agents. The Local dispatcher
// delivers synchronously inside one process; the Kafka dispatcher
// bridges the same interface over a broker.
package bus

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jllopis/agora/pkg/core"
	"github.com/jllopis/agora/pkg/errors"
	"github.com/jllopis/agora/pkg/telemetry"
)

// Handler receives a message addressed to a subscribed recipient.
type Handler func(ctx context.Context, msg core.Message) error

// Dispatcher routes messages to subscribed recipients.
type Dispatcher interface {
	// Publish routes a message to its recipient.
	Publish(ctx context.Context, msg core.Message) error

	// Subscribe registers a handler for messages addressed to recipient.
	// Subscribing the same recipient twice replaces the handler.
	Subscribe(recipient string, handler Handler) error

	// Unsubscribe removes the recipient's handler.
	Unsubscribe(recipient string)

	// Close releases the dispatcher's resources.
	Close() error
}

// Local implements Dispatcher with synchronous in-process delivery.
// Publish returns the handler's error directly, so a caller sees
// delivery failures immediately.
type Local struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	logger   *slog.Logger
	metrics  *telemetry.Metrics
}

// LocalOption configures a Local dispatcher.
type LocalOption func(*Local)

// WithLocalLogger sets the dispatcher logger.
func WithLocalLogger(logger *slog.Logger) LocalOption {
	return func(l *Local) { l.logger = logger }
}

// WithLocalMetrics attaches a metrics tracker.
func WithLocalMetrics(metrics *telemetry.Metrics) LocalOption {
	return func(l *Local) { l.metrics = metrics }
}

// NewLocal creates an in-process dispatcher.
func NewLocal(opts ...LocalOption) *Local {
	l := &Local{
		handlers: make(map[string]Handler),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Subscribe registers a handler for a recipient.
func (l *Local) Subscribe(recipient string, handler Handler) error {
	if recipient == "" {
		return errors.New(errors.CodeTransport, "recipient is empty", nil)
	}
	if handler == nil {
		return errors.New(errors.CodeTransport, "handler is nil", nil)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handlers[recipient] = handler
	return nil
}

// Unsubscribe removes the recipient's handler.
func (l *Local) Unsubscribe(recipient string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.handlers, recipient)
}

// Publish delivers a message to its recipient's handler.
func (l *Local) Publish(ctx context.Context, msg core.Message) error {
	l.mu.RLock()
	handler, ok := l.handlers[msg.To]
	l.mu.RUnlock()

	if !ok {
		return errors.New(errors.CodeTransport, "no subscriber for recipient", nil).
			WithContext("to", msg.To).
			WithContext("from", msg.From)
	}

	if err := handler(ctx, msg); err != nil {
		return errors.New(errors.CodeTransport, "handler failed", err).
			WithContext("to", msg.To)
	}

	l.metrics.RecordMessageSent(ctx, msg.From, msg.To)
	return nil
}

// Close is a no-op for the local dispatcher.
func (l *Local) Close() error {
	return nil
}

var _ Dispatcher = (*Local)(nil)

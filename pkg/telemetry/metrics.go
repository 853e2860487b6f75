// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jllopis/agora/pkg/errors"
)

// Metrics tracks prompt, knowledge, weather and graph activity for
// production monitoring.
type Metrics struct {
	// promptCounter tracks prompts served by agent and responder kind
	promptCounter metric.Int64Counter

	// knowledgeHits and knowledgeMisses track knowledge base lookups
	knowledgeHits   metric.Int64Counter
	knowledgeMisses metric.Int64Counter

	// weatherCounter tracks weather lookups by outcome
	weatherCounter metric.Int64Counter

	// graphCounter tracks graph queries by outcome
	graphCounter metric.Int64Counter

	// messageCounter tracks messages delivered between agents
	messageCounter metric.Int64Counter

	// errorCounter tracks total errors by code and component
	errorCounter metric.Int64Counter

	// healthStatusGauge tracks component health (0=unhealthy, 1=degraded, 2=healthy)
	healthStatusGauge metric.Int64Gauge

	mu sync.RWMutex
}

// NewMetrics creates a metrics tracker with OTEL meters.
func NewMetrics(ctx context.Context) (*Metrics, error) {
	meter := otel.Meter("agora/metrics")

	promptCounter, err := meter.Int64Counter(
		"agora.prompts.total",
		metric.WithDescription("Prompts served by agent and responder kind"),
	)
	if err != nil {
		return nil, err
	}

	knowledgeHits, err := meter.Int64Counter(
		"agora.knowledge.hits",
		metric.WithDescription("Knowledge base lookups that matched a key"),
	)
	if err != nil {
		return nil, err
	}

	knowledgeMisses, err := meter.Int64Counter(
		"agora.knowledge.misses",
		metric.WithDescription("Knowledge base lookups that fell through to the fallback reply"),
	)
	if err != nil {
		return nil, err
	}

	weatherCounter, err := meter.Int64Counter(
		"agora.weather.lookups",
		metric.WithDescription("Weather lookups by city and outcome"),
	)
	if err != nil {
		return nil, err
	}

	graphCounter, err := meter.Int64Counter(
		"agora.graph.queries",
		metric.WithDescription("Graph neighbor queries by outcome"),
	)
	if err != nil {
		return nil, err
	}

	messageCounter, err := meter.Int64Counter(
		"agora.messages.sent",
		metric.WithDescription("Messages delivered between agents"),
	)
	if err != nil {
		return nil, err
	}

	errorCounter, err := meter.Int64Counter(
		"agora.errors.total",
		metric.WithDescription("Total errors by code and component"),
	)
	if err != nil {
		return nil, err
	}

	healthStatusGauge, err := meter.Int64Gauge(
		"agora.health.status",
		metric.WithDescription("Component health status (0=unhealthy, 1=degraded, 2=healthy)"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		promptCounter:     promptCounter,
		knowledgeHits:     knowledgeHits,
		knowledgeMisses:   knowledgeMisses,
		weatherCounter:    weatherCounter,
		graphCounter:      graphCounter,
		messageCounter:    messageCounter,
		errorCounter:      errorCounter,
		healthStatusGauge: healthStatusGauge,
	}, nil
}

// RecordPrompt increments the prompt counter for an agent and responder kind.
func (m *Metrics) RecordPrompt(ctx context.Context, agent, kind string) {
	if m == nil {
		return
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	m.promptCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String(AttrAgentName, agent),
			attribute.String(AttrResponderKind, kind),
		),
	)
}

// RecordKnowledgeLookup records a knowledge base lookup outcome.
func (m *Metrics) RecordKnowledgeLookup(ctx context.Context, key string, hit bool) {
	if m == nil {
		return
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	attrs := metric.WithAttributes(attribute.String(AttrKnowledgeKey, key))
	if hit {
		m.knowledgeHits.Add(ctx, 1, attrs)
	} else {
		m.knowledgeMisses.Add(ctx, 1, attrs)
	}
}

// RecordWeatherLookup records a weather lookup by city and outcome
// ("live", "cache", "static", "error").
func (m *Metrics) RecordWeatherLookup(ctx context.Context, city, outcome string) {
	if m == nil {
		return
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	m.weatherCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String(AttrWeatherCity, city),
			attribute.String(AttrWeatherOutcome, outcome),
		),
	)
}

// RecordGraphQuery records a graph neighbor query by outcome
// ("answered", "empty", "unknown_node", "malformed").
func (m *Metrics) RecordGraphQuery(ctx context.Context, outcome string) {
	if m == nil {
		return
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	m.graphCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String(AttrGraphOutcome, outcome),
		),
	)
}

// RecordMessageSent records a message delivery between two agents.
func (m *Metrics) RecordMessageSent(ctx context.Context, from, to string) {
	if m == nil {
		return
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	m.messageCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String(AttrMessageFrom, from),
			attribute.String(AttrMessageTo, to),
		),
	)
}

// RecordError increments the error counter for the given error and component.
func (m *Metrics) RecordError(ctx context.Context, err error, component string) {
	if m == nil || err == nil {
		return
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if ae, ok := err.(*errors.AgoraError); ok {
		m.errorCounter.Add(ctx, 1,
			metric.WithAttributes(
				attribute.String("error.code", string(ae.Code)),
				attribute.String("component", component),
				attribute.String("recoverable", ae.RecoverableString()),
			),
		)
	} else {
		// Generic error
		m.errorCounter.Add(ctx, 1,
			metric.WithAttributes(
				attribute.String("error.code", "UNKNOWN"),
				attribute.String("component", component),
				attribute.String("recoverable", "unknown"),
			),
		)
	}
}

// RecordHealthStatus records the health status of a component (0=unhealthy, 1=degraded, 2=healthy).
func (m *Metrics) RecordHealthStatus(ctx context.Context, component string, status int64) {
	if m == nil {
		return
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	m.healthStatusGauge.Record(ctx, status,
		metric.WithAttributes(
			attribute.String("component", component),
		),
	)
}

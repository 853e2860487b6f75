// Copyright 2026 © The Agora Authors
// SPDX-License-Identifier: Apache-2.0

// Package assistant implements the canned-response assistant: a
// knowledge-base lookup with an optional live weather path and an
// optional vector matcher for near-miss prompts.
package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jllopis/agora/pkg/core"
	"github.com/jllopis/agora/pkg/knowledge"
	"github.com/jllopis/agora/pkg/telemetry"
	"github.com/jllopis/agora/pkg/weather"
)

// DefaultCity is queried when no city is configured for weather prompts.
const DefaultCity = "Bangalore"

// Responder answers prompts from a knowledge base. Prompts mentioning
// the weather are routed to the weather service when one is configured;
// without one, the base's static weather reply applies.
type Responder struct {
	name    string
	base    knowledge.Base
	matcher *knowledge.Matcher
	weather *weather.Service
	city    string
	logger  *slog.Logger
	metrics *telemetry.Metrics
}

// Option configures a Responder.
type Option func(*Responder)

// WithBase sets the knowledge base. Defaults to the seeded base.
func WithBase(base knowledge.Base) Option {
	return func(r *Responder) { r.base = base }
}

// WithWeather enables live weather lookups for the given city. An empty
// city defaults to DefaultCity.
func WithWeather(svc *weather.Service, city string) Option {
	return func(r *Responder) {
		r.weather = svc
		r.city = city
	}
}

// WithMatcher consults a vector matcher for prompts missing from the base.
func WithMatcher(matcher *knowledge.Matcher) Option {
	return func(r *Responder) { r.matcher = matcher }
}

// WithLogger sets the responder logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Responder) { r.logger = logger }
}

// WithMetrics attaches a metrics tracker.
func WithMetrics(metrics *telemetry.Metrics) Option {
	return func(r *Responder) { r.metrics = metrics }
}

// New creates an assistant responder for the named agent.
func New(name string, opts ...Option) *Responder {
	r := &Responder{
		name:   name,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.base == nil {
		// Without a weather service the static weather reply covers
		// weather prompts.
		if r.weather != nil {
			r.base = knowledge.NewMemoryBase(knowledge.Seed(name)...)
		} else {
			r.base = knowledge.NewMemoryBase(knowledge.SeedStatic(name)...)
		}
	}
	if r.weather != nil && r.city == "" {
		r.city = DefaultCity
	}
	return r
}

// Respond answers a prompt. Unknown prompts come back as the fallback
// reply, never as errors; only storage or embedding failures error out.
func (r *Responder) Respond(ctx context.Context, prompt string) (string, error) {
	r.logger.Info(fmt.Sprintf("Assistant Agent %s received prompt: '%s'", r.name, prompt),
		slog.String(telemetry.AttrAgentName, r.name),
	)

	response, err := r.answer(ctx, prompt)
	if err != nil {
		return "", err
	}

	r.logger.Info(fmt.Sprintf("Assistant Agent %s responding: '%s'", r.name, response),
		slog.String(telemetry.AttrAgentName, r.name),
	)
	return response, nil
}

func (r *Responder) answer(ctx context.Context, prompt string) (string, error) {
	clean := knowledge.Normalize(prompt)

	// Any prompt mentioning the weather takes the live path, or the
	// base's static weather reply when no service is configured.
	if strings.Contains(clean, "weather") {
		if r.weather != nil {
			return r.weather.Report(ctx, r.city), nil
		}
		reply, hit, err := r.base.Lookup(ctx, "weather")
		r.metrics.RecordKnowledgeLookup(ctx, "weather", hit)
		if err != nil {
			return "", err
		}
		if hit {
			return reply, nil
		}
	}

	reply, hit, err := r.base.Lookup(ctx, clean)
	r.metrics.RecordKnowledgeLookup(ctx, clean, hit)
	if err != nil {
		return "", err
	}
	if hit {
		return reply, nil
	}

	if r.matcher != nil {
		key, found, merr := r.matcher.Nearest(ctx, clean)
		if merr != nil {
			return "", merr
		}
		if found {
			if reply, hit, err = r.base.Lookup(ctx, key); err != nil {
				return "", err
			}
			if hit {
				r.logger.Debug("prompt resolved by vector match",
					slog.String("prompt", clean),
					slog.String(telemetry.AttrKnowledgeKey, key),
				)
				return reply, nil
			}
		}
	}

	return knowledge.FallbackReply, nil
}

var _ core.Responder = (*Responder)(nil)

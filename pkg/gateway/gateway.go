// Copyright 2026 © The Agora Authors
// SPDX-License-Identifier: Apache-2.0

// Package gateway exposes the agents over HTTP: ask the assistant,
// query the graph, fetch the weather and stream the demo.
package gateway

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jllopis/agora/pkg/core"
	"github.com/jllopis/agora/pkg/graph"
	"github.com/jllopis/agora/pkg/runtime"
	"github.com/jllopis/agora/pkg/telemetry"
	"github.com/jllopis/agora/pkg/transcript"
	"github.com/jllopis/agora/pkg/weather"
)

// Gateway holds the components served over HTTP. Nil components return
// 503 from their endpoints, so a partial deployment still serves the
// rest.
type Gateway struct {
	assistant core.Responder
	graph     *graph.Graph
	weather   *weather.Service
	city      string
	recorder  transcript.Recorder
	mailboxes runtime.MailboxFactory
	health    *core.HealthRegistry
	metrics   *telemetry.Metrics
	logger    *slog.Logger
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithAssistant serves /v1/ask from a responder.
func WithAssistant(responder core.Responder) Option {
	return func(g *Gateway) { g.assistant = responder }
}

// WithGraph serves the graph endpoints.
func WithGraph(gr *graph.Graph) Option {
	return func(g *Gateway) { g.graph = gr }
}

// WithWeather serves /v1/weather. The city is the default for requests
// without one.
func WithWeather(svc *weather.Service, city string) Option {
	return func(g *Gateway) {
		g.weather = svc
		g.city = city
	}
}

// WithTranscript serves /v1/transcript from a recorder.
func WithTranscript(recorder transcript.Recorder) Option {
	return func(g *Gateway) { g.recorder = recorder }
}

// WithMailboxes sets the inbox backend for the demo agents.
func WithMailboxes(factory runtime.MailboxFactory) Option {
	return func(g *Gateway) { g.mailboxes = factory }
}

// WithHealth reports component health on /healthz.
func WithHealth(registry *core.HealthRegistry) Option {
	return func(g *Gateway) { g.health = registry }
}

// WithMetrics attaches a metrics tracker.
func WithMetrics(metrics *telemetry.Metrics) Option {
	return func(g *Gateway) { g.metrics = metrics }
}

// WithLogger sets the gateway logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) { g.logger = logger }
}

// New creates a gateway.
func New(opts ...Option) *Gateway {
	g := &Gateway{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Router builds the HTTP handler.
func (g *Gateway) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(g.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", g.handleHealth)

	r.Route("/v1", func(v1 chi.Router) {
		v1.Post("/ask", g.handleAsk)
		v1.Get("/weather", g.handleWeather)
		v1.Get("/graph/neighbors", g.handleNeighbors)
		v1.Get("/graph/dot", g.handleDOT)
		v1.Get("/transcript", g.handleTranscript)
		v1.Get("/demo/stream", g.handleDemoStream)
	})

	return r
}

// logRequests writes one slog line per request with the method, path,
// status, duration and the chi request id.
func (g *Gateway) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		g.logger.Info("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (g *Gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := core.HealthHealthy
	var components []core.HealthResult
	if g.health != nil {
		components, status = g.health.CheckAll(r.Context())
	}

	code := http.StatusOK
	if status == core.HealthUnhealthy {
		code = http.StatusServiceUnavailable
	}
	RespondJSON(w, code, map[string]interface{}{
		"status":     status,
		"components": components,
	})
}

type askRequest struct {
	Prompt string `json:"prompt"`
}

func (g *Gateway) handleAsk(w http.ResponseWriter, r *http.Request) {
	if g.assistant == nil {
		RespondError(w, http.StatusServiceUnavailable, "assistant unavailable")
		return
	}

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		RespondError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	response, err := g.assistant.Respond(r.Context(), req.Prompt)
	if err != nil {
		g.logger.Error("ask failed", slog.String("error", err.Error()))
		g.metrics.RecordError(r.Context(), err, "gateway")
		RespondError(w, http.StatusInternalServerError, "assistant failed")
		return
	}

	RespondJSON(w, http.StatusOK, map[string]string{
		"prompt":   req.Prompt,
		"response": response,
	})
}

func (g *Gateway) handleWeather(w http.ResponseWriter, r *http.Request) {
	if g.weather == nil {
		RespondError(w, http.StatusServiceUnavailable, "weather unavailable")
		return
	}

	city := strings.TrimSpace(r.URL.Query().Get("city"))
	if city == "" {
		city = g.city
	}
	if city == "" {
		RespondError(w, http.StatusBadRequest, "city query parameter is required")
		return
	}

	RespondJSON(w, http.StatusOK, map[string]string{
		"city":   city,
		"report": g.weather.Report(r.Context(), city),
	})
}

func (g *Gateway) handleNeighbors(w http.ResponseWriter, r *http.Request) {
	if g.graph == nil {
		RespondError(w, http.StatusServiceUnavailable, "graph unavailable")
		return
	}

	node := strings.TrimSpace(r.URL.Query().Get("node"))
	if node == "" {
		RespondError(w, http.StatusBadRequest, "node query parameter is required")
		return
	}

	canonical, ok := g.graph.Resolve(node)
	if !ok {
		RespondError(w, http.StatusNotFound, "node not found: "+node)
		return
	}

	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"node":      canonical,
		"neighbors": g.graph.Neighbors(canonical),
	})
}

func (g *Gateway) handleDOT(w http.ResponseWriter, r *http.Request) {
	if g.graph == nil {
		RespondError(w, http.StatusServiceUnavailable, "graph unavailable")
		return
	}

	dot, err := graph.MarshalDOT(g.graph)
	if err != nil {
		RespondError(w, http.StatusInternalServerError, "graph export failed")
		return
	}

	w.Header().Set("Content-Type", "text/vnd.graphviz")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(dot)
}

func (g *Gateway) handleTranscript(w http.ResponseWriter, r *http.Request) {
	if g.recorder == nil {
		RespondError(w, http.StatusServiceUnavailable, "transcript unavailable")
		return
	}

	filter := transcript.Filter{
		RunID: r.URL.Query().Get("run_id"),
		Agent: r.URL.Query().Get("agent"),
		Kind:  r.URL.Query().Get("kind"),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			RespondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = limit
	}

	entries, err := g.recorder.List(r.Context(), filter)
	if err != nil {
		g.logger.Error("transcript list failed", slog.String("error", err.Error()))
		RespondError(w, http.StatusInternalServerError, "transcript unavailable")
		return
	}
	if entries == nil {
		entries = []transcript.Entry{}
	}

	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
	})
}

// handleDemoStream runs the canned demo and streams each step as an
// SSE event, followed by the DOT artifact and a done event.
func (g *Gateway) handleDemoStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	result, err := runtime.RunDemo(r.Context(), runtime.DemoConfig{
		Assistant: g.assistant,
		Graph:     g.graph,
		Mailboxes: g.mailboxes,
		Recorder:  g.recorder,
		Logger:    g.logger,
		Metrics:   g.metrics,
	})
	if err != nil {
		g.logger.Error("demo failed", slog.String("error", err.Error()))
		RespondError(w, http.StatusInternalServerError, "demo failed")
		return
	}

	SetupSSEHeaders(w)
	for _, step := range result.Steps {
		SendSSEEvent(w, flusher, "step", step)
	}
	SendSSEEvent(w, flusher, "dot", map[string]string{"dot": string(result.DOT)})
	SendSSEEvent(w, flusher, "done", map[string]int{"steps": len(result.Steps)})
}

package graph

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jllopis/agora/pkg/telemetry"
)

// Query outcome labels for metrics.
const (
	OutcomeAnswered    = "answered"
	OutcomeEmpty       = "empty"
	OutcomeUnknownNode = "unknown_node"
	OutcomeMalformed   = "malformed"
)

const malformedReply = "Query format not understood. Please use 'Who is connected to [Node Name]?'"

// Responder answers "Who is connected to X?" queries against a graph.
// The target node is matched case-insensitively; answers use the
// graph's canonical spellings, unknown nodes echo the user's own.
type Responder struct {
	graph   *Graph
	logger  *slog.Logger
	metrics *telemetry.Metrics
}

// ResponderOption configures a Responder.
type ResponderOption func(*Responder)

// WithLogger sets the responder logger.
func WithLogger(logger *slog.Logger) ResponderOption {
	return func(r *Responder) { r.logger = logger }
}

// WithMetrics attaches a metrics tracker.
func WithMetrics(metrics *telemetry.Metrics) ResponderOption {
	return func(r *Responder) { r.metrics = metrics }
}

// NewResponder creates a query responder over a graph.
func NewResponder(g *Graph, opts ...ResponderOption) *Responder {
	r := &Responder{graph: g, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Respond parses the query, resolves the target node and renders the
// answer. Malformed or unknown queries come back as user-facing text,
// never as errors.
func (r *Responder) Respond(ctx context.Context, query string) (string, error) {
	target, ok := ParseTarget(query)
	if !ok {
		r.metrics.RecordGraphQuery(ctx, OutcomeMalformed)
		return malformedReply, nil
	}

	canonical, found := r.graph.Resolve(target)
	if !found {
		r.metrics.RecordGraphQuery(ctx, OutcomeUnknownNode)
		return "The node '" + target + "' does not exist in the graph.", nil
	}

	neighbors := r.graph.Neighbors(canonical)
	var reply string
	outcome := OutcomeAnswered
	if len(neighbors) == 0 {
		outcome = OutcomeEmpty
		reply = "'" + canonical + "' has no connections in the graph."
	} else {
		reply = "The following are connected to '" + canonical + "': " + strings.Join(neighbors, ", ") + "."
	}

	r.metrics.RecordGraphQuery(ctx, outcome)
	r.logger.Debug("graph query answered",
		slog.String(telemetry.AttrGraphNode, canonical),
		slog.String(telemetry.AttrGraphOutcome, outcome),
		slog.Int(telemetry.AttrGraphNeighbors, len(neighbors)),
	)
	return reply, nil
}

// ParseTarget extracts the node name from a "Who is connected to X?"
// query. The split on "to " is case-insensitive but the target keeps
// the user's spelling.
func ParseTarget(query string) (string, bool) {
	lower := strings.ToLower(query)
	idx := strings.LastIndex(lower, "to ")
	if idx < 0 {
		return "", false
	}
	target := strings.Trim(query[idx+len("to "):], "? ")
	if target == "" {
		return "", false
	}
	return target, true
}

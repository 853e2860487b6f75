package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jllopis/agora/pkg/assistant"
	"github.com/jllopis/agora/pkg/bus"
	"github.com/jllopis/agora/pkg/config"
	"github.com/jllopis/agora/pkg/graph"
	"github.com/jllopis/agora/pkg/knowledge"
	"github.com/jllopis/agora/pkg/knowledge/ollama"
	"github.com/jllopis/agora/pkg/knowledge/qdrant"
	"github.com/jllopis/agora/pkg/mailbox"
	"github.com/jllopis/agora/pkg/resilience"
	"github.com/jllopis/agora/pkg/runtime"
	"github.com/jllopis/agora/pkg/transcript"
	"github.com/jllopis/agora/pkg/weather"
)

// closeFunc releases resources a builder opened. Always safe to call.
type closeFunc func()

func noClose() {}

// buildWeather assembles the weather service from config: live client,
// retry, circuit breaker and the optional bolt cache. Returns nil when
// weather is disabled.
func buildWeather(cfg *config.Config, logger *slog.Logger) (*weather.Service, closeFunc, error) {
	if !cfg.Weather.Enabled {
		return nil, noClose, nil
	}

	timeout := time.Duration(cfg.Weather.TimeoutSeconds) * time.Second
	client := weather.NewClient(cfg.Weather.BaseURL, timeout)

	retry := resilience.DefaultRetryConfig()
	if cfg.Weather.Retries > 0 {
		retry = retry.WithMaxAttempts(cfg.Weather.Retries)
	}
	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{})

	opts := []weather.ServiceOption{
		weather.WithRetry(retry),
		weather.WithCallTimeout(timeout),
		weather.WithBreaker(breaker),
		weather.WithServiceLogger(logger),
	}

	closer := noClose
	if cfg.Weather.CachePath != "" {
		cache, err := weather.OpenCache(cfg.Weather.CachePath)
		if err != nil {
			return nil, noClose, fmt.Errorf("open weather cache: %w", err)
		}
		ttl := time.Duration(cfg.Weather.CacheTTLMinutes) * time.Minute
		opts = append(opts, weather.WithCache(cache, ttl))
		closer = func() { _ = cache.Close() }
	}

	return weather.NewService(client, opts...), closer, nil
}

// buildAssistant assembles Cody's responder: seeded knowledge base,
// optional YAML seed file, optional vector matcher and the weather
// service. The knowledge base is returned alongside so callers can
// expose it directly.
func buildAssistant(ctx context.Context, cfg *config.Config, logger *slog.Logger, svc *weather.Service) (*assistant.Responder, knowledge.Base, error) {
	name := "Cody"

	entries := knowledge.Seed(name)
	if svc == nil {
		entries = knowledge.SeedStatic(name)
	}
	if cfg.Knowledge.File != "" {
		extra, err := knowledge.LoadFile(cfg.Knowledge.File)
		if err != nil {
			return nil, nil, fmt.Errorf("load knowledge file: %w", err)
		}
		entries = append(entries, extra...)
	}

	base := knowledge.NewMemoryBase(entries...)
	opts := []assistant.Option{
		assistant.WithBase(base),
		assistant.WithLogger(logger),
	}
	if svc != nil {
		opts = append(opts, assistant.WithWeather(svc, cfg.Weather.City))
	}

	if cfg.Knowledge.Vector.Enabled {
		matcher, err := buildMatcher(ctx, cfg.Knowledge.Vector, entries)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, assistant.WithMatcher(matcher))
	}

	return assistant.New(name, opts...), base, nil
}

// buildMatcher wires the Qdrant-backed near-miss matcher and seeds it
// with the knowledge base keys.
func buildMatcher(ctx context.Context, cfg config.VectorConfig, entries []knowledge.Entry) (*knowledge.Matcher, error) {
	embedder := ollama.NewEmbedder(cfg.EmbedderBaseURL, cfg.EmbedderModel)
	index, err := qdrant.New(cfg.QdrantAddr, cfg.Collection)
	if err != nil {
		return nil, fmt.Errorf("connect qdrant: %w", err)
	}

	// Probe the embedder once so the collection is created with the
	// model's vector size.
	probe, err := embedder.Embed(ctx, "probe")
	if err != nil {
		return nil, fmt.Errorf("probe embedder: %w", err)
	}
	if err := index.EnsureCollection(ctx, uint64(len(probe))); err != nil {
		return nil, fmt.Errorf("ensure qdrant collection: %w", err)
	}

	matcher, err := knowledge.NewMatcher(embedder, index, float32(cfg.ScoreThreshold))
	if err != nil {
		return nil, err
	}
	if err := matcher.Seed(ctx, entries); err != nil {
		return nil, fmt.Errorf("seed knowledge index: %w", err)
	}
	return matcher, nil
}

// buildGraph loads the configured graph file or falls back to the
// built-in hospital graph.
func buildGraph(cfg *config.Config) (*graph.Graph, error) {
	if cfg.Graph.File == "" {
		return graph.Hospital(), nil
	}
	return graph.LoadFile(cfg.Graph.File)
}

// buildTranscript opens the configured transcript backend.
func buildTranscript(cfg *config.Config) (transcript.Recorder, closeFunc, error) {
	switch cfg.Transcript.Backend {
	case "", "memory":
		return transcript.NewMemory(), noClose, nil
	case "sqlite":
		db, err := sql.Open("sqlite", cfg.Transcript.DSN)
		if err != nil {
			return nil, noClose, fmt.Errorf("open transcript db: %w", err)
		}
		recorder, err := transcript.NewSQLite(db)
		if err != nil {
			_ = db.Close()
			return nil, noClose, err
		}
		return recorder, func() { _ = db.Close() }, nil
	default:
		return nil, noClose, fmt.Errorf("unknown transcript backend %q", cfg.Transcript.Backend)
	}
}

// buildMailboxes opens the configured mailbox backend and returns a
// per-agent factory. The sqlite backend shares one database, keyed by
// owner.
func buildMailboxes(cfg *config.Config) (runtime.MailboxFactory, closeFunc, error) {
	switch cfg.Mailbox.Backend {
	case "", "memory":
		factory := func(string) (mailbox.Mailbox, error) {
			return mailbox.NewMemory(), nil
		}
		return factory, noClose, nil
	case "sqlite":
		db, err := sql.Open("sqlite", cfg.Mailbox.DSN)
		if err != nil {
			return nil, noClose, fmt.Errorf("open mailbox db: %w", err)
		}
		factory := func(owner string) (mailbox.Mailbox, error) {
			return mailbox.NewSQLite(db, owner)
		}
		return factory, func() { _ = db.Close() }, nil
	default:
		return nil, noClose, fmt.Errorf("unknown mailbox backend %q", cfg.Mailbox.Backend)
	}
}

// buildDispatcher opens the configured message bus.
func buildDispatcher(cfg *config.Config, logger *slog.Logger) (bus.Dispatcher, error) {
	switch cfg.Bus.Backend {
	case "", "local":
		return bus.NewLocal(bus.WithLocalLogger(logger)), nil
	case "kafka":
		return bus.NewKafka(bus.KafkaConfig{
			Brokers: cfg.Bus.Kafka.Brokers,
			Topic:   cfg.Bus.Kafka.Topic,
			GroupID: cfg.Bus.Kafka.GroupID,
		}, bus.WithKafkaLogger(logger))
	default:
		return nil, fmt.Errorf("unknown bus backend %q", cfg.Bus.Backend)
	}
}

package weather

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jllopis/agora/pkg/core"
	"github.com/jllopis/agora/pkg/errors"
	"github.com/jllopis/agora/pkg/resilience"
	"github.com/jllopis/agora/pkg/telemetry"
)

// Lookup outcome labels for metrics.
const (
	OutcomeLive   = "live"
	OutcomeCache  = "cache"
	OutcomeStatic = "static"
	OutcomeError  = "error"
)

// Service wraps a weather source with retry, timeout, circuit breaker
// and a last-known-good cache. Report never fails: when everything is
// exhausted it renders the failure as user-facing text.
type Service struct {
	source   Source
	retry    resilience.RetryConfig
	timeout  time.Duration
	breaker  *resilience.CircuitBreaker
	cache    *Cache
	cacheTTL time.Duration
	logger   *slog.Logger
	metrics  *telemetry.Metrics
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithRetry sets the retry policy for upstream calls.
func WithRetry(retry resilience.RetryConfig) ServiceOption {
	return func(s *Service) { s.retry = retry }
}

// WithCallTimeout bounds each upstream attempt.
func WithCallTimeout(timeout time.Duration) ServiceOption {
	return func(s *Service) { s.timeout = timeout }
}

// WithBreaker protects the upstream with a circuit breaker.
func WithBreaker(breaker *resilience.CircuitBreaker) ServiceOption {
	return func(s *Service) { s.breaker = breaker }
}

// WithCache serves cached observations when the upstream fails. A ttl
// of zero keeps cached observations valid forever.
func WithCache(cache *Cache, ttl time.Duration) ServiceOption {
	return func(s *Service) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

// WithServiceLogger sets the service logger.
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = logger }
}

// WithServiceMetrics attaches a metrics tracker.
func WithServiceMetrics(metrics *telemetry.Metrics) ServiceOption {
	return func(s *Service) { s.metrics = metrics }
}

// NewService creates a weather service over the given source.
func NewService(source Source, opts ...ServiceOption) *Service {
	s := &Service{
		source: source,
		retry:  resilience.DefaultRetryConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current looks up the current conditions for a city. The returned
// outcome label says where the observation came from ("live" or
// "cache"); on error the outcome is "error".
func (s *Service) Current(ctx context.Context, city string) (Observation, string, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return Observation{}, OutcomeError, errors.New(errors.CodeInvalidInput, "city is empty", nil)
	}

	// The observation is captured in the attempt itself so a timed-out
	// attempt left running in the background never writes into it.
	var obs Observation
	attempt := func() error {
		value, err := resilience.WithTimeoutResult(ctx, resilience.TimeoutConfig{Duration: s.timeout, ErrorOnTimeout: true}, func() (interface{}, error) {
			return s.source.Current(ctx, city)
		})
		if err != nil {
			return err
		}
		obs = value.(Observation)
		return nil
	}
	call := attempt
	if s.breaker != nil {
		call = func() error { return s.breaker.Call(ctx, attempt) }
	}

	outcome := OutcomeLive
	value, err := resilience.WithFallback(ctx,
		func() (interface{}, error) {
			if err := s.retry.Do(ctx, call); err != nil {
				return nil, err
			}
			return obs, nil
		},
		resilience.FallbackFunc(func(ctx context.Context, primaryErr error) (interface{}, error) {
			cached, at, found := s.cachedObservation(city)
			if !found {
				return nil, primaryErr
			}
			s.logger.Warn("weather upstream failed, serving cached observation",
				slog.String(telemetry.AttrWeatherCity, city),
				slog.Time("cached_at", at),
				slog.String("error", primaryErr.Error()),
			)
			outcome = OutcomeCache
			return cached, nil
		}),
	)
	if err != nil {
		s.metrics.RecordWeatherLookup(ctx, city, OutcomeError)
		s.metrics.RecordError(ctx, err, "weather")
		return Observation{}, OutcomeError, err
	}

	obs = value.(Observation)
	if outcome == OutcomeLive && s.cache != nil {
		if cerr := s.cache.Put(city, obs); cerr != nil {
			s.logger.Warn("weather cache write failed",
				slog.String(telemetry.AttrWeatherCity, city),
				slog.String("error", cerr.Error()),
			)
		}
	}
	s.metrics.RecordWeatherLookup(ctx, city, outcome)
	return obs, outcome, nil
}

// cachedObservation reads the last known good observation for the city,
// honoring the cache TTL. A ttl of zero keeps entries valid forever.
func (s *Service) cachedObservation(city string) (Observation, time.Time, bool) {
	if s.cache == nil {
		return Observation{}, time.Time{}, false
	}
	cached, at, found, err := s.cache.Get(city)
	if err != nil || !found {
		return Observation{}, time.Time{}, false
	}
	if s.cacheTTL > 0 && time.Since(at) > s.cacheTTL {
		return Observation{}, time.Time{}, false
	}
	return cached, at, true
}

// Report renders the current conditions for a city as a sentence. A
// lookup failure is rendered as an apology carrying the upstream error
// text, never returned as an error.
func (s *Service) Report(ctx context.Context, city string) string {
	obs, _, err := s.Current(ctx, city)
	if err != nil {
		return fmt.Sprintf("Sorry, I couldn't get the weather for %s. Error: %s", city, causeText(err))
	}
	return fmt.Sprintf("The current temperature in %s is %d°C with %s.", city, obs.TempC, obs.Description)
}

// Health reports the service health from the circuit breaker state.
func (s *Service) Health() core.HealthChecker {
	return core.CheckerFunc(func(ctx context.Context) core.HealthResult {
		result := core.HealthResult{Status: core.HealthHealthy, LastCheck: time.Now().UTC()}
		if s.breaker == nil {
			return result
		}
		switch s.breaker.State() {
		case resilience.StateOpen:
			result.Status = core.HealthUnhealthy
			result.Message = "circuit breaker open"
		case resilience.StateHalfOpen:
			result.Status = core.HealthDegraded
			result.Message = "circuit breaker half-open"
		}
		return result
	})
}

// BreakerState exposes the circuit breaker state for health endpoints.
// Returns StateClosed when no breaker is configured.
func (s *Service) BreakerState() resilience.CircuitBreakerState {
	if s.breaker == nil {
		return resilience.StateClosed
	}
	return s.breaker.State()
}

// causeText walks the error chain and returns the most specific text:
// the deepest wrapped cause, or the innermost message when the chain
// ends in a typed error with no cause.
func causeText(err error) string {
	for {
		ae, ok := err.(*errors.AgoraError)
		if !ok {
			return err.Error()
		}
		if ae.Err == nil {
			return ae.Message
		}
		err = ae.Err
	}
}

package weather

import (
	"context"
	"sync"
	"time"

	"github.com/jllopis/agora/pkg/errors"
)

// StaticSource returns the same observation on every call. Useful for
// tests and offline demos.
type StaticSource struct {
	Obs Observation
	Err error
}

// Current returns the configured observation or error.
func (s *StaticSource) Current(ctx context.Context, city string) (Observation, error) {
	if s.Err != nil {
		return Observation{}, s.Err
	}
	obs := s.Obs
	if obs.City == "" {
		obs.City = city
	}
	return obs, nil
}

// FailingSource fails every call.
type FailingSource struct {
	Err error
}

// Current returns the configured error, or a generic upstream failure.
func (f *FailingSource) Current(ctx context.Context, city string) (Observation, error) {
	if f.Err != nil {
		return Observation{}, f.Err
	}
	return Observation{}, errors.New(errors.CodeWeatherUpstream, "weather source unavailable", nil).
		WithContext("city", city).
		WithRecoverable(true)
}

// ScriptedStep is one step of a scripted source. A non-zero Delay makes
// the step sleep before answering, for timeout tests.
type ScriptedStep struct {
	Obs   Observation
	Err   error
	Delay time.Duration
}

// ScriptedSource plays back a fixed sequence of observations and
// errors, repeating the last step once the script runs out.
type ScriptedSource struct {
	mu        sync.Mutex
	Steps     []ScriptedStep
	CallCount int
}

// Current returns the next scripted step.
func (s *ScriptedSource) Current(ctx context.Context, city string) (Observation, error) {
	s.mu.Lock()
	if len(s.Steps) == 0 {
		s.mu.Unlock()
		return Observation{}, errors.New(errors.CodeWeatherUpstream, "scripted source has no steps", nil)
	}

	idx := s.CallCount
	if idx >= len(s.Steps) {
		idx = len(s.Steps) - 1
	}
	s.CallCount++
	step := s.Steps[idx]
	s.mu.Unlock()

	// Sleep outside the lock so an abandoned slow call does not block
	// the next attempt.
	if step.Delay > 0 {
		time.Sleep(step.Delay)
	}

	if step.Err != nil {
		return Observation{}, step.Err
	}
	obs := step.Obs
	if obs.City == "" {
		obs.City = city
	}
	return obs, nil
}

var (
	_ Source = (*StaticSource)(nil)
	_ Source = (*FailingSource)(nil)
	_ Source = (*ScriptedSource)(nil)
)

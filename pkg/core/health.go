// SPDX-License-Identifier: Apache-2.0

package core

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	// HealthHealthy indicates the component is fully operational.
	HealthHealthy HealthStatus = "HEALTHY"

	// HealthDegraded indicates the component is operational but with reduced capacity.
	HealthDegraded HealthStatus = "DEGRADED"

	// HealthUnhealthy indicates the component is not operational.
	HealthUnhealthy HealthStatus = "UNHEALTHY"
)

// HealthResult represents the result of a health check.
type HealthResult struct {
	Status    HealthStatus `json:"status"`
	Component string       `json:"component,omitempty"`
	Message   string       `json:"message,omitempty"`
	LastCheck time.Time    `json:"last_check"`
	Err       string       `json:"error,omitempty"`
}

// HealthChecker checks the health of a component.
type HealthChecker interface {
	// Check returns the current health status of the component.
	// The context can be used to implement timeouts.
	Check(ctx context.Context) HealthResult
}

// CheckerFunc adapts a function to the HealthChecker interface.
type CheckerFunc func(ctx context.Context) HealthResult

// Check calls the underlying function.
func (f CheckerFunc) Check(ctx context.Context) HealthResult {
	result := f(ctx)
	if result.LastCheck.IsZero() {
		result.LastCheck = time.Now().UTC()
	}
	return result
}

// StaticChecker is a checker that always reports the same status.
// Useful for tests or components with static health.
type StaticChecker struct {
	status  HealthStatus
	message string
}

// NewStaticChecker creates a checker with a constant status.
func NewStaticChecker(status HealthStatus, message string) *StaticChecker {
	return &StaticChecker{status: status, message: message}
}

// Check returns the constant health status.
func (s *StaticChecker) Check(ctx context.Context) HealthResult {
	return HealthResult{
		Status:    s.status,
		Message:   s.message,
		LastCheck: time.Now().UTC(),
	}
}

// HealthRegistry holds named checkers and reports component health in
// registration order.
type HealthRegistry struct {
	mu       sync.RWMutex
	checkers map[string]HealthChecker
	order    []string
}

// NewHealthRegistry creates an empty registry.
func NewHealthRegistry() *HealthRegistry {
	return &HealthRegistry{checkers: make(map[string]HealthChecker)}
}

// Register registers a health checker for a component. Registering the
// same name twice replaces the checker but keeps its original position.
func (r *HealthRegistry) Register(name string, checker HealthChecker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.checkers[name]; !exists {
		r.order = append(r.order, name)
	}
	r.checkers[name] = checker
}

// Check checks the health of a specific component.
func (r *HealthRegistry) Check(ctx context.Context, name string) (HealthResult, error) {
	r.mu.RLock()
	checker, exists := r.checkers[name]
	r.mu.RUnlock()

	if !exists {
		return HealthResult{}, fmt.Errorf("checker not registered: %s", name)
	}

	result := checker.Check(ctx)
	result.Component = name
	return result, nil
}

// CheckAll checks every registered component in registration order and
// returns the individual results plus the overall status. The overall
// status is Healthy only if every component is Healthy; a single
// Unhealthy component makes the whole registry Unhealthy.
func (r *HealthRegistry) CheckAll(ctx context.Context) ([]HealthResult, HealthStatus) {
	r.mu.RLock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	checkers := make(map[string]HealthChecker, len(r.checkers))
	for name, checker := range r.checkers {
		checkers[name] = checker
	}
	r.mu.RUnlock()

	results := make([]HealthResult, 0, len(names))
	degraded := 0
	unhealthy := 0

	for _, name := range names {
		result := checkers[name].Check(ctx)
		result.Component = name
		results = append(results, result)

		switch result.Status {
		case HealthDegraded:
			degraded++
		case HealthUnhealthy:
			unhealthy++
		}
	}

	overall := HealthHealthy
	if unhealthy > 0 {
		overall = HealthUnhealthy
	} else if degraded > 0 {
		overall = HealthDegraded
	}

	return results, overall
}

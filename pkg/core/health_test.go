// SPDX-License-Identifier: Apache-2.0

package core

import (
	"context"
	"testing"
	"time"
)

func TestHealthStatusConstants(t *testing.T) {
	tests := []struct {
		status HealthStatus
		name   string
	}{
		{HealthHealthy, "HEALTHY"},
		{HealthDegraded, "DEGRADED"},
		{HealthUnhealthy, "UNHEALTHY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if string(tt.status) != tt.name {
				t.Errorf("expected %q, got %q", tt.name, string(tt.status))
			}
		})
	}
}

func TestStaticChecker(t *testing.T) {
	tests := []struct {
		name   string
		status HealthStatus
	}{
		{"healthy", HealthHealthy},
		{"degraded", HealthDegraded},
		{"unhealthy", HealthUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := NewStaticChecker(tt.status, "test message")
			result := checker.Check(context.Background())

			if result.Status != tt.status {
				t.Errorf("expected %v, got %v", tt.status, result.Status)
			}
			if result.Message != "test message" {
				t.Errorf("expected message 'test message', got %q", result.Message)
			}
			if result.LastCheck.IsZero() {
				t.Errorf("expected LastCheck to be set")
			}
		})
	}
}

func TestCheckerFunc(t *testing.T) {
	callCount := 0
	checker := CheckerFunc(func(ctx context.Context) HealthResult {
		callCount++
		return HealthResult{
			Status:  HealthHealthy,
			Message: "ok",
		}
	})

	result := checker.Check(context.Background())
	if callCount != 1 {
		t.Errorf("expected 1 call, got %d", callCount)
	}
	if result.Status != HealthHealthy {
		t.Errorf("expected Healthy")
	}
	if result.LastCheck.IsZero() {
		t.Errorf("expected LastCheck to be set by wrapper")
	}
}

func TestHealthRegistryOverall(t *testing.T) {
	registry := NewHealthRegistry()

	registry.Register("weather", NewStaticChecker(HealthHealthy, "ok"))
	registry.Register("mailbox", NewStaticChecker(HealthDegraded, "slow"))
	registry.Register("knowledge", NewStaticChecker(HealthUnhealthy, "down"))

	results, overall := registry.CheckAll(context.Background())

	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}

	// Overall status should be Unhealthy if any component is Unhealthy
	if overall != HealthUnhealthy {
		t.Errorf("expected Unhealthy overall, got %v", overall)
	}
}

func TestHealthRegistryDegraded(t *testing.T) {
	registry := NewHealthRegistry()

	registry.Register("weather", NewStaticChecker(HealthHealthy, "ok"))
	registry.Register("mailbox", NewStaticChecker(HealthDegraded, "slow"))

	_, overall := registry.CheckAll(context.Background())

	// Overall status should be Degraded if no Unhealthy but some Degraded
	if overall != HealthDegraded {
		t.Errorf("expected Degraded overall, got %v", overall)
	}
}

func TestHealthRegistryOrder(t *testing.T) {
	registry := NewHealthRegistry()

	registry.Register("weather", NewStaticChecker(HealthHealthy, "ok"))
	registry.Register("mailbox", NewStaticChecker(HealthHealthy, "ok"))
	registry.Register("graph", NewStaticChecker(HealthHealthy, "ok"))

	results, overall := registry.CheckAll(context.Background())

	if overall != HealthHealthy {
		t.Errorf("expected Healthy overall, got %v", overall)
	}

	want := []string{"weather", "mailbox", "graph"}
	for i, name := range want {
		if results[i].Component != name {
			t.Errorf("expected component %q at %d, got %q", name, i, results[i].Component)
		}
	}
}

func TestCheckSpecific(t *testing.T) {
	registry := NewHealthRegistry()
	registry.Register("weather", NewStaticChecker(HealthHealthy, "ok"))

	result, err := registry.Check(context.Background(), "weather")
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if result.Status != HealthHealthy {
		t.Errorf("expected Healthy")
	}
	if result.Component != "weather" {
		t.Errorf("expected component to be set")
	}
}

func TestCheckSpecificNotFound(t *testing.T) {
	registry := NewHealthRegistry()

	_, err := registry.Check(context.Background(), "nonexistent")
	if err == nil {
		t.Errorf("expected error for nonexistent checker")
	}
}

func TestCheckWithContext(t *testing.T) {
	registry := NewHealthRegistry()

	// Checker that respects context timeout
	checker := CheckerFunc(func(ctx context.Context) HealthResult {
		select {
		case <-ctx.Done():
			return HealthResult{
				Status:  HealthUnhealthy,
				Message: "context timeout",
			}
		case <-time.After(100 * time.Millisecond):
			return HealthResult{
				Status:  HealthHealthy,
				Message: "ok",
			}
		}
	})

	registry.Register("slow_service", checker)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	result, _ := registry.Check(ctx, "slow_service")
	if result.Status != HealthUnhealthy {
		t.Errorf("expected Unhealthy due to timeout")
	}
}

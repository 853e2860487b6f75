// Copyright 2026 © The Agora Authors
// SPDX-License-Identifier: Apache-2.0

// Package transcript records prompt/response exchanges so a run can be
// replayed and inspected after the fact.
package transcript

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry is one recorded prompt/response exchange.
type Entry struct {
	ID        string    `json:"id"`
	RunID     string    `json:"run_id,omitempty"`
	Agent     string    `json:"agent"`
	Role      string    `json:"role,omitempty"`
	Kind      string    `json:"kind,omitempty"`
	Prompt    string    `json:"prompt"`
	Response  string    `json:"response"`
	CreatedAt time.Time `json:"created_at"`
}

// Filter narrows a List call. Zero-valued fields match everything.
type Filter struct {
	RunID string
	Agent string
	Kind  string
	Limit int
}

// Recorder persists exchanges in the order they happened.
type Recorder interface {
	// Record appends an exchange. A missing ID or timestamp is filled in.
	Record(ctx context.Context, entry Entry) error

	// List returns recorded exchanges matching the filter, oldest first.
	List(ctx context.Context, filter Filter) ([]Entry, error)
}

// normalize fills in the generated fields of an entry.
func normalize(entry Entry) Entry {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	entry.Agent = strings.TrimSpace(entry.Agent)
	return entry
}

// matches reports whether an entry passes the filter.
func (f Filter) matches(entry Entry) bool {
	if f.RunID != "" && entry.RunID != f.RunID {
		return false
	}
	if f.Agent != "" && entry.Agent != f.Agent {
		return false
	}
	if f.Kind != "" && entry.Kind != f.Kind {
		return false
	}
	return true
}

// Memory implements Recorder with in-memory storage. Data is lost on
// restart.
type Memory struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewMemory creates an in-memory recorder.
func NewMemory() *Memory {
	return &Memory{}
}

// Record appends an exchange.
func (m *Memory) Record(_ context.Context, entry Entry) error {
	entry = normalize(entry)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

// List returns matching exchanges, oldest first.
func (m *Memory) List(_ context.Context, filter Filter) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Entry
	for _, entry := range m.entries {
		if !filter.matches(entry) {
			continue
		}
		out = append(out, entry)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

var _ Recorder = (*Memory)(nil)

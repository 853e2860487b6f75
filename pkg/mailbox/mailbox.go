// Copyright 2026 © The Agora Authors
// SPDX-License-Identifier: Apache-2.0

// Package mailbox provides ordered inbox storage for agents.
package mailbox

import (
	"context"
	"sync"
)

// Mailbox stores the messages delivered to a single agent, in arrival
// order. Duplicates are allowed; an inbox is a log, not a set.
type Mailbox interface {
	// Append adds an entry to the end of the inbox.
	Append(ctx context.Context, entry string) error

	// Entries returns all entries in arrival order.
	Entries(ctx context.Context) ([]string, error)

	// Len returns the number of entries.
	Len(ctx context.Context) (int, error)

	// Clear removes all entries.
	Clear(ctx context.Context) error
}

// Memory implements Mailbox with in-memory storage.
// Suitable for development, testing, and single-process runs.
// Data is lost on restart.
type Memory struct {
	mu      sync.RWMutex
	entries []string
}

// NewMemory creates a new in-memory mailbox.
func NewMemory() *Memory {
	return &Memory{}
}

// Append adds an entry to the end of the inbox.
func (m *Memory) Append(_ context.Context, entry string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

// Entries returns a copy of all entries in arrival order.
func (m *Memory) Entries(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

// Len returns the number of entries.
func (m *Memory) Len(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries), nil
}

// Clear removes all entries.
func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
	return nil
}

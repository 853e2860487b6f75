// Copyright 2026 © The Agora Authors
// SPDX-License-Identifier: Apache-2.0

// Package knowledge provides the assistant's prompt-to-reply store.
package knowledge

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// FallbackReply is returned for any prompt the base does not know.
const FallbackReply = "I'm sorry, I don't understand that request. Try asking for 'help'."

// Entry is a single normalized prompt key and its canned reply.
type Entry struct {
	Key   string `yaml:"key" json:"key"`
	Reply string `yaml:"reply" json:"reply"`
}

// Base is a mapping from normalized prompt to canned reply.
type Base interface {
	// Lookup returns the reply for an already-normalized key.
	Lookup(ctx context.Context, key string) (string, bool, error)

	// Set stores or replaces the reply for a key.
	Set(ctx context.Context, key, reply string) error

	// Keys returns all keys in insertion order.
	Keys(ctx context.Context) ([]string, error)

	// Len returns the number of entries.
	Len(ctx context.Context) (int, error)
}

// Normalize lowercases and trims a prompt for lookup. This is the whole
// of input normalization; anything fancier belongs to a matcher.
func Normalize(prompt string) string {
	return strings.ToLower(strings.TrimSpace(prompt))
}

// Seed returns the canonical assistant entries. The name reply
// interpolates the owning agent's name.
func Seed(name string) []Entry {
	return []Entry{
		{Key: "hello", Reply: "Hello! How can I help you today?"},
		{Key: "name", Reply: fmt.Sprintf("My name is %s. What's yours?", name)},
		{Key: "time", Reply: "I don't have access to real-time information, but it's a great time to code!"},
		{Key: "help", Reply: "I can help you with questions about my name, the weather, and general greetings."},
	}
}

// SeedStatic returns Seed plus the static weather reply used when live
// weather lookups are disabled.
func SeedStatic(name string) []Entry {
	entries := Seed(name)
	return append(entries, Entry{
		Key:   "weather",
		Reply: "I can't check the current weather, but I can tell you it's always sunny in my code!",
	})
}

// MemoryBase implements Base with in-memory storage and insertion-ordered
// keys.
type MemoryBase struct {
	mu      sync.RWMutex
	replies map[string]string
	order   []string
}

// NewMemoryBase creates a base pre-populated with entries.
func NewMemoryBase(entries ...Entry) *MemoryBase {
	b := &MemoryBase{replies: make(map[string]string)}
	for _, entry := range entries {
		b.set(entry.Key, entry.Reply)
	}
	return b
}

// Lookup returns the reply for a key.
func (b *MemoryBase) Lookup(_ context.Context, key string) (string, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	reply, ok := b.replies[key]
	return reply, ok, nil
}

// Set stores or replaces the reply for a key.
func (b *MemoryBase) Set(_ context.Context, key, reply string) error {
	if key == "" {
		return fmt.Errorf("knowledge key is empty")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.set(key, reply)
	return nil
}

func (b *MemoryBase) set(key, reply string) {
	if _, exists := b.replies[key]; !exists {
		b.order = append(b.order, key)
	}
	b.replies[key] = reply
}

// Keys returns all keys in insertion order.
func (b *MemoryBase) Keys(_ context.Context) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, len(b.order))
	copy(out, b.order)
	return out, nil
}

// Len returns the number of entries.
func (b *MemoryBase) Len(_ context.Context) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.order), nil
}

package testkit

import (
	"context"
	"sync"

	"github.com/jllopis/agora/pkg/core"
)

// EventCollector is a core.EventEmitter that records every event for
// later inspection.
type EventCollector struct {
	mu     sync.Mutex
	events []core.Event
}

// NewEventCollector creates an empty collector.
func NewEventCollector() *EventCollector {
	return &EventCollector{}
}

// Emit records the event.
func (c *EventCollector) Emit(_ context.Context, event core.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

// Events returns the recorded events in emission order.
func (c *EventCollector) Events() []core.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]core.Event, len(c.events))
	copy(out, c.events)
	return out
}

// ByType returns the recorded events of one type.
func (c *EventCollector) ByType(eventType core.EventType) []core.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []core.Event
	for _, event := range c.events {
		if event.Type == eventType {
			out = append(out, event)
		}
	}
	return out
}

var _ core.EventEmitter = (*EventCollector)(nil)

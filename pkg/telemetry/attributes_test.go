// Copyright 2026 © The Agora Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"strings"
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestAgentAttributes(t *testing.T) {
	attrs := AgentAttributes("Cody", "assistant", "run-123")

	expected := map[string]any{
		AttrAgentName:  "Cody",
		AttrAgentRole:  "assistant",
		AttrAgentRunID: "run-123",
	}

	assertAttributes(t, attrs, expected)
}

func TestAgentAttributesOmitsEmpty(t *testing.T) {
	attrs := AgentAttributes("Alice", "", "")

	if len(attrs) != 1 {
		t.Fatalf("expected only the name attribute, got %d", len(attrs))
	}
	if string(attrs[0].Key) != AttrAgentName {
		t.Errorf("expected %s, got %s", AttrAgentName, attrs[0].Key)
	}
}

func TestPromptAttributes(t *testing.T) {
	attrs := PromptAttributes("Hello", "Hello! How can I help you today?", 0)

	expected := map[string]any{
		AttrPrompt:         "Hello",
		AttrPromptResponse: "Hello! How can I help you today?",
	}

	assertAttributes(t, attrs, expected)
}

func TestPromptAttributes_Truncation(t *testing.T) {
	longPrompt := strings.Repeat("a", 300)
	attrs := PromptAttributes(longPrompt, "", 200)

	for _, attr := range attrs {
		val := attr.Value.AsString()
		if len(val) > 204 { // 200 + "..."
			t.Errorf("attribute %s not truncated: len=%d", attr.Key, len(val))
		}
	}
}

func TestMessageAttributes(t *testing.T) {
	attrs := MessageAttributes("msg-1", "Alice", "Bob")

	expected := map[string]any{
		AttrMessageID:   "msg-1",
		AttrMessageFrom: "Alice",
		AttrMessageTo:   "Bob",
	}

	assertAttributes(t, attrs, expected)
}

func TestKnowledgeAttributes(t *testing.T) {
	attrs := KnowledgeAttributes("hello", true)

	expected := map[string]any{
		AttrKnowledgeKey: "hello",
		AttrKnowledgeHit: true,
	}

	assertAttributes(t, attrs, expected)
}

func TestWeatherAttributes(t *testing.T) {
	attrs := WeatherAttributes("Bangalore", "live", 27)

	expected := map[string]any{
		AttrWeatherCity:    "Bangalore",
		AttrWeatherOutcome: "live",
		AttrWeatherTempC:   27,
	}

	assertAttributes(t, attrs, expected)
}

func TestWeatherAttributesErrorOmitsTemp(t *testing.T) {
	attrs := WeatherAttributes("Bangalore", "error", 0)

	for _, attr := range attrs {
		if string(attr.Key) == AttrWeatherTempC {
			t.Errorf("did not expect temp attribute for error outcome")
		}
	}
}

func TestGraphAttributes(t *testing.T) {
	attrs := GraphAttributes("Hospital Knowledge Graph", "Doctor", "answered", 4)

	expected := map[string]any{
		AttrGraphName:      "Hospital Knowledge Graph",
		AttrGraphNode:      "Doctor",
		AttrGraphOutcome:   "answered",
		AttrGraphNeighbors: 4,
	}

	assertAttributes(t, attrs, expected)
}

func TestEventAttributes(t *testing.T) {
	attrs := EventAttributes("agent.acting", `{"prompt":"Hello"}`)

	expected := map[string]any{
		AttrEventType:    "agent.acting",
		AttrEventPayload: `{"prompt":"Hello"}`,
	}

	assertAttributes(t, attrs, expected)
}

// assertAttributes checks that expected key-value pairs exist in attrs
func assertAttributes(t *testing.T, attrs []attribute.KeyValue, expected map[string]any) {
	t.Helper()

	found := make(map[string]attribute.KeyValue)
	for _, attr := range attrs {
		found[string(attr.Key)] = attr
	}

	for key, expectedVal := range expected {
		attr, ok := found[key]
		if !ok {
			t.Errorf("missing attribute %s", key)
			continue
		}

		var actualVal any
		switch attr.Value.Type() {
		case attribute.STRING:
			actualVal = attr.Value.AsString()
		case attribute.INT64:
			actualVal = int(attr.Value.AsInt64())
		case attribute.FLOAT64:
			actualVal = attr.Value.AsFloat64()
		case attribute.BOOL:
			actualVal = attr.Value.AsBool()
		}

		if actualVal != expectedVal {
			t.Errorf("attribute %s: got %v, want %v", key, actualVal, expectedVal)
		}
	}
}

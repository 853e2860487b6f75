// Copyright 2026 © The Agora Authors
// SPDX-License-Identifier: Apache-2.0

// Package telemetry provides OpenTelemetry integration with rich attributes
// for agent observability.
package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Semantic conventions for Agora agent telemetry.
// These follow OpenTelemetry naming conventions where applicable.
const (
	// Agent attributes
	AttrAgentName     = "agora.agent.name"
	AttrAgentRole     = "agora.agent.role"
	AttrAgentRunID    = "agora.agent.run_id"
	AttrResponderKind = "agora.agent.responder" // "base", "assistant", "graph"

	// Prompt attributes
	AttrPrompt         = "agora.prompt.text"
	AttrPromptResponse = "agora.prompt.response"

	// Message attributes
	AttrMessageID   = "agora.message.id"
	AttrMessageFrom = "agora.message.from"
	AttrMessageTo   = "agora.message.to"

	// Knowledge attributes
	AttrKnowledgeKey = "agora.knowledge.key"
	AttrKnowledgeHit = "agora.knowledge.hit"

	// Weather attributes
	AttrWeatherCity    = "agora.weather.city"
	AttrWeatherOutcome = "agora.weather.outcome" // "live", "cache", "static", "error"
	AttrWeatherTempC   = "agora.weather.temp_c"

	// Graph attributes
	AttrGraphName      = "agora.graph.name"
	AttrGraphNode      = "agora.graph.node"
	AttrGraphNeighbors = "agora.graph.neighbor_count"
	AttrGraphOutcome   = "agora.graph.outcome" // "answered", "empty", "unknown_node", "malformed"

	// Event attributes
	AttrEventType    = "agora.event.type"
	AttrEventPayload = "agora.event.payload"
)

// AgentAttributes returns common attributes for agent spans.
func AgentAttributes(name, role, runID string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(AttrAgentName, name),
	}
	if role != "" {
		attrs = append(attrs, attribute.String(AttrAgentRole, role))
	}
	if runID != "" {
		attrs = append(attrs, attribute.String(AttrAgentRunID, runID))
	}
	return attrs
}

// PromptAttributes returns attributes for a prompt/response pair
// (both truncated for safety).
func PromptAttributes(prompt, response string, maxLen int) []attribute.KeyValue {
	if maxLen <= 0 {
		maxLen = 200
	}
	attrs := []attribute.KeyValue{}
	if prompt != "" {
		attrs = append(attrs, attribute.String(AttrPrompt, truncate(prompt, maxLen)))
	}
	if response != "" {
		attrs = append(attrs, attribute.String(AttrPromptResponse, truncate(response, maxLen)))
	}
	return attrs
}

// MessageAttributes returns attributes for message delivery spans.
func MessageAttributes(id, from, to string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(AttrMessageFrom, from),
		attribute.String(AttrMessageTo, to),
	}
	if id != "" {
		attrs = append(attrs, attribute.String(AttrMessageID, id))
	}
	return attrs
}

// KnowledgeAttributes returns attributes for knowledge base lookups.
func KnowledgeAttributes(key string, hit bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrKnowledgeKey, key),
		attribute.Bool(AttrKnowledgeHit, hit),
	}
}

// WeatherAttributes returns attributes for weather lookup spans.
func WeatherAttributes(city, outcome string, tempC int) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(AttrWeatherCity, city),
	}
	if outcome != "" {
		attrs = append(attrs, attribute.String(AttrWeatherOutcome, outcome))
	}
	if outcome == "live" || outcome == "cache" {
		attrs = append(attrs, attribute.Int(AttrWeatherTempC, tempC))
	}
	return attrs
}

// GraphAttributes returns attributes for graph query spans.
func GraphAttributes(graphName, node, outcome string, neighborCount int) []attribute.KeyValue {
	attrs := []attribute.KeyValue{}
	if graphName != "" {
		attrs = append(attrs, attribute.String(AttrGraphName, graphName))
	}
	if node != "" {
		attrs = append(attrs, attribute.String(AttrGraphNode, node))
	}
	if outcome != "" {
		attrs = append(attrs, attribute.String(AttrGraphOutcome, outcome))
	}
	if neighborCount > 0 {
		attrs = append(attrs, attribute.Int(AttrGraphNeighbors, neighborCount))
	}
	return attrs
}

// EventAttributes returns attributes for semantic event spans.
func EventAttributes(eventType, payload string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(AttrEventType, eventType),
	}
	if payload != "" {
		attrs = append(attrs, attribute.String(AttrEventPayload, truncate(payload, 500)))
	}
	return attrs
}

func truncate(s string, maxLen int) string {
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}

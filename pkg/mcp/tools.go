package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpgo "github.com/mark3labs/mcp-go/mcp"

	"github.com/jllopis/agora/pkg/core"
	"github.com/jllopis/agora/pkg/graph"
	"github.com/jllopis/agora/pkg/knowledge"
	"github.com/jllopis/agora/pkg/weather"
)

// Tools holds the components exposed as MCP tools. Nil fields skip
// their tools, so a server can expose any subset.
type Tools struct {
	Assistant core.Responder
	Base      knowledge.Base
	Weather   *weather.Service
	City      string
	Graph     *graph.Graph
}

// RegisterAgoraTools registers the configured components on a server.
func RegisterAgoraTools(srv *Server, tools Tools) {
	if tools.Assistant != nil {
		srv.RegisterTool("assistant_respond",
			"Answer a prompt with the assistant's canned knowledge, weather lookup included.",
			assistantHandler(tools.Assistant))
	}
	if tools.Base != nil {
		srv.RegisterTool("knowledge_lookup",
			"Look up the canned reply for a normalized knowledge key.",
			knowledgeHandler(tools.Base))
	}
	if tools.Weather != nil {
		srv.RegisterTool("weather_current",
			"Report the current weather for a city.",
			weatherHandler(tools.Weather, tools.City))
	}
	if tools.Graph != nil {
		srv.RegisterTool("graph_neighbors",
			"List the nodes connected to a node in the knowledge graph.",
			neighborsHandler(tools.Graph))
		srv.RegisterTool("graph_export",
			"Export the knowledge graph as Graphviz DOT.",
			exportHandler(tools.Graph))
	}
}

func assistantHandler(responder core.Responder) func(ctx context.Context, args map[string]interface{}) (*mcpgo.CallToolResult, error) {
	return func(ctx context.Context, args map[string]interface{}) (*mcpgo.CallToolResult, error) {
		prompt, _ := args["prompt"].(string)
		if prompt == "" {
			return errorResult("prompt is required"), nil
		}
		response, err := responder.Respond(ctx, prompt)
		if err != nil {
			return nil, err
		}
		return textResult(response), nil
	}
}

func knowledgeHandler(base knowledge.Base) func(ctx context.Context, args map[string]interface{}) (*mcpgo.CallToolResult, error) {
	return func(ctx context.Context, args map[string]interface{}) (*mcpgo.CallToolResult, error) {
		key, _ := args["key"].(string)
		if key == "" {
			return errorResult("key is required"), nil
		}
		reply, hit, err := base.Lookup(ctx, knowledge.Normalize(key))
		if err != nil {
			return nil, err
		}
		if !hit {
			return errorResult(fmt.Sprintf("no entry for key %q", key)), nil
		}
		return textResult(reply), nil
	}
}

func weatherHandler(svc *weather.Service, defaultCity string) func(ctx context.Context, args map[string]interface{}) (*mcpgo.CallToolResult, error) {
	return func(ctx context.Context, args map[string]interface{}) (*mcpgo.CallToolResult, error) {
		city, _ := args["city"].(string)
		if city = strings.TrimSpace(city); city == "" {
			city = defaultCity
		}
		if city == "" {
			return errorResult("city is required"), nil
		}
		return textResult(svc.Report(ctx, city)), nil
	}
}

func neighborsHandler(g *graph.Graph) func(ctx context.Context, args map[string]interface{}) (*mcpgo.CallToolResult, error) {
	responder := graph.NewResponder(g)
	return func(ctx context.Context, args map[string]interface{}) (*mcpgo.CallToolResult, error) {
		node, _ := args["node"].(string)
		if node == "" {
			return errorResult("node is required"), nil
		}
		response, err := responder.Respond(ctx, fmt.Sprintf("Who is connected to %s?", node))
		if err != nil {
			return nil, err
		}
		return textResult(response), nil
	}
}

func exportHandler(g *graph.Graph) func(ctx context.Context, args map[string]interface{}) (*mcpgo.CallToolResult, error) {
	return func(ctx context.Context, args map[string]interface{}) (*mcpgo.CallToolResult, error) {
		dot, err := graph.MarshalDOT(g)
		if err != nil {
			return nil, err
		}
		return textResult(string(dot)), nil
	}
}

func textResult(text string) *mcpgo.CallToolResult {
	return &mcpgo.CallToolResult{Content: []mcpgo.Content{mcpgo.TextContent{Type: "text", Text: text}}}
}

func errorResult(text string) *mcpgo.CallToolResult {
	return &mcpgo.CallToolResult{IsError: true, Content: []mcpgo.Content{mcpgo.TextContent{Type: "text", Text: text}}}
}

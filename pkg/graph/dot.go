package graph

import (
	"fmt"
	"strings"
)

// MarshalDOT renders the graph as deterministic Graphviz DOT: nodes and
// edges appear in insertion order, so the same graph always produces
// the same bytes. This is the export artifact replacing an interactive
// plot window.
func MarshalDOT(g *Graph) ([]byte, error) {
	if g == nil {
		return nil, fmt.Errorf("graph is nil")
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString("graph {\n")
	if g.Name() != "" {
		fmt.Fprintf(&b, "  label=%s;\n", quoteDOT(g.Name()))
	}
	b.WriteString("  node [shape=ellipse, style=filled, fillcolor=skyblue];\n")
	for _, node := range g.Nodes() {
		fmt.Fprintf(&b, "  %s;\n", quoteDOT(node))
	}
	for _, edge := range g.Edges() {
		fmt.Fprintf(&b, "  %s -- %s;\n", quoteDOT(edge.From), quoteDOT(edge.To))
	}
	b.WriteString("}\n")
	return []byte(b.String()), nil
}

func quoteDOT(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	return `"` + escaped + `"`
}

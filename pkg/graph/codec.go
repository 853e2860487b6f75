package graph

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// document is the serialized form of a Graph.
type document struct {
	Name  string   `json:"name,omitempty" yaml:"name,omitempty"`
	Nodes []string `json:"nodes,omitempty" yaml:"nodes,omitempty"`
	Edges []Edge   `json:"edges" yaml:"edges"`
}

// ParseJSON loads a graph from JSON and validates it.
func ParseJSON(data []byte) (*Graph, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty JSON payload")
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse json graph: %w", err)
	}
	return fromDocument(doc)
}

// ParseYAML loads a graph from YAML and validates it.
func ParseYAML(data []byte) (*Graph, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty YAML payload")
	}
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml graph: %w", err)
	}
	return fromDocument(doc)
}

// MarshalJSON serializes a graph to JSON. Use pretty for indented output.
func MarshalJSON(g *Graph, pretty bool) ([]byte, error) {
	doc, err := toDocument(g)
	if err != nil {
		return nil, err
	}
	if pretty {
		return json.MarshalIndent(doc, "", "  ")
	}
	return json.Marshal(doc)
}

// MarshalYAML serializes a graph to YAML.
func MarshalYAML(g *Graph) ([]byte, error) {
	doc, err := toDocument(g)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(doc)
}

// LoadFile loads a graph from a YAML or JSON file, sniffing the format
// when the extension is ambiguous.
func LoadFile(path string) (*Graph, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("graph path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		return ParseJSON(data)
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return parseAuto(data)
	}
}

func parseAuto(data []byte) (*Graph, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		if g, err := ParseJSON(data); err == nil {
			return g, nil
		}
	}
	if g, err := ParseYAML(data); err == nil {
		return g, nil
	}
	if g, err := ParseJSON(data); err == nil {
		return g, nil
	}
	return nil, fmt.Errorf("unsupported graph format")
}

func fromDocument(doc document) (*Graph, error) {
	g := New(doc.Name)
	for _, node := range doc.Nodes {
		g.AddNode(node)
	}
	for _, edge := range doc.Edges {
		if strings.TrimSpace(edge.From) == "" || strings.TrimSpace(edge.To) == "" {
			return nil, fmt.Errorf("edge must include from/to")
		}
		g.AddEdge(edge.From, edge.To)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func toDocument(g *Graph) (document, error) {
	if g == nil {
		return document{}, fmt.Errorf("graph is nil")
	}
	if err := g.Validate(); err != nil {
		return document{}, err
	}
	return document{
		Name:  g.Name(),
		Nodes: g.Nodes(),
		Edges: g.Edges(),
	}, nil
}

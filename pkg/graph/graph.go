// Copyright 2026 © The Agora Authors
// SPDX-License-Identifier: Apache-2.0

// Package graph provides the undirected knowledge graph and its
// neighbor-query responder.
package graph

import (
	"fmt"
	"strings"
)

// Graph is an undirected graph with insertion-ordered nodes and
// adjacency lists. Node names are case-insensitive on lookup but keep
// their first-seen spelling as canonical.
type Graph struct {
	name  string
	nodes []string
	adj   map[string][]string
	index map[string]string // lowercase -> canonical
}

// Edge is a single undirected connection.
type Edge struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// New creates an empty graph.
func New(name string) *Graph {
	return &Graph{
		name:  name,
		adj:   make(map[string][]string),
		index: make(map[string]string),
	}
}

// Name returns the graph name.
func (g *Graph) Name() string { return g.name }

// AddNode registers a node. Re-adding an existing node (in any casing)
// is a no-op; the first spelling wins.
func (g *Graph) AddNode(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if canonical, ok := g.index[strings.ToLower(name)]; ok {
		return canonical
	}
	g.nodes = append(g.nodes, name)
	g.index[strings.ToLower(name)] = name
	return name
}

// AddEdge connects two nodes, creating them as needed. Self edges and
// duplicate edges are ignored.
func (g *Graph) AddEdge(a, b string) {
	ca := g.AddNode(a)
	cb := g.AddNode(b)
	if ca == "" || cb == "" || ca == cb {
		return
	}
	if contains(g.adj[ca], cb) {
		return
	}
	g.adj[ca] = append(g.adj[ca], cb)
	g.adj[cb] = append(g.adj[cb], ca)
}

// Resolve maps a node name in any casing to its canonical spelling.
func (g *Graph) Resolve(name string) (string, bool) {
	canonical, ok := g.index[strings.ToLower(strings.TrimSpace(name))]
	return canonical, ok
}

// Has reports whether a node exists, case-insensitively.
func (g *Graph) Has(name string) bool {
	_, ok := g.Resolve(name)
	return ok
}

// Neighbors returns a node's neighbors in edge-insertion order.
func (g *Graph) Neighbors(name string) []string {
	canonical, ok := g.Resolve(name)
	if !ok {
		return nil
	}
	out := make([]string, len(g.adj[canonical]))
	copy(out, g.adj[canonical])
	return out
}

// Nodes returns all canonical node names in insertion order.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Edges returns each undirected edge once, in insertion order.
func (g *Graph) Edges() []Edge {
	seen := make(map[string]bool)
	var edges []Edge
	for _, node := range g.nodes {
		for _, neighbor := range g.adj[node] {
			key := edgeKey(node, neighbor)
			if seen[key] {
				continue
			}
			seen[key] = true
			edges = append(edges, Edge{From: node, To: neighbor})
		}
	}
	return edges
}

// Validate ensures the graph is well-formed.
func (g *Graph) Validate() error {
	if g == nil {
		return fmt.Errorf("graph is nil")
	}
	if len(g.nodes) == 0 {
		return fmt.Errorf("graph has no nodes")
	}
	for node, neighbors := range g.adj {
		if _, ok := g.index[strings.ToLower(node)]; !ok {
			return fmt.Errorf("adjacency references unknown node %q", node)
		}
		for _, neighbor := range neighbors {
			if _, ok := g.index[strings.ToLower(neighbor)]; !ok {
				return fmt.Errorf("node %q connects to unknown node %q", node, neighbor)
			}
		}
	}
	return nil
}

// Hospital builds the five-edge demonstration graph.
func Hospital() *Graph {
	g := New("Hospital Knowledge Graph")
	g.AddEdge("Hospital", "Doctor")
	g.AddEdge("Doctor", "Patient A")
	g.AddEdge("Doctor", "Patient B")
	g.AddEdge("Doctor", "Nurse")
	g.AddEdge("Hospital", "Clinic")
	return g
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

func edgeKey(a, b string) string {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la > lb {
		la, lb = lb, la
	}
	return la + "\x00" + lb
}

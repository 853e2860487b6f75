package graph

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseYAMLGraph(t *testing.T) {
	doc := []byte(`
name: test
edges:
  - {from: A, to: B}
  - {from: B, to: C}
`)
	g, err := ParseYAML(doc)
	if err != nil {
		t.Fatalf("ParseYAML: %v", err)
	}
	if g.Name() != "test" {
		t.Fatalf("Name = %q", g.Name())
	}
	if got := g.Neighbors("B"); len(got) != 2 {
		t.Fatalf("Neighbors(B) = %v", got)
	}
}

func TestParseJSONGraph(t *testing.T) {
	doc := []byte(`{"name":"test","nodes":["Island"],"edges":[{"from":"A","to":"B"}]}`)
	g, err := ParseJSON(doc)
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if !g.Has("Island") {
		t.Fatal("standalone node was dropped")
	}
	if !g.Has("A") || !g.Has("B") {
		t.Fatal("edge nodes were not created")
	}
}

func TestParseRejectsBadEdges(t *testing.T) {
	if _, err := ParseYAML([]byte("edges:\n  - {from: A}\n")); err == nil {
		t.Fatal("expected an error for an edge without to")
	}
	if _, err := ParseJSON([]byte(`{"edges":[]}`)); err == nil {
		t.Fatal("expected an error for a graph with no nodes")
	}
	if _, err := ParseJSON(nil); err == nil {
		t.Fatal("expected an error for an empty payload")
	}
}

func TestMarshalRoundTripPreservesOrder(t *testing.T) {
	g := Hospital()

	data, err := MarshalYAML(g)
	if err != nil {
		t.Fatalf("MarshalYAML: %v", err)
	}
	parsed, err := ParseYAML(data)
	if err != nil {
		t.Fatalf("ParseYAML(marshaled): %v", err)
	}

	got := parsed.Neighbors("Doctor")
	want := g.Neighbors("Doctor")
	if len(got) != len(want) {
		t.Fatalf("Neighbors after round trip = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("neighbor order changed: %v vs %v", got, want)
		}
	}
}

func TestLoadFileByExtension(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "g.yaml")
	if err := os.WriteFile(yamlPath, []byte("edges:\n  - {from: A, to: B}\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadFile(yamlPath); err != nil {
		t.Fatalf("LoadFile(yaml): %v", err)
	}

	jsonPath := filepath.Join(dir, "g.json")
	if err := os.WriteFile(jsonPath, []byte(`{"edges":[{"from":"A","to":"B"}]}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadFile(jsonPath); err != nil {
		t.Fatalf("LoadFile(json): %v", err)
	}

	// unknown extension sniffs the payload
	autoPath := filepath.Join(dir, "g.graph")
	if err := os.WriteFile(autoPath, []byte(`{"edges":[{"from":"A","to":"B"}]}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadFile(autoPath); err != nil {
		t.Fatalf("LoadFile(auto): %v", err)
	}
}

func TestMarshalDOTIsDeterministic(t *testing.T) {
	g := Hospital()

	first, err := MarshalDOT(g)
	if err != nil {
		t.Fatalf("MarshalDOT: %v", err)
	}
	second, err := MarshalDOT(g)
	if err != nil {
		t.Fatalf("MarshalDOT: %v", err)
	}
	if string(first) != string(second) {
		t.Fatal("DOT output is not deterministic")
	}

	dot := string(first)
	if !strings.Contains(dot, `label="Hospital Knowledge Graph";`) {
		t.Fatalf("missing label: %s", dot)
	}
	if !strings.Contains(dot, `"Hospital" -- "Doctor";`) {
		t.Fatalf("missing edge: %s", dot)
	}
	hospitalIdx := strings.Index(dot, `"Hospital" -- "Doctor";`)
	clinicIdx := strings.Index(dot, `"Hospital" -- "Clinic";`)
	if hospitalIdx < 0 || clinicIdx < 0 || hospitalIdx > clinicIdx {
		t.Fatalf("edge order not preserved: %s", dot)
	}
}

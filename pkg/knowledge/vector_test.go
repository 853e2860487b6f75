package knowledge

import (
	"context"
	"strings"
	"testing"
)

// wordEmbedder maps known words onto fixed axes so cosine similarity is
// predictable in tests.
type wordEmbedder struct{}

func (wordEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, 4)
	axes := map[string]int{"hello": 0, "greetings": 0, "time": 1, "clock": 1, "help": 2, "name": 3}
	for word, axis := range axes {
		if strings.Contains(text, word) {
			vec[axis] += 1
		}
	}
	return vec, nil
}

func TestMemoryIndexSearchOrdersByScore(t *testing.T) {
	ctx := context.Background()
	index := NewMemoryIndex()
	err := index.Upsert(ctx, []Point{
		{ID: "1", Key: "hello", Vector: []float32{1, 0, 0, 0}},
		{ID: "2", Key: "time", Vector: []float32{0, 1, 0, 0}},
		{ID: "3", Key: "mixed", Vector: []float32{1, 1, 0, 0}},
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	matches, err := index.Search(ctx, []float32{1, 0, 0, 0}, 2, 0.1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("matches = %v, want 2", matches)
	}
	if matches[0].Key != "hello" {
		t.Fatalf("best match = %q, want hello", matches[0].Key)
	}
	if matches[0].Score <= matches[1].Score {
		t.Fatalf("matches not ordered by score: %v", matches)
	}
}

func TestMemoryIndexUpsertReplacesByID(t *testing.T) {
	ctx := context.Background()
	index := NewMemoryIndex()
	_ = index.Upsert(ctx, []Point{{ID: "1", Key: "old", Vector: []float32{1, 0}}})
	_ = index.Upsert(ctx, []Point{{ID: "1", Key: "new", Vector: []float32{1, 0}}})

	matches, err := index.Search(ctx, []float32{1, 0}, 10, 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 1 || matches[0].Key != "new" {
		t.Fatalf("matches = %v, want single replaced point", matches)
	}
}

func TestMatcherNearestAboveThreshold(t *testing.T) {
	ctx := context.Background()
	matcher, err := NewMatcher(wordEmbedder{}, NewMemoryIndex(), 0.5)
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}
	if err := matcher.Seed(ctx, Seed("Cody")); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	key, ok, err := matcher.Nearest(ctx, "Greetings!")
	if err != nil {
		t.Fatalf("Nearest: %v", err)
	}
	if !ok || key != "hello" {
		t.Fatalf("Nearest = %q, %v; want hello", key, ok)
	}
}

func TestMatcherNearestBelowThresholdMisses(t *testing.T) {
	ctx := context.Background()
	matcher, err := NewMatcher(wordEmbedder{}, NewMemoryIndex(), 0.5)
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}
	if err := matcher.Seed(ctx, Seed("Cody")); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	_, ok, err := matcher.Nearest(ctx, "what's the capital of France?")
	if err != nil {
		t.Fatalf("Nearest: %v", err)
	}
	if ok {
		t.Fatal("expected no match for an unrelated prompt")
	}
}

func TestNewMatcherValidatesInputs(t *testing.T) {
	if _, err := NewMatcher(nil, NewMemoryIndex(), 0.5); err == nil {
		t.Fatal("expected error for nil embedder")
	}
	if _, err := NewMatcher(wordEmbedder{}, nil, 0.5); err == nil {
		t.Fatal("expected error for nil index")
	}
}

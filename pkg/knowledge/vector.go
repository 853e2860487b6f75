package knowledge

import (
	"context"
	"math"
	"sync"

	"github.com/google/uuid"

	"github.com/jllopis/agora/pkg/errors"
)

// Embedder converts text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Point is an embedded knowledge key stored in an index.
type Point struct {
	ID     string
	Key    string
	Vector []float32
}

// Match is a scored index hit.
type Match struct {
	ID    string
	Key   string
	Score float32
}

// Index stores embedded keys and finds the nearest ones.
type Index interface {
	Upsert(ctx context.Context, points []Point) error
	Search(ctx context.Context, vector []float32, limit int, scoreThreshold float32) ([]Match, error)
}

// MemoryIndex is a cosine-similarity index for tests and single-process
// deployments.
type MemoryIndex struct {
	mu     sync.RWMutex
	points []Point
}

// NewMemoryIndex creates an empty in-memory index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{}
}

// Upsert adds or replaces points by ID.
func (m *MemoryIndex) Upsert(_ context.Context, points []Point) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range points {
		replaced := false
		for i := range m.points {
			if m.points[i].ID == p.ID {
				m.points[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			m.points = append(m.points, p)
		}
	}
	return nil
}

// Search returns the points nearest to vector, best first.
func (m *MemoryIndex) Search(_ context.Context, vector []float32, limit int, scoreThreshold float32) ([]Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matches []Match
	for _, p := range m.points {
		score := cosine(vector, p.Vector)
		if score < scoreThreshold {
			continue
		}
		matches = append(matches, Match{ID: p.ID, Key: p.Key, Score: score})
	}
	// insertion sort, the candidate set is tiny
	for i := 1; i < len(matches); i++ {
		for j := i; j > 0 && matches[j].Score > matches[j-1].Score; j-- {
			matches[j], matches[j-1] = matches[j-1], matches[j]
		}
	}
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func cosine(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

// Matcher answers near-miss lookups by embedding the prompt and
// searching an index of seeded keys. Exact-match behavior is untouched;
// the matcher only runs after a miss, and only when enabled.
type Matcher struct {
	embedder  Embedder
	index     Index
	threshold float32
}

// NewMatcher creates a matcher over an embedder and an index.
func NewMatcher(embedder Embedder, index Index, threshold float32) (*Matcher, error) {
	if embedder == nil {
		return nil, errors.New(errors.CodeInvalidInput, "matcher embedder is nil", nil)
	}
	if index == nil {
		return nil, errors.New(errors.CodeInvalidInput, "matcher index is nil", nil)
	}
	return &Matcher{embedder: embedder, index: index, threshold: threshold}, nil
}

// Seed embeds the given entries' keys and stores them in the index.
func (m *Matcher) Seed(ctx context.Context, entries []Entry) error {
	points := make([]Point, 0, len(entries))
	for _, entry := range entries {
		vector, err := m.embedder.Embed(ctx, entry.Key)
		if err != nil {
			return errors.New(errors.CodeInternal, "embed knowledge key", err).
				WithContext("key", entry.Key)
		}
		points = append(points, Point{
			ID:     uuid.NewString(),
			Key:    entry.Key,
			Vector: vector,
		})
	}
	return m.index.Upsert(ctx, points)
}

// Nearest returns the best seeded key above the score threshold.
func (m *Matcher) Nearest(ctx context.Context, prompt string) (string, bool, error) {
	vector, err := m.embedder.Embed(ctx, Normalize(prompt))
	if err != nil {
		return "", false, errors.New(errors.CodeInternal, "embed prompt", err)
	}
	matches, err := m.index.Search(ctx, vector, 1, m.threshold)
	if err != nil {
		return "", false, errors.New(errors.CodeInternal, "search knowledge index", err)
	}
	if len(matches) == 0 {
		return "", false, nil
	}
	return matches[0].Key, true, nil
}

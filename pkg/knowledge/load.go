package knowledge

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a YAML `key: reply` document into ordered entries.
// Keys must already be normalized (lowercase, no surrounding space) so
// that file-backed bases behave exactly like seeded ones.
func LoadFile(path string) ([]Entry, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("knowledge file path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a YAML mapping preserving document order.
func Parse(data []byte) ([]Entry, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse knowledge yaml: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, fmt.Errorf("empty knowledge document")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("knowledge document must be a mapping of key: reply")
	}

	entries := make([]Entry, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i].Value
		reply := root.Content[i+1].Value
		if err := validateKey(key); err != nil {
			return nil, err
		}
		if strings.TrimSpace(reply) == "" {
			return nil, fmt.Errorf("knowledge key %q has an empty reply", key)
		}
		entries = append(entries, Entry{Key: key, Reply: reply})
	}
	return entries, nil
}

func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("knowledge key is empty")
	}
	if key != Normalize(key) {
		return fmt.Errorf("knowledge key %q is not normalized (want %q)", key, Normalize(key))
	}
	return nil
}

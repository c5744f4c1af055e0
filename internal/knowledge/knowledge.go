// Package knowledge holds the curated topic -> learning sources registry.
// The registry is loaded once at startup and read-only afterwards, so it is
// safe to share across concurrent update handlers.
package knowledge

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// SourceEntry is one curated learning source.
type SourceEntry struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// TopicSources pairs a topic with its sources.
type TopicSources struct {
	Topic   string
	Sources []SourceEntry
}

// Base is the topic -> sources registry. Topic order and per-topic source
// order follow the loaded document; both are user-visible in the catalog.
type Base struct {
	order   []string
	entries map[string][]SourceEntry
}

// Load reads the sources document from path. Any problem with the file
// (missing, unreadable, malformed) is a startup configuration error.
func Load(path string) (*Base, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sources document: %w", err)
	}
	defer f.Close()
	b, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("sources document %s: %w", path, err)
	}
	return b, nil
}

// Parse decodes a sources document. It walks the JSON token stream instead of
// unmarshalling into a map, because map decoding would lose the document's
// topic order.
func Parse(r io.Reader) (*Base, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected top-level object, got %v", tok)
	}

	b := &Base{entries: make(map[string][]SourceEntry)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		topic := tok.(string) // object keys are always strings

		var sources []SourceEntry
		if err := dec.Decode(&sources); err != nil {
			return nil, fmt.Errorf("topic %q: %w", topic, err)
		}
		if _, dup := b.entries[topic]; !dup {
			b.order = append(b.order, topic)
		}
		b.entries[topic] = sources
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return b, nil
}

// Get returns the sources registered for topic, in registration order. An
// unknown topic yields an empty slice: the classifier may name topics that
// have no curated entries yet.
func (b *Base) Get(topic string) []SourceEntry {
	return b.entries[topic]
}

// ListAll returns every topic with its sources, preserving document order.
func (b *Base) ListAll() []TopicSources {
	out := make([]TopicSources, 0, len(b.order))
	for _, topic := range b.order {
		out = append(out, TopicSources{Topic: topic, Sources: b.entries[topic]})
	}
	return out
}

// Len returns the number of topics.
func (b *Base) Len() int {
	return len(b.order)
}

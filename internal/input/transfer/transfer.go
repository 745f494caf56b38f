// Package transfer holds the data exchanged between drag sources and
// drop targets.
//
// A Store is a single JSON document keyed by channel tag. Sources write
// a payload under their tag when a drag starts; targets read the entry
// for their own tag and get the empty object back when the entry is
// missing or malformed, so a target on another channel never sees
// foreign data and never has to guard against decode failures.
package transfer

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// channelPrefix namespaces store keys so tags live in their own plane.
const channelPrefix = "channel:"

// Payload is the serialized form of a drag payload. It is always a
// complete JSON value.
type Payload []byte

// Decode unmarshals the payload into v. An empty payload decodes as the
// empty object.
func (p Payload) Decode(v any) error {
	data := []byte(p)
	if len(data) == 0 {
		data = []byte("{}")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}

// String returns the payload as a JSON string.
func (p Payload) String() string {
	if len(p) == 0 {
		return "{}"
	}
	return string(p)
}

// IsEmpty returns true if the payload carries no data.
func (p Payload) IsEmpty() bool {
	return len(p) == 0 || string(p) == "{}"
}

// Store is a tag-keyed payload document. The zero value is an empty
// store ready for use.
type Store struct {
	mu   sync.RWMutex
	data []byte
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{data: []byte("{}")}
}

// Set serializes v and stores it under the given channel tag, replacing
// any previous entry for that tag.
func (s *Store) Set(tag string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %q payload: %w", tag, err)
	}
	return s.SetRaw(tag, raw)
}

// SetRaw stores a pre-serialized JSON value under the given channel
// tag. Input that is not valid JSON degrades to the empty object so a
// bad writer cannot corrupt the document for everyone else.
func (s *Store) SetRaw(tag string, raw []byte) error {
	if !gjson.ValidBytes(raw) {
		raw = []byte("{}")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := sjson.SetRawBytes(s.document(), channelKey(tag), raw)
	if err != nil {
		return fmt.Errorf("store %q payload: %w", tag, err)
	}
	s.data = data
	return nil
}

// Get returns the payload stored under the given channel tag. Missing
// or malformed entries come back as the empty object.
func (s *Store) Get(tag string) Payload {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := gjson.GetBytes(s.document(), channelKey(tag))
	if !result.Exists() || !gjson.Valid(result.Raw) {
		return Payload("{}")
	}
	// Converting Raw copies, so the payload stays stable across later
	// writes to the store.
	return Payload(result.Raw)
}

// Has returns true if a payload is stored under the given channel tag.
func (s *Store) Has(tag string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return gjson.GetBytes(s.document(), channelKey(tag)).Exists()
}

// Delete removes the entry for the given channel tag, if present.
func (s *Store) Delete(tag string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := sjson.DeleteBytes(s.document(), channelKey(tag))
	if err != nil {
		return
	}
	s.data = data
}

// Tags returns the channel tags currently present in the store.
func (s *Store) Tags() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var tags []string
	gjson.ParseBytes(s.document()).ForEach(func(key, _ gjson.Result) bool {
		name := key.String()
		if strings.HasPrefix(name, channelPrefix) {
			tags = append(tags, strings.TrimPrefix(name, channelPrefix))
		}
		return true
	})
	return tags
}

// Bytes returns a copy of the underlying document.
func (s *Store) Bytes() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc := s.document()
	out := make([]byte, len(doc))
	copy(out, doc)
	return out
}

// Reset drops every entry.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = []byte("{}")
}

// document returns the backing JSON, treating the zero value as the
// empty object. Callers must hold the lock.
func (s *Store) document() []byte {
	if len(s.data) == 0 {
		return []byte("{}")
	}
	return s.data
}

// channelKey builds the store path for a tag, escaping characters the
// path syntax would otherwise interpret. The stored JSON key is the
// literal "channel:" + tag.
func channelKey(tag string) string {
	key := channelPrefix + tag
	var b strings.Builder
	b.Grow(len(key) + 2)
	for _, r := range key {
		switch r {
		case '\\', '.', ':', '*', '?', '|', '#', '@':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

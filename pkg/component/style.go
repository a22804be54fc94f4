package component

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Style is an ordered CSS declaration mapping with camel-cased keys.
// The zero value is an empty style ready to use.
type Style struct {
	keys   []string
	values map[string]any
}

// NewStyle returns an empty Style.
func NewStyle() *Style {
	return &Style{values: map[string]any{}}
}

// StyleFromMap builds a Style from an unordered map; keys are sorted.
func StyleFromMap(m map[string]any) *Style {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	s := NewStyle()
	for _, k := range keys {
		s.Set(k, m[k])
	}
	return s
}

// Set assigns a declaration. Re-setting a key keeps its original position.
func (s *Style) Set(key string, value any) {
	if s.values == nil {
		s.values = map[string]any{}
	}
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
}

// Get returns the value for key.
func (s *Style) Get(key string) (any, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (s *Style) Keys() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Len returns the number of declarations.
func (s *Style) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// Map returns the declarations as an unordered map.
func (s *Style) Map() map[string]any {
	out := make(map[string]any, s.Len())
	if s == nil {
		return out
	}
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// MarshalJSON writes the declarations in insertion order.
func (s *Style) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range s.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(s.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object keeping the order of its keys.
func (s *Style) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("style: expected object, got %v", tok)
	}
	s.keys = nil
	s.values = map[string]any{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("style: expected key, got %v", tok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return err
		}
		s.Set(key, value)
	}
	_, err = dec.Token()
	return err
}

package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Fields is an ordered string map with unique keys.
type Fields struct {
	keys   []string
	values map[string]string
}

// NewFields builds Fields from alternating key/value pairs.
func NewFields(pairs ...string) Fields {
	var f Fields
	for i := 0; i+1 < len(pairs); i += 2 {
		f.Set(pairs[i], pairs[i+1])
	}
	return f
}

// Len returns the number of keys.
func (f Fields) Len() int {
	return len(f.keys)
}

// Keys returns the keys in insertion order.
func (f Fields) Keys() []string {
	out := make([]string, len(f.keys))
	copy(out, f.keys)
	return out
}

// Get returns the value stored under key and whether it is present.
func (f Fields) Get(key string) (string, bool) {
	if f.values == nil {
		return "", false
	}
	v, ok := f.values[key]
	return v, ok
}

// Set stores value under key. Existing keys keep their position.
func (f *Fields) Set(key, value string) {
	if f.values == nil {
		f.values = make(map[string]string)
	}
	if _, ok := f.values[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.values[key] = value
}

// Delete removes key. Missing keys are ignored.
func (f *Fields) Delete(key string) {
	if _, ok := f.values[key]; !ok {
		return
	}
	delete(f.values, key)
	for i, k := range f.keys {
		if k == key {
			f.keys = append(f.keys[:i:i], f.keys[i+1:]...)
			break
		}
	}
}

// Clone returns a deep copy.
func (f Fields) Clone() Fields {
	var out Fields
	for _, k := range f.keys {
		out.Set(k, f.values[k])
	}
	return out
}

// Each calls fn for every key/value pair in order.
func (f Fields) Each(fn func(key, value string)) {
	for _, k := range f.keys {
		fn(k, f.values[k])
	}
}

// MarshalJSON encodes the fields as a JSON object in key order.
func (f Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range f.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(f.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object keeping document order.
// Null values are treated as absent keys.
func (f *Fields) UnmarshalJSON(data []byte) error {
	*f = Fields{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decode fields: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("decode fields: expected object")
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decode fields: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("decode fields: expected string key")
		}
		var value *string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("decode field %q: %w", key, err)
		}
		if value == nil {
			continue
		}
		f.Set(key, *value)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("decode fields: %w", err)
	}
	return nil
}

// ParseFieldPairs parses "key=value" entries in order. Blank entries are
// skipped and a repeated key keeps its first position with the last value.
func ParseFieldPairs(pairs []string) (Fields, error) {
	var f Fields
	for _, pair := range pairs {
		if strings.TrimSpace(pair) == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return Fields{}, fmt.Errorf("invalid field %q (want key=value)", pair)
		}
		f.Set(key, strings.TrimSpace(value))
	}
	return f, nil
}

// Pairs returns the fields as "key=value" entries in order.
func (f Fields) Pairs() []string {
	out := make([]string, 0, len(f.keys))
	for _, k := range f.keys {
		out = append(out, k+"="+f.values[k])
	}
	return out
}

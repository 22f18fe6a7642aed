// Package settings implements the ordered key/value document written to the
// editor's settings file.
package settings

import (
	"bytes"
	"encoding/json"
	"io"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/wsgen/internal/errors"
)

// Indent is the indentation used when encoding documents.
const Indent = "    "

// Document is an insertion-ordered mapping from setting key to value.
//
// Values are bool, int, float64, string, []string, []any, or *Document.
// Setting an existing key replaces its value in place, so a document never
// holds duplicate keys.
type Document struct {
	keys   []string
	values map[string]any
}

// New returns an empty document.
func New() *Document {
	return &Document{values: make(map[string]any)}
}

// Set stores value under key and returns d for chaining.
func (d *Document) Set(key string, value any) *Document {
	if d.values == nil {
		d.values = make(map[string]any)
	}
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
	return d
}

// Get returns the value stored under key.
func (d *Document) Get(key string) (any, bool) {
	if d == nil {
		return nil, false
	}
	v, ok := d.values[key]
	return v, ok
}

// Sub returns the nested document stored under key, if any.
func (d *Document) Sub(key string) (*Document, bool) {
	v, ok := d.Get(key)
	if !ok {
		return nil, false
	}
	sub, ok := v.(*Document)
	return sub, ok
}

// Strings returns the string list stored under key, if any.
func (d *Document) Strings(key string) ([]string, bool) {
	v, ok := d.Get(key)
	if !ok {
		return nil, false
	}
	list, ok := v.([]string)
	return list, ok
}

// Keys returns the keys in insertion order.
func (d *Document) Keys() []string {
	if d == nil {
		return nil
	}
	return slices.Clone(d.keys)
}

// Len returns the number of keys.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := New()
	for _, k := range d.keys {
		out.Set(k, cloneValue(d.values[k]))
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case *Document:
		return val.Clone()
	case []string:
		return slices.Clone(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return val
	}
}

// Map converts d into plain nested maps. Key order is lost.
func (d *Document) Map() map[string]any {
	out := make(map[string]any, d.Len())
	for _, k := range d.keys {
		v := d.values[k]
		if sub, ok := v.(*Document); ok {
			out[k] = sub.Map()
			continue
		}
		out[k] = v
	}
	return out
}

// MarshalJSON encodes d as a JSON object preserving key order.
func (d *Document) MarshalJSON() ([]byte, error) {
	if d == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalValue(k)
		if err != nil {
			return nil, errors.Wrapf(err, "encoding key %q", k)
		}
		buf.Write(key)
		buf.WriteByte(':')

		val, err := marshalValue(d.values[k])
		if err != nil {
			return nil, errors.Wrapf(err, "encoding value of %q", k)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalValue encodes v without HTML escaping so glob patterns and
// ${workspaceFolder} references survive verbatim.
func marshalValue(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}

// MarshalYAML encodes d as an ordered YAML mapping.
func (d *Document) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if d == nil {
		return node, nil
	}
	for _, k := range d.keys {
		var val yaml.Node
		if err := val.Encode(d.values[k]); err != nil {
			return nil, errors.Wrapf(err, "encoding value of %q", k)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			&val,
		)
	}
	return node, nil
}

// Encode renders d as indented JSON followed by a newline.
func Encode(d *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write renders d as indented JSON to w.
func Write(w io.Writer, d *Document) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", Indent)
	if err := enc.Encode(d); err != nil {
		return errors.Wrap(err, "encoding settings")
	}
	return nil
}

// EncodeYAML renders d as YAML.
func EncodeYAML(d *Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, errors.Wrap(err, "encoding settings as YAML")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "flushing YAML encoder")
	}
	return buf.Bytes(), nil
}

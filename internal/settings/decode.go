package settings

import (
	"bytes"
	"encoding/json"
	"io"
	"math"

	"github.com/thoreinstein/wsgen/internal/errors"
)

// ErrNotObject is returned when decoded JSON is not an object at the top level.
var ErrNotObject = errors.New("settings must be a JSON object")

// Decode parses JSON into a Document, keeping the key order of the input.
// Arrays holding only strings decode to []string; integral numbers to int.
func Decode(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, errors.Wrap(err, "reading settings")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, ErrNotObject
	}

	doc, err := decodeObject(dec)
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after settings object")
	}
	return doc, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Document) UnmarshalJSON(data []byte) error {
	parsed, err := Decode(data)
	if err != nil {
		return err
	}
	*d = *parsed
	return nil
}

func decodeObject(dec *json.Decoder) (*Document, error) {
	doc := New()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, errors.Wrap(err, "reading key")
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errors.Newf("unexpected key token %v", tok)
		}
		if _, dup := doc.values[key]; dup {
			return nil, errors.Newf("duplicate key %q", key)
		}
		val, err := decodeValue(dec)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %q", key)
		}
		doc.Set(key, val)
	}
	// closing brace
	if _, err := dec.Token(); err != nil {
		return nil, errors.Wrap(err, "closing object")
	}
	return doc, nil
}

func decodeArray(dec *json.Decoder) (any, error) {
	var items []any
	allStrings := true
	for dec.More() {
		v, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		if _, ok := v.(string); !ok {
			allStrings = false
		}
		items = append(items, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, errors.Wrap(err, "closing array")
	}

	if !allStrings {
		return items, nil
	}
	strs := make([]string, len(items))
	for i, item := range items {
		strs[i] = item.(string)
	}
	return strs, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
		return nil, errors.Newf("unexpected delimiter %q", v)
	case json.Number:
		if i, err := v.Int64(); err == nil && i >= math.MinInt && i <= math.MaxInt {
			return int(i), nil
		}
		f, err := v.Float64()
		if err != nil {
			return nil, errors.Wrapf(err, "parsing number %s", v)
		}
		return f, nil
	default:
		// string, bool, nil
		return v, nil
	}
}

package cashflow

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// jsonObjectWriter builds a JSON object with a fixed field order, which
// encoding/json does not offer for maps. Its zero value is an empty object.
//
// The first error is kept and returned by MarshalJSON, later calls are no-ops.
type jsonObjectWriter struct {
	bytes.Buffer
	err error
}

// Embed merges the fields of a raw JSON object into the object being built.
func (w *jsonObjectWriter) Embed(raw []byte) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	fields := bytes.TrimSpace(raw)
	if len(fields) < 2 || fields[0] != '{' || fields[len(fields)-1] != '}' {
		w.err = fmt.Errorf("cannot embed %q: not a JSON object", raw)
		return w
	}
	fields = bytes.TrimSpace(fields[1 : len(fields)-1])
	if len(fields) > 0 {
		w.Write(fields)
		w.WriteByte(',')
	}
	return w
}

// EmbedFrom marshals v, that must marshal as an object, and merges its fields.
// Postings use it to inline their Money.
func (w *jsonObjectWriter) EmbedFrom(v any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	raw, err := json.Marshal(v)
	if err != nil {
		w.err = fmt.Errorf("failed to marshal for embedding: %w", err)
		return w
	}
	return w.Embed(raw)
}

// Append adds a field.
func (w *jsonObjectWriter) Append(key string, value any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	k, err := json.Marshal(key)
	if err != nil {
		w.err = err
		return w
	}
	v, err := json.Marshal(value)
	if err != nil {
		w.err = fmt.Errorf("failed to marshal value for key %q: %w", key, err)
		return w
	}
	w.Write(k)
	w.WriteByte(':')
	w.Write(v)
	w.WriteByte(',')
	return w
}

// Optional adds a field unless value is the zero value of its type.
func (w *jsonObjectWriter) Optional(key string, value any) *jsonObjectWriter {
	if v := reflect.ValueOf(value); !v.IsValid() || v.IsZero() {
		return w
	}
	return w.Append(key, value)
}

// MarshalJSON returns the object built so far.
func (w *jsonObjectWriter) MarshalJSON() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	fields := bytes.TrimSuffix(w.Bytes(), []byte(","))
	out := make([]byte, 0, len(fields)+2)
	out = append(out, '{')
	out = append(out, fields...)
	return append(out, '}'), nil
}

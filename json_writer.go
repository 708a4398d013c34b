package satstack

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// jsonObjectWriter builds a JSON object whose fields keep the order they were
// appended in. Its zero value is an empty object.
//
// The first marshaling error is kept and every later call is a no-op.
type jsonObjectWriter struct {
	fields []jsonField
	err    error
}

type jsonField struct {
	key   string
	value json.RawMessage
}

// Append adds the field key with value marshaled by json.Marshal.
func (w *jsonObjectWriter) Append(key string, value any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	raw, err := json.Marshal(value)
	if err != nil {
		w.err = fmt.Errorf("cannot marshal field %q: %w", key, err)
		return w
	}
	w.fields = append(w.fields, jsonField{key: key, value: raw})
	return w
}

// Optional adds the field unless value is zero. Types with an IsZero method
// (Date, Money) decide for themselves.
func (w *jsonObjectWriter) Optional(key string, value any) *jsonObjectWriter {
	if isZero(value) {
		return w
	}
	return w.Append(key, value)
}

func isZero(value any) bool {
	if z, ok := value.(interface{ IsZero() bool }); ok {
		return z.IsZero()
	}
	v := reflect.ValueOf(value)
	return !v.IsValid() || v.IsZero()
}

// MarshalJSON returns the object, or the first marshaling error.
func (w *jsonObjectWriter) MarshalJSON() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	var b bytes.Buffer
	b.WriteByte('{')
	for i, f := range w.fields {
		if i > 0 {
			b.WriteByte(',')
		}
		key, _ := json.Marshal(f.key)
		b.Write(key)
		b.WriteByte(':')
		b.Write(f.value)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

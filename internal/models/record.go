package models

import (
	"bytes"
	"encoding/json"
)

// Record is one wide pivot row: an ordered mapping from column name to
// value. Pivot columns are data-driven (line and sensor names are only known
// at runtime), so consumers iterate Keys() instead of assuming a schema.
// Insertion order is preserved through JSON marshalling; encoding/json maps
// would re-sort keys and lose the query ordering.
type Record struct {
	keys   []string
	values map[string]any
}

func NewRecord() *Record {
	return &Record{values: make(map[string]any)}
}

// Set stores value under key, appending the key on first use.
func (r *Record) Set(key string, value any) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value for key and whether it is present.
func (r *Record) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Float returns the numeric value for key, or 0 when absent or non-numeric.
func (r *Record) Float(key string) float64 {
	if v, ok := r.values[key]; ok {
		if f, ok := v.(float64); ok {
			return f
		}
	}
	return 0
}

// Add accumulates a numeric column, creating it at 0 on first use.
func (r *Record) Add(key string, delta float64) {
	r.Set(key, r.Float(key)+delta)
}

// Keys returns the column names in insertion order.
func (r *Record) Keys() []string {
	return r.keys
}

// MarshalJSON writes the record as a JSON object in insertion order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON restores a record from a JSON object. Key order follows the
// document order of the object.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return &json.UnmarshalTypeError{Value: "non-object", Type: nil}
	}

	r.keys = nil
	r.values = make(map[string]any)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key := keyTok.(string)

		var raw any
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if n, ok := raw.(json.Number); ok {
			if f, err := n.Float64(); err == nil {
				raw = f
			}
		}
		r.Set(key, raw)
	}

	_, err = dec.Token() // closing brace
	return err
}

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Field is one key of a partial update.
type Field struct {
	Name  string
	Value any
}

// Fields is a partial update that keeps the key order it was given in.
type Fields []Field

func (f *Fields) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("%w: expected a JSON object", ErrInvalidInput)
	}

	out := Fields{}
	seen := make(map[string]bool)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key := tok.(string)
		if seen[key] {
			return fmt.Errorf("%w: duplicate field %q", ErrInvalidInput, key)
		}
		seen[key] = true

		var v any
		if err := dec.Decode(&v); err != nil {
			return err
		}
		out = append(out, Field{Name: key, Value: v})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*f = out
	return nil
}

func (f Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(field.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(field.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (f Fields) Get(name string) (any, bool) {
	for _, field := range f {
		if field.Name == name {
			return field.Value, true
		}
	}
	return nil, false
}

// Set replaces an existing key in place or appends a new one.
func (f Fields) Set(name string, value any) Fields {
	for i := range f {
		if f[i].Name == name {
			f[i].Value = value
			return f
		}
	}
	return append(f, Field{Name: name, Value: value})
}

// D converts the fields into an ordered bson document for $set.
func (f Fields) D() bson.D {
	d := make(bson.D, 0, len(f))
	for _, field := range f {
		d = append(d, bson.E{Key: field.Name, Value: field.Value})
	}
	return d
}

// Change is one field of an audit diff.
type Change struct {
	Field    string `json:"field" bson:"field"`
	OldValue any    `json:"old_value" bson:"old_value"`
	NewValue any    `json:"new_value" bson:"new_value"`
}

// Diff compares a partial update against the stored document and returns
// the fields that change, in the update's key order. Keys missing from prior
// get a nil OldValue.
func Diff(prior map[string]any, patch Fields) []Change {
	changes := make([]Change, 0, len(patch))
	for _, field := range patch {
		old, ok := prior[field.Name]
		if !ok && field.Value == nil {
			continue
		}
		if ok && sameValue(old, field.Value) {
			continue
		}
		changes = append(changes, Change{Field: field.Name, OldValue: old, NewValue: field.Value})
	}
	return changes
}

// ToMap flattens a bson-tagged struct into a map keyed by bson field names.
func ToMap(v any) (map[string]any, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func sameValue(a, b any) bool {
	at, aok := asTime(a)
	bt, bok := asTime(b)
	if aok && bok {
		return at.Equal(bt)
	}
	return reflect.DeepEqual(a, b)
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case primitive.DateTime:
		return t.Time(), true
	case FlexTime:
		return t.Time, true
	}
	return time.Time{}, false
}

// FromMap decodes a bson field map back into a tagged struct.
func FromMap(m map[string]any, out any) error {
	raw, err := bson.Marshal(m)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, out)
}

// Apply returns prior with patch laid over it.
func Apply(prior map[string]any, patch Fields) map[string]any {
	merged := make(map[string]any, len(prior)+len(patch))
	for k, v := range prior {
		merged[k] = v
	}
	for _, field := range patch {
		merged[field.Name] = field.Value
	}
	return merged
}

// Package schema defines the ordered feature set required for scoring and
// validates raw payloads against it.
package schema

import (
	"math"
)

// Vector is an ordered sequence of feature values, raw or scaled. Its length
// always equals the number of features in the schema that produced it.
type Vector []float64

// Schema is the ordered list of required feature names. The order must match
// the order the scaler and model artifacts were trained with.
type Schema struct {
	features []string
	index    map[string]int
}

// New creates a Schema from an ordered feature list.
func New(features []string) *Schema {
	s := &Schema{
		features: make([]string, len(features)),
		index:    make(map[string]int, len(features)),
	}
	copy(s.features, features)
	for i, name := range s.features {
		s.index[name] = i
	}
	return s
}

// Len returns the number of required features.
func (s *Schema) Len() int {
	return len(s.features)
}

// Features returns a copy of the ordered feature names.
func (s *Schema) Features() []string {
	out := make([]string, len(s.features))
	copy(out, s.features)
	return out
}

// Index returns the position of a feature name within the schema order.
func (s *Schema) Index(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// Value extracts a named feature from a vector produced by this schema.
func (s *Schema) Value(vec Vector, name string) (float64, bool) {
	i, ok := s.index[name]
	if !ok || i >= len(vec) {
		return 0, false
	}
	return vec[i], true
}

// Validate builds a Vector from a raw payload. It reports the first missing
// feature in schema order, so the error is deterministic for a given payload.
// Present values must be finite numbers.
func (s *Schema) Validate(payload map[string]any) (Vector, error) {
	vec := make(Vector, len(s.features))
	for i, name := range s.features {
		raw, ok := payload[name]
		if !ok {
			return nil, &MissingFeatureError{Field: name}
		}
		v, ok := toFloat(raw)
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &InvalidTypeError{Field: name}
		}
		vec[i] = v
	}
	return vec, nil
}

// toFloat coerces the numeric types a decoded JSON or YAML payload can carry.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

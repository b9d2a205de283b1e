// Package scaling provides the deterministic transform from raw feature
// vectors into the space the model was trained on.
package scaling

import (
	"github.com/okian/exorank/internal/domain/schema"
)

// Scaler transforms a raw feature vector into model input space. The
// implementation must be pure: no learning or adaptation at request time.
type Scaler interface {
	// Scale returns the transformed vector. The input is not modified.
	Scale(vec schema.Vector) (schema.Vector, error)
}

// StandardScaler applies z-score standardization using fixed per-feature
// mean and scale parameters computed at training time.
type StandardScaler struct {
	mean  []float64
	scale []float64
}

// NewStandardScaler creates a StandardScaler from pre-computed parameters.
// The two parameter slices must have the same length.
func NewStandardScaler(mean, scale []float64) (*StandardScaler, error) {
	if len(mean) != len(scale) {
		return nil, ErrSchemaMismatch
	}
	s := &StandardScaler{
		mean:  make([]float64, len(mean)),
		scale: make([]float64, len(scale)),
	}
	copy(s.mean, mean)
	copy(s.scale, scale)
	return s, nil
}

// Len returns the number of features the scaler was fitted on.
func (s *StandardScaler) Len() int {
	return len(s.mean)
}

// Scale standardizes each feature as (x - mean) / scale. A zero scale leaves
// the value untouched, matching the degenerate constant-feature case.
func (s *StandardScaler) Scale(vec schema.Vector) (schema.Vector, error) {
	if len(vec) != len(s.mean) {
		return nil, ErrSchemaMismatch
	}
	out := make(schema.Vector, len(vec))
	for i, v := range vec {
		if s.scale[i] > 0 {
			out[i] = (v - s.mean[i]) / s.scale[i]
			continue
		}
		out[i] = v
	}
	return out, nil
}

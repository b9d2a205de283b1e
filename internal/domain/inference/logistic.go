package inference

import (
	"math"

	"github.com/okian/exorank/internal/domain/schema"
	"github.com/okian/exorank/internal/domain/scaling"
)

// Logistic implements Model as a logistic regression: a linear combination
// of the scaled features pushed through a sigmoid.
type Logistic struct {
	bias    float64
	weights []float64
}

// NewLogistic creates a Logistic model from trained coefficients.
func NewLogistic(bias float64, weights []float64) *Logistic {
	m := &Logistic{
		bias:    bias,
		weights: make([]float64, len(weights)),
	}
	copy(m.weights, weights)
	return m
}

// Name identifies the model family.
func (m *Logistic) Name() string {
	return "logistic"
}

// Len returns the number of coefficients, excluding the bias.
func (m *Logistic) Len() int {
	return len(m.weights)
}

// Score computes sigmoid(bias + w . vec).
func (m *Logistic) Score(vec schema.Vector) (float64, error) {
	if len(vec) != len(m.weights) {
		return 0, scaling.ErrSchemaMismatch
	}
	z := m.bias
	for i, w := range m.weights {
		z += w * vec[i]
	}
	return 1 / (1 + math.Exp(-z)), nil
}

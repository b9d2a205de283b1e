// Package inference wraps pre-trained model artifacts behind a minimal
// scoring contract.
package inference

import (
	"github.com/okian/exorank/internal/domain/schema"
)

// Model scores a scaled feature vector. Implementations must be pure and
// deterministic: the same input always yields the same output. The result is
// interpreted as a probability-like value; callers clamp it downstream.
type Model interface {
	Name() string
	Score(vec schema.Vector) (float64, error)
}

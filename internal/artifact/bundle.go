// Package artifact loads the versioned schema, scaler, and model bundle the
// scoring pipeline depends on. The bundle is an immutable external input:
// it is parsed and cross-checked once at startup and never reloaded.
package artifact

import (
	"encoding/json"
	"fmt"
	"os"

	_ "embed"

	"github.com/okian/exorank/internal/domain/inference"
	"github.com/okian/exorank/internal/domain/scaling"
	"github.com/okian/exorank/internal/domain/schema"
)

//go:embed bundle.json
var defaultBundle []byte

// Bundle holds the loaded artifacts, ready for injection into the service.
type Bundle struct {
	Version string
	Schema  *schema.Schema
	Scaler  scaling.Scaler
	Model   inference.Model
}

// bundleFile mirrors the on-disk JSON layout.
type bundleFile struct {
	Version  string   `json:"version"`
	Features []string `json:"features"`
	Scaler   struct {
		Mean  []float64 `json:"mean"`
		Scale []float64 `json:"scale"`
	} `json:"scaler"`
	Model struct {
		Bias    float64   `json:"bias"`
		Weights []float64 `json:"weights"`
	} `json:"model"`
}

// Load reads a bundle from path, or the embedded default when path is empty.
// Any disagreement between the feature list and the artifact dimensions is a
// scaling.ErrSchemaMismatch; callers must treat it as fatal.
func Load(path string) (*Bundle, error) {
	data := defaultBundle
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read bundle %s: %w", path, err)
		}
	}
	return parse(data)
}

func parse(data []byte) (*Bundle, error) {
	var raw bundleFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode bundle: %w", err)
	}
	if len(raw.Features) == 0 {
		return nil, fmt.Errorf("bundle has no features: %w", scaling.ErrSchemaMismatch)
	}
	n := len(raw.Features)
	if len(raw.Scaler.Mean) != n || len(raw.Scaler.Scale) != n {
		return nil, fmt.Errorf("scaler fitted on %d features, schema has %d: %w",
			len(raw.Scaler.Mean), n, scaling.ErrSchemaMismatch)
	}
	if len(raw.Model.Weights) != n {
		return nil, fmt.Errorf("model has %d weights, schema has %d: %w",
			len(raw.Model.Weights), n, scaling.ErrSchemaMismatch)
	}

	scaler, err := scaling.NewStandardScaler(raw.Scaler.Mean, raw.Scaler.Scale)
	if err != nil {
		return nil, err
	}
	return &Bundle{
		Version: raw.Version,
		Schema:  schema.New(raw.Features),
		Scaler:  scaler,
		Model:   inference.NewLogistic(raw.Model.Bias, raw.Model.Weights),
	}, nil
}

// Package catalog loads curated body catalogs and seeds a running
// service with them over HTTP.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// defaultCatalog ships a small curated set of well known bodies so the
// seeder works out of the box.
//
//go:embed bodies.yaml
var defaultCatalog []byte

// Body is a single catalog entry. Feature keys sit inline next to the
// name, mirroring the flat wire format the service accepts.
type Body struct {
	Name     string             `yaml:"name"`
	Features map[string]float64 `yaml:",inline"`
}

// Load reads a YAML catalog from path. An empty path selects the
// embedded default catalog.
func Load(path string) ([]Body, error) {
	data := defaultCatalog
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog: %w", err)
		}
	}

	var doc struct {
		Bodies []Body `yaml:"bodies"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(doc.Bodies) == 0 {
		return nil, ErrEmptyCatalog
	}
	for i, b := range doc.Bodies {
		if b.Name == "" {
			return nil, fmt.Errorf("%w: entry %d", ErrUnnamedBody, i)
		}
	}
	return doc.Bodies, nil
}

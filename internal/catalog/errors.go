package catalog

import "errors"

// Sentinel kinds for catalog errors.
var (
	ErrEmptyCatalog = errors.New("catalog contains no bodies")
	ErrUnnamedBody  = errors.New("catalog body has no name")
	ErrUnhealthy    = errors.New("service health check failed")
)

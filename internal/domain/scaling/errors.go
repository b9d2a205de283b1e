package scaling

import "errors"

// ErrSchemaMismatch signals a disagreement between the feature schema and a
// loaded artifact. It indicates a misconfiguration and should abort startup
// rather than surface per request.
var ErrSchemaMismatch = errors.New("feature schema mismatch")

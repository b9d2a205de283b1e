package schema

import "fmt"

// MissingFeatureError reports the first required feature absent from a payload.
type MissingFeatureError struct {
	Field string
}

func (e *MissingFeatureError) Error() string {
	return fmt.Sprintf("missing feature: %s", e.Field)
}

// InvalidTypeError reports a feature that is present but not a finite number.
type InvalidTypeError struct {
	Field string
}

func (e *InvalidTypeError) Error() string {
	return fmt.Sprintf("invalid value for feature: %s", e.Field)
}

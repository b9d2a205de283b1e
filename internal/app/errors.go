package service

import "errors"

// Sentinel kinds for service errors.
var ErrEmptyName = errors.New("body name must not be empty")

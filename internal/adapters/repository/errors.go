package repository

import "errors"

// Sentinel kinds for record store errors.
var (
	ErrNotFound      = errors.New("body not found")
	ErrDuplicateName = errors.New("body already exists")
	ErrInvalidLimit  = errors.New("invalid leaderboard limit")
)

package repository

import "errors"

// Sentinel kinds for history errors.
var (
	ErrNotFound     = errors.New("deployment not found")
	ErrInvalidLimit = errors.New("invalid history limit")
	ErrStorage      = errors.New("history storage failed")
)

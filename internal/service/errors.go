package service

import "errors"

var (
	// ErrValidation marks client-correctable input failures, rejected before
	// any write.
	ErrValidation = errors.New("invalid input")
	ErrNotFound   = errors.New("resource not found")
)

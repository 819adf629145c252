package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrInvalidFormat is returned when input data is not in the expected format.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrEmptyPrompt is returned when an operation requires a question but none was given.
	ErrEmptyPrompt = errors.New("prompt cannot be empty")
)

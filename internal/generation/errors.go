package generation

import (
	"errors"
	"strings"
)

// Common errors returned by the generation package
var (
	// ErrGenerationFailed is returned when generation fails for any general reason
	ErrGenerationFailed = errors.New("failed to generate content")

	// ErrInvalidResponse is returned when the LLM response is empty or malformed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")
)

// errorPrefix marks a result string that carries a failure instead of an answer.
const errorPrefix = "An API error occurred: "

// FormatError flattens a generation failure into the result string returned to callers.
func FormatError(err error) string {
	if err == nil {
		return errorPrefix + ErrGenerationFailed.Error()
	}
	return errorPrefix + err.Error()
}

// IsErrorResult reports whether a result string was produced by FormatError.
func IsErrorResult(result string) bool {
	return strings.HasPrefix(result, errorPrefix)
}

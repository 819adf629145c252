// Package redact provides utilities for redacting sensitive information from strings
// before they are logged. Errors returned by the Gemini client can echo request URLs
// and credentials; this package keeps those out of the log stream.
package redact

import (
	"regexp"
	"strings"
	"sync"
)

// Constants for redaction placeholders
const (
	RedactionPlaceholder          = "[REDACTED]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
)

// minSecretLength guards against registering trivially short secrets that
// would shred ordinary text.
const minSecretLength = 8

// Precompiled regex patterns
var (
	// Google API keys always start with AIza followed by 35 url-safe characters.
	googleAPIKeyRegex = regexp.MustCompile(`AIza[0-9A-Za-z_\-]{35}`)

	// key=... in request URLs
	queryKeyRegex = regexp.MustCompile(`(?i)([?&](?:key|api_key|access_token)=)[^&\s"']+`)

	// Authorization headers
	bearerRegex = regexp.MustCompile(`(?i)(bearer\s+)[A-Za-z0-9_\-.~+/=]{8,}`)

	apiKeyRegex = regexp.MustCompile(
		`(?i)(api[_-]?key|token|secret|x-goog-api-key)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`,
	)

	emailRegex = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

	patterns = []*regexp.Regexp{
		googleAPIKeyRegex, queryKeyRegex, bearerRegex, apiKeyRegex, emailRegex,
	}

	// Patterns with a captured prefix keep that prefix in the output.
	patternReplacements = map[*regexp.Regexp]string{
		googleAPIKeyRegex: RedactedKeyPlaceholder,
		queryKeyRegex:     "${1}" + RedactedKeyPlaceholder,
		bearerRegex:       "${1}" + RedactedCredentialPlaceholder,
		apiKeyRegex:       "${1}${2}" + RedactedKeyPlaceholder,
		emailRegex:        "[REDACTED_EMAIL]",
	}

	mu      sync.RWMutex
	secrets []string
)

// RegisterSecret adds a literal value that must never appear in redacted output,
// such as the configured API key. Values shorter than eight characters are ignored.
func RegisterSecret(secret string) {
	if len(secret) < minSecretLength {
		return
	}

	mu.Lock()
	defer mu.Unlock()

	for _, s := range secrets {
		if s == secret {
			return
		}
	}
	secrets = append(secrets, secret)
}

// String redacts sensitive information from the input string
func String(input string) string {
	if input == "" {
		return input
	}

	mu.RLock()
	defer mu.RUnlock()

	result := input
	for _, s := range secrets {
		result = strings.ReplaceAll(result, s, RedactedCredentialPlaceholder)
	}

	for _, pattern := range patterns {
		replacement := RedactionPlaceholder
		if r, ok := patternReplacements[pattern]; ok {
			replacement = r
		}
		result = pattern.ReplaceAllString(result, replacement)
	}

	return result
}

// Error redacts sensitive information from an error's Error() output
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}

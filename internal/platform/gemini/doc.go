// Package gemini provides an implementation of the generation.Generator interface
// that uses Google's Gemini API.
//
// This package is an infrastructure adapter connecting the generation gateway to
// Google's external Gemini service. It translates a domain.GenerationRequest into a
// GenerateContent call: the persona becomes the system instruction, the prompt the
// user content, and the request temperature is passed through alongside the fixed
// model name and top-p value from config.LLMConfig.
//
// Error handling is intentionally flat: empty or blocked responses are reported
// with the sentinel errors from the generation package, and every other failure
// is returned as is. No call is retried.
package gemini

package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Bounds and defaults of the creativity parameter.
const (
	MinTemperature     = 0.0
	MaxTemperature     = 1.0
	DefaultTemperature = 0.7

	// TemperatureStep is the granularity offered by the control panel slider.
	// It is never applied to values received from callers.
	TemperatureStep = 0.05
)

// Fixed generation settings. Neither is exposed to callers.
const (
	ModelName = "gemini-2.5-flash"
	TopP      = 1.0
)

// DefaultPersona is the example persona pre-filled in the control panel.
const DefaultPersona = "Aap Karachi ki awaam ki taraf se E-Challan system par ek dilchasp aur do-rukhi " +
	"(two-sided) ray dene waale hain. Aapka lehja mazahiyya (humorous) aur thoda sa exaggerate " +
	"(exaggerated) hoga. Aapko zaroor batana hai ke **Green Line aur Red Bus** khush hain, lekin " +
	"**local transport buses** ab mushkil mein hain. Aur un 'sad' teenagers ka zikar zaroor karna " +
	"hai jinke mehange challan ab ghar jaa rahe hain, aur unhe apne walid (father) se maar pad sakti hai."

// DefaultPromptPlaceholder is the hint shown in the empty question field.
const DefaultPromptPlaceholder = "Karachi E-Challan system par public ke radd-e-amal (reaction) " +
	"ka ek mazahiyya jaiza (review) pesh karien."

// GenerationRequest is the unit of memoization and the unit of external call.
// It is built per user action and discarded after the lookup.
type GenerationRequest struct {
	// Persona frames the model's behavior. It may be empty.
	Persona string `json:"persona"`

	// Prompt is the user's question. An empty prompt never reaches the model.
	Prompt string `json:"prompt"`

	// Temperature controls output randomness, within [MinTemperature, MaxTemperature].
	Temperature float64 `json:"temperature"`
}

// NewGenerationRequest builds a request with the temperature clamped into range.
func NewGenerationRequest(persona, prompt string, temperature float64) GenerationRequest {
	return GenerationRequest{
		Persona:     persona,
		Prompt:      prompt,
		Temperature: ClampTemperature(temperature),
	}
}

// IsEmpty reports whether the request carries no question.
func (r GenerationRequest) IsEmpty() bool {
	return strings.TrimSpace(r.Prompt) == ""
}

// Key returns the exact (persona, prompt, temperature) triple.
func (r GenerationRequest) Key() CacheKey {
	return CacheKey{
		Persona:     r.Persona,
		Prompt:      r.Prompt,
		Temperature: r.Temperature,
	}
}

// CacheKey identifies a generation request. Two keys are equal only when all
// three fields are identical, so it can be used directly as a map key.
type CacheKey struct {
	Persona     string
	Prompt      string
	Temperature float64
}

// String returns an unambiguous textual form of the key.
func (k CacheKey) String() string {
	return fmt.Sprintf("%q|%q|%s",
		k.Persona,
		k.Prompt,
		strconv.FormatFloat(k.Temperature, 'g', -1, 64))
}

// ClampTemperature forces t into [MinTemperature, MaxTemperature].
// NaN is replaced by DefaultTemperature.
func ClampTemperature(t float64) float64 {
	switch {
	case math.IsNaN(t):
		return DefaultTemperature
	case t < MinTemperature:
		return MinTemperature
	case t > MaxTemperature:
		return MaxTemperature
	case t == 0:
		// normalizes -0 so the textual key form is stable
		return 0
	default:
		return t
	}
}

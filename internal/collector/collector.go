// Package collector gathers the three operator inputs (persona, question and
// temperature) from whatever surface supplies them, fills in the documented
// defaults and clamps the temperature into range.
package collector

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/phrazzld/promptlab/internal/domain"
)

// Defaults are the values used when an input is not supplied.
type Defaults struct {
	Persona     string  `json:"persona"`
	Temperature float64 `json:"temperature"`
}

// DefaultDefaults returns the example persona and the balanced default temperature.
func DefaultDefaults() Defaults {
	return Defaults{
		Persona:     domain.DefaultPersona,
		Temperature: domain.DefaultTemperature,
	}
}

// Input holds raw values from an input surface. Nil pointers mean the value
// was not supplied at all, as opposed to supplied empty.
type Input struct {
	Persona     *string  `json:"persona,omitempty"`
	Prompt      string   `json:"prompt"`
	Temperature *float64 `json:"temperature,omitempty"`
}

// Collector turns raw inputs into generation requests.
type Collector struct {
	defaults Defaults
}

// New creates a Collector. The default temperature is clamped like any other.
func New(defaults Defaults) *Collector {
	defaults.Temperature = domain.ClampTemperature(defaults.Temperature)
	return &Collector{defaults: defaults}
}

// Defaults returns the values used for missing inputs.
func (c *Collector) Defaults() Defaults {
	return c.defaults
}

// Collect builds a request from in, substituting defaults for missing values.
// Out-of-range temperatures are clamped rather than rejected.
func (c *Collector) Collect(in Input) domain.GenerationRequest {
	persona := c.defaults.Persona
	if in.Persona != nil {
		persona = *in.Persona
	}

	temperature := c.defaults.Temperature
	if in.Temperature != nil {
		temperature = *in.Temperature
	}

	return domain.NewGenerationRequest(persona, in.Prompt, temperature)
}

// FromForm reads the persona, prompt and temperature fields of a submitted form.
// Absent fields are left nil; a temperature that is not a number is an error.
func FromForm(values url.Values) (Input, error) {
	var in Input

	if _, ok := values["persona"]; ok {
		persona := values.Get("persona")
		in.Persona = &persona
	}

	in.Prompt = values.Get("prompt")

	if raw := strings.TrimSpace(values.Get("temperature")); raw != "" {
		t, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Input{}, fmt.Errorf("%w: temperature %q is not a number", domain.ErrInvalidFormat, raw)
		}
		in.Temperature = &t
	}

	return in, nil
}

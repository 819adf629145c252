package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/phrazzld/promptlab/internal/api/shared"
	"github.com/phrazzld/promptlab/internal/collector"
	"github.com/phrazzld/promptlab/internal/domain"
	"github.com/phrazzld/promptlab/internal/generation"
)

// Gateway is the part of generation.Gateway used by the handlers.
type Gateway interface {
	Generate(ctx context.Context, req domain.GenerationRequest) string
	Stats() generation.Stats
}

// ParametersUsed echoes the effective generation parameters back to the caller.
type ParametersUsed struct {
	PersonaSet  bool    `json:"persona_set"`
	Temperature float64 `json:"temperature"`
}

// GenerateResponse represents the response body of POST /api/generate
type GenerateResponse struct {
	Result     string         `json:"result"`
	Generated  bool           `json:"generated"`
	IsError    bool           `json:"is_error"`
	Parameters ParametersUsed `json:"parameters"`
}

// DefaultsResponse describes the inputs of the control panel.
type DefaultsResponse struct {
	Persona           string  `json:"persona"`
	Temperature       float64 `json:"temperature"`
	MinTemperature    float64 `json:"min_temperature"`
	MaxTemperature    float64 `json:"max_temperature"`
	TemperatureStep   float64 `json:"temperature_step"`
	PromptPlaceholder string  `json:"prompt_placeholder"`
	Model             string  `json:"model"`
}

// GenerateHandler serves the JSON API.
type GenerateHandler struct {
	gateway   Gateway
	collector *collector.Collector
}

// NewGenerateHandler creates a new GenerateHandler
func NewGenerateHandler(gateway Gateway, c *collector.Collector) *GenerateHandler {
	return &GenerateHandler{
		gateway:   gateway,
		collector: c,
	}
}

// Generate handles POST /api/generate requests
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var in collector.Input
	if err := shared.DecodeJSON(w, r, &in); err != nil {
		msg := "Invalid request format"
		if errors.Is(err, shared.ErrEmptyBody) {
			msg = "Request body is required"
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, msg, err)
		return
	}

	req := h.collector.Collect(in)
	resp := GenerateResponse{
		Parameters: ParametersUsed{
			PersonaSet:  req.Persona != "",
			Temperature: req.Temperature,
		},
	}

	if !req.IsEmpty() {
		resp.Result = h.gateway.Generate(r.Context(), req)
		resp.Generated = true
		resp.IsError = generation.IsErrorResult(resp.Result)
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// Defaults handles GET /api/defaults requests
func (h *GenerateHandler) Defaults(w http.ResponseWriter, r *http.Request) {
	d := h.collector.Defaults()
	shared.RespondWithJSON(w, r, http.StatusOK, DefaultsResponse{
		Persona:           d.Persona,
		Temperature:       d.Temperature,
		MinTemperature:    domain.MinTemperature,
		MaxTemperature:    domain.MaxTemperature,
		TemperatureStep:   domain.TemperatureStep,
		PromptPlaceholder: domain.DefaultPromptPlaceholder,
		Model:             domain.ModelName,
	})
}

// Stats handles GET /api/cache/stats requests
func (h *GenerateHandler) Stats(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, h.gateway.Stats())
}

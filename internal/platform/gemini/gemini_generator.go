package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/promptlab/internal/config"
	"github.com/phrazzld/promptlab/internal/domain"
	"github.com/phrazzld/promptlab/internal/generation"
	"google.golang.org/genai"
)

// contentGenerator is the subset of the genai client used by Generator.
// *genai.Models satisfies it.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Generator implements the generation.Generator interface using
// Google's Gemini API.
type Generator struct {
	// logger is used for structured logging
	logger *slog.Logger

	// models issues GenerateContent calls
	models contentGenerator

	// model is the name of the Gemini model to use
	model string

	// topP is held constant for every request
	topP float32
}

var _ generation.Generator = (*Generator)(nil)

// NewGenerator validates the LLM configuration and creates a Gemini client.
// It never contacts the API: a missing or malformed key is reported with
// generation.ErrInvalidConfig before any client is built.
func NewGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Generator, error) {
	if err := validateConfig(logger, cfg); err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	logger.InfoContext(ctx, "Gemini client initialized",
		"model", cfg.ModelName,
		"top_p", cfg.TopP)

	return newGenerator(logger, cfg, client.Models), nil
}

func newGenerator(logger *slog.Logger, cfg config.LLMConfig, models contentGenerator) *Generator {
	return &Generator{
		logger: logger,
		models: models,
		model:  cfg.ModelName,
		topP:   cfg.TopP,
	}
}

func validateConfig(logger *slog.Logger, cfg config.LLMConfig) error {
	if logger == nil {
		return errors.New("logger cannot be nil")
	}
	if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
		return fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if strings.ContainsAny(cfg.GeminiAPIKey, " \t\r\n") {
		return fmt.Errorf("%w: gemini API key contains whitespace", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.TopP < 0 || cfg.TopP > 1 {
		return fmt.Errorf("%w: top_p %v out of range", generation.ErrInvalidConfig, cfg.TopP)
	}
	return nil
}

// Generate makes a single GenerateContent call for req.
func (g *Generator) Generate(ctx context.Context, req domain.GenerationRequest) (string, error) {
	if req.IsEmpty() {
		return "", domain.ErrEmptyPrompt
	}

	g.logger.DebugContext(ctx, "Making Gemini API call",
		"model", g.model,
		"temperature", req.Temperature)

	resp, err := g.models.GenerateContent(ctx, g.model, buildContents(req), g.buildConfig(req))
	if err != nil {
		return "", err
	}

	return extractText(resp)
}

func (g *Generator) buildConfig(req domain.GenerationRequest) *genai.GenerateContentConfig {
	temperature := float32(req.Temperature)
	topP := g.topP

	cfg := &genai.GenerateContentConfig{
		Temperature: &temperature,
		TopP:        &topP,
	}
	if req.Persona != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.Persona}},
		}
	}
	return cfg
}

func buildContents(req domain.GenerationRequest) []*genai.Content {
	return []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: req.Prompt}},
		},
	}
}

// extractText concatenates the text parts of the first candidate.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	}

	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("%w: prompt blocked (%s)",
				generation.ErrContentBlocked, resp.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: response blocked by safety filters", generation.ErrContentBlocked)
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}

	return sb.String(), nil
}

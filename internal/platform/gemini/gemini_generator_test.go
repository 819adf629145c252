package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/phrazzld/promptlab/internal/config"
	"github.com/phrazzld/promptlab/internal/domain"
	"github.com/phrazzld/promptlab/internal/generation"
	"github.com/phrazzld/promptlab/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// fakeModels records GenerateContent calls and returns a canned response.
type fakeModels struct {
	resp *genai.GenerateContentResponse
	err  error

	calls    int
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

func (f *fakeModels) GenerateContent(
	_ context.Context,
	model string,
	contents []*genai.Content,
	config *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.model = model
	f.contents = contents
	f.config = config
	return f.resp, f.err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{Role: "model"}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: content, FinishReason: genai.FinishReasonStop}},
	}
}

func testConfig() config.LLMConfig {
	return config.LLMConfig{
		GeminiAPIKey: "test-api-key",
		ModelName:    domain.ModelName,
		TopP:         domain.TopP,
	}
}

func TestNewGenerator_InvalidConfig(t *testing.T) {
	_, l := logger.NewTestLogger()

	tests := []struct {
		name   string
		mutate func(*config.LLMConfig)
	}{
		{name: "empty_api_key", mutate: func(c *config.LLMConfig) { c.GeminiAPIKey = "" }},
		{name: "whitespace_api_key", mutate: func(c *config.LLMConfig) { c.GeminiAPIKey = "bad key" }},
		{name: "empty_model", mutate: func(c *config.LLMConfig) { c.ModelName = "" }},
		{name: "top_p_out_of_range", mutate: func(c *config.LLMConfig) { c.TopP = 1.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)

			gen, err := NewGenerator(context.Background(), l, cfg)

			assert.ErrorIs(t, err, generation.ErrInvalidConfig)
			assert.Nil(t, gen)
		})
	}

	t.Run("nil_logger", func(t *testing.T) {
		gen, err := NewGenerator(context.Background(), nil, testConfig())
		assert.Error(t, err)
		assert.Nil(t, gen)
	})
}

func TestNewGenerator_ValidConfig(t *testing.T) {
	_, l := logger.NewTestLogger()

	gen, err := NewGenerator(context.Background(), l, testConfig())

	require.NoError(t, err)
	require.NotNil(t, gen)
	assert.Equal(t, domain.ModelName, gen.model)
	assert.Equal(t, float32(domain.TopP), gen.topP)
}

func TestGenerator_Generate_BuildsRequest(t *testing.T) {
	_, l := logger.NewTestLogger()
	fake := &fakeModels{resp: textResponse("Hi.")}
	gen := newGenerator(l, testConfig(), fake)

	text, err := gen.Generate(context.Background(), domain.NewGenerationRequest("Be terse.", "Say hi.", 0.25))

	require.NoError(t, err)
	assert.Equal(t, "Hi.", text)
	assert.Equal(t, 1, fake.calls)
	assert.Equal(t, domain.ModelName, fake.model)

	require.Len(t, fake.contents, 1)
	assert.Equal(t, "user", fake.contents[0].Role)
	require.Len(t, fake.contents[0].Parts, 1)
	assert.Equal(t, "Say hi.", fake.contents[0].Parts[0].Text)

	require.NotNil(t, fake.config)
	require.NotNil(t, fake.config.SystemInstruction)
	assert.Equal(t, "Be terse.", fake.config.SystemInstruction.Parts[0].Text)
	require.NotNil(t, fake.config.Temperature)
	assert.Equal(t, float32(0.25), *fake.config.Temperature)
	require.NotNil(t, fake.config.TopP)
	assert.Equal(t, float32(1.0), *fake.config.TopP)
}

func TestGenerator_Generate_EmptyPersonaOmitsSystemInstruction(t *testing.T) {
	_, l := logger.NewTestLogger()
	fake := &fakeModels{resp: textResponse("ok")}
	gen := newGenerator(l, testConfig(), fake)

	_, err := gen.Generate(context.Background(), domain.NewGenerationRequest("", "Say hi.", 0.7))

	require.NoError(t, err)
	assert.Nil(t, fake.config.SystemInstruction)
}

func TestGenerator_Generate_EmptyPromptSkipsCall(t *testing.T) {
	_, l := logger.NewTestLogger()
	fake := &fakeModels{resp: textResponse("unused")}
	gen := newGenerator(l, testConfig(), fake)

	_, err := gen.Generate(context.Background(), domain.NewGenerationRequest("Be terse.", "", 0.7))

	assert.ErrorIs(t, err, domain.ErrEmptyPrompt)
	assert.Zero(t, fake.calls)
}

func TestGenerator_Generate_Responses(t *testing.T) {
	apiErr := errors.New("Error 429, Message: Resource has been exhausted")

	tests := []struct {
		name        string
		resp        *genai.GenerateContentResponse
		err         error
		expected    string
		expectedErr error
	}{
		{
			name:     "concatenates_parts",
			resp:     textResponse("Hello, ", "world."),
			expected: "Hello, world.",
		},
		{
			name:        "api_error_passed_through",
			err:         apiErr,
			expectedErr: apiErr,
		},
		{
			name:        "nil_response",
			resp:        nil,
			expectedErr: generation.ErrInvalidResponse,
		},
		{
			name:        "no_candidates",
			resp:        &genai.GenerateContentResponse{},
			expectedErr: generation.ErrInvalidResponse,
		},
		{
			name: "prompt_blocked",
			resp: &genai.GenerateContentResponse{
				PromptFeedback: &genai.GenerateContentResponsePromptFeedback{
					BlockReason: genai.BlockedReasonSafety,
				},
			},
			expectedErr: generation.ErrContentBlocked,
		},
		{
			name: "safety_finish_reason",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}},
			},
			expectedErr: generation.ErrContentBlocked,
		},
		{
			name: "nil_content",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonStop}},
			},
			expectedErr: generation.ErrInvalidResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, l := logger.NewTestLogger()
			fake := &fakeModels{resp: tt.resp, err: tt.err}
			gen := newGenerator(l, testConfig(), fake)

			text, err := gen.Generate(context.Background(), domain.NewGenerationRequest("p", "q", 0.5))

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Empty(t, text)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, text)
		})
	}
}

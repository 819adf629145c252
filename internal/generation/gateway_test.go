package generation_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/promptlab/internal/domain"
	"github.com/phrazzld/promptlab/internal/generation"
	"github.com/phrazzld/promptlab/internal/mocks"
	"github.com/phrazzld/promptlab/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGateway(t *testing.T, gen generation.Generator) *generation.Gateway {
	t.Helper()
	_, l := logger.NewTestLogger()
	gw, err := generation.NewGateway(gen, l)
	require.NoError(t, err)
	return gw
}

func TestNewGateway_Validation(t *testing.T) {
	t.Parallel()

	_, l := logger.NewTestLogger()

	gw, err := generation.NewGateway(nil, l)
	assert.Error(t, err)
	assert.Nil(t, gw)

	gw, err = generation.NewGateway(mocks.NewMockGeneratorWithText("x"), nil)
	assert.Error(t, err)
	assert.Nil(t, gw)
}

func TestGateway_Generate_CachesIdenticalRequests(t *testing.T) {
	t.Parallel()

	stub := mocks.NewMockGeneratorWithText("Hi.")
	gw := newTestGateway(t, stub)
	req := domain.NewGenerationRequest("Be terse.", "Say hi.", 0.0)

	first := gw.Generate(context.Background(), req)
	second := gw.Generate(context.Background(), req)

	assert.Equal(t, "Hi.", first)
	assert.Equal(t, "Hi.", second)
	assert.Equal(t, 1, stub.CallCount(), "second identical call should be served from the store")
	assert.Equal(t, generation.Stats{Entries: 1, Hits: 1, Misses: 1}, gw.Stats())
}

func TestGateway_Generate_PassesRequestThrough(t *testing.T) {
	t.Parallel()

	stub := mocks.NewMockGeneratorWithText("ok")
	gw := newTestGateway(t, stub)
	req := domain.NewGenerationRequest("You are a pirate.", "Where is the treasure?", 0.35)

	gw.Generate(context.Background(), req)

	require.Equal(t, 1, stub.CallCount())
	assert.Equal(t, req, stub.Requests()[0])
}

func TestGateway_Generate_KeySensitivity(t *testing.T) {
	t.Parallel()

	base := domain.NewGenerationRequest("Be terse.", "Say hi.", 0.5)
	variants := []struct {
		name string
		req  domain.GenerationRequest
	}{
		{name: "persona", req: domain.NewGenerationRequest("Be chatty.", "Say hi.", 0.5)},
		{name: "prompt", req: domain.NewGenerationRequest("Be terse.", "Say bye.", 0.5)},
		{name: "temperature", req: domain.NewGenerationRequest("Be terse.", "Say hi.", 0.51)},
		{name: "empty_persona", req: domain.NewGenerationRequest("", "Say hi.", 0.5)},
	}

	for _, v := range variants {
		t.Run(v.name, func(t *testing.T) {
			t.Parallel()

			stub := &mocks.MockGenerator{
				GenerateFn: func(_ context.Context, r domain.GenerationRequest) (string, error) {
					return r.Key().String(), nil
				},
			}
			gw := newTestGateway(t, stub)

			baseResult := gw.Generate(context.Background(), base)
			variantResult := gw.Generate(context.Background(), v.req)

			assert.Equal(t, 2, stub.CallCount(), "changing %s must miss the cache", v.name)
			assert.NotEqual(t, baseResult, variantResult)
		})
	}
}

func TestGateway_Generate_EmptyPromptIsNoOp(t *testing.T) {
	t.Parallel()

	stub := mocks.NewMockGeneratorWithText("should not be returned")
	gw := newTestGateway(t, stub)

	for _, prompt := range []string{"", "   ", "\n\t"} {
		result := gw.Generate(context.Background(), domain.NewGenerationRequest("Be terse.", prompt, 0.7))
		assert.Empty(t, result)
	}

	assert.Zero(t, stub.CallCount(), "an empty prompt must never reach the service")
	assert.Zero(t, gw.Stats().Entries)
}

func TestGateway_Generate_ErrorIsCachedNotRetried(t *testing.T) {
	t.Parallel()

	stub := mocks.NewMockGeneratorWithError(errors.New("Error 401, Message: API key not valid"))
	gw := newTestGateway(t, stub)
	req := domain.NewGenerationRequest("Be terse.", "Say hi.", 0.2)

	first := gw.Generate(context.Background(), req)

	// A recovered service must not be consulted again for the same request.
	stub.Err = nil
	stub.Text = "Hi."
	second := gw.Generate(context.Background(), req)

	assert.Equal(t, "An API error occurred: Error 401, Message: API key not valid", first)
	assert.Equal(t, first, second)
	assert.True(t, generation.IsErrorResult(second))
	assert.Equal(t, 1, stub.CallCount())
}

func TestGateway_Generate_ClampedTemperatureSharesEntry(t *testing.T) {
	t.Parallel()

	stub := mocks.NewMockGeneratorWithText("warm")
	gw := newTestGateway(t, stub)

	gw.Generate(context.Background(), domain.NewGenerationRequest("p", "q", 1.0))
	gw.Generate(context.Background(), domain.NewGenerationRequest("p", "q", 4.2))

	assert.Equal(t, 1, stub.CallCount())
	assert.Equal(t, 1.0, stub.Requests()[0].Temperature)
}

func TestGateway_Generate_ConcurrentMissesCollapse(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	stub := &mocks.MockGenerator{
		GenerateFn: func(_ context.Context, _ domain.GenerationRequest) (string, error) {
			<-release
			return "shared answer", nil
		},
	}
	gw := newTestGateway(t, stub)
	req := domain.NewGenerationRequest("Be terse.", "Say hi.", 0.7)

	const callers = 16
	results := make([]string, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = gw.Generate(context.Background(), req)
		}(i)
	}

	require.Eventually(t, func() bool { return stub.CallCount() == 1 }, time.Second, time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, 1, stub.CallCount())
	for _, r := range results {
		assert.Equal(t, "shared answer", r)
	}
	assert.Equal(t, generation.Stats{Entries: 1, Hits: callers - 1, Misses: 1}, gw.Stats())
}

func TestGateway_Generate_CancelledCallerDoesNotPoisonCache(t *testing.T) {
	t.Parallel()

	stub := &mocks.MockGenerator{
		GenerateFn: func(ctx context.Context, _ domain.GenerationRequest) (string, error) {
			if err := ctx.Err(); err != nil {
				return "", err
			}
			return "Hi.", nil
		},
	}
	gw := newTestGateway(t, stub)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := gw.Generate(ctx, domain.NewGenerationRequest("Be terse.", "Say hi.", 0))

	assert.Equal(t, "Hi.", result)
	assert.False(t, generation.IsErrorResult(result))
}

func TestGateway_Generate_ConcurrentDistinctKeys(t *testing.T) {
	t.Parallel()

	stub := &mocks.MockGenerator{
		GenerateFn: func(_ context.Context, r domain.GenerationRequest) (string, error) {
			return r.Prompt, nil
		},
	}
	gw := newTestGateway(t, stub)

	prompts := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	var wg sync.WaitGroup
	for round := 0; round < 4; round++ {
		for _, p := range prompts {
			wg.Add(1)
			go func(p string) {
				defer wg.Done()
				assert.Equal(t, p, gw.Generate(context.Background(), domain.NewGenerationRequest("", p, 0.5)))
			}(p)
		}
	}
	wg.Wait()

	assert.Equal(t, len(prompts), stub.CallCount())
	assert.Equal(t, len(prompts), gw.Stats().Entries)
}

func TestFormatError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "An API error occurred: boom", generation.FormatError(errors.New("boom")))
	assert.Equal(t, "An API error occurred: failed to generate content", generation.FormatError(nil))
	assert.True(t, generation.IsErrorResult(generation.FormatError(errors.New("x"))))
	assert.False(t, generation.IsErrorResult("Hi."))
}

package generation

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/phrazzld/promptlab/internal/domain"
	"github.com/phrazzld/promptlab/internal/redact"
	"golang.org/x/sync/singleflight"
)

// Stats is a snapshot of Gateway activity. Hits and Misses count callers:
// every non-empty request is exactly one of the two, including callers that
// joined another caller's in-flight call.
type Stats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// Gateway maps generation requests to result strings, calling the underlying
// Generator at most once per distinct request for the life of the process.
type Gateway struct {
	generator Generator
	store     *Store
	group     singleflight.Group
	logger    *slog.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

// NewGateway creates a Gateway with an empty store.
func NewGateway(generator Generator, logger *slog.Logger) (*Gateway, error) {
	if generator == nil {
		return nil, errors.New("generator cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &Gateway{
		generator: generator,
		store:     NewStore(),
		logger:    logger,
	}, nil
}

// Generate returns the result for req. An empty prompt yields "" without
// contacting the service. Otherwise a stored result is returned as is, or the
// Generator is called once and its text, or the flattened error, is stored
// and returned. Failures are never retried for the same request.
//
// The outbound call is detached from ctx cancellation so that an abandoned
// caller does not leave a cancellation error behind in the store.
func (g *Gateway) Generate(ctx context.Context, req domain.GenerationRequest) string {
	if req.IsEmpty() {
		g.logger.DebugContext(ctx, "empty prompt, skipping generation")
		return ""
	}

	key := req.Key()
	if result, ok := g.store.Load(key); ok {
		g.hits.Add(1)
		g.logger.DebugContext(ctx, "generation cache hit",
			"temperature", req.Temperature,
			"prompt_length", len(req.Prompt))
		return result
	}

	owner := false
	v, _, _ := g.group.Do(key.String(), func() (interface{}, error) {
		owner = true
		// Another flight may have resolved the key between Load and Do.
		if result, ok := g.store.Load(key); ok {
			g.hits.Add(1)
			return result, nil
		}
		g.misses.Add(1)
		return g.store.Store(key, g.call(context.WithoutCancel(ctx), req)), nil
	})
	if !owner {
		g.hits.Add(1)
		g.logger.DebugContext(ctx, "joined in-flight generation",
			"temperature", req.Temperature)
	}

	return v.(string)
}

func (g *Gateway) call(ctx context.Context, req domain.GenerationRequest) string {
	g.logger.InfoContext(ctx, "calling generation service",
		"temperature", req.Temperature,
		"persona_length", len(req.Persona),
		"prompt_length", len(req.Prompt))

	start := time.Now()
	text, err := g.generator.Generate(ctx, req)
	elapsed := time.Since(start)

	if err != nil {
		g.logger.ErrorContext(ctx, "generation failed, caching error result",
			"error", redact.Error(err),
			"duration_ms", elapsed.Milliseconds())
		return FormatError(err)
	}

	g.logger.InfoContext(ctx, "generation succeeded",
		"response_length", len(text),
		"duration_ms", elapsed.Milliseconds())
	return text
}

// Stats returns a snapshot of the store size and hit/miss counters.
func (g *Gateway) Stats() Stats {
	return Stats{
		Entries: g.store.Len(),
		Hits:    g.hits.Load(),
		Misses:  g.misses.Load(),
	}
}

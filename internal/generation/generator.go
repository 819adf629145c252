package generation

import (
	"context"

	"github.com/phrazzld/promptlab/internal/domain"
)

// Generator defines the interface for producing text from a generation request.
// This interface serves as a boundary between the application core and
// external AI/LLM services.
type Generator interface {
	// Generate issues exactly one call to the external service using the request's
	// persona as system instruction, its prompt as user content and its temperature.
	// It returns the model text or an error if the call fails for any reason.
	Generate(ctx context.Context, req domain.GenerationRequest) (string, error)
}

package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/promptlab/internal/domain"
	"github.com/phrazzld/promptlab/internal/generation"
)

// MockGenerator implements generation.Generator for testing
type MockGenerator struct {
	// GenerateFn allows test cases to mock the Generate behavior
	GenerateFn func(ctx context.Context, req domain.GenerationRequest) (string, error)

	// Default response values
	Text string
	Err  error

	// mu protects the call tracking state for concurrent test cases
	mu       sync.Mutex
	requests []domain.GenerationRequest
}

var _ generation.Generator = (*MockGenerator)(nil)

// Generate implements the generation.Generator interface
func (m *MockGenerator) Generate(ctx context.Context, req domain.GenerationRequest) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, req)
	}

	return m.Text, m.Err
}

// CallCount returns how many times Generate was called.
func (m *MockGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns a copy of every request passed to Generate, in call order.
func (m *MockGenerator) Requests() []domain.GenerationRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.GenerationRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// Reset resets the call tracking state
func (m *MockGenerator) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = nil
}

// NewMockGeneratorWithText creates a MockGenerator that returns the specified text
func NewMockGeneratorWithText(text string) *MockGenerator {
	return &MockGenerator{Text: text}
}

// NewMockGeneratorWithError creates a MockGenerator that returns the specified error
func NewMockGeneratorWithError(err error) *MockGenerator {
	return &MockGenerator{Err: err}
}

// MockGeneratorThatFails creates a MockGenerator that simulates a generation failure
func MockGeneratorThatFails() *MockGenerator {
	return &MockGenerator{Err: generation.ErrGenerationFailed}
}

// MockGeneratorWithContentBlocked creates a MockGenerator that simulates content being blocked
func MockGeneratorWithContentBlocked() *MockGenerator {
	return &MockGenerator{Err: generation.ErrContentBlocked}
}

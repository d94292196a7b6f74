package testutil

import (
	"context"
	"sync"

	"github.com/cchalm/study-buddy/internal/ai"
)

// MockClient implements provider.Client for testing and records every prompt it receives
type MockClient struct {
	// Configurable responses
	GenerateFunc   func(ctx context.Context, parts []ai.Part) (string, error)
	ListModelsFunc func(ctx context.Context) ([]string, error)

	mu      sync.Mutex
	prompts [][]ai.Part
	lists   int
}

// NewMockClient creates a mock client that always replies with the given text
func NewMockClient(reply string) *MockClient {
	return &MockClient{
		GenerateFunc: func(ctx context.Context, parts []ai.Part) (string, error) {
			return reply, nil
		},
		ListModelsFunc: func(ctx context.Context) ([]string, error) {
			return []string{"mock-model-1", "mock-model-2"}, nil
		},
	}
}

func (m *MockClient) Generate(ctx context.Context, parts []ai.Part) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, parts)
	m.mu.Unlock()
	return m.GenerateFunc(ctx, parts)
}

func (m *MockClient) ListModels(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	m.lists++
	m.mu.Unlock()
	return m.ListModelsFunc(ctx)
}

// Prompts returns every prompt passed to Generate, in call order
func (m *MockClient) Prompts() [][]ai.Part {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]ai.Part{}, m.prompts...)
}

// LastPrompt returns the most recent prompt passed to Generate, or nil if there were none
func (m *MockClient) LastPrompt() []ai.Part {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.prompts) == 0 {
		return nil
	}
	return m.prompts[len(m.prompts)-1]
}

// Calls returns the total number of calls made to the mock
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts) + m.lists
}

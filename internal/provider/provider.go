// Package provider adapts hosted generative model APIs to a single Client interface.
//
// Each adapter turns an ordered list of ai.Part values into the provider's request shape, sends it as one
// blocking call, and returns the generated text. Nothing is retried; a failed call is returned to the caller
// with the provider's message intact.
package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/cchalm/study-buddy/internal/ai"
)

var (
	ErrUnknownProvider = errors.New("unknown model provider")
	// ErrNoText is returned when a call succeeds but the model produced no text, e.g. a blocked prompt
	ErrNoText = errors.New("model returned no text")
)

// Client is a generative model that turns a prompt into text
type Client interface {
	// Generate sends the prompt parts, in order, as a single user message and returns the generated text
	Generate(ctx context.Context, parts []ai.Part) (string, error)
	// ListModels returns the names of the models in the provider's catalog
	ListModels(ctx context.Context) ([]string, error)
}

// ProviderType identifies the provider implementation
type ProviderType string

const (
	ProviderTypeGemini    ProviderType = "gemini"
	ProviderTypeAnthropic ProviderType = "anthropic"
	ProviderTypeOpenAI    ProviderType = "openai"
)

// Config holds provider-specific configuration
type Config struct {
	Type       ProviderType
	APIKey     string
	Model      string       // Empty selects DefaultModel(Type)
	BaseURL    string       // Optional, overrides the provider's API endpoint
	HTTPClient *http.Client // Optional
}

// DefaultModel returns the model used when none is configured
func DefaultModel(t ProviderType) string {
	switch t {
	case ProviderTypeGemini:
		return "gemini-2.5-flash"
	case ProviderTypeAnthropic:
		return "claude-sonnet-4-0"
	case ProviderTypeOpenAI:
		return "gpt-4o-mini"
	default:
		return ""
	}
}

// NewClient creates a client for the configured provider
func NewClient(ctx context.Context, cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s API key is required", cfg.Type)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel(cfg.Type)
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}

	switch cfg.Type {
	case ProviderTypeGemini:
		return NewGeminiClient(ctx, cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.HTTPClient)
	case ProviderTypeAnthropic:
		return NewAnthropicClient(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.HTTPClient), nil
	case ProviderTypeOpenAI:
		return NewOpenAIClient(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.HTTPClient), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Type)
	}
}

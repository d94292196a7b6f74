package provider

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"github.com/cchalm/study-buddy/internal/ai"
)

// GeminiClient implements Client using the Gemini API
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, baseURL string, apiKey string, model string, httpClient *http.Client) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

func (c *GeminiClient) Generate(ctx context.Context, parts []ai.Part) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts(toGeminiParts(parts), genai.RoleUser),
	}
	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("%w: prompt blocked: %s", ErrNoText, resp.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("%w: no candidates", ErrNoText)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: finish reason %s", ErrNoText, resp.Candidates[0].FinishReason)
	}
	return text, nil
}

func (c *GeminiClient) ListModels(ctx context.Context) ([]string, error) {
	var names []string
	for model, err := range c.client.Models.All(ctx) {
		if err != nil {
			return nil, err
		}
		names = append(names, model.Name)
	}
	return names, nil
}

func toGeminiParts(parts []ai.Part) []*genai.Part {
	out := make([]*genai.Part, 0, len(parts))
	for _, p := range parts {
		if p.IsBlob() {
			out = append(out, genai.NewPartFromBytes(p.Data, p.MIMEType))
		} else {
			out = append(out, genai.NewPartFromText(p.Text))
		}
	}
	return out
}

package provider

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/cchalm/study-buddy/internal/ai"
)

const anthropicMaxOutputTokens = 4096

// AnthropicClient implements Client using Anthropic's Messages API. Responses are streamed and accumulated
type AnthropicClient struct {
	client anthropic.Client
	model  anthropic.Model
}

func NewAnthropicClient(baseURL string, apiKey string, model string, httpClient *http.Client) *AnthropicClient {
	opts := []option.RequestOption{
		option.WithHTTPClient(httpClient),
		option.WithAPIKey(apiKey),
		// The SDK retries by default
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &AnthropicClient{
		client: anthropic.NewClient(opts...),
		model:  anthropic.Model(model),
	}
}

func (c *AnthropicClient) Generate(ctx context.Context, parts []ai.Part) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: anthropicMaxOutputTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(toAnthropicBlocks(parts)...),
		},
	}

	stream := c.client.Messages.NewStreaming(ctx, params)
	response := anthropic.Message{}
	for stream.Next() {
		event := stream.Current()
		err := response.Accumulate(event)
		if err != nil {
			return "", fmt.Errorf("failed to accumulate response content stream: %w", err)
		}
	}
	if stream.Err() != nil {
		return "", fmt.Errorf("failed to stream response: %w", stream.Err())
	}
	if response.StopReason == "" {
		b, err := json.Marshal(response)
		if err != nil {
			log.Printf("error while marshalling corrupt message for inspection: %v", err)
		}
		return "", fmt.Errorf("malformed message: %v", string(b))
	}

	var text strings.Builder
	for _, block := range response.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("%w: stop reason %s", ErrNoText, response.StopReason)
	}
	return text.String(), nil
}

func (c *AnthropicClient) ListModels(ctx context.Context) ([]string, error) {
	var names []string
	iter := c.client.Models.ListAutoPaging(ctx, anthropic.ModelListParams{})
	for iter.Next() {
		names = append(names, iter.Current().ID)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return names, nil
}

func toAnthropicBlocks(parts []ai.Part) []anthropic.ContentBlockParamUnion {
	blocks := make([]anthropic.ContentBlockParamUnion, 0, len(parts))
	for _, p := range parts {
		if p.IsBlob() {
			blocks = append(blocks, anthropic.NewImageBlockBase64(p.MIMEType, base64.StdEncoding.EncodeToString(p.Data)))
		} else {
			blocks = append(blocks, anthropic.NewTextBlock(p.Text))
		}
	}
	return blocks
}

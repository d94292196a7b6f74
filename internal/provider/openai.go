package provider

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/cchalm/study-buddy/internal/ai"
)

// OpenAIClient implements Client using OpenAI's chat completions API
type OpenAIClient struct {
	client openai.Client
	model  string
}

func NewOpenAIClient(baseURL string, apiKey string, model string, httpClient *http.Client) *OpenAIClient {
	opts := []option.RequestOption{
		option.WithHTTPClient(httpClient),
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAIClient{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

func (c *OpenAIClient) Generate(ctx context.Context, parts []ai.Part) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(toOpenAIContentParts(parts)),
		},
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("malformed completion: no choices")
	}
	choice := completion.Choices[0]
	if choice.Message.Refusal != "" {
		return "", fmt.Errorf("%w: model refused: %s", ErrNoText, choice.Message.Refusal)
	}
	if choice.Message.Content == "" {
		return "", fmt.Errorf("%w: finish reason %s", ErrNoText, choice.FinishReason)
	}
	return choice.Message.Content, nil
}

func (c *OpenAIClient) ListModels(ctx context.Context) ([]string, error) {
	modelsPage, err := c.client.Models.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(modelsPage.Data))
	for _, m := range modelsPage.Data {
		names = append(names, m.ID)
	}
	return names, nil
}

func toOpenAIContentParts(parts []ai.Part) []openai.ChatCompletionContentPartUnionParam {
	out := make([]openai.ChatCompletionContentPartUnionParam, 0, len(parts))
	for _, p := range parts {
		if p.IsBlob() {
			dataURL := fmt.Sprintf("data:%s;base64,%s", p.MIMEType, base64.StdEncoding.EncodeToString(p.Data))
			out = append(out, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
				URL: dataURL,
			}))
		} else {
			out = append(out, openai.TextContentPart(p.Text))
		}
	}
	return out
}

package ai

import (
	"context"

	"github.com/mkarvonen/prepdeck/internal/errors"
	"github.com/sashabaranov/go-openai"
)

// MaxTokens caps completion length. Feedback objects fit comfortably.
const MaxTokens = 2048

// Client wraps the OpenAI-compatible chat completion API. Pointing BaseURL
// at https://api.groq.com/openai/v1 works because Groq speaks the same
// protocol.
type Client struct {
	client *openai.Client
	model  string
}

// NewClient configures a completion client. baseURL may be empty for the
// OpenAI default; model falls back to GPT-3.5 Turbo.
func NewClient(apiKey, baseURL, model string) Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if model == "" {
		model = openai.GPT3Dot5Turbo1106
	}
	return Client{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

// Complete sends a single user prompt and returns the completion text.
func (c Client) Complete(ctx context.Context, prompt string) (string, error) {
	completion, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{ //nolint:exhaustruct // this is better for readability
			Model:     c.model,
			MaxTokens: MaxTokens,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
		},
	)
	if err != nil {
		return "", errors.Wrap(err, "create chat completion")
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("completion has no choices")
	}
	return completion.Choices[0].Message.Content, nil
}

package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"SeoForge/internal/config"
	"SeoForge/internal/ports"
)

const defaultModel = "gpt-4o-mini"

// OpenAIClient implements ports.TextGenerator over the chat completions API.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

var _ ports.TextGenerator = (*OpenAIClient)(nil)

// NewOpenAIClient builds a client from configuration. It returns nil when no
// API key is configured so callers can treat generation as unavailable.
func NewOpenAIClient(cfg config.OpenAIConfig) *OpenAIClient {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	clientCfg.HTTPClient = &http.Client{Timeout: timeout}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
	}
}

// Complete sends one system+user exchange and returns the first choice.
func (c *OpenAIClient) Complete(ctx context.Context, prompt ports.Prompt) (string, error) {
	if c == nil {
		return "", fmt.Errorf("openai client is nil")
	}

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if system := strings.TrimSpace(prompt.System); system != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: prompt.User})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   prompt.MaxTokens,
		Temperature: prompt.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("chat completion returned empty content")
	}
	return content, nil
}

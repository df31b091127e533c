package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"SeoForge/internal/config"
	"SeoForge/internal/ports"
)

func TestNewOpenAIClientWithoutKey(t *testing.T) {
	t.Parallel()

	if c := NewOpenAIClient(config.OpenAIConfig{}); c != nil {
		t.Fatal("expected nil client without api key")
	}
}

func TestComplete(t *testing.T) {
	t.Parallel()

	var got struct {
		Model       string  `json:"model"`
		MaxTokens   int     `json:"max_tokens"`
		Temperature float32 `json:"temperature"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	var auth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"  <h2>Bonjour</h2>  "},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	c := NewOpenAIClient(config.OpenAIConfig{APIKey: "sk-test", Model: "test-model", BaseURL: server.URL + "/v1/"})
	out, err := c.Complete(context.Background(), ports.Prompt{
		System:      "system",
		User:        "user",
		Temperature: 0.5,
		MaxTokens:   500,
	})
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if out != "<h2>Bonjour</h2>" {
		t.Fatalf("unexpected output %q", out)
	}
	if auth != "Bearer sk-test" {
		t.Fatalf("unexpected auth header %q", auth)
	}
	if got.Model != "test-model" || got.MaxTokens != 500 || got.Temperature != 0.5 {
		t.Fatalf("unexpected request %+v", got)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "user" {
		t.Fatalf("unexpected messages %+v", got.Messages)
	}
}

func TestCompleteServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"rate_limit"}}`))
	}))
	defer server.Close()

	c := NewOpenAIClient(config.OpenAIConfig{APIKey: "sk-test", BaseURL: server.URL})
	if _, err := c.Complete(context.Background(), ports.Prompt{User: "hi"}); err == nil {
		t.Fatal("expected error on 429")
	}
}

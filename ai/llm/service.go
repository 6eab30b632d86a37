// Package llm provides the OpenAI-compatible text completion backend used by
// review generation. All supported providers speak the same chat protocol.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/aikomi/reviewgen/review"
)

// Config represents completion service configuration.
type Config struct {
	Provider string // openai, deepseek, openrouter, siliconflow, ollama
	Model    string // gpt-4o-mini, deepseek-chat, etc.
	APIKey   string
	BaseURL  string
	Timeout  int // Request timeout in seconds (default: 60)
}

type service struct {
	client   *openai.Client
	model    string
	provider string
	timeout  int
}

// NewService creates a completion service implementing
// review.CompletionProvider.
func NewService(cfg *Config) (review.CompletionProvider, error) {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.HTTPClient = newHTTPClient()

	switch cfg.Provider {
	case "openai":
		if cfg.BaseURL != "" {
			clientConfig.BaseURL = cfg.BaseURL
		}
	case "deepseek":
		clientConfig.BaseURL = orDefault(cfg.BaseURL, "https://api.deepseek.com")
	case "openrouter":
		clientConfig.BaseURL = orDefault(cfg.BaseURL, "https://openrouter.ai/api/v1")
	case "siliconflow":
		clientConfig.BaseURL = orDefault(cfg.BaseURL, "https://api.siliconflow.cn/v1")
	case "ollama":
		clientConfig.BaseURL = orDefault(cfg.BaseURL, "http://localhost:11434")
	default:
		// Generic fallback for any other OpenAI-compatible provider.
		slog.Info("Using generic OpenAI-compatible provider", "provider", cfg.Provider)
		if cfg.BaseURL != "" {
			clientConfig.BaseURL = cfg.BaseURL
		}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60
	}

	return &service{
		client:   openai.NewClientWithConfig(clientConfig),
		model:    cfg.Model,
		provider: cfg.Provider,
		timeout:  timeout,
	}, nil
}

func orDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

// Complete performs one synchronous chat completion.
func (s *service) Complete(ctx context.Context, req review.CompletionRequest) (*review.Completion, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(s.timeout)*time.Second)
	defer cancel()

	slog.Debug("LLM: completion request",
		"model", s.model,
		"max_tokens", req.MaxOutputTokens,
		"temperature", req.Temperature,
	)

	startTime := time.Now()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		MaxTokens:   req.MaxOutputTokens,
		Temperature: req.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemInstructions},
			{Role: openai.ChatMessageRoleUser, Content: req.UserContent},
		},
	})
	if err != nil {
		slog.Error("LLM: completion request failed", "error", err)
		return nil, fmt.Errorf("LLM completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		slog.Warn("LLM: empty response from LLM")
		return nil, fmt.Errorf("empty response from LLM")
	}

	totalDuration := time.Since(startTime)

	slog.Debug("LLM: completion response received",
		"content_length", len(resp.Choices[0].Message.Content),
		"total_tokens", resp.Usage.TotalTokens,
		"duration_ms", totalDuration.Milliseconds(),
	)

	return &review.Completion{
		Text:        resp.Choices[0].Message.Content,
		TotalTokens: resp.Usage.TotalTokens,
	}, nil
}

func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 60 * time.Second,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
}

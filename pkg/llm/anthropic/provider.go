package anthropic

import (
	"ai-assistant-be/pkg/llm"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	apiURL     = "https://api.anthropic.com/v1/messages"
	apiVersion = "2023-06-01"
)

type AnthropicProvider struct {
	ApiKey    string
	ModelName string
	Client    *http.Client
}

// Ensure AnthropicProvider implements Provider
var _ llm.Provider = &AnthropicProvider{}

func NewAnthropicProvider(apiKey, modelName string, timeout time.Duration) *AnthropicProvider {
	return &AnthropicProvider{
		ApiKey:    apiKey,
		ModelName: modelName,
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (a *AnthropicProvider) Name() string {
	return "anthropic"
}

// --- Request/Response structs (Internal to this package) ---

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicMessagesRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	Temperature float64            `json:"temperature,omitempty"`
}

type anthropicMessagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// --- Interface Implementation ---

func (a *AnthropicProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	if a.ApiKey == "" {
		return "", fmt.Errorf("%w: anthropic: no API key configured", llm.ErrProviderRejected)
	}

	options := &llm.Options{
		Temperature: 0.7, // Default
	}
	for _, opt := range opts {
		opt(options)
	}

	// System turns go into the dedicated field; the messages array only
	// accepts user/assistant roles.
	var system string
	messages := make([]anthropicMessage, 0, len(history))
	for _, msg := range history {
		if msg.Role == "system" {
			system = msg.Content
			continue
		}
		messages = append(messages, anthropicMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	model := a.ModelName
	if options.Model != "" {
		model = options.Model
	}

	maxTokens := options.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1024
	}

	reqPayload := anthropicMessagesRequest{
		Model:       model,
		MaxTokens:   maxTokens,
		System:      system,
		Messages:    messages,
		Temperature: options.Temperature,
	}

	payloadBytes, err := json.Marshal(reqPayload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", apiURL, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.ApiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := a.Client.Do(req)
	if err != nil {
		return "", llm.ClassifyTransportError("anthropic", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", llm.ClassifyHTTPError("anthropic", resp.StatusCode, string(bodyBytes))
	}

	var anthropicResp anthropicMessagesResponse
	if err := json.Unmarshal(bodyBytes, &anthropicResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if len(anthropicResp.Content) == 0 {
		return "", fmt.Errorf("anthropic returned empty content")
	}

	return anthropicResp.Content[0].Text, nil
}

func (a *AnthropicProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return a.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

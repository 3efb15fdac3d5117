package cohere

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

const apiURL = "https://api.cohere.com/v1/chat"

type CohereProvider struct {
	ApiKey    string
	ModelName string
	Client    *http.Client
}

// Ensure CohereProvider implements Provider
var _ llm.Provider = &CohereProvider{}

func NewCohereProvider(apiKey, modelName string, timeout time.Duration) *CohereProvider {
	return &CohereProvider{
		ApiKey:    apiKey,
		ModelName: modelName,
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *CohereProvider) Name() string {
	return "cohere"
}

// --- Request/Response structs (Internal to this package) ---

type cohereHistoryItem struct {
	Role    string `json:"role"` // "USER" | "CHATBOT" | "SYSTEM"
	Message string `json:"message"`
}

type cohereResponseFormat struct {
	Type string `json:"type"`
}

type cohereChatRequest struct {
	Model          string                `json:"model"`
	Message        string                `json:"message"`
	ChatHistory    []cohereHistoryItem   `json:"chat_history,omitempty"`
	Temperature    float64               `json:"temperature,omitempty"`
	MaxTokens      int                   `json:"max_tokens,omitempty"`
	ResponseFormat *cohereResponseFormat `json:"response_format,omitempty"`
}

type cohereChatResponse struct {
	Text string `json:"text"`
}

// --- Interface Implementation ---

func (c *CohereProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	if c.ApiKey == "" {
		return "", fmt.Errorf("%w: cohere: no API key configured", llm.ErrProviderRejected)
	}
	if len(history) == 0 {
		return "", fmt.Errorf("cohere: empty history")
	}

	options := &llm.Options{
		Temperature: 0.7, // Default
	}
	for _, opt := range opts {
		opt(options)
	}

	// Cohere takes the latest turn as "message" and the rest as history.
	last := history[len(history)-1]
	past := make([]cohereHistoryItem, 0, len(history)-1)
	for _, msg := range history[:len(history)-1] {
		role := "USER"
		switch msg.Role {
		case "assistant":
			role = "CHATBOT"
		case "system":
			role = "SYSTEM"
		}
		past = append(past, cohereHistoryItem{Role: role, Message: msg.Content})
	}

	model := c.ModelName
	if options.Model != "" {
		model = options.Model
	}

	reqPayload := cohereChatRequest{
		Model:       model,
		Message:     last.Content,
		ChatHistory: past,
		Temperature: options.Temperature,
	}
	if options.MaxTokens > 0 {
		reqPayload.MaxTokens = options.MaxTokens
	}
	if options.JSONOutput {
		reqPayload.ResponseFormat = &cohereResponseFormat{Type: "json_object"}
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
	req.Header.Set("Authorization", "Bearer "+c.ApiKey)

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", llm.ClassifyTransportError("cohere", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", llm.ClassifyHTTPError("cohere", resp.StatusCode, string(bodyBytes))
	}

	var cohereResp cohereChatResponse
	if err := json.Unmarshal(bodyBytes, &cohereResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	return cohereResp.Text, nil
}

func (c *CohereProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return c.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

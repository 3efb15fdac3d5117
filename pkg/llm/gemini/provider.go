package gemini

import (
	"ai-assistant-be/pkg/llm"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

const apiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiProvider calls the Google Generative Language API. It holds the full
// key pool and rotates through it: a call starts at the last known-good key
// and only fails once every key has been tried. The start index survives
// across calls so load is spread instead of always hammering key 0.
type GeminiProvider struct {
	BaseURL   string
	Keys      []string
	ModelName string
	Client    *http.Client

	mu       sync.Mutex
	keyIndex int
}

// Ensure GeminiProvider implements Provider
var _ llm.Provider = &GeminiProvider{}

func NewGeminiProvider(keys []string, modelName string, timeout time.Duration) *GeminiProvider {
	return &GeminiProvider{
		BaseURL:   apiBaseURL,
		Keys:      keys,
		ModelName: modelName,
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (g *GeminiProvider) Name() string {
	return "gemini"
}

// --- Request/Response structs (Internal to this package) ---

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature      float64 `json:"temperature,omitempty"`
	MaxOutputTokens  int     `json:"maxOutputTokens,omitempty"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type geminiGenerateRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiGenerateResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// --- Interface Implementation ---

func (g *GeminiProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	if len(g.Keys) == 0 {
		return "", fmt.Errorf("%w: gemini: no API keys configured", llm.ErrProviderRejected)
	}

	options := &llm.Options{
		Temperature: 0.7, // Default
	}
	for _, opt := range opts {
		opt(options)
	}

	contents := make([]geminiContent, len(history))
	for i, msg := range history {
		role := msg.Role
		// Gemini uses "model" instead of "assistant"; system prompts are
		// folded into user turns by callers.
		if role == "assistant" {
			role = "model"
		}
		if role == "system" {
			role = "user"
		}
		contents[i] = geminiContent{
			Role:  role,
			Parts: []geminiPart{{Text: msg.Content}},
		}
	}

	model := g.ModelName
	if options.Model != "" {
		model = options.Model
	}

	genConfig := &geminiGenerationConfig{
		Temperature: options.Temperature,
	}
	if options.MaxTokens > 0 {
		genConfig.MaxOutputTokens = options.MaxTokens
	}
	if options.JSONOutput {
		genConfig.ResponseMimeType = "application/json"
	}

	reqPayload := geminiGenerateRequest{
		Contents:         contents,
		GenerationConfig: genConfig,
	}

	payloadBytes, err := json.Marshal(reqPayload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	// Key rotation: try every key once starting from the persisted index.
	start := g.currentIndex()
	var lastErr error
	for attempt := 0; attempt < len(g.Keys); attempt++ {
		idx := (start + attempt) % len(g.Keys)
		text, err := g.generateWithKey(ctx, model, g.Keys[idx], payloadBytes)
		if err == nil {
			g.setIndex(idx)
			return text, nil
		}
		lastErr = err
		g.setIndex((idx + 1) % len(g.Keys))
	}

	return "", fmt.Errorf("all gemini keys failed: %w", lastErr)
}

func (g *GeminiProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return g.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func (g *GeminiProvider) generateWithKey(ctx context.Context, model, key string, payload []byte) (string, error) {
	url := fmt.Sprintf("%s/models/%s:generateContent", g.BaseURL, model)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", key)

	resp, err := g.Client.Do(req)
	if err != nil {
		return "", llm.ClassifyTransportError("gemini", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", llm.ClassifyHTTPError("gemini", resp.StatusCode, string(bodyBytes))
	}

	var geminiResp geminiGenerateResponse
	if err := json.Unmarshal(bodyBytes, &geminiResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	return geminiResp.Candidates[0].Content.Parts[0].Text, nil
}

func (g *GeminiProvider) currentIndex() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.keyIndex
}

func (g *GeminiProvider) setIndex(idx int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.keyIndex = idx
}

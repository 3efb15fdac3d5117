package factory

import (
	"fmt"
	"time"

	"ai-assistant-be/pkg/llm"
	"ai-assistant-be/pkg/llm/anthropic"
	"ai-assistant-be/pkg/llm/cohere"
	"ai-assistant-be/pkg/llm/gemini"
)

// ProviderConfig carries the credentials and model names for every backend.
type ProviderConfig struct {
	GeminiKeys     []string
	GeminiModel    string
	CohereKey      string
	CohereModel    string
	AnthropicKey   string
	AnthropicModel string
	Timeout        time.Duration
}

// NewProviderChain builds the ordered provider list for the gateway.
// Providers without configured credentials are left out so the gateway
// never wastes an attempt on them.
func NewProviderChain(order []string, cfg ProviderConfig) ([]llm.Provider, error) {
	providers := make([]llm.Provider, 0, len(order))
	for _, name := range order {
		switch name {
		case "gemini":
			if len(cfg.GeminiKeys) == 0 {
				continue
			}
			providers = append(providers, gemini.NewGeminiProvider(cfg.GeminiKeys, cfg.GeminiModel, cfg.Timeout))
		case "cohere":
			if cfg.CohereKey == "" {
				continue
			}
			providers = append(providers, cohere.NewCohereProvider(cfg.CohereKey, cfg.CohereModel, cfg.Timeout))
		case "anthropic":
			if cfg.AnthropicKey == "" {
				continue
			}
			providers = append(providers, anthropic.NewAnthropicProvider(cfg.AnthropicKey, cfg.AnthropicModel, cfg.Timeout))
		default:
			return nil, fmt.Errorf("unsupported LLM provider: %s", name)
		}
	}
	if len(providers) == 0 {
		return nil, fmt.Errorf("no LLM providers configured")
	}
	return providers, nil
}

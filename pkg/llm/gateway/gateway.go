package gateway

import (
	"ai-assistant-be/pkg/llm"
	"ai-assistant-be/pkg/llm/breaker"
	"context"
	"fmt"
	"log"
)

// Gateway fans a generation request across providers in fixed priority
// order. Fallback is strictly sequential: racing providers concurrently
// would double-bill every request that the first provider could serve.
type Gateway struct {
	providers []llm.Provider
	registry  breaker.Registry
}

func New(providers []llm.Provider, registry breaker.Registry) *Gateway {
	return &Gateway{
		providers: providers,
		registry:  registry,
	}
}

// Chat tries each provider until one answers. A provider in cooldown is
// skipped without an attempt. The first success wins; exhausting the whole
// chain yields ErrAllProvidersUnavailable, never an empty success.
func (g *Gateway) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	var lastErr error

	for _, provider := range g.providers {
		name := provider.Name()
		if !g.registry.IsAvailable(name) {
			log.Printf("[WARN] Provider '%s' is cooling down, skipping", name)
			continue
		}

		text, err := provider.Chat(ctx, history, opts...)
		if err != nil {
			log.Printf("[ERROR] Provider '%s' failed: %v", name, err)
			g.registry.RecordFailure(name)
			lastErr = err
			continue
		}

		g.registry.RecordSuccess(name)
		return text, nil
	}

	if lastErr != nil {
		return "", fmt.Errorf("%w: last error: %v", llm.ErrAllProvidersUnavailable, lastErr)
	}
	return "", llm.ErrAllProvidersUnavailable
}

// Generate sends a single prompt through the fallback chain.
func (g *Gateway) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return g.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

// ExtractStructured is Generate framed for machine consumption: JSON output
// hint where the backend supports it, low temperature for stable shapes.
func (g *Gateway) ExtractStructured(ctx context.Context, prompt string) (string, error) {
	return g.Generate(ctx, prompt, llm.WithJSONOutput(), llm.WithTemperature(0.1))
}

package embedding

import (
	"fmt"
	"log"

	"ai-assistant-be/pkg/llm/breaker"
)

// FallbackProvider chains embedding backends in priority order, sharing the
// same cooldown registry the generation gateway uses. Providers are keyed as
// "embed:<name>" so a failing chat endpoint does not bench embedding and
// vice versa.
type FallbackProvider struct {
	providers []EmbeddingProvider
	registry  breaker.Registry
}

var _ EmbeddingProvider = &FallbackProvider{}

func NewFallbackProvider(registry breaker.Registry, providers ...EmbeddingProvider) *FallbackProvider {
	return &FallbackProvider{
		providers: providers,
		registry:  registry,
	}
}

func (f *FallbackProvider) Name() string {
	return "embed-fallback"
}

func (f *FallbackProvider) Generate(text string, taskType string) (*EmbeddingResponse, error) {
	var lastErr error

	for _, provider := range f.providers {
		key := "embed:" + provider.Name()
		if !f.registry.IsAvailable(key) {
			log.Printf("[WARN] Embedding provider '%s' is cooling down, skipping", provider.Name())
			continue
		}

		response, err := provider.Generate(text, taskType)
		if err != nil {
			log.Printf("[ERROR] Embedding provider '%s' failed: %v", provider.Name(), err)
			f.registry.RecordFailure(key)
			lastErr = err
			continue
		}

		f.registry.RecordSuccess(key)
		return response, nil
	}

	if lastErr != nil {
		return nil, fmt.Errorf("all embedding providers failed: %w", lastErr)
	}
	return nil, fmt.Errorf("no embedding providers available")
}

package embedding

import (
	"errors"
	"testing"
	"time"

	"ai-assistant-be/pkg/llm/breaker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEmbedder struct {
	name   string
	values []float32
	err    error
	calls  int
}

func (s *stubEmbedder) Name() string {
	return s.name
}

func (s *stubEmbedder) Generate(text string, taskType string) (*EmbeddingResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &EmbeddingResponse{Values: s.values}, nil
}

func TestFallbackUsesSecondProvider(t *testing.T) {
	primary := &stubEmbedder{name: "gemini", err: errors.New("quota")}
	secondary := &stubEmbedder{name: "cohere", values: []float32{0.1, 0.2}}
	reg := breaker.NewWithClock(5*time.Minute, time.Now)

	chain := NewFallbackProvider(reg, primary, secondary)
	resp, err := chain.Generate("hello", TaskRetrievalQuery)

	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2}, resp.Values)
	assert.False(t, reg.IsAvailable("embed:gemini"))
	assert.True(t, reg.IsAvailable("embed:cohere"))
}

func TestFallbackSkipsCooledDownProvider(t *testing.T) {
	primary := &stubEmbedder{name: "gemini", values: []float32{1}}
	secondary := &stubEmbedder{name: "cohere", values: []float32{2}}
	reg := breaker.NewWithClock(5*time.Minute, time.Now)
	reg.RecordFailure("embed:gemini")

	chain := NewFallbackProvider(reg, primary, secondary)
	resp, err := chain.Generate("hello", TaskRetrievalDocument)

	require.NoError(t, err)
	assert.Equal(t, []float32{2}, resp.Values)
	assert.Equal(t, 0, primary.calls)
}

func TestFallbackAllProvidersFail(t *testing.T) {
	primary := &stubEmbedder{name: "gemini", err: errors.New("down")}
	secondary := &stubEmbedder{name: "cohere", err: errors.New("down")}
	reg := breaker.NewWithClock(5*time.Minute, time.Now)

	chain := NewFallbackProvider(reg, primary, secondary)
	_, err := chain.Generate("hello", TaskRetrievalDocument)

	assert.Error(t, err)
}

func TestBreakerKeysDoNotCollideWithChatProviders(t *testing.T) {
	primary := &stubEmbedder{name: "gemini", values: []float32{1}}
	reg := breaker.NewWithClock(5*time.Minute, time.Now)

	// Chat-side gemini benched; embedding-side gemini must still run.
	reg.RecordFailure("gemini")

	chain := NewFallbackProvider(reg, primary)
	_, err := chain.Generate("hello", TaskRetrievalQuery)

	require.NoError(t, err)
	assert.Equal(t, 1, primary.calls)
}

package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"ai-assistant-be/pkg/llm"
	"ai-assistant-be/pkg/llm/breaker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	name     string
	response string
	err      error
	calls    int
}

func (s *stubProvider) Name() string {
	return s.name
}

func (s *stubProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func newTestRegistry() breaker.Registry {
	return breaker.NewWithClock(5*time.Minute, time.Now)
}

func TestGenerateFallsBackToHealthyProvider(t *testing.T) {
	a := &stubProvider{name: "a", err: errors.New("boom")}
	b := &stubProvider{name: "b", err: errors.New("boom")}
	c := &stubProvider{name: "c", response: "hello from c"}
	reg := newTestRegistry()
	g := New([]llm.Provider{a, b, c}, reg)

	text, err := g.Generate(context.Background(), "hi")

	require.NoError(t, err)
	assert.Equal(t, "hello from c", text)
	assert.False(t, reg.IsAvailable("a"), "a should be marked failed")
	assert.False(t, reg.IsAvailable("b"), "b should be marked failed")
	assert.True(t, reg.IsAvailable("c"), "c succeeded and must stay available")
}

func TestGenerateStopsAtFirstSuccess(t *testing.T) {
	a := &stubProvider{name: "a", response: "from a"}
	b := &stubProvider{name: "b", response: "from b"}
	g := New([]llm.Provider{a, b}, newTestRegistry())

	text, err := g.Generate(context.Background(), "hi")

	require.NoError(t, err)
	assert.Equal(t, "from a", text)
	assert.Equal(t, 0, b.calls, "b must not be tried after a succeeds")
}

func TestGenerateAllProvidersFail(t *testing.T) {
	a := &stubProvider{name: "a", err: errors.New("down")}
	b := &stubProvider{name: "b", err: errors.New("down")}
	g := New([]llm.Provider{a, b}, newTestRegistry())

	text, err := g.Generate(context.Background(), "hi")

	assert.Empty(t, text)
	assert.ErrorIs(t, err, llm.ErrAllProvidersUnavailable)
}

func TestGenerateSkipsProvidersInCooldown(t *testing.T) {
	a := &stubProvider{name: "a", response: "from a"}
	b := &stubProvider{name: "b", response: "from b"}
	reg := newTestRegistry()
	reg.RecordFailure("a")
	g := New([]llm.Provider{a, b}, reg)

	text, err := g.Generate(context.Background(), "hi")

	require.NoError(t, err)
	assert.Equal(t, "from b", text)
	assert.Equal(t, 0, a.calls, "cooled-down provider must not be attempted")
}

func TestGenerateNoProvidersConfigured(t *testing.T) {
	g := New(nil, newTestRegistry())

	_, err := g.Generate(context.Background(), "hi")

	assert.ErrorIs(t, err, llm.ErrAllProvidersUnavailable)
}

func TestSuccessClearsEarlierCooldown(t *testing.T) {
	a := &stubProvider{name: "a", response: "ok"}
	reg := newTestRegistry()
	reg.RecordFailure("a")
	g := New([]llm.Provider{a}, reg)

	// First call: a is skipped, chain exhausted.
	_, err := g.Generate(context.Background(), "hi")
	assert.ErrorIs(t, err, llm.ErrAllProvidersUnavailable)

	// Simulate recovery observed elsewhere.
	reg.RecordSuccess("a")
	text, err := g.Generate(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
}

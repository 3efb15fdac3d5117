package facts

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	response string
	err      error
}

func (s *stubGenerator) ExtractStructured(ctx context.Context, prompt string) (string, error) {
	return s.response, s.err
}

func findEntity(g FactGraph, name string) (Entity, bool) {
	for _, e := range g.Entities {
		if e.Name == name {
			return e, true
		}
	}
	return Entity{}, false
}

func TestExtractLinksUserToPerson(t *testing.T) {
	responses := []string{
		// Clean JSON
		`{"entities": [{"name": "Alex", "label": "PERSON"}, {"name": "Paris", "label": "PLACE"}], "relationships": [{"source": "Alex", "target": "Paris", "type": "WANTS_TO_VISIT"}]}`,
		// Fenced
		"```json\n{\"entities\": [{\"name\": \"Alex\", \"label\": \"PERSON\"}, {\"name\": \"Paris\", \"label\": \"PLACE\"}], \"relationships\": [{\"source\": \"Alex\", \"target\": \"Paris\", \"type\": \"WANTS_TO_VISIT\"}]}\n```",
		// Wrapped in prose
		`Sure! Here is the graph you asked for: {"entities": [{"name": "Alex", "label": "PERSON"}, {"name": "Paris", "label": "PLACE"}], "relationships": [{"source": "Alex", "target": "Paris", "type": "WANTS_TO_VISIT"}]} Let me know if you need anything else.`,
	}

	for _, response := range responses {
		extractor := NewExtractor(&stubGenerator{response: response})

		graph := extractor.Extract(context.Background(), "u-42", "My name is Alex, I want to visit Paris")

		person, ok := findEntity(graph, "Alex")
		require.True(t, ok, "PERSON entity missing for response %q", response)
		assert.Equal(t, LabelPerson, person.Label)

		user, ok := findEntity(graph, "User_u-42")
		require.True(t, ok, "User entity must always be injected")
		assert.Equal(t, LabelUser, user.Label)

		var named bool
		for _, rel := range graph.Relationships {
			if rel.Type == RelationIsNamed && rel.Source == "User_u-42" && rel.Target == "Alex" {
				named = true
			}
		}
		assert.True(t, named, "IS_NAMED relationship missing for response %q", response)
	}
}

func TestExtractMalformedOutput(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"no json at all", "I could not find any facts in this conversation."},
		{"broken json", `{"entities": [{"name": "Alex"`},
		{"empty response", ""},
		{"mismatched braces", "} nothing {"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extractor := NewExtractor(&stubGenerator{response: tt.response})

			graph := extractor.Extract(context.Background(), "u-1", "hello")

			// Only the structural user node, nothing from the model.
			require.Len(t, graph.Entities, 1)
			assert.Equal(t, "User_u-1", graph.Entities[0].Name)
			assert.Empty(t, graph.Relationships)
		})
	}
}

func TestExtractGenerationFailure(t *testing.T) {
	extractor := NewExtractor(&stubGenerator{err: errors.New("all providers down")})

	graph := extractor.Extract(context.Background(), "u-1", "hello")

	require.Len(t, graph.Entities, 1)
	assert.Equal(t, "User_u-1", graph.Entities[0].Name)
	assert.Empty(t, graph.Relationships)
}

func TestExtractNoPersonNoIsNamed(t *testing.T) {
	extractor := NewExtractor(&stubGenerator{
		response: `{"entities": [{"name": "Tokyo", "label": "PLACE"}], "relationships": []}`,
	})

	graph := extractor.Extract(context.Background(), "u-7", "Tokyo is lovely in spring")

	_, ok := findEntity(graph, "User_u-7")
	assert.True(t, ok)
	assert.Empty(t, graph.Relationships, "IS_NAMED only applies when a PERSON exists")
}

func TestParseResponseEmptyArrays(t *testing.T) {
	result := ParseResponse(`{"entities": [], "relationships": []}`)

	assert.False(t, result.Malformed)
	assert.True(t, result.Graph.IsEmpty())
}

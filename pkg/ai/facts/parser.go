package facts

import (
	"encoding/json"
	"strings"
)

// ParseResult is the tagged outcome of parsing a model response: either a
// usable graph or the raw text that failed to parse. Malformed output is a
// normal condition here, not an error.
type ParseResult struct {
	Graph     FactGraph
	Malformed bool
	Raw       string
}

// ParseResponse extracts a FactGraph from whatever the model returned.
// Backends routinely wrap JSON in prose or code fences, so we slice from the
// first '{' to the last '}' and only parse that span.
func ParseResponse(raw string) ParseResult {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return ParseResult{Malformed: true, Raw: raw}
	}

	span := raw[start : end+1]

	var graph FactGraph
	if err := json.Unmarshal([]byte(span), &graph); err != nil {
		return ParseResult{Malformed: true, Raw: raw}
	}

	return ParseResult{Graph: graph}
}

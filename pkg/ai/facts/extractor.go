package facts

import (
	"context"
	"fmt"
	"log"
)

const extractionPromptTemplate = `Analyze the conversation transcript below and extract facts about the user and their world as a knowledge graph.

Respond ONLY with a single raw JSON object with exactly two keys: "entities" and "relationships".
- "entities": array of {"name": string, "label": string}. Labels: PERSON, PLACE, ORGANIZATION, PREFERENCE, EVENT, OBJECT.
- "relationships": array of {"source": string, "target": string, "type": string}. Source and target must be entity names from "entities". Types are UPPER_SNAKE_CASE verbs like LIKES, LIVES_IN, WORKS_AT, WANTS_TO_VISIT.

Example transcript:
"Human: My name is Sarah and I love hiking in Colorado."

Example response:
{"entities": [{"name": "Sarah", "label": "PERSON"}, {"name": "hiking", "label": "PREFERENCE"}, {"name": "Colorado", "label": "PLACE"}], "relationships": [{"source": "Sarah", "target": "hiking", "type": "LIKES"}, {"source": "Sarah", "target": "Colorado", "type": "HIKES_IN"}]}

If the transcript contains no extractable facts, respond with {"entities": [], "relationships": []}.

Transcript:
%s

JSON Response:`

// StructuredGenerator is the slice of the generation gateway the extractor
// needs.
type StructuredGenerator interface {
	ExtractStructured(ctx context.Context, prompt string) (string, error)
}

// Extractor turns free conversation text into a FactGraph. It never fails:
// any provider or parsing problem degrades to an empty graph so callers can
// merge unconditionally.
type Extractor struct {
	generator StructuredGenerator
}

func NewExtractor(generator StructuredGenerator) *Extractor {
	return &Extractor{generator: generator}
}

func (e *Extractor) Extract(ctx context.Context, userId string, transcript string) FactGraph {
	prompt := fmt.Sprintf(extractionPromptTemplate, transcript)

	response, err := e.generator.ExtractStructured(ctx, prompt)
	if err != nil {
		log.Printf("[WARN] Fact extraction generation failed, returning empty graph: %v", err)
		return augment(userId, FactGraph{})
	}

	result := ParseResponse(response)
	if result.Malformed {
		log.Printf("[WARN] Fact extraction returned malformed output (len=%d), returning empty graph", len(result.Raw))
		return augment(userId, FactGraph{})
	}

	return augment(userId, result.Graph)
}

// augment injects the acting user into the graph and, when the model found a
// PERSON, links the user node to it. This is structural bookkeeping applied
// on every call, not model output.
func augment(userId string, graph FactGraph) FactGraph {
	userNode := fmt.Sprintf("User_%s", userId)
	graph.Entities = append(graph.Entities, Entity{Name: userNode, Label: LabelUser})

	for _, entity := range graph.Entities {
		if entity.Label == LabelPerson {
			graph.Relationships = append(graph.Relationships, Relationship{
				Source: userNode,
				Target: entity.Name,
				Type:   RelationIsNamed,
			})
			break
		}
	}

	return graph
}

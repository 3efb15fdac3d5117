package contract

import (
	"context"

	"ai-assistant-be/internal/entity"

	"github.com/google/uuid"
)

type SessionSummaryRepository interface {
	// Upsert writes the summary keyed by session id. Re-running the
	// consolidation pipeline overwrites in place, never duplicates.
	Upsert(ctx context.Context, sessionId uuid.UUID, embedding []float32, summary string) error

	// QueryNearest returns the topK summaries closest to the query vector,
	// best first, with cosine similarity scores.
	QueryNearest(ctx context.Context, embedding []float32, topK int) ([]*entity.SummaryMatch, error)
}

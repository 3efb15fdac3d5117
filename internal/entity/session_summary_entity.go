package entity

import (
	"time"

	"github.com/google/uuid"
)

// SessionSummary is the long-term semantic memory record for one archived
// session, keyed by session id so upserts never duplicate.
type SessionSummary struct {
	SessionId uuid.UUID
	Summary   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SummaryMatch is a scored result from a nearest-neighbour query.
type SummaryMatch struct {
	SessionId uuid.UUID
	Summary   string
	Score     float32 // cosine similarity, 1.0 = identical
}

package pipeline

import (
	"context"
	"fmt"
	"log"

	"ai-assistant-be/pkg/ai/facts"
)

// Sentinel summaries. A session must reach the archived state even when
// summarization is impossible; these stand in for the real summary text.
const (
	SummaryNoContent   = "This session contained no conversation content."
	SummaryUnavailable = "Summary unavailable for this session."
)

const summarizePromptTemplate = `Produce a concise third-person summary of the following conversation between a user and an AI assistant. Capture the topics discussed, any decisions made, and any personal details the user shared. Two to four sentences, no preamble.

Conversation:
%s

Summary:`

// Session is the pipeline's view of one conversation.
type Session struct {
	Id         string
	UserId     string
	Transcript string
	IsArchived bool
}

// SessionStore provides the durable session record.
type SessionStore interface {
	FindById(ctx context.Context, id string) (*Session, error)
	SetArchived(ctx context.Context, id string) error
}

// VectorStore receives the summary keyed by session id (upsert semantics).
type VectorStore interface {
	UpsertSummary(ctx context.Context, sessionId string, embedding []float32, summary string) error
}

// GraphStore receives extracted facts (merge semantics).
type GraphStore interface {
	MergeUser(ctx context.Context, userId string) error
	MergeFacts(ctx context.Context, graph facts.FactGraph) error
}

// Embedder is the external embedding capability; it may fail, in which case
// the vector write is skipped.
type Embedder interface {
	Embed(text string) ([]float32, error)
}

// Summarizer is the slice of the generation gateway the pipeline needs.
type Summarizer interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// FactExtractor never fails; it degrades to an empty graph.
type FactExtractor interface {
	Extract(ctx context.Context, userId string, transcript string) facts.FactGraph
}

// Consolidation migrates one idle session into long-term memory:
// summarize, extract facts, upsert the summary vector, merge the facts,
// mark archived. The pipeline holds no state of its own; every step is
// idempotent, so redelivery of the same job is harmless.
type Consolidation struct {
	sessions  SessionStore
	vectors   VectorStore
	graphs    GraphStore
	embedder  Embedder
	generator Summarizer
	extractor FactExtractor
}

func NewConsolidation(
	sessions SessionStore,
	vectors VectorStore,
	graphs GraphStore,
	embedder Embedder,
	generator Summarizer,
	extractor FactExtractor,
) *Consolidation {
	return &Consolidation{
		sessions:  sessions,
		vectors:   vectors,
		graphs:    graphs,
		embedder:  embedder,
		generator: generator,
		extractor: extractor,
	}
}

// Run executes the pipeline for one session. The returned error is only
// non-nil when the initial fetch hit the store itself; that is the single
// retryable condition. Every later step absorbs its own failure: the
// session must still reach the archived state, and anything missed is
// repaired on the next re-run because all writes are idempotent.
func (c *Consolidation) Run(ctx context.Context, sessionId string) error {
	// Step 1: fetch. A store error is retryable; a missing session is not,
	// the scanner simply will not select it again.
	session, err := c.sessions.FindById(ctx, sessionId)
	if err != nil {
		return fmt.Errorf("consolidation fetch session %s: %w", sessionId, err)
	}
	if session == nil {
		log.Printf("[WARN] Consolidation: session %s not found, skipping", sessionId)
		return nil
	}
	if session.IsArchived {
		// A redelivered job after a completed run; the work is already done.
		log.Printf("[INFO] Consolidation: session %s already archived, skipping", sessionId)
		return nil
	}

	// Step 2: transcript. Empty sessions still get archived; there is just
	// nothing to summarize or extract.
	summary := SummaryNoContent
	if session.Transcript != "" {
		// Step 3: summarize. Failure does not abort: archival must still
		// happen or the session would be re-selected forever.
		summary = c.summarize(ctx, session.Transcript)

		// Step 4: facts. Extraction cannot fail; only the graph writes can.
		c.mergeFacts(ctx, session)
	}

	// Step 5: vector upsert, skipped when the embedding capability is down.
	c.storeSummary(ctx, session.Id, summary)

	// Step 6: archive. If this write fails the session stays eligible for
	// the next inactivity scan and the whole pipeline re-runs safely.
	if err := c.sessions.SetArchived(ctx, session.Id); err != nil {
		log.Printf("[ERROR] Consolidation: failed to archive session %s, will retry on next scan: %v", session.Id, err)
	}

	return nil
}

func (c *Consolidation) summarize(ctx context.Context, transcript string) string {
	prompt := fmt.Sprintf(summarizePromptTemplate, transcript)
	summary, err := c.generator.Generate(ctx, prompt)
	if err != nil {
		log.Printf("[ERROR] Consolidation: summarization failed, using sentinel: %v", err)
		return SummaryUnavailable
	}
	return summary
}

func (c *Consolidation) mergeFacts(ctx context.Context, session *Session) {
	graph := c.extractor.Extract(ctx, session.UserId, session.Transcript)

	if err := c.graphs.MergeUser(ctx, session.UserId); err != nil {
		log.Printf("[ERROR] Consolidation: merge user %s failed, skipping fact merge: %v", session.UserId, err)
		return
	}
	if err := c.graphs.MergeFacts(ctx, graph); err != nil {
		log.Printf("[ERROR] Consolidation: merge facts for session %s failed: %v", session.Id, err)
	}
}

func (c *Consolidation) storeSummary(ctx context.Context, sessionId, summary string) {
	embeddingValues, err := c.embedder.Embed(summary)
	if err != nil {
		log.Printf("[WARN] Consolidation: embedding failed for session %s, skipping vector upsert: %v", sessionId, err)
		return
	}
	if err := c.vectors.UpsertSummary(ctx, sessionId, embeddingValues, summary); err != nil {
		log.Printf("[ERROR] Consolidation: vector upsert for session %s failed: %v", sessionId, err)
	}
}

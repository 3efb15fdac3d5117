package constant

const (
	// Durable consumer names for the background workers.
	DurableConsolidationWorker = "memory-consolidation-worker"

	// Watermill topics for the per-turn background tasks.
	TopicFactExtraction = "facts.extract"
	TopicPrefetchInfo   = "info.prefetch"

	// PrefetchPromptTemplate asks the model for destination info ahead of
	// the user's next turn while they are planning a trip.
	PrefetchPromptTemplate = `Provide a short travel briefing for %s.
Cover, in a few sentences each: best time to visit, top three attractions, and one local tip.
Keep the whole answer under 150 words.`
)

package events

// Job is the contract for every background task payload that crosses the
// task queue.
type Job interface {
	// JobType returns the unique code for this job (e.g. "SESSION_CONSOLIDATE").
	JobType() string
}

// Job type codes. The queue maps these onto subjects.
const (
	JobTypeConsolidateSession = "SESSION_CONSOLIDATE"
	JobTypeExtractFacts       = "FACTS_EXTRACT"
	JobTypePrefetchInfo       = "INFO_PREFETCH"
)

// ConsolidateSessionJob asks the memory worker to migrate one idle session
// into long-term memory.
type ConsolidateSessionJob struct {
	SessionId string `json:"session_id"`
}

func (j ConsolidateSessionJob) JobType() string {
	return JobTypeConsolidateSession
}

// ExtractFactsJob carries a single conversation turn for incremental fact
// extraction into the knowledge graph.
type ExtractFactsJob struct {
	UserId           string `json:"user_id"`
	UserMessage      string `json:"user_message"`
	AssistantMessage string `json:"assistant_message"`
}

func (j ExtractFactsJob) JobType() string {
	return JobTypeExtractFacts
}

// PrefetchJob asks the worker to look up destination info ahead of time so
// the next assistant turn can use it.
type PrefetchJob struct {
	SessionId   string `json:"session_id"`
	Destination string `json:"destination"`
}

func (j PrefetchJob) JobType() string {
	return JobTypePrefetchInfo
}

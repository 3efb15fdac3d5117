package embedding

// Task types hint the backend at how the vector will be used.
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

type EmbeddingResponse struct {
	Values []float32
}

// EmbeddingProvider defines the interface for generating text embeddings
type EmbeddingProvider interface {
	// Name returns the stable identifier used for breaker bookkeeping.
	Name() string

	Generate(text string, taskType string) (*EmbeddingResponse, error)
}

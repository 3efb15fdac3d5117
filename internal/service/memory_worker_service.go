package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/internal/repository/specification"
	"ai-assistant-be/pkg/ai/pipeline"
	"ai-assistant-be/pkg/embedding"
	"ai-assistant-be/pkg/events"
	pkgnats "ai-assistant-be/pkg/nats"

	"github.com/google/uuid"
)

// IMemoryWorkerService consumes consolidation jobs from the durable queue
// and runs the pipeline on each.
type IMemoryWorkerService interface {
	Start() error
}

type memoryWorkerService struct {
	worker      *pkgnats.Worker
	pipeline    *pipeline.Consolidation
	durableName string
	logger      logger.ILogger
}

func NewMemoryWorkerService(worker *pkgnats.Worker, p *pipeline.Consolidation, durableName string, log logger.ILogger) IMemoryWorkerService {
	return &memoryWorkerService{
		worker:      worker,
		pipeline:    p,
		durableName: durableName,
		logger:      log,
	}
}

func (ms *memoryWorkerService) Start() error {
	return ms.worker.Subscribe(events.JobTypeConsolidateSession, ms.durableName, ms.handle)
}

func (ms *memoryWorkerService) handle(ctx context.Context, data []byte) error {
	var job events.ConsolidateSessionJob
	if err := json.Unmarshal(data, &job); err != nil {
		// Malformed payloads are never going to parse; drop them.
		ms.logger.Error("memory_worker", "failed to unmarshal job, dropping", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}

	ms.logger.Info("memory_worker", "consolidating session", map[string]interface{}{
		"session_id": job.SessionId,
	})
	if err := ms.pipeline.Run(ctx, job.SessionId); err != nil {
		ms.logger.Error("memory_worker", "consolidation failed, job will be redelivered", map[string]interface{}{
			"session_id": job.SessionId,
			"error":      err.Error(),
		})
		return err
	}
	return nil
}

// --- Pipeline adapters ---
// The pipeline keeps narrow interfaces over plain string ids; the adapters
// below bind them to the uuid-typed repositories and the gateway.

type pipelineSessionStore struct {
	repo contract.SessionRepository
}

// NewPipelineSessionStore exposes the session repository to the
// consolidation pipeline.
func NewPipelineSessionStore(repo contract.SessionRepository) pipeline.SessionStore {
	return &pipelineSessionStore{repo: repo}
}

func (a *pipelineSessionStore) FindById(ctx context.Context, id string) (*pipeline.Session, error) {
	sessionId, err := uuid.Parse(id)
	if err != nil {
		// Not a store failure; the pipeline treats nil as "skip".
		log.Printf("[WARN] MemoryWorker: invalid session id %q: %v", id, err)
		return nil, nil
	}

	session, err := a.repo.FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}
	return &pipeline.Session{
		Id:         session.Id.String(),
		UserId:     session.UserId.String(),
		Transcript: session.Transcript(),
		IsArchived: session.IsArchived,
	}, nil
}

func (a *pipelineSessionStore) SetArchived(ctx context.Context, id string) error {
	sessionId, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid session id %q: %w", id, err)
	}
	return a.repo.SetArchived(ctx, sessionId)
}

type pipelineVectorStore struct {
	repo contract.SessionSummaryRepository
}

func NewPipelineVectorStore(repo contract.SessionSummaryRepository) pipeline.VectorStore {
	return &pipelineVectorStore{repo: repo}
}

func (a *pipelineVectorStore) UpsertSummary(ctx context.Context, sessionId string, embeddingValues []float32, summary string) error {
	id, err := uuid.Parse(sessionId)
	if err != nil {
		return fmt.Errorf("invalid session id %q: %w", sessionId, err)
	}
	return a.repo.Upsert(ctx, id, embeddingValues, summary)
}

type pipelineEmbedder struct {
	provider embedding.EmbeddingProvider
}

func NewPipelineEmbedder(provider embedding.EmbeddingProvider) pipeline.Embedder {
	return &pipelineEmbedder{provider: provider}
}

func (a *pipelineEmbedder) Embed(text string) ([]float32, error) {
	res, err := a.provider.Generate(text, embedding.TaskRetrievalDocument)
	if err != nil {
		return nil, err
	}
	return res.Values, nil
}

type pipelineSummarizer struct {
	generator Generator
}

func NewPipelineSummarizer(generator Generator) pipeline.Summarizer {
	return &pipelineSummarizer{generator: generator}
}

func (a *pipelineSummarizer) Generate(ctx context.Context, prompt string) (string, error) {
	return a.generator.Generate(ctx, prompt)
}

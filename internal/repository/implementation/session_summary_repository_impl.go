package implementation

import (
	"context"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/model"
	"ai-assistant-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SessionSummaryRepositoryImpl struct {
	db *gorm.DB
}

func NewSessionSummaryRepository(db *gorm.DB) contract.SessionSummaryRepository {
	return &SessionSummaryRepositoryImpl{db: db}
}

func (r *SessionSummaryRepositoryImpl) Upsert(ctx context.Context, sessionId uuid.UUID, embedding []float32, summary string) error {
	m := &model.SessionSummary{
		SessionId: sessionId,
		Summary:   summary,
		Embedding: pgvector.NewVector(embedding),
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"summary", "embedding", "updated_at"}),
	}).Create(m).Error
}

func (r *SessionSummaryRepositoryImpl) QueryNearest(ctx context.Context, embedding []float32, topK int) ([]*entity.SummaryMatch, error) {
	if topK <= 0 {
		topK = 1
	}

	var rows []struct {
		SessionId uuid.UUID
		Summary   string
		Score     float32
	}

	// Cosine distance operator; score is flipped to similarity so callers
	// can threshold with "bigger is better".
	err := r.db.WithContext(ctx).Raw(
		`SELECT session_id, summary, 1 - (embedding <=> ?) AS score
		 FROM session_summaries
		 ORDER BY embedding <=> ?
		 LIMIT ?`,
		pgvector.NewVector(embedding), pgvector.NewVector(embedding), topK,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	matches := make([]*entity.SummaryMatch, len(rows))
	for i, row := range rows {
		matches[i] = &entity.SummaryMatch{
			SessionId: row.SessionId,
			Summary:   row.Summary,
			Score:     row.Score,
		}
	}
	return matches, nil
}

package contract

import (
	"context"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Session, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Session, error)

	// AppendMessages adds a batch of messages and bumps last_updated_at in
	// one compound write, so the inactivity scanner can never observe a
	// session that has new messages but a stale timestamp.
	AppendMessages(ctx context.Context, id uuid.UUID, messages []entity.Message) error

	// SetArchived flips is_archived exactly once; calling it on an already
	// archived session is a no-op.
	SetArchived(ctx context.Context, id uuid.UUID) error

	// Delete removes matching sessions and reports how many rows went away,
	// so callers can distinguish "deleted" from "not found or not yours".
	Delete(ctx context.Context, specs ...specification.Specification) (int64, error)
}

package contract

import (
	"context"

	"ai-assistant-be/internal/entity"
)

type FeedbackRepository interface {
	Create(ctx context.Context, feedback *entity.Feedback) error
}

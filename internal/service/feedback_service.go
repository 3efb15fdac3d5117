package service

import (
	"context"
	"fmt"
	"time"

	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/contract"

	"github.com/google/uuid"
)

// IFeedbackService records user verdicts on assistant messages.
type IFeedbackService interface {
	SubmitFeedback(ctx context.Context, userId uuid.UUID, request *dto.SubmitFeedbackRequest) error
}

type feedbackService struct {
	feedbackRepo contract.FeedbackRepository
}

func NewFeedbackService(feedbackRepo contract.FeedbackRepository) IFeedbackService {
	return &feedbackService{feedbackRepo: feedbackRepo}
}

func (fs *feedbackService) SubmitFeedback(ctx context.Context, userId uuid.UUID, request *dto.SubmitFeedbackRequest) error {
	history := make([]entity.Message, 0, len(request.ChatHistory))
	for _, msg := range request.ChatHistory {
		history = append(history, entity.Message{Sender: msg.Sender, Text: msg.Text})
	}

	feedback := &entity.Feedback{
		Id:        uuid.New(),
		UserId:    userId,
		SessionId: request.SessionId,
		Rating:    request.Rating,
		RatedMessage: entity.Message{
			Sender: request.RatedMessage.Sender,
			Text:   request.RatedMessage.Text,
		},
		ChatHistory: history,
		CreatedAt:   time.Now(),
	}

	if err := fs.feedbackRepo.Create(ctx, feedback); err != nil {
		return fmt.Errorf("failed to store feedback: %w", err)
	}
	return nil
}

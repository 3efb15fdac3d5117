package mapper

import (
	"encoding/json"
	"fmt"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/model"
)

type FeedbackMapper struct{}

func NewFeedbackMapper() *FeedbackMapper {
	return &FeedbackMapper{}
}

func (m *FeedbackMapper) FeedbackToModel(f *entity.Feedback) (*model.Feedback, error) {
	if f == nil {
		return nil, nil
	}

	ratedMessage, err := json.Marshal(f.RatedMessage)
	if err != nil {
		return nil, fmt.Errorf("marshal rated message: %w", err)
	}

	history := f.ChatHistory
	if history == nil {
		history = []entity.Message{}
	}
	rawHistory, err := json.Marshal(history)
	if err != nil {
		return nil, fmt.Errorf("marshal chat history: %w", err)
	}

	return &model.Feedback{
		Id:           f.Id,
		UserId:       f.UserId,
		SessionId:    f.SessionId,
		Rating:       f.Rating,
		RatedMessage: ratedMessage,
		ChatHistory:  rawHistory,
		Reviewed:     f.Reviewed,
		CreatedAt:    f.CreatedAt,
	}, nil
}

func (m *FeedbackMapper) FeedbackToEntity(f *model.Feedback) *entity.Feedback {
	if f == nil {
		return nil
	}

	var ratedMessage entity.Message
	_ = json.Unmarshal(f.RatedMessage, &ratedMessage)

	var history []entity.Message
	if len(f.ChatHistory) > 0 {
		_ = json.Unmarshal(f.ChatHistory, &history)
	}

	return &entity.Feedback{
		Id:           f.Id,
		UserId:       f.UserId,
		SessionId:    f.SessionId,
		Rating:       f.Rating,
		RatedMessage: ratedMessage,
		ChatHistory:  history,
		Reviewed:     f.Reviewed,
		CreatedAt:    f.CreatedAt,
	}
}

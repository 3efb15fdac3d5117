package mapper

import (
	"encoding/json"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/model"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

func (m *SessionMapper) SessionToEntity(s *model.Session) *entity.Session {
	if s == nil {
		return nil
	}

	var messages []entity.Message
	if len(s.Messages) > 0 {
		// A corrupt messages column degrades to an empty transcript
		// rather than failing every read of the session.
		_ = json.Unmarshal(s.Messages, &messages)
	}

	return &entity.Session{
		Id:            s.Id,
		UserId:        s.UserId,
		Title:         s.Title,
		Messages:      messages,
		CreatedAt:     s.CreatedAt,
		LastUpdatedAt: s.LastUpdatedAt,
		IsArchived:    s.IsArchived,
	}
}

func (m *SessionMapper) SessionToModel(s *entity.Session) (*model.Session, error) {
	if s == nil {
		return nil, nil
	}

	messages := s.Messages
	if messages == nil {
		messages = []entity.Message{}
	}
	raw, err := json.Marshal(messages)
	if err != nil {
		return nil, err
	}

	return &model.Session{
		Id:            s.Id,
		UserId:        s.UserId,
		Title:         s.Title,
		Messages:      raw,
		CreatedAt:     s.CreatedAt,
		LastUpdatedAt: s.LastUpdatedAt,
		IsArchived:    s.IsArchived,
	}, nil
}

type TaskMapper struct{}

func NewTaskMapper() *TaskMapper {
	return &TaskMapper{}
}

func (m *TaskMapper) TaskToEntity(t *model.Task) *entity.Task {
	if t == nil {
		return nil
	}
	return &entity.Task{
		Id:         t.Id,
		UserId:     t.UserId,
		Content:    t.Content,
		DueDateStr: t.DueDateStr,
		Status:     t.Status,
		CreatedAt:  t.CreatedAt,
	}
}

func (m *TaskMapper) TaskToModel(t *entity.Task) *model.Task {
	if t == nil {
		return nil
	}
	return &model.Task{
		Id:         t.Id,
		UserId:     t.UserId,
		Content:    t.Content,
		DueDateStr: t.DueDateStr,
		Status:     t.Status,
		CreatedAt:  t.CreatedAt,
	}
}

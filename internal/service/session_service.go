package service

import (
	"context"
	"fmt"

	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ISessionService manages a user's conversations outside the live chat path.
type ISessionService interface {
	GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllSessionsResponse, error)
	GetSessionMessages(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.GetSessionMessagesResponse, error)
	DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error
}

type sessionService struct {
	sessionRepo contract.SessionRepository
}

func NewSessionService(sessionRepo contract.SessionRepository) ISessionService {
	return &sessionService{sessionRepo: sessionRepo}
}

func (ss *sessionService) GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllSessionsResponse, error) {
	sessions, err := ss.sessionRepo.FindAll(ctx,
		specification.ByUserId{UserId: userId},
		specification.OrderBy{Field: "last_updated_at", Desc: true},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	responses := make([]*dto.GetAllSessionsResponse, 0, len(sessions))
	for _, session := range sessions {
		responses = append(responses, &dto.GetAllSessionsResponse{
			Id:            session.Id,
			Title:         session.Title,
			CreatedAt:     session.CreatedAt,
			LastUpdatedAt: session.LastUpdatedAt,
			IsArchived:    session.IsArchived,
		})
	}
	return responses, nil
}

func (ss *sessionService) GetSessionMessages(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.GetSessionMessagesResponse, error) {
	session, err := ss.sessionRepo.FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.ByUserId{UserId: userId},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	messages := make([]dto.MessageDTO, 0, len(session.Messages))
	for _, msg := range session.Messages {
		messages = append(messages, dto.MessageDTO{Sender: msg.Sender, Text: msg.Text})
	}

	return &dto.GetSessionMessagesResponse{
		SessionId: session.Id,
		Messages:  messages,
	}, nil
}

// DeleteSession removes a conversation. The ownership filter rides in the
// delete itself; zero affected rows means not found or not the caller's.
func (ss *sessionService) DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error {
	deleted, err := ss.sessionRepo.Delete(ctx,
		specification.ByID{ID: sessionId},
		specification.ByUserId{UserId: userId},
	)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if deleted == 0 {
		return ErrSessionNotFound
	}
	return nil
}

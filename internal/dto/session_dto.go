package dto

import (
	"time"

	"github.com/google/uuid"
)

type GetAllSessionsResponse struct {
	Id            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	CreatedAt     time.Time `json:"created_at"`
	LastUpdatedAt time.Time `json:"last_updated_at"`
	IsArchived    bool      `json:"is_archived"`
}

type MessageDTO struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

type GetSessionMessagesResponse struct {
	SessionId uuid.UUID    `json:"session_id"`
	Messages  []MessageDTO `json:"messages"`
}

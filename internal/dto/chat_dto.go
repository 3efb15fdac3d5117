package dto

import "github.com/google/uuid"

type NewChatRequest struct {
	Message string `json:"message" validate:"required"`
}

type NewChatResponse struct {
	SessionId    uuid.UUID `json:"session_id"`
	ResponseText string    `json:"response_text"`
}

type ContinueChatRequest struct {
	Message string `json:"message" validate:"required"`
}

type ContinueChatResponse struct {
	ResponseText string `json:"response_text"`
}

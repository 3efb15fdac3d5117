package dto

import "github.com/google/uuid"

type SubmitFeedbackRequest struct {
	SessionId    uuid.UUID    `json:"session_id" validate:"required"`
	Rating       string       `json:"rating" validate:"required,oneof=good bad"`
	RatedMessage MessageDTO   `json:"rated_message" validate:"required"`
	ChatHistory  []MessageDTO `json:"chat_history"`
}

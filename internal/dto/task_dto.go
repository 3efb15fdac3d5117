package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateTaskRequest struct {
	Content string `json:"content" validate:"required"`
	DueDate string `json:"due_date" validate:"required"`
}

type UpdateTaskRequest struct {
	Content *string `json:"content,omitempty"`
	DueDate *string `json:"due_date,omitempty"`
}

type TaskResponse struct {
	Id        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	DueDate   string    `json:"due_date"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

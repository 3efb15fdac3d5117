package entity

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	Id         uuid.UUID
	UserId     uuid.UUID
	Content    string
	DueDateStr string // Free-form as the user phrased it; parsing is a delivery concern
	Status     string
	CreatedAt  time.Time
}

const (
	TaskStatusPending = "pending"
	TaskStatusDone    = "done"
)

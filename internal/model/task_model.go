package model

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId     uuid.UUID `gorm:"type:uuid;not null;index"`
	Content    string    `gorm:"type:text;not null"`
	DueDateStr string    `gorm:"type:text"`
	Status     string    `gorm:"type:varchar(16);not null;default:'pending';index"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (Task) TableName() string {
	return "tasks"
}

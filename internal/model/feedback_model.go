package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Feedback struct {
	Id           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId       uuid.UUID      `gorm:"type:uuid;not null;index"`
	SessionId    uuid.UUID      `gorm:"type:uuid;not null;index"`
	Rating       string         `gorm:"type:varchar(8);not null"`
	RatedMessage datatypes.JSON `gorm:"type:jsonb;not null"`
	ChatHistory  datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'"`
	Reviewed     bool           `gorm:"not null;default:false"` // Flag for a future review dashboard
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
}

func (Feedback) TableName() string {
	return "feedback"
}

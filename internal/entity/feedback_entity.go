package entity

import (
	"time"

	"github.com/google/uuid"
)

// Feedback is a user's verdict on one assistant message, kept with the
// surrounding exchange so it can be reviewed in context later.
type Feedback struct {
	Id           uuid.UUID
	UserId       uuid.UUID
	SessionId    uuid.UUID
	Rating       string
	RatedMessage Message
	ChatHistory  []Message
	Reviewed     bool
	CreatedAt    time.Time
}

const (
	RatingGood = "good"
	RatingBad  = "bad"
)

package entity

import (
	"time"

	"github.com/google/uuid"
)

// Message is one turn inside a session transcript.
type Message struct {
	Sender string `json:"sender"` // "user" or "assistant"
	Text   string `json:"text"`
}

const (
	SenderUser      = "user"
	SenderAssistant = "assistant"
)

// Session is a conversation owned by one user. It stays hot until the
// inactivity scanner hands it to the consolidation pipeline, which flips
// IsArchived exactly once.
type Session struct {
	Id            uuid.UUID
	UserId        uuid.UUID
	Title         string
	Messages      []Message
	CreatedAt     time.Time
	LastUpdatedAt time.Time
	IsArchived    bool
}

// Transcript renders the ordered messages as plain text for prompts.
func (s *Session) Transcript() string {
	if len(s.Messages) == 0 {
		return ""
	}
	out := ""
	for i, msg := range s.Messages {
		if i > 0 {
			out += "\n"
		}
		out += msg.Sender + ": " + msg.Text
	}
	return out
}

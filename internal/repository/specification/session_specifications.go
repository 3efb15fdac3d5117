package specification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByUserId filters sessions by owner
type ByUserId struct {
	UserId uuid.UUID
}

func (s ByUserId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserId)
}

// NotArchived keeps only sessions still eligible for consolidation
type NotArchived struct{}

func (s NotArchived) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_archived = ?", false)
}

// IdleBefore keeps sessions whose last activity predates the cutoff
type IdleBefore struct {
	Cutoff time.Time
}

func (s IdleBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("last_updated_at < ?", s.Cutoff)
}

// ByStatus filters tasks by lifecycle status
type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

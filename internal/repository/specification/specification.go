package specification

import "gorm.io/gorm"

// Specification is a composable query predicate; repositories apply the
// given specs in order onto one gorm query.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}

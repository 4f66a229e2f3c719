package models

import (
	"database/sql"

	"gorm.io/gorm"
)

const (
	PlanFree    = "free"
	PlanPremium = "premium"
)

// Subscription mirrors the billing collaborator's view of a user's plan.
// Rows are written by the billing webhook handler (out of scope here); this
// service only reads them to resolve plan limits.
type Subscription struct {
	gorm.Model
	UserID           string `gorm:"uniqueIndex"`
	Plan             string
	Status           string
	CurrentPeriodEnd sql.NullTime
}

func (s *Subscription) ActivePlan() string {
	if s == nil || s.Status != "active" {
		return PlanFree
	}
	return s.Plan
}

package models

import (
	"database/sql"
	"time"

	"gorm.io/gorm"
)

// Alert is a user's standing request to be told when a qualifying slot opens
// up at a club. Invariants (enforced by the service layer before any write):
// TimeFrom < TimeTo, DaysOfWeek non-empty and within 1..7,
// CheckIntervalMinutes >= 1.
type Alert struct {
	gorm.Model
	PublicID    string `gorm:"uniqueIndex"`
	UserID      string `gorm:"index"` // owner's id on the upstream auth provider
	NotifyEmail string
	ClubID      uint `gorm:"index"`

	DaysOfWeek Weekdays `gorm:"type:text"`
	TimeFrom   TimeOfDay
	TimeTo     TimeOfDay
	IndoorOnly *bool // nil = no preference, true = indoor only, false = outdoor only

	Active               bool
	CheckIntervalMinutes int
	BaselineScanned      bool
	LastCheckedAt        sql.NullTime

	ConsecutiveFailures int
	NeedsReview         bool // flagged for operator review after repeated failures

	Club Club
}

type Alerts []*Alert

func (a *Alert) CheckInterval() time.Duration {
	return time.Duration(a.CheckIntervalMinutes) * time.Minute
}

// Due reports whether the alert's re-check interval has elapsed.
func (a *Alert) Due(now time.Time) bool {
	if !a.LastCheckedAt.Valid {
		return true
	}
	return now.Sub(a.LastCheckedAt.Time) >= a.CheckInterval()
}

package models

import (
	"database/sql"
	"time"
)

// MatchRecord is one row of the dedup ledger: an (alert, slot) pair that has
// already been detected. Rows are append-only; the unique index on the slot's
// natural key scoped to the alert is what makes RecordIfNew atomic.
type MatchRecord struct {
	ID      uint `gorm:"primarykey"`
	AlertID uint `gorm:"uniqueIndex:idx_alert_slot"`
	ClubID  uint

	PlaygroundID    string    `gorm:"uniqueIndex:idx_alert_slot"`
	PlaygroundName  string
	Date            Date      `gorm:"type:text;uniqueIndex:idx_alert_slot"`
	StartTime       TimeOfDay `gorm:"uniqueIndex:idx_alert_slot"`
	DurationMinutes int
	PriceTotal      float64
	Indoor          bool

	Notified   bool
	NotifiedAt sql.NullTime
	DetectedAt time.Time
}

type MatchRecords []MatchRecord

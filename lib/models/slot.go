package models

// Slot is a bookable time window reported by the booking provider. It is a
// value produced by the slot source, never persisted as-is; its natural key
// is (playground, date, start time) within a club.
type Slot struct {
	PlaygroundID     string
	PlaygroundName   string
	Date             Date
	StartTime        TimeOfDay
	DurationMinutes  int
	PriceTotal       float64
	PricePerPlayer   float64
	ParticipantCount int
	Indoor           bool
	Surface          string
}

type Slots []Slot

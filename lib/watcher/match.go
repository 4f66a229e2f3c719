package watcher

import "github.com/manidelavega-ai/padelspot-backend/lib/models"

// Matches decides whether a fetched slot satisfies an alert's criteria.
// Pure and side-effect-free; all comparisons are in the club's local civil
// time. The time window is inclusive of TimeFrom and exclusive of TimeTo.
func Matches(alert *models.Alert, slot models.Slot) bool {
	if !alert.DaysOfWeek.Contains(slot.Date.Weekday()) {
		return false
	}
	if slot.StartTime < alert.TimeFrom || slot.StartTime >= alert.TimeTo {
		return false
	}
	if alert.IndoorOnly != nil && slot.Indoor != *alert.IndoorOnly {
		return false
	}
	return true
}

package app

import (
	"time"

	"github.com/manidelavega-ai/padelspot-backend/lib/models"
)

type alertPayload struct {
	ID                   string     `json:"id"`
	Club                 string     `json:"club"`
	DaysOfWeek           []int      `json:"days_of_week"`
	TimeFrom             string     `json:"time_from"`
	TimeTo               string     `json:"time_to"`
	IndoorOnly           *bool      `json:"indoor_only"`
	Active               bool       `json:"active"`
	CheckIntervalMinutes int        `json:"check_interval_minutes"`
	NeedsReview          bool       `json:"needs_review"`
	LastCheckedAt        *time.Time `json:"last_checked_at"`
	CreatedAt            time.Time  `json:"created_at"`
}

func alertView(alert *models.Alert) alertPayload {
	view := alertPayload{
		ID:                   alert.PublicID,
		Club:                 alert.Club.Name,
		DaysOfWeek:           alert.DaysOfWeek,
		TimeFrom:             alert.TimeFrom.String(),
		TimeTo:               alert.TimeTo.String(),
		IndoorOnly:           alert.IndoorOnly,
		Active:               alert.Active,
		CheckIntervalMinutes: alert.CheckIntervalMinutes,
		NeedsReview:          alert.NeedsReview,
		CreatedAt:            alert.CreatedAt,
	}
	if alert.LastCheckedAt.Valid {
		checkedAt := alert.LastCheckedAt.Time
		view.LastCheckedAt = &checkedAt
	}
	return view
}

func alertViews(alerts models.Alerts) []alertPayload {
	views := make([]alertPayload, len(alerts))
	for i, alert := range alerts {
		views[i] = alertView(alert)
	}
	return views
}

type detectionPayload struct {
	Playground      string     `json:"playground"`
	Date            string     `json:"date"`
	StartTime       string     `json:"start_time"`
	DurationMinutes int        `json:"duration_minutes"`
	PriceTotal      float64    `json:"price_total"`
	Indoor          bool       `json:"indoor"`
	Notified        bool       `json:"notified"`
	DetectedAt      time.Time  `json:"detected_at"`
	NotifiedAt      *time.Time `json:"notified_at"`
}

func detectionViews(recs models.MatchRecords) []detectionPayload {
	views := make([]detectionPayload, len(recs))
	for i, rec := range recs {
		views[i] = detectionPayload{
			Playground:      rec.PlaygroundName,
			Date:            rec.Date.String(),
			StartTime:       rec.StartTime.String(),
			DurationMinutes: rec.DurationMinutes,
			PriceTotal:      rec.PriceTotal,
			Indoor:          rec.Indoor,
			Notified:        rec.Notified,
			DetectedAt:      rec.DetectedAt,
		}
		if rec.NotifiedAt.Valid {
			notifiedAt := rec.NotifiedAt.Time
			views[i].NotifiedAt = &notifiedAt
		}
	}
	return views
}

type clubPayload struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
	City string `json:"city"`
}

func clubViews(clubs models.Clubs) []clubPayload {
	views := make([]clubPayload, len(clubs))
	for i, club := range clubs {
		views[i] = clubPayload{ID: club.ID, Name: club.Name, Slug: club.Slug, City: club.City}
	}
	return views
}

package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/carlmjohnson/requests"
	"github.com/manidelavega-ai/padelspot-backend/config"
	"github.com/manidelavega-ai/padelspot-backend/lib/models"
	"go.uber.org/zap"
)

func NewClient(cfg *config.Config, log *zap.Logger, transport http.RoundTripper) Source {
	return &client{cfg, log, transport}
}

type client struct {
	cfg       *config.Config
	log       *zap.Logger
	transport http.RoundTripper
}

// Planning payload shapes, as served by the provider. Only the fields we
// read are declared.
type planningPayload struct {
	Playgrounds []playgroundPayload `json:"hydra:member"`
}

type playgroundPayload struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Indoor     bool              `json:"indoor"`
	Surface    surfacePayload    `json:"surface"`
	Activities []activityPayload `json:"activities"`
}

type surfacePayload struct {
	Name string `json:"name"`
}

type activityPayload struct {
	ID    string        `json:"id"`
	Slots []slotPayload `json:"slots"`
}

type slotPayload struct {
	StartAt string         `json:"startAt"`
	Prices  []pricePayload `json:"prices"`
}

type pricePayload struct {
	Bookable            bool `json:"bookable"`
	PricePerParticipant int  `json:"pricePerParticipant"` // cents
	ParticipantCount    int  `json:"participantCount"`
	Duration            int  `json:"duration"` // seconds
}

func (c *client) FetchDay(ctx context.Context, clubProviderID string, day models.Date) (models.Slots, error) {
	var payload planningPayload
	err := requests.
		URL(c.cfg.Provider.BaseURL).
		Pathf("/clubs/playgrounds/plannings/%s", day.String()).
		Param("club.id", clubProviderID).
		Param("from", "00:00:00").
		Param("to", "23:59:59").
		Param("activities.id", c.cfg.Provider.ActivityID).
		Param("bookingType", "unique").
		Transport(c.transport).
		ToJSON(&payload).
		Fetch(ctx)
	if err != nil {
		return nil, c.classify(err)
	}

	slots, err := c.collectSlots(payload, day)
	if err != nil {
		return nil, err
	}
	c.log.Sugar().Debugw("Fetched availability", "club", clubProviderID, "date", day.String(), "slots", len(slots))
	return slots, nil
}

func (c *client) classify(err error) error {
	switch {
	case requests.HasStatusErr(err, http.StatusTooManyRequests):
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	case errors.Is(err, requests.ErrHandler):
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	default:
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
}

func (c *client) collectSlots(payload planningPayload, day models.Date) (models.Slots, error) {
	slots := make(models.Slots, 0)
	for _, pg := range payload.Playgrounds {
		for _, activity := range pg.Activities {
			if activity.ID != c.cfg.Provider.ActivityID {
				continue
			}
			for _, slot := range activity.Slots {
				startAt, err := models.ParseTimeOfDay(slot.StartAt)
				if err != nil {
					return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
				}
				for _, price := range slot.Prices {
					if !price.Bookable {
						continue
					}
					slots = append(slots, buildSlot(pg, day, startAt, price))
				}
			}
		}
	}
	return slots, nil
}

func buildSlot(pg playgroundPayload, day models.Date, startAt models.TimeOfDay, price pricePayload) models.Slot {
	participants := price.ParticipantCount
	if participants == 0 {
		participants = 4
	}
	durationSecs := price.Duration
	if durationSecs == 0 {
		durationSecs = 5400
	}

	perPlayer := float64(price.PricePerParticipant) / 100
	return models.Slot{
		PlaygroundID:     pg.ID,
		PlaygroundName:   pg.Name,
		Date:             day,
		StartTime:        startAt,
		DurationMinutes:  durationSecs / 60,
		PriceTotal:       perPlayer * float64(participants),
		PricePerPlayer:   perPlayer,
		ParticipantCount: participants,
		Indoor:           pg.Indoor,
		Surface:          pg.Surface.Name,
	}
}

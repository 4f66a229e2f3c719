package source

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/manidelavega-ai/padelspot-backend/config"
	"github.com/manidelavega-ai/padelspot-backend/lib/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const padelActivityID = "ce8c306e-224a-4f24-aa9d-6500580924dc"

type stubTransport struct {
	status  int
	body    string
	lastURL string
}

func (s *stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	s.lastURL = req.URL.String()
	return &http.Response{
		StatusCode: s.status,
		Body:       io.NopCloser(strings.NewReader(s.body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Request:    req,
	}, nil
}

func newTestClient(transport http.RoundTripper) Source {
	cfg := &config.Config{}
	cfg.Provider.BaseURL = "https://provider.test"
	cfg.Provider.ActivityID = padelActivityID
	return NewClient(cfg, zap.NewNop(), transport)
}

const planningBody = `{
	"hydra:member": [
		{
			"id": "pg-1",
			"name": "Padel 1",
			"indoor": true,
			"surface": {"name": "Synthetic"},
			"activities": [
				{
					"id": "` + padelActivityID + `",
					"slots": [
						{
							"startAt": "09:00",
							"prices": [
								{"bookable": true, "pricePerParticipant": 1200, "participantCount": 4, "duration": 5400},
								{"bookable": false, "pricePerParticipant": 900, "participantCount": 2, "duration": 3600}
							]
						}
					]
				},
				{
					"id": "some-other-activity",
					"slots": [
						{"startAt": "10:00", "prices": [{"bookable": true, "pricePerParticipant": 500}]}
					]
				}
			]
		},
		{
			"id": "pg-2",
			"name": "Padel 2",
			"indoor": false,
			"surface": {"name": "Concrete"},
			"activities": [
				{
					"id": "` + padelActivityID + `",
					"slots": [
						{
							"startAt": "18:30",
							"prices": [{"bookable": true, "pricePerParticipant": 1000}]
						}
					]
				}
			]
		}
	]
}`

func TestFetchDay(t *testing.T) {
	transport := &stubTransport{status: http.StatusOK, body: planningBody}
	client := newTestClient(transport)

	day, err := models.ParseDate("2025-06-07")
	require.NoError(t, err)

	slots, err := client.FetchDay(context.Background(), "club-uuid", day)
	require.NoError(t, err)
	require.Len(t, slots, 2, "unbookable prices and foreign activities are dropped")

	first := slots[0]
	assert.Equal(t, "pg-1", first.PlaygroundID)
	assert.Equal(t, "Padel 1", first.PlaygroundName)
	assert.Equal(t, day, first.Date)
	assert.Equal(t, models.TimeOfDay(9*60), first.StartTime)
	assert.Equal(t, 90, first.DurationMinutes)
	assert.InDelta(t, 12.0, first.PricePerPlayer, 0.001)
	assert.InDelta(t, 48.0, first.PriceTotal, 0.001)
	assert.True(t, first.Indoor)
	assert.Equal(t, "Synthetic", first.Surface)

	second := slots[1]
	assert.Equal(t, models.TimeOfDay(18*60+30), second.StartTime)
	// Participant count and duration fall back to provider defaults.
	assert.Equal(t, 4, second.ParticipantCount)
	assert.Equal(t, 90, second.DurationMinutes)
	assert.InDelta(t, 40.0, second.PriceTotal, 0.001)
	assert.False(t, second.Indoor)

	assert.Contains(t, transport.lastURL, "/clubs/playgrounds/plannings/2025-06-07")
	assert.Contains(t, transport.lastURL, "club.id=club-uuid")
	assert.Contains(t, transport.lastURL, "bookingType=unique")
}

func TestFetchDayErrorTaxonomy(t *testing.T) {
	day, err := models.ParseDate("2025-06-07")
	require.NoError(t, err)
	ctx := context.Background()

	tests := []struct {
		name      string
		transport *stubTransport
		want      error
	}{
		{"rate limited", &stubTransport{status: http.StatusTooManyRequests, body: "{}"}, ErrRateLimited},
		{"server error", &stubTransport{status: http.StatusInternalServerError, body: "{}"}, ErrUnavailable},
		{"unparseable payload", &stubTransport{status: http.StatusOK, body: "<html>not json</html>"}, ErrInvalidResponse},
		{"bad start time", &stubTransport{status: http.StatusOK, body: `{"hydra:member":[{"id":"pg","activities":[{"id":"` + padelActivityID + `","slots":[{"startAt":"9am","prices":[{"bookable":true}]}]}]}]}`}, ErrInvalidResponse},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(tc.transport)
			_, err := client.FetchDay(ctx, "club-uuid", day)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestFetchDayEmptyPlanning(t *testing.T) {
	client := newTestClient(&stubTransport{status: http.StatusOK, body: `{"hydra:member": []}`})
	day, err := models.ParseDate("2025-06-07")
	require.NoError(t, err)

	slots, err := client.FetchDay(context.Background(), "club-uuid", day)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

package source

import (
	"context"
	"errors"

	"github.com/manidelavega-ai/padelspot-backend/lib/models"
)

// Error taxonomy for a single fetch. No retries happen at this layer; the
// watcher defers to its next tick on any of these.
var (
	ErrUnavailable     = errors.New("slot source unavailable")
	ErrRateLimited     = errors.New("slot source rate limited")
	ErrInvalidResponse = errors.New("slot source returned an invalid response")
)

// Source fetches current availability for one club on one civil date.
type Source interface {
	FetchDay(ctx context.Context, clubProviderID string, day models.Date) (models.Slots, error)
}

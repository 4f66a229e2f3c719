package watcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/manidelavega-ai/padelspot-backend/lib/ledger"
	"github.com/manidelavega-ai/padelspot-backend/lib/models"
	"github.com/manidelavega-ai/padelspot-backend/lib/source"
	"github.com/manidelavega-ai/padelspot-backend/senders"
)

// evaluate runs the full pipeline for one alert: fetch availability over the
// scan horizon, filter with Matches, dedup through the ledger, notify new
// matches. Ledger writes happen before the send; a failed send after a
// successful write is a dropped notification, never a duplicate.
func (w *Watcher) evaluate(ctx context.Context, alert *models.Alert, now time.Time) *evalMetrics {
	m := &evalMetrics{}
	baseline := w.baselineScan && !alert.BaselineScanned

	today := models.DateOf(now)
	for offset := 0; offset < w.daysAhead; offset++ {
		day := today.AddDays(offset)
		if !alert.DaysOfWeek.Contains(day.Weekday()) {
			continue
		}

		slots, err := w.fetchDay(ctx, alert, day)
		if err != nil {
			m.errored = 1
			w.failEvaluation(ctx, alert, now, err)
			return m
		}

		for _, slot := range slots {
			if !Matches(alert, slot) {
				continue
			}
			w.handleMatch(ctx, alert, slot, baseline, m)
		}
	}

	w.finishEvaluation(ctx, alert, now, baseline)
	return m
}

func (w *Watcher) fetchDay(ctx context.Context, alert *models.Alert, day models.Date) (models.Slots, error) {
	ctx, cancel := context.WithTimeout(ctx, w.fetchTimeout)
	defer cancel()
	return w.source.FetchDay(ctx, alert.Club.ProviderID, day)
}

func (w *Watcher) handleMatch(ctx context.Context, alert *models.Alert, slot models.Slot, baseline bool, m *evalMetrics) {
	outcome, rec, err := w.ledger.RecordIfNew(ctx, alert, slot)
	if err != nil {
		w.log.Sugar().Errorw("Ledger write failed",
			"alert", alert.PublicID, "playground", slot.PlaygroundID, "err", err)
		return
	}
	if outcome == ledger.AlreadyExists {
		m.deduped++
		return
	}
	m.detected++

	if baseline {
		w.log.Sugar().Infow("Baseline match recorded without notification",
			"alert", alert.PublicID, "playground", slot.PlaygroundName,
			"date", slot.Date.String(), "start", slot.StartTime.String())
		return
	}

	if err := w.notify(ctx, alert, slot); err != nil {
		// Ledger row stays and the send is not retried.
		m.dropped++
		w.log.Sugar().Errorw("Notification dropped", "alert", alert.PublicID, "err", err)
		return
	}
	if err := w.ledger.MarkNotified(ctx, rec, w.now().UTC()); err != nil {
		w.log.Sugar().Errorw("Failed to mark match notified", "alert", alert.PublicID, "err", err)
	}
	m.notified++
}

func (w *Watcher) notify(ctx context.Context, alert *models.Alert, slot models.Slot) error {
	sender, ok := w.senders["email"]
	if !ok {
		return fmt.Errorf("no email sender registered")
	}

	format := senders.SlotEmailFormat{ClubName: alert.Club.Name, Slot: slot}
	id, err := sender.Send(ctx, format.Subject(), format.Body(), alert.NotifyEmail)
	if err != nil {
		return err
	}
	w.log.Sugar().Infow("Sent slot notification",
		"alert", alert.PublicID, "recipient", alert.NotifyEmail, "message_id", id)
	return nil
}

// finishEvaluation records a successful pass: the baseline flag if this was
// the first scan, a cleared failure streak, and the advanced check timestamp.
func (w *Watcher) finishEvaluation(ctx context.Context, alert *models.Alert, now time.Time, baseline bool) {
	updates := map[string]any{
		"last_checked_at":      now,
		"consecutive_failures": 0,
	}
	if baseline {
		updates["baseline_scanned"] = true
	}
	if err := w.db.WithContext(ctx).Model(alert).Updates(updates).Error; err != nil {
		w.log.Sugar().Errorw("Failed to update alert after evaluation", "alert", alert.PublicID, "err", err)
	}
}

// failEvaluation still advances last_checked_at so a broken club cannot
// hot-loop on every tick; the next attempt waits for the next interval.
// Alerts failing repeatedly are flagged for operator review, never
// auto-deactivated -- deactivation stays a user action.
func (w *Watcher) failEvaluation(ctx context.Context, alert *models.Alert, now time.Time, cause error) {
	failures := alert.ConsecutiveFailures + 1
	updates := map[string]any{
		"last_checked_at":      now,
		"consecutive_failures": failures,
	}
	if failures >= w.failureThreshold && !alert.NeedsReview {
		updates["needs_review"] = true
		w.log.Sugar().Warnw("Alert flagged for review after repeated failures",
			"alert", alert.PublicID, "failures", failures)
	}

	switch {
	case errors.Is(cause, source.ErrRateLimited):
		w.log.Sugar().Warnw("Slot source rate limited, backing off to next tick", "alert", alert.PublicID)
	default:
		w.log.Sugar().Errorw("Evaluation failed", "alert", alert.PublicID, "err", cause)
	}

	if err := w.db.WithContext(ctx).Model(alert).Updates(updates).Error; err != nil {
		w.log.Sugar().Errorw("Failed to record evaluation failure", "alert", alert.PublicID, "err", err)
	}
}

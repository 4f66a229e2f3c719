package ledger

import (
	"context"
	"time"

	"github.com/manidelavega-ai/padelspot-backend/lib/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Outcome of a RecordIfNew call.
type Outcome int

const (
	AlreadyExists Outcome = iota
	Inserted
)

func NewLedger(db *gorm.DB, log *zap.Logger) *Ledger {
	return &Ledger{db, log}
}

// Ledger guarantees at-most-once notification per (alert, slot natural key).
// The write path is a single insert racing against a composite unique index,
// so concurrent evaluations can never both observe Inserted for one key.
type Ledger struct {
	db  *gorm.DB
	log *zap.Logger
}

func (l *Ledger) RecordIfNew(ctx context.Context, alert *models.Alert, slot models.Slot) (Outcome, *models.MatchRecord, error) {
	rec := &models.MatchRecord{
		AlertID:         alert.ID,
		ClubID:          alert.ClubID,
		PlaygroundID:    slot.PlaygroundID,
		PlaygroundName:  slot.PlaygroundName,
		Date:            slot.Date,
		StartTime:       slot.StartTime,
		DurationMinutes: slot.DurationMinutes,
		PriceTotal:      slot.PriceTotal,
		Indoor:          slot.Indoor,
		DetectedAt:      time.Now().UTC(),
	}

	tx := l.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(rec)
	if err := tx.Error; err != nil {
		return AlreadyExists, nil, err
	}
	if tx.RowsAffected == 0 {
		return AlreadyExists, nil, nil
	}
	return Inserted, rec, nil
}

func (l *Ledger) MarkNotified(ctx context.Context, rec *models.MatchRecord, at time.Time) error {
	tx := l.db.WithContext(ctx).Model(rec).Updates(map[string]any{
		"notified":    true,
		"notified_at": at,
	})
	return tx.Error
}

func (l *Ledger) ListByAlert(ctx context.Context, alertID uint) (models.MatchRecords, error) {
	var recs models.MatchRecords
	tx := l.db.WithContext(ctx).
		Where("alert_id = ?", alertID).
		Order("detected_at desc").
		Find(&recs)
	if err := tx.Error; err != nil {
		return nil, err
	}
	return recs, nil
}

// Purge drops ledger rows past retention and rows whose slot date has gone
// by. Retention is the only path that ever deletes a match record.
func (l *Ledger) Purge(ctx context.Context, detectedBefore time.Time, dateBefore models.Date) (int64, error) {
	tx := l.db.WithContext(ctx).
		Where("detected_at < ? OR date < ?", detectedBefore, dateBefore.String()).
		Delete(&models.MatchRecord{})
	if err := tx.Error; err != nil {
		return 0, err
	}
	return tx.RowsAffected, nil
}

package ledger

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/manidelavega-ai/padelspot-backend/lib/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestLedger(t *testing.T) (*Ledger, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.MatchRecord{}))
	return NewLedger(db, zap.NewNop()), db
}

func testSlot(t *testing.T) models.Slot {
	t.Helper()
	date, err := models.ParseDate("2025-06-07")
	require.NoError(t, err)
	return models.Slot{
		PlaygroundID:    "pg-1",
		PlaygroundName:  "Padel 1",
		Date:            date,
		StartTime:       9 * 60,
		DurationMinutes: 90,
		PriceTotal:      48,
		Indoor:          true,
	}
}

func TestRecordIfNew(t *testing.T) {
	led, _ := newTestLedger(t)
	ctx := context.Background()
	alert := &models.Alert{Model: gorm.Model{ID: 1}, ClubID: 10}

	outcome, rec, err := led.RecordIfNew(ctx, alert, testSlot(t))
	require.NoError(t, err)
	assert.Equal(t, Inserted, outcome)
	require.NotNil(t, rec)
	assert.NotZero(t, rec.ID)

	outcome, rec, err = led.RecordIfNew(ctx, alert, testSlot(t))
	require.NoError(t, err)
	assert.Equal(t, AlreadyExists, outcome)
	assert.Nil(t, rec)

	recs, err := led.ListByAlert(ctx, alert.ID)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestRecordIfNewScopedPerAlert(t *testing.T) {
	led, _ := newTestLedger(t)
	ctx := context.Background()

	outcome, _, err := led.RecordIfNew(ctx, &models.Alert{Model: gorm.Model{ID: 1}}, testSlot(t))
	require.NoError(t, err)
	assert.Equal(t, Inserted, outcome)

	// The same slot under a different alert is a fresh detection.
	outcome, _, err = led.RecordIfNew(ctx, &models.Alert{Model: gorm.Model{ID: 2}}, testSlot(t))
	require.NoError(t, err)
	assert.Equal(t, Inserted, outcome)
}

func TestMarkNotified(t *testing.T) {
	led, db := newTestLedger(t)
	ctx := context.Background()

	_, rec, err := led.RecordIfNew(ctx, &models.Alert{Model: gorm.Model{ID: 1}}, testSlot(t))
	require.NoError(t, err)

	at := time.Now().UTC()
	require.NoError(t, led.MarkNotified(ctx, rec, at))

	var reloaded models.MatchRecord
	require.NoError(t, db.First(&reloaded, rec.ID).Error)
	assert.True(t, reloaded.Notified)
	assert.True(t, reloaded.NotifiedAt.Valid)
}

func TestPurge(t *testing.T) {
	led, db := newTestLedger(t)
	ctx := context.Background()
	alert := &models.Alert{Model: gorm.Model{ID: 1}}

	_, stale, err := led.RecordIfNew(ctx, alert, testSlot(t))
	require.NoError(t, err)

	fresh := testSlot(t)
	fresh.StartTime = 10 * 60
	_, _, err = led.RecordIfNew(ctx, alert, fresh)
	require.NoError(t, err)

	// Age the first record past retention.
	old := time.Now().UTC().Add(-40 * 24 * time.Hour)
	require.NoError(t, db.Model(stale).Update("detected_at", old).Error)

	cutoffDate, err := models.ParseDate("2025-01-01")
	require.NoError(t, err)
	purged, err := led.Purge(ctx, time.Now().UTC().Add(-30*24*time.Hour), cutoffDate)
	require.NoError(t, err)
	assert.EqualValues(t, 1, purged)

	recs, err := led.ListByAlert(ctx, alert.ID)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

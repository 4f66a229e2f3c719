package watcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/manidelavega-ai/padelspot-backend/config"
	"github.com/manidelavega-ai/padelspot-backend/lib/ledger"
	"github.com/manidelavega-ai/padelspot-backend/lib/models"
	"github.com/manidelavega-ai/padelspot-backend/lib/source"
	"github.com/manidelavega-ai/padelspot-backend/senders"
	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func NewWatcher(lc fx.Lifecycle, cfg *config.Config, db *gorm.DB, log *zap.Logger, src source.Source, led *ledger.Ledger, senders senders.Registry) *Watcher {
	w := newWatcher(cfg, db, log, src, led, senders)

	engine := cron.New()
	if _, err := engine.AddFunc(cfg.Watcher.TickSpec, func() {
		w.Tick(context.Background())
	}); err != nil {
		log.Sugar().Panicw("Invalid watcher tick spec", "spec", cfg.Watcher.TickSpec, "err", err)
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			engine.Start()
			log.Sugar().Infof("Watcher started, ticking on %q", cfg.Watcher.TickSpec)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Sugar().Info("Trying to stop watcher")
			<-engine.Stop().Done()
			w.wg.Wait()
			log.Sugar().Info("Watcher stopped")
			return nil
		},
	})

	return w
}

func newWatcher(cfg *config.Config, db *gorm.DB, log *zap.Logger, src source.Source, led *ledger.Ledger, senders senders.Registry) *Watcher {
	return &Watcher{
		db:      db,
		log:     log,
		source:  src,
		ledger:  led,
		senders: senders,

		sem:      make(chan struct{}, cfg.Watcher.Concurrency),
		inFlight: make(map[uint]struct{}),
		now:      time.Now,

		daysAhead:        cfg.Watcher.DaysAhead,
		fetchTimeout:     time.Duration(cfg.Provider.TimeoutSecs) * time.Second,
		failureThreshold: cfg.Watcher.FailureFlagThreshold,
		ledgerRetention:  time.Duration(cfg.Watcher.LedgerRetentionDays) * 24 * time.Hour,
		baselineScan:     cfg.Watcher.BaselineScan,
	}
}

// Watcher drives periodic re-evaluation of active alerts. One coordinating
// loop ticks on a cron spec; due alerts fan out to a bounded worker pool.
// The per-alert lease in inFlight makes sure overlapping ticks never
// evaluate the same alert twice concurrently.
type Watcher struct {
	db      *gorm.DB
	log     *zap.Logger
	source  source.Source
	ledger  *ledger.Ledger
	senders senders.Registry

	sem      chan struct{}
	mu       sync.Mutex
	inFlight map[uint]struct{}
	wg       sync.WaitGroup
	now      func() time.Time

	daysAhead        int           // scan horizon per alert
	fetchTimeout     time.Duration // per FetchDay call
	failureThreshold int           // consecutive failures before flagging for review
	ledgerRetention  time.Duration
	baselineScan     bool // first evaluation records matches without notifying
}

// Tick runs one scheduling pass and waits for the evaluations it dispatched.
// Failures are logged and scoped to a single alert; Tick itself never fails.
func (w *Watcher) Tick(ctx context.Context) {
	now := w.now().UTC()

	due, err := w.dueAlerts(ctx, now)
	if err != nil {
		w.log.Sugar().Errorw("Failed to select due alerts", "err", err)
		return
	}
	if len(due) == 0 {
		return
	}

	metrics := &tickMetrics{}
	var wg sync.WaitGroup
	for _, alert := range due {
		if !w.acquire(alert.ID) {
			metrics.Skip()
			continue
		}

		wg.Add(1)
		w.wg.Add(1)
		w.sem <- struct{}{}
		go func(alert *models.Alert) {
			defer func() {
				<-w.sem
				w.release(alert.ID)
				w.wg.Done()
				wg.Done()
			}()
			metrics.Add(w.evaluate(ctx, alert, now))
		}(alert)
	}
	wg.Wait()

	w.purgeLedger(ctx, now)

	elapsed := w.now().UTC().Sub(now)
	w.log.Sugar().Infow(
		fmt.Sprintf("Processed %d due alerts", metrics.evaluated),
		"detected", metrics.detected,
		"notified", metrics.notified,
		"deduped", metrics.deduped,
		"dropped", metrics.dropped,
		"errored", metrics.errored,
		"skipped", metrics.skipped,
		"elapsed_msecs", int(elapsed.Milliseconds()),
	)
}

// dueAlerts returns active alerts on enabled clubs whose check interval has
// elapsed, never-checked first, then oldest-checked (fairness under load).
// Alerts on disabled clubs simply never come due.
func (w *Watcher) dueAlerts(ctx context.Context, now time.Time) (models.Alerts, error) {
	var alerts models.Alerts
	tx := w.db.WithContext(ctx).
		InnerJoins("Club").
		Where("alerts.active = ?", true).
		Where("Club.enabled = ?", true).
		Order("alerts.last_checked_at asc").
		Find(&alerts)
	if err := tx.Error; err != nil {
		return nil, err
	}

	due := make(models.Alerts, 0, len(alerts))
	for _, alert := range alerts {
		if alert.Due(now) {
			due = append(due, alert)
		}
	}
	return due, nil
}

func (w *Watcher) acquire(alertID uint) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, busy := w.inFlight[alertID]; busy {
		return false
	}
	w.inFlight[alertID] = struct{}{}
	return true
}

func (w *Watcher) release(alertID uint) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.inFlight, alertID)
}

func (w *Watcher) purgeLedger(ctx context.Context, now time.Time) {
	detectedBefore := now.Add(-w.ledgerRetention)
	dateBefore := models.DateOf(now)

	purged, err := w.ledger.Purge(ctx, detectedBefore, dateBefore)
	if err != nil {
		w.log.Sugar().Errorw("Ledger purge failed", "err", err)
		return
	}
	if purged > 0 {
		w.log.Sugar().Infof("Purged %d old match records", purged)
	}
}

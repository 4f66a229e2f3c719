package lib

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/manidelavega-ai/padelspot-backend/config"
	"github.com/manidelavega-ai/padelspot-backend/lib/ledger"
	"github.com/manidelavega-ai/padelspot-backend/lib/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Identity is the authenticated principal, as asserted by the upstream auth
// proxy. Every alert and detection read/write is scoped to it; this replaces
// the storage engine's row-level policies with explicit checks in code.
type Identity struct {
	UserID string
	Email  string
}

type Service struct {
	cfg    *config.Config
	log    *zap.Logger
	db     *gorm.DB
	ledger *ledger.Ledger

	*manageAlerts
}

func NewService(cfg *config.Config, log *zap.Logger, db *gorm.DB, led *ledger.Ledger) *Service {
	validate := validator.New()
	return &Service{
		cfg, log, db, led,
		&manageAlerts{cfg, log, db, validate},
	}
}

// ListClubs returns enabled clubs. Club data is globally readable.
func (svc *Service) ListClubs(ctx context.Context) (models.Clubs, error) {
	var clubs models.Clubs
	tx := svc.db.WithContext(ctx).
		Where("enabled = ?", true).
		Order("name asc").
		Find(&clubs)
	if err := tx.Error; err != nil {
		return nil, err
	}
	return clubs, nil
}

// ListDetections lists the ledger rows for one of the owner's alerts.
func (svc *Service) ListDetections(ctx context.Context, owner Identity, publicID string) (models.MatchRecords, error) {
	alert, err := svc.GetAlert(ctx, owner, publicID)
	if err != nil {
		return nil, err
	}
	return svc.ledger.ListByAlert(ctx, alert.ID)
}

package lib

import (
	"context"
	"errors"

	"github.com/manidelavega-ai/padelspot-backend/lib/models"
	"gorm.io/gorm"
)

// PlanLimits gates what an owner's billing plan allows. Subscription rows
// are maintained by the billing collaborator; this service only reads them.
type PlanLimits struct {
	MaxActiveAlerts         int
	MinCheckIntervalMinutes int
	MaxWindowHours          int
}

var planLimits = map[string]PlanLimits{
	models.PlanFree:    {MaxActiveAlerts: 2, MinCheckIntervalMinutes: 10, MaxWindowHours: 6},
	models.PlanPremium: {MaxActiveAlerts: 10, MinCheckIntervalMinutes: 3, MaxWindowHours: 12},
}

// PlanLimits resolves the caller's limits. No subscription row, or an
// inactive one, falls back to the free plan.
func (svc *Service) PlanLimits(ctx context.Context, userID string) (PlanLimits, error) {
	return resolvePlanLimits(ctx, svc.db, userID)
}

func resolvePlanLimits(ctx context.Context, db *gorm.DB, userID string) (PlanLimits, error) {
	var sub models.Subscription
	tx := db.WithContext(ctx).Where("user_id = ?", userID).First(&sub)
	if err := tx.Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return planLimits[models.PlanFree], nil
	} else if err != nil {
		return PlanLimits{}, err
	}

	limits, ok := planLimits[sub.ActivePlan()]
	if !ok {
		limits = planLimits[models.PlanFree]
	}
	return limits, nil
}

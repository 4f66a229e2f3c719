package lib

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/manidelavega-ai/padelspot-backend/config"
	"github.com/manidelavega-ai/padelspot-backend/lib/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type manageAlerts struct {
	cfg      *config.Config
	log      *zap.Logger
	db       *gorm.DB
	validate *validator.Validate
}

type CreateAlertParams struct {
	ClubID               uint   `json:"club_id" validate:"required"`
	DaysOfWeek           []int  `json:"days_of_week" validate:"required,min=1"`
	TimeFrom             string `json:"time_from" validate:"required"`
	TimeTo               string `json:"time_to" validate:"required"`
	IndoorOnly           *bool  `json:"indoor_only"`
	CheckIntervalMinutes int    `json:"check_interval_minutes" validate:"omitempty,min=1"`
}

type UpdateAlertParams struct {
	Active               *bool   `json:"active"`
	DaysOfWeek           []int   `json:"days_of_week" validate:"omitempty,min=1"`
	TimeFrom             *string `json:"time_from"`
	TimeTo               *string `json:"time_to"`
	IndoorOnly           *bool   `json:"indoor_only"`
	ClearIndoorOnly      bool    `json:"clear_indoor_only"`
	CheckIntervalMinutes *int    `json:"check_interval_minutes" validate:"omitempty,min=1"`
}

func (svc *manageAlerts) CreateAlert(ctx context.Context, owner Identity, params CreateAlertParams) (*models.Alert, error) {
	if err := svc.validate.Struct(params); err != nil {
		return nil, asValidationError(err)
	}

	window, err := parseWindow(params.TimeFrom, params.TimeTo)
	if err != nil {
		return nil, err
	}

	days := models.Weekdays(params.DaysOfWeek).Normalized()
	if err := days.Validate(); err != nil {
		return nil, validationError(err.Error())
	}

	limits, err := svc.ownerLimits(ctx, owner)
	if err != nil {
		return nil, err
	}
	if span := int(window.to - window.from); span > limits.MaxWindowHours*60 {
		return nil, validationError(fmt.Sprintf("time window is limited to %dh on your plan", limits.MaxWindowHours))
	}

	var club models.Club
	tx := svc.db.WithContext(ctx).Where("id = ? AND enabled = ?", params.ClubID, true).First(&club)
	if err := tx.Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}

	var active int64
	tx = svc.db.WithContext(ctx).Model(&models.Alert{}).
		Where("user_id = ? AND active = ?", owner.UserID, true).
		Count(&active)
	if err := tx.Error; err != nil {
		return nil, err
	}
	if int(active) >= limits.MaxActiveAlerts {
		return nil, ErrQuotaExceeded
	}

	interval := params.CheckIntervalMinutes
	if interval < limits.MinCheckIntervalMinutes {
		interval = limits.MinCheckIntervalMinutes
	}

	alert := &models.Alert{
		PublicID:             uuid.NewString(),
		UserID:               owner.UserID,
		NotifyEmail:          owner.Email,
		ClubID:               club.ID,
		DaysOfWeek:           days,
		TimeFrom:             window.from,
		TimeTo:               window.to,
		IndoorOnly:           params.IndoorOnly,
		Active:               true,
		CheckIntervalMinutes: interval,
	}
	if err := svc.db.WithContext(ctx).Create(alert).Error; err != nil {
		return nil, err
	}
	alert.Club = club

	svc.log.Sugar().Infow("Created alert",
		"alert", alert.PublicID, "user", owner.UserID, "club", club.Slug, "interval_mins", interval)
	return alert, nil
}

func (svc *manageAlerts) ListAlerts(ctx context.Context, owner Identity) (models.Alerts, error) {
	var alerts models.Alerts
	tx := svc.db.WithContext(ctx).
		InnerJoins("Club").
		Where("alerts.user_id = ?", owner.UserID).
		Order("alerts.created_at desc").
		Find(&alerts)
	if err := tx.Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

func (svc *manageAlerts) GetAlert(ctx context.Context, owner Identity, publicID string) (*models.Alert, error) {
	alert := &models.Alert{}
	tx := svc.db.WithContext(ctx).
		InnerJoins("Club").
		Where("alerts.public_id = ? AND alerts.user_id = ?", publicID, owner.UserID).
		First(alert)
	if err := tx.Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return alert, nil
}

func (svc *manageAlerts) UpdateAlert(ctx context.Context, owner Identity, publicID string, params UpdateAlertParams) (*models.Alert, error) {
	if err := svc.validate.Struct(params); err != nil {
		return nil, asValidationError(err)
	}

	alert, err := svc.GetAlert(ctx, owner, publicID)
	if err != nil {
		return nil, err
	}

	if err := svc.applyUpdate(alert, params); err != nil {
		return nil, err
	}

	limits, err := svc.ownerLimits(ctx, owner)
	if err != nil {
		return nil, err
	}
	if span := int(alert.TimeTo - alert.TimeFrom); span > limits.MaxWindowHours*60 {
		return nil, validationError(fmt.Sprintf("time window is limited to %dh on your plan", limits.MaxWindowHours))
	}
	if alert.CheckIntervalMinutes < limits.MinCheckIntervalMinutes {
		alert.CheckIntervalMinutes = limits.MinCheckIntervalMinutes
	}

	if err := svc.db.WithContext(ctx).Save(alert).Error; err != nil {
		return nil, err
	}
	svc.log.Sugar().Infow("Updated alert", "alert", alert.PublicID, "user", owner.UserID)
	return alert, nil
}

func (svc *manageAlerts) applyUpdate(alert *models.Alert, params UpdateAlertParams) error {
	if params.DaysOfWeek != nil {
		days := models.Weekdays(params.DaysOfWeek).Normalized()
		if err := days.Validate(); err != nil {
			return validationError(err.Error())
		}
		alert.DaysOfWeek = days
	}
	if params.TimeFrom != nil {
		from, err := models.ParseTimeOfDay(*params.TimeFrom)
		if err != nil {
			return validationError(err.Error())
		}
		alert.TimeFrom = from
	}
	if params.TimeTo != nil {
		to, err := models.ParseTimeOfDay(*params.TimeTo)
		if err != nil {
			return validationError(err.Error())
		}
		alert.TimeTo = to
	}
	if alert.TimeFrom >= alert.TimeTo {
		return validationError("time_from must be before time_to")
	}
	if params.ClearIndoorOnly {
		alert.IndoorOnly = nil
	} else if params.IndoorOnly != nil {
		alert.IndoorOnly = params.IndoorOnly
	}
	if params.CheckIntervalMinutes != nil {
		alert.CheckIntervalMinutes = *params.CheckIntervalMinutes
	}
	if params.Active != nil {
		alert.Active = *params.Active
		if *params.Active {
			// Re-activation gets a clean slate for failure tracking.
			alert.ConsecutiveFailures = 0
			alert.NeedsReview = false
		}
	}
	return nil
}

func (svc *manageAlerts) DeleteAlert(ctx context.Context, owner Identity, publicID string) error {
	tx := svc.db.WithContext(ctx).
		Where("public_id = ? AND user_id = ?", publicID, owner.UserID).
		Delete(&models.Alert{})
	if err := tx.Error; err != nil {
		return err
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	svc.log.Sugar().Infow("Deleted alert", "alert", publicID, "user", owner.UserID)
	return nil
}

func (svc *manageAlerts) ownerLimits(ctx context.Context, owner Identity) (PlanLimits, error) {
	return resolvePlanLimits(ctx, svc.db, owner.UserID)
}

type window struct {
	from, to models.TimeOfDay
}

func parseWindow(fromStr, toStr string) (window, error) {
	from, err := models.ParseTimeOfDay(fromStr)
	if err != nil {
		return window{}, validationError(err.Error())
	}
	to, err := models.ParseTimeOfDay(toStr)
	if err != nil {
		return window{}, validationError(err.Error())
	}
	if from >= to {
		return window{}, validationError("time_from must be before time_to")
	}
	return window{from, to}, nil
}

func asValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return validationError(err.Error())
	}
	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
	}
	return &ValidationError{Messages: messages}
}

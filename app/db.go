package app

import (
	"github.com/manidelavega-ai/padelspot-backend/config"
	"github.com/manidelavega-ai/padelspot-backend/lib/models"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func NewDatabase(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Sugar().Panicw("failed to connect database", "err", err)
	}
	log.Info("Database started")

	log.Info("Starting migrations")
	db.AutoMigrate(
		&models.Club{},
		&models.Alert{},
		&models.MatchRecord{},
		&models.Subscription{},
	)
	return db
}

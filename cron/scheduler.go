package cron

import (
	"context"
	"time"

	"breakfast-backend/models"
	"breakfast-backend/services"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type Config struct {
	// SyncSchedule is a cron spec for the background PMS sync.
	SyncSchedule string
	// CloseDaySchedule is a cron spec for marking yesterday's still-pending
	// ledger rows as no_show.
	CloseDaySchedule string
}

func DefaultConfig() Config {
	return Config{
		SyncSchedule:     "@every 15m",
		CloseDaySchedule: "5 0 * * *",
	}
}

// StartScheduler registers the background jobs and starts the cron runner.
func StartScheduler(cfg Config, syncSvc *services.SyncService, ledger *services.LedgerService, db *gorm.DB) (*cron.Cron, error) {
	c := cron.New()

	if _, err := c.AddFunc(cfg.SyncSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		syncSvc.SyncAll(ctx)
	}); err != nil {
		return nil, err
	}

	if _, err := c.AddFunc(cfg.CloseDaySchedule, func() {
		closeDay(ledger, db)
	}); err != nil {
		return nil, err
	}

	c.Start()
	log.Info().
		Str("sync_schedule", cfg.SyncSchedule).
		Str("close_day_schedule", cfg.CloseDaySchedule).
		Msg("scheduler started")
	return c, nil
}

// closeDay marks yesterday's unconsumed breakfasts as no-shows, per property.
func closeDay(ledger *services.LedgerService, db *gorm.DB) {
	var properties []models.Property
	if err := db.Find(&properties).Error; err != nil {
		log.Error().Err(err).Msg("close-day: failed to list properties")
		return
	}

	for _, p := range properties {
		yesterday := time.Now().In(p.Location()).AddDate(0, 0, -1)
		n, err := ledger.CloseDay(p.PropertyID, yesterday)
		if err != nil {
			log.Error().Str("property_id", p.PropertyID).Err(err).Msg("close-day failed")
			continue
		}
		if n > 0 {
			log.Info().Str("property_id", p.PropertyID).Int64("no_shows", n).Msg("close-day marked no-shows")
		}
	}
}

package migrate

import (
	"context"
	"fmt"

	"github.com/mvalverde/imageflow-backend/pkg/config"
	"github.com/mvalverde/imageflow-backend/pkg/db"
	"github.com/mvalverde/imageflow-backend/pkg/db/models"
	"github.com/mvalverde/imageflow-backend/pkg/logger"
)

// MaybeRunDev executes migrations automatically when the app is running in dev
// mode and the feature flag is enabled.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	// The goose SQL files target Postgres. For sqlite dev databases the schema
	// comes from GORM's migrator instead, built off the same models.
	if cfg.FeatureFlags.UseSQLite || cfg.DB.Driver == "sqlite" {
		ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "driver": "sqlite"})
		logg.Info(ctx, "running GORM auto-migration (dev sqlite)")

		if err := client.DB().WithContext(ctx).AutoMigrate(&models.User{}, &models.Image{}); err != nil {
			return fmt.Errorf("running sqlite auto-migration: %w", err)
		}

		logg.Info(ctx, "sqlite auto-migration completed")
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	meta := map[string]any{"env": cfg.App.Env, "dir": DefaultDir}
	ctx = logg.WithFields(ctx, meta)
	logg.Info(ctx, "running Goose migrations (dev auto-run)")

	if err := Run(ctx, sqlDB, cfg.DB.Driver, DefaultDir, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "Goose migrations completed")
	return nil
}

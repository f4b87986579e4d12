package database

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"jan-server/services/model-browser/internal/infrastructure/database/entities"
)

// AutoMigrate applies database schema changes and registers the service's own tables
// as browsable models readable by adminGroup.
func AutoMigrate(ctx context.Context, db *gorm.DB, adminGroup string, log zerolog.Logger) error {
	if err := db.WithContext(ctx).AutoMigrate(
		&entities.ModelDescriptor{},
		&entities.ModelAccess{},
		&entities.RecordRule{},
		&entities.WindowAction{},
	); err != nil {
		return err
	}

	seed := baselineSeed(adminGroup)
	if err := ApplySeed(ctx, db, seed); err != nil {
		return err
	}

	log.Info().Int("system_models", len(seed.Models)).Msg("database schema up to date")
	return nil
}

func baselineSeed(adminGroup string) Seed {
	adminOnly := []SeedAccess{{Group: adminGroup, Read: true}}
	return Seed{Models: []SeedModel{
		{Model: "ir.model", Name: "Models", Info: "Registered data models", Access: adminOnly},
		{Model: "ir.model.access", Name: "Access Controls", Info: "Per-group read permissions", Access: adminOnly},
		{Model: "ir.rule", Name: "Record Rules", Info: "Row-level ownership rules", Access: adminOnly},
		{Model: "ir.actions.act_window", Name: "Window Actions", Info: "List and form view actions", Access: adminOnly},
	}}
}

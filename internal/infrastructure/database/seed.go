package database

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jan-server/services/model-browser/internal/infrastructure/database/entities"
)

// Seed is the document format of CATALOG_SEED_FILE.
//
//	models:
//	  - model: res.partner
//	    name: Contact
//	    access:
//	      - group: ""
//	        read: true
//	    rules:
//	      - owner_column: owner_id
type Seed struct {
	Models []SeedModel `yaml:"models"`
}

// SeedModel registers one descriptor together with its access rows and record rules.
type SeedModel struct {
	Model     string       `yaml:"model"`
	Name      string       `yaml:"name"`
	Info      string       `yaml:"info"`
	Transient bool         `yaml:"transient"`
	Access    []SeedAccess `yaml:"access"`
	Rules     []SeedRule   `yaml:"rules"`
}

type SeedAccess struct {
	Group string `yaml:"group"`
	Read  bool   `yaml:"read"`
}

type SeedRule struct {
	Group       string `yaml:"group"`
	OwnerColumn string `yaml:"owner_column"`
	Active      *bool  `yaml:"active"`
}

// LoadSeedFile parses a YAML seed document from path.
func LoadSeedFile(path string) (Seed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("read seed file: %w", err)
	}
	var seed Seed
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return Seed{}, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return seed, nil
}

// ApplySeed upserts every model of seed keyed by technical identifier. Applying the
// same seed twice leaves the catalog unchanged.
func ApplySeed(ctx context.Context, db *gorm.DB, seed Seed) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range seed.Models {
			if err := applySeedModel(tx, m); err != nil {
				return fmt.Errorf("seed model %q: %w", m.Model, err)
			}
		}
		return nil
	})
}

func applySeedModel(tx *gorm.DB, m SeedModel) error {
	model := strings.TrimSpace(m.Model)
	if model == "" {
		return fmt.Errorf("technical identifier is required")
	}
	name := m.Name
	if name == "" {
		name = model
	}

	descriptor := entities.ModelDescriptor{Model: model, Name: name, Info: m.Info, Transient: m.Transient}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "model"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "info", "transient", "updated_at"}),
	}).Create(&descriptor).Error; err != nil {
		return err
	}

	for _, a := range m.Access {
		access := entities.ModelAccess{Model: model, GroupName: a.Group, PermRead: a.Read}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "model"}, {Name: "group_name"}},
			DoUpdates: clause.AssignmentColumns([]string{"perm_read", "updated_at"}),
		}).Create(&access).Error; err != nil {
			return err
		}
	}

	for _, r := range m.Rules {
		if strings.TrimSpace(r.OwnerColumn) == "" {
			return fmt.Errorf("record rule owner_column is required")
		}
		active := true
		if r.Active != nil {
			active = *r.Active
		}
		var rule entities.RecordRule
		err := tx.Where(map[string]any{"model": model, "group_name": r.Group, "owner_column": r.OwnerColumn}).
			Assign(map[string]any{"active": active}).
			FirstOrCreate(&rule).Error
		if err != nil {
			return err
		}
	}

	return nil
}

package registry

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"jan-server/services/model-browser/internal/infrastructure/database/entities"
)

// Registry is the set of models that are live in this deployment: their descriptor
// exists and so does their backing table.
type Registry struct {
	mu     sync.RWMutex
	tables map[string]string
}

func New() *Registry {
	return &Registry{tables: make(map[string]string)}
}

// TableName converts a technical identifier to its conventional table name.
func TableName(model string) string {
	return strings.ReplaceAll(model, ".", "_")
}

// Register marks model as live, backed by table.
func (r *Registry) Register(model, table string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tables[model] = table
}

func (r *Registry) IsRegistered(model string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tables[model]
	return ok
}

// TableFor returns the backing table of a registered model.
func (r *Registry) TableFor(model string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	table, ok := r.tables[model]
	return table, ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tables)
}

// Discover registers every non-transient descriptor whose conventional table exists.
func (r *Registry) Discover(ctx context.Context, db *gorm.DB, log zerolog.Logger) error {
	var descriptors []entities.ModelDescriptor
	if err := db.WithContext(ctx).Where("transient = ?", false).Find(&descriptors).Error; err != nil {
		return fmt.Errorf("load model descriptors: %w", err)
	}

	migrator := db.WithContext(ctx).Migrator()
	missing := 0
	for _, d := range descriptors {
		if strings.TrimSpace(d.Model) == "" {
			continue
		}
		table := TableName(d.Model)
		if !migrator.HasTable(table) {
			missing++
			log.Debug().Str("model", d.Model).Str("table", table).Msg("descriptor has no backing table")
			continue
		}
		r.Register(d.Model, table)
	}

	log.Info().Int("registered", r.Len()).Int("without_table", missing).Msg("model registry loaded")
	return nil
}

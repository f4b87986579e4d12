package catalog

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jan-server/services/model-browser/internal/domain"
	domaincatalog "jan-server/services/model-browser/internal/domain/catalog"
	"jan-server/services/model-browser/internal/infrastructure/database/entities"
	"jan-server/services/model-browser/internal/infrastructure/database/transaction"
)

// TableResolver maps a registered model to its backing table.
type TableResolver interface {
	TableFor(model string) (string, bool)
}

// RecordStore counts rows of registered models. Count applies the active ir_rule
// owner rules of the calling principal; Elevated skips them.
type RecordStore struct {
	db         *transaction.Database
	tables     TableResolver
	adminGroup string
}

func NewRecordStore(db *transaction.Database, tables TableResolver, adminGroup string) *RecordStore {
	return &RecordStore{db: db, tables: tables, adminGroup: adminGroup}
}

func (s *RecordStore) Count(ctx context.Context, model string) (int64, error) {
	table, err := s.table(model)
	if err != nil {
		return 0, err
	}

	principal, ok := domain.PrincipalFromContext(ctx)
	if !ok {
		return 0, fmt.Errorf("count %s: no authenticated principal", model)
	}

	q := s.db.GetTx(ctx).Table(table)
	if !principal.InGroup(s.adminGroup) {
		rules, err := s.activeRules(ctx, model, principal.Groups)
		if err != nil {
			return 0, fmt.Errorf("load record rules for %s: %w", model, err)
		}
		for _, rule := range rules {
			q = q.Where(clause.Eq{Column: clause.Column{Name: rule.OwnerColumn}, Value: principal.ID})
		}
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count %s: %w", model, err)
	}
	return count, nil
}

// Elevated returns a counter that bypasses record rules.
func (s *RecordStore) Elevated() domaincatalog.RecordCounter {
	return elevatedCounter{store: s}
}

type elevatedCounter struct {
	store *RecordStore
}

func (e elevatedCounter) Count(ctx context.Context, model string) (int64, error) {
	table, err := e.store.table(model)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := e.store.db.GetTx(ctx).Table(table).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count %s: %w", model, err)
	}
	return count, nil
}

func (s *RecordStore) table(model string) (string, error) {
	table, ok := s.tables.TableFor(model)
	if !ok {
		return "", fmt.Errorf("model %s is not registered", model)
	}
	return table, nil
}

func (s *RecordStore) activeRules(ctx context.Context, model string, groups []string) ([]entities.RecordRule, error) {
	var rules []entities.RecordRule
	err := s.db.GetTx(ctx).
		Where("model = ? AND active = ?", model, true).
		Scopes(groupScope(groups)).
		Order("id").
		Find(&rules).Error
	return rules, err
}

// groupScope matches rows that apply to everyone or to one of groups.
func groupScope(groups []string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if len(groups) == 0 {
			return db.Where("group_name = ?", "")
		}
		return db.Where("(group_name = ? OR group_name IN ?)", "", groups)
	}
}

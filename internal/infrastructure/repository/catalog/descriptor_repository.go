package catalog

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "jan-server/services/model-browser/internal/domain/catalog"
	"jan-server/services/model-browser/internal/infrastructure/database/entities"
	"jan-server/services/model-browser/internal/infrastructure/database/transaction"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// DescriptorRepository reads ir_model using GORM.
type DescriptorRepository struct {
	db *transaction.Database
}

func NewDescriptorRepository(db *transaction.Database) *DescriptorRepository {
	return &DescriptorRepository{db: db}
}

// Search matches the term case-insensitively against name and technical identifier.
// Wildcard characters in the term are matched literally.
func (r *DescriptorRepository) Search(ctx context.Context, filter domain.DescriptorFilter) ([]domain.ModelDescriptor, error) {
	q := r.db.GetTx(ctx).Model(&entities.ModelDescriptor{}).Where("transient = ?", false)
	if filter.Term != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(filter.Term)) + "%"
		q = q.Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(model) LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var records []entities.ModelDescriptor
	if err := q.Order("name ASC").Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}

	out := make([]domain.ModelDescriptor, 0, len(records))
	for _, rec := range records {
		out = append(out, toDomainDescriptor(rec))
	}
	return out, nil
}

func (r *DescriptorRepository) FindByModel(ctx context.Context, model string, lock bool) (*domain.ModelDescriptor, error) {
	q := r.db.GetTx(ctx)
	if lock && q.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var record entities.ModelDescriptor
	err := q.Where("model = ?", model).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	d := toDomainDescriptor(record)
	return &d, nil
}

func toDomainDescriptor(rec entities.ModelDescriptor) domain.ModelDescriptor {
	return domain.ModelDescriptor{
		ID:        rec.ID,
		Name:      rec.Name,
		Model:     rec.Model,
		Info:      rec.Info,
		Transient: rec.Transient,
	}
}

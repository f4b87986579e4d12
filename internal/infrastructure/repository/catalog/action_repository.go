package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	domain "jan-server/services/model-browser/internal/domain/catalog"
	"jan-server/services/model-browser/internal/infrastructure/database/entities"
	"jan-server/services/model-browser/internal/infrastructure/database/transaction"
)

// ActionRepository persists window actions in ir_actions_act_window.
type ActionRepository struct {
	db *transaction.Database
}

func NewActionRepository(db *transaction.Database) *ActionRepository {
	return &ActionRepository{db: db}
}

// FindListAction returns the lowest-id action for model whose view mode offers a list view.
func (r *ActionRepository) FindListAction(ctx context.Context, model string) (*domain.ListAction, error) {
	var record entities.WindowAction
	err := r.db.GetTx(ctx).
		Where("res_model = ? AND view_mode LIKE ?", model, "%list%").
		Order("id ASC").
		First(&record).Error
	return r.found(record, err)
}

func (r *ActionRepository) FindByID(ctx context.Context, id uint) (*domain.ListAction, error) {
	var record entities.WindowAction
	err := r.db.GetTx(ctx).Where("id = ?", id).First(&record).Error
	return r.found(record, err)
}

func (r *ActionRepository) Create(ctx context.Context, action *domain.ListAction) error {
	ctxJSON, err := json.Marshal(nonNilContext(action.Context))
	if err != nil {
		return fmt.Errorf("encode action context: %w", err)
	}

	record := entities.WindowAction{
		Name:     action.Name,
		ResModel: action.ResModel,
		ViewMode: action.ViewMode,
		Type:     action.Type,
		Target:   action.Target,
		Context:  datatypes.JSON(ctxJSON),
	}
	if err := r.db.GetTx(ctx).Create(&record).Error; err != nil {
		return err
	}

	action.ID = record.ID
	action.CreatedAt = record.CreatedAt
	action.UpdatedAt = record.UpdatedAt
	return nil
}

func (r *ActionRepository) found(record entities.WindowAction, err error) (*domain.ListAction, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	action, err := toDomainAction(record)
	if err != nil {
		return nil, err
	}
	return &action, nil
}

func toDomainAction(rec entities.WindowAction) (domain.ListAction, error) {
	ctx := map[string]any{}
	if len(rec.Context) > 0 {
		if err := json.Unmarshal(rec.Context, &ctx); err != nil {
			return domain.ListAction{}, fmt.Errorf("decode context of action %d: %w", rec.ID, err)
		}
	}
	return domain.ListAction{
		ID:        rec.ID,
		Name:      rec.Name,
		ResModel:  rec.ResModel,
		ViewMode:  rec.ViewMode,
		Type:      rec.Type,
		Target:    rec.Target,
		Context:   nonNilContext(ctx),
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}, nil
}

func nonNilContext(ctx map[string]any) map[string]any {
	if ctx == nil {
		return map[string]any{}
	}
	return ctx
}

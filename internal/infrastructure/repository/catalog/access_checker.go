package catalog

import (
	"context"

	"jan-server/services/model-browser/internal/domain"
	"jan-server/services/model-browser/internal/infrastructure/database/entities"
	"jan-server/services/model-browser/internal/infrastructure/database/transaction"
)

// AccessChecker evaluates ir_model_access rows for the principal on the context.
// Members of the admin group read everything.
type AccessChecker struct {
	db         *transaction.Database
	adminGroup string
}

func NewAccessChecker(db *transaction.Database, adminGroup string) *AccessChecker {
	return &AccessChecker{db: db, adminGroup: adminGroup}
}

func (a *AccessChecker) CanRead(ctx context.Context, model string) (bool, error) {
	principal, ok := domain.PrincipalFromContext(ctx)
	if !ok {
		return false, nil
	}
	if principal.InGroup(a.adminGroup) {
		return true, nil
	}

	var count int64
	err := a.db.GetTx(ctx).
		Model(&entities.ModelAccess{}).
		Where("model = ? AND perm_read = ?", model, true).
		Scopes(groupScope(principal.Groups)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

package catalog

import "context"

// DescriptorFilter narrows a descriptor scan. An empty Term matches every descriptor.
type DescriptorFilter struct {
	Term  string
	Limit int
}

// DescriptorRepository reads the platform's metadata catalog.
type DescriptorRepository interface {
	// Search returns non-transient descriptors matching the filter ordered by name.
	Search(ctx context.Context, filter DescriptorFilter) ([]ModelDescriptor, error)
	// FindByModel returns the descriptor for a technical identifier, or nil when none exists.
	// With lock set the row stays locked until the surrounding transaction ends.
	FindByModel(ctx context.Context, model string, lock bool) (*ModelDescriptor, error)
}

// Registry reports which technical identifiers are live in the running platform.
type Registry interface {
	IsRegistered(model string) bool
}

// AccessChecker decides whether the caller on ctx may read a model's records.
type AccessChecker interface {
	CanRead(ctx context.Context, model string) (bool, error)
}

// RecordCounter counts the records stored for a model.
type RecordCounter interface {
	Count(ctx context.Context, model string) (int64, error)
}

// RecordStore counts records under the caller's row-level rules. Elevated returns
// a counter that ignores those rules; it is the only privileged read path.
type RecordStore interface {
	RecordCounter
	Elevated() RecordCounter
}

// ActionRepository persists list actions.
type ActionRepository interface {
	// FindListAction returns the first action bound to model whose view mode includes a list view.
	FindListAction(ctx context.Context, model string) (*ListAction, error)
	Create(ctx context.Context, action *ListAction) error
	FindByID(ctx context.Context, id uint) (*ListAction, error)
}

// Transactor runs fn inside a database transaction carried by ctx.
type Transactor interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockDescriptorRepository struct {
	SearchFunc      func(ctx context.Context, filter DescriptorFilter) ([]ModelDescriptor, error)
	FindByModelFunc func(ctx context.Context, model string, lock bool) (*ModelDescriptor, error)
}

func (m *mockDescriptorRepository) Search(ctx context.Context, filter DescriptorFilter) ([]ModelDescriptor, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, filter)
	}
	return nil, nil
}

func (m *mockDescriptorRepository) FindByModel(ctx context.Context, model string, lock bool) (*ModelDescriptor, error) {
	if m.FindByModelFunc != nil {
		return m.FindByModelFunc(ctx, model, lock)
	}
	return nil, nil
}

type registrySet map[string]bool

func (r registrySet) IsRegistered(model string) bool { return r[model] }

type mockAccessChecker struct {
	CanReadFunc func(ctx context.Context, model string) (bool, error)
}

func (m *mockAccessChecker) CanRead(ctx context.Context, model string) (bool, error) {
	if m.CanReadFunc != nil {
		return m.CanReadFunc(ctx, model)
	}
	return true, nil
}

type counterFunc func(ctx context.Context, model string) (int64, error)

func (f counterFunc) Count(ctx context.Context, model string) (int64, error) { return f(ctx, model) }

type mockRecordStore struct {
	scoped   counterFunc
	elevated counterFunc
}

func (m *mockRecordStore) Count(ctx context.Context, model string) (int64, error) {
	return m.scoped(ctx, model)
}

func (m *mockRecordStore) Elevated() RecordCounter { return m.elevated }

type mockActionRepository struct {
	FindListActionFunc func(ctx context.Context, model string) (*ListAction, error)
	CreateFunc         func(ctx context.Context, action *ListAction) error
	FindByIDFunc       func(ctx context.Context, id uint) (*ListAction, error)
}

func (m *mockActionRepository) FindListAction(ctx context.Context, model string) (*ListAction, error) {
	if m.FindListActionFunc != nil {
		return m.FindListActionFunc(ctx, model)
	}
	return nil, nil
}

func (m *mockActionRepository) Create(ctx context.Context, action *ListAction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, action)
	}
	return nil
}

func (m *mockActionRepository) FindByID(ctx context.Context, id uint) (*ListAction, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

type passthroughTx struct{ calls int }

func (p *passthroughTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls++
	return fn(ctx)
}

func newTestDeps() Dependencies {
	return Dependencies{
		Descriptors: &mockDescriptorRepository{},
		Registry:    registrySet{},
		Access:      &mockAccessChecker{},
		Records: &mockRecordStore{
			scoped:   func(context.Context, string) (int64, error) { return 0, errors.New("scoped counter must not be used") },
			elevated: func(context.Context, string) (int64, error) { return 0, nil },
		},
		Actions: &mockActionRepository{},
		Tx:      &passthroughTx{},
	}
}

func newTestService(deps Dependencies) Service {
	return NewService(deps, Options{DefaultLimit: 100, MaxLimit: 1000}, zerolog.Nop())
}

func descriptors(models ...string) []ModelDescriptor {
	out := make([]ModelDescriptor, 0, len(models))
	for i, m := range models {
		out = append(out, ModelDescriptor{ID: uint(i + 1), Name: strings.ToUpper(m[:1]) + m[1:], Model: m, Info: "info " + m})
	}
	return out
}

func TestSearch_ReturnsBrowsableRowsWithCounts(t *testing.T) {
	deps := newTestDeps()
	deps.Descriptors = &mockDescriptorRepository{
		SearchFunc: func(ctx context.Context, filter DescriptorFilter) ([]ModelDescriptor, error) {
			assert.Equal(t, "part", filter.Term)
			return []ModelDescriptor{
				{ID: 7, Name: "Contact", Model: "res.partner", Info: "People"},
				{ID: 9, Name: "Partner Category", Model: "res.partner.category"},
			}, nil
		},
	}
	deps.Registry = registrySet{"res.partner": true, "res.partner.category": true}
	deps.Records = &mockRecordStore{
		elevated: func(_ context.Context, model string) (int64, error) {
			return map[string]int64{"res.partner": 42, "res.partner.category": 3}[model], nil
		},
	}

	rows, err := newTestService(deps).Search(context.Background(), "part", 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, Row{ID: 7, Name: "Contact", Model: "res.partner", Count: 42, Info: "People"}, rows[0])
	assert.Equal(t, int64(3), rows[1].Count)
}

func TestSearch_LimitIsDefaultedAndCapped(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{name: "zero uses default", limit: 0, want: 100},
		{name: "negative uses default", limit: -5, want: 100},
		{name: "within bounds", limit: 25, want: 25},
		{name: "above max is capped", limit: 5000, want: 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := newTestDeps()
			var got int
			deps.Descriptors = &mockDescriptorRepository{
				SearchFunc: func(ctx context.Context, filter DescriptorFilter) ([]ModelDescriptor, error) {
					got = filter.Limit
					return nil, nil
				},
			}
			_, err := newTestService(deps).Search(context.Background(), "x", tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSearch_SkipsUnregisteredAndMalformedDescriptors(t *testing.T) {
	deps := newTestDeps()
	deps.Descriptors = &mockDescriptorRepository{
		SearchFunc: func(context.Context, DescriptorFilter) ([]ModelDescriptor, error) {
			return []ModelDescriptor{
				{ID: 1, Name: "Ghost", Model: "x.ghost"},
				{ID: 2, Name: "Broken", Model: ""},
				{ID: 3, Name: "Sale", Model: "sale.order"},
			}, nil
		},
	}
	deps.Registry = registrySet{"sale.order": true}

	rows, err := newTestService(deps).Search(context.Background(), "", 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "sale.order", rows[0].Model)
}

func TestSearch_DeniedOrFailingCountsDegradeToZero(t *testing.T) {
	deps := newTestDeps()
	deps.Descriptors = &mockDescriptorRepository{
		SearchFunc: func(context.Context, DescriptorFilter) ([]ModelDescriptor, error) {
			return descriptors("denied.model", "error.model", "failing.model", "ok.model"), nil
		},
	}
	deps.Registry = registrySet{"denied.model": true, "error.model": true, "failing.model": true, "ok.model": true}
	elevatedCalls := map[string]int{}
	deps.Access = &mockAccessChecker{
		CanReadFunc: func(_ context.Context, model string) (bool, error) {
			switch model {
			case "denied.model":
				return false, nil
			case "error.model":
				return false, errors.New("acl lookup failed")
			}
			return true, nil
		},
	}
	deps.Records = &mockRecordStore{
		elevated: func(_ context.Context, model string) (int64, error) {
			elevatedCalls[model]++
			if model == "failing.model" {
				return 0, errors.New("relation does not exist")
			}
			return 5, nil
		},
	}

	rows, err := newTestService(deps).Search(context.Background(), "model", 0)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	counts := map[string]int64{}
	for _, r := range rows {
		counts[r.Model] = r.Count
	}
	assert.Equal(t, map[string]int64{"denied.model": 0, "error.model": 0, "failing.model": 0, "ok.model": 5}, counts)
	assert.Zero(t, elevatedCalls["denied.model"], "elevated count must not run without read permission")
	assert.Zero(t, elevatedCalls["error.model"])
}

func TestSearch_PanicInOneDescriptorDoesNotAbortScan(t *testing.T) {
	deps := newTestDeps()
	deps.Descriptors = &mockDescriptorRepository{
		SearchFunc: func(context.Context, DescriptorFilter) ([]ModelDescriptor, error) {
			return descriptors("boom.model", "fine.model"), nil
		},
	}
	deps.Registry = registrySet{"boom.model": true, "fine.model": true}
	deps.Access = &mockAccessChecker{
		CanReadFunc: func(_ context.Context, model string) (bool, error) {
			if model == "boom.model" {
				panic("corrupt metadata")
			}
			return true, nil
		},
	}

	rows, err := newTestService(deps).Search(context.Background(), "", 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "fine.model", rows[0].Model)
}

func TestSearch_EmptyTermWithNothingBrowsableReturnsDiagnosticRow(t *testing.T) {
	deps := newTestDeps()
	deps.Descriptors = &mockDescriptorRepository{
		SearchFunc: func(context.Context, DescriptorFilter) ([]ModelDescriptor, error) {
			return descriptors("a.one", "b.two", "c.three"), nil
		},
	}

	rows, err := newTestService(deps).Search(context.Background(), "", 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, Row{
		ID:    0,
		Name:  "DEBUG: Found 3 model descriptors but 0 browsable",
		Model: "ir.model",
		Count: 3,
		Info:  "Check server logs for details",
	}, rows[0])
}

func TestSearch_NonEmptyTermWithNothingBrowsableReturnsEmpty(t *testing.T) {
	deps := newTestDeps()
	deps.Descriptors = &mockDescriptorRepository{
		SearchFunc: func(context.Context, DescriptorFilter) ([]ModelDescriptor, error) {
			return descriptors("a.one"), nil
		},
	}

	rows, err := newTestService(deps).Search(context.Background(), "zzz", 0)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSearch_RepositoryFailureIsReturned(t *testing.T) {
	deps := newTestDeps()
	deps.Descriptors = &mockDescriptorRepository{
		SearchFunc: func(context.Context, DescriptorFilter) ([]ModelDescriptor, error) {
			return nil, errors.New("connection refused")
		},
	}

	_, err := newTestService(deps).Search(context.Background(), "", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestResolveAction_ReturnsExistingAction(t *testing.T) {
	deps := newTestDeps()
	deps.Actions = &mockActionRepository{
		FindListActionFunc: func(_ context.Context, model string) (*ListAction, error) {
			return &ListAction{ID: 12, ResModel: model, ViewMode: "list,form"}, nil
		},
		CreateFunc: func(context.Context, *ListAction) error {
			t.Fatal("create must not be called")
			return nil
		},
	}

	res, err := newTestService(deps).ResolveAction(context.Background(), "res.partner")
	require.NoError(t, err)
	assert.Equal(t, Resolution{ActionID: 12, Found: true}, res)
}

func TestResolveAction_CreatesActionForRegisteredModel(t *testing.T) {
	deps := newTestDeps()
	tx := &passthroughTx{}
	deps.Tx = tx
	var locked bool
	deps.Descriptors = &mockDescriptorRepository{
		FindByModelFunc: func(_ context.Context, model string, lock bool) (*ModelDescriptor, error) {
			locked = lock
			return &ModelDescriptor{ID: 4, Name: "Sales Order", Model: model}, nil
		},
	}
	var created *ListAction
	deps.Actions = &mockActionRepository{
		CreateFunc: func(_ context.Context, action *ListAction) error {
			action.ID = 31
			created = action
			return nil
		},
	}

	res, err := newTestService(deps).ResolveAction(context.Background(), "sale.order")
	require.NoError(t, err)
	assert.Equal(t, Resolution{ActionID: 31, Found: true, Created: true}, res)
	assert.True(t, locked, "descriptor row is locked before creating")
	assert.Equal(t, 1, tx.calls)

	require.NotNil(t, created)
	assert.Equal(t, "Sales Order", created.Name)
	assert.Equal(t, "sale.order", created.ResModel)
	assert.Equal(t, "list,form", created.ViewMode)
	assert.Equal(t, "ir.actions.act_window", created.Type)
	assert.Equal(t, "current", created.Target)
	assert.Empty(t, created.Context)
}

func TestResolveAction_RechecksAfterLock(t *testing.T) {
	deps := newTestDeps()
	deps.Descriptors = &mockDescriptorRepository{
		FindByModelFunc: func(_ context.Context, model string, _ bool) (*ModelDescriptor, error) {
			return &ModelDescriptor{Name: "Sales Order", Model: model}, nil
		},
	}
	lookups := 0
	deps.Actions = &mockActionRepository{
		FindListActionFunc: func(_ context.Context, model string) (*ListAction, error) {
			lookups++
			if lookups == 1 {
				return nil, nil
			}
			return &ListAction{ID: 8, ResModel: model}, nil
		},
		CreateFunc: func(context.Context, *ListAction) error {
			t.Fatal("create must not be called once a concurrent action exists")
			return nil
		},
	}

	res, err := newTestService(deps).ResolveAction(context.Background(), "sale.order")
	require.NoError(t, err)
	assert.Equal(t, Resolution{ActionID: 8, Found: true}, res)
	assert.Equal(t, 2, lookups)
}

func TestResolveAction_UnknownModelIsNotFound(t *testing.T) {
	deps := newTestDeps()
	res, err := newTestService(deps).ResolveAction(context.Background(), "nonexistent.model")
	require.NoError(t, err)
	assert.False(t, res.Found)
}

func TestResolveAction_BlankModelSkipsDatabase(t *testing.T) {
	deps := newTestDeps()
	tx := &passthroughTx{}
	deps.Tx = tx
	res, err := newTestService(deps).ResolveAction(context.Background(), "  ")
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Zero(t, tx.calls)
}

func TestResolveAction_CreateFailureIsReturned(t *testing.T) {
	deps := newTestDeps()
	deps.Descriptors = &mockDescriptorRepository{
		FindByModelFunc: func(_ context.Context, model string, _ bool) (*ModelDescriptor, error) {
			return &ModelDescriptor{Name: "X", Model: model}, nil
		},
	}
	deps.Actions = &mockActionRepository{
		CreateFunc: func(context.Context, *ListAction) error { return errors.New("read-only transaction") },
	}

	_, err := newTestService(deps).ResolveAction(context.Background(), "x.model")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "x.model")
}

func TestGetAction(t *testing.T) {
	deps := newTestDeps()
	deps.Actions = &mockActionRepository{
		FindByIDFunc: func(_ context.Context, id uint) (*ListAction, error) {
			if id != 5 {
				return nil, nil
			}
			return &ListAction{ID: 5, Name: "Contacts", ResModel: "res.partner", ViewMode: "list,form", Type: WindowActionType, Target: DefaultTarget}, nil
		},
	}
	svc := newTestService(deps)

	def, err := svc.GetAction(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "res.partner", def.ResModel)
	assert.Equal(t, []ViewDescriptor{{false, "list"}, {false, "form"}}, def.Views)
	assert.NotNil(t, def.Context)

	_, err = svc.GetAction(context.Background(), 6)
	assert.ErrorIs(t, err, ErrActionNotFound)
}

func TestErrorRow(t *testing.T) {
	long := strings.Repeat("x", 1500)
	row := ErrorRow(errors.New(long))

	assert.Equal(t, uint(0), row.ID)
	assert.Equal(t, "error", row.Model)
	assert.Equal(t, int64(0), row.Count)
	assert.Equal(t, "ERROR: "+strings.Repeat("x", 100), row.Name)
	assert.Len(t, row.Info, 1000)

	short := ErrorRow(errors.New("boom"))
	assert.Equal(t, "ERROR: boom", short.Name)
	assert.Equal(t, "boom", short.Info)
}

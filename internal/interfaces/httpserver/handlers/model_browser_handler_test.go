package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jan-server/services/model-browser/internal/domain/catalog"
	"jan-server/services/model-browser/internal/interfaces/httpserver/handlers"
)

// MockCatalogService is a mock implementation of catalog.Service for testing.
type MockCatalogService struct {
	SearchFunc        func(ctx context.Context, term string, limit int) ([]catalog.Row, error)
	ResolveActionFunc func(ctx context.Context, model string) (catalog.Resolution, error)
	GetActionFunc     func(ctx context.Context, id uint) (catalog.ActionDefinition, error)
}

func (m *MockCatalogService) Search(ctx context.Context, term string, limit int) ([]catalog.Row, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, term, limit)
	}
	return nil, nil
}

func (m *MockCatalogService) ResolveAction(ctx context.Context, model string) (catalog.Resolution, error) {
	if m.ResolveActionFunc != nil {
		return m.ResolveActionFunc(ctx, model)
	}
	return catalog.Resolution{}, nil
}

func (m *MockCatalogService) GetAction(ctx context.Context, id uint) (catalog.ActionDefinition, error) {
	if m.GetActionFunc != nil {
		return m.GetActionFunc(ctx, id)
	}
	return catalog.ActionDefinition{}, catalog.ErrActionNotFound
}

func setupRouter(svc catalog.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := handlers.NewModelBrowserHandler(svc, zerolog.Nop())
	router.POST("/v1/model-browser/search", handler.Search)
	router.POST("/v1/model-browser/open", handler.Open)
	router.GET("/v1/model-browser/actions/:action_id", handler.GetAction)
	return router
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeRows(t *testing.T, w *httptest.ResponseRecorder) []catalog.Row {
	t.Helper()
	var rows []catalog.Row
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	return rows
}

func TestSearch_PassesTermAndLimit(t *testing.T) {
	var gotTerm string
	var gotLimit int
	svc := &MockCatalogService{
		SearchFunc: func(ctx context.Context, term string, limit int) ([]catalog.Row, error) {
			gotTerm, gotLimit = term, limit
			return []catalog.Row{{ID: 3, Name: "Contact", Model: "res.partner", Count: 12, Info: "People"}}, nil
		},
	}

	w := doRequest(setupRouter(svc), http.MethodPost, "/v1/model-browser/search", `{"search_term":"part","limit":25}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "part", gotTerm)
	assert.Equal(t, 25, gotLimit)
	assert.JSONEq(t, `[{"id":3,"name":"Contact","model":"res.partner","count":12,"info":"People"}]`, w.Body.String())
}

func TestSearch_EmptyBodyUsesDefaults(t *testing.T) {
	called := false
	svc := &MockCatalogService{
		SearchFunc: func(ctx context.Context, term string, limit int) ([]catalog.Row, error) {
			called = true
			assert.Empty(t, term)
			assert.Zero(t, limit)
			return []catalog.Row{}, nil
		},
	}

	w := doRequest(setupRouter(svc), http.MethodPost, "/v1/model-browser/search", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, called)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestSearch_ServiceErrorBecomesErrorRow(t *testing.T) {
	svc := &MockCatalogService{
		SearchFunc: func(ctx context.Context, term string, limit int) ([]catalog.Row, error) {
			return nil, errors.New(strings.Repeat("db down ", 30))
		},
	}

	w := doRequest(setupRouter(svc), http.MethodPost, "/v1/model-browser/search", `{"search_term":"x"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	rows := decodeRows(t, w)
	require.Len(t, rows, 1)
	assert.Equal(t, uint(0), rows[0].ID)
	assert.Equal(t, "error", rows[0].Model)
	assert.Equal(t, int64(0), rows[0].Count)
	assert.True(t, strings.HasPrefix(rows[0].Name, "ERROR: db down"))
	assert.Len(t, rows[0].Name, len("ERROR: ")+100)
}

func TestSearch_PanicBecomesErrorRow(t *testing.T) {
	svc := &MockCatalogService{
		SearchFunc: func(ctx context.Context, term string, limit int) ([]catalog.Row, error) {
			panic("registry corrupted")
		},
	}

	w := doRequest(setupRouter(svc), http.MethodPost, "/v1/model-browser/search", `{}`)

	assert.Equal(t, http.StatusOK, w.Code)
	rows := decodeRows(t, w)
	require.Len(t, rows, 1)
	assert.Equal(t, "ERROR: registry corrupted", rows[0].Name)
	assert.Equal(t, "registry corrupted", rows[0].Info)
}

func TestSearch_MalformedBody(t *testing.T) {
	svc := &MockCatalogService{
		SearchFunc: func(ctx context.Context, term string, limit int) ([]catalog.Row, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}

	for _, body := range []string{`{"search_term": 42}`, `{"limit":"abc"}`, `not json`} {
		w := doRequest(setupRouter(svc), http.MethodPost, "/v1/model-browser/search", body)
		assert.Equal(t, http.StatusOK, w.Code, body)

		var rows []catalog.Row
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows), body)
		require.Len(t, rows, 1, body)
		assert.Equal(t, uint(0), rows[0].ID)
		assert.Equal(t, catalog.ErrorRowModel, rows[0].Model)
		assert.True(t, strings.HasPrefix(rows[0].Name, "ERROR: invalid search request"), rows[0].Name)
	}
}

func TestOpen_ReturnsActionDefinition(t *testing.T) {
	svc := &MockCatalogService{
		ResolveActionFunc: func(ctx context.Context, model string) (catalog.Resolution, error) {
			assert.Equal(t, "res.partner", model)
			return catalog.Resolution{ActionID: 9, Found: true, Created: true}, nil
		},
		GetActionFunc: func(ctx context.Context, id uint) (catalog.ActionDefinition, error) {
			return catalog.ListAction{
				ID:       id,
				Name:     "Contact",
				ResModel: "res.partner",
				ViewMode: catalog.DefaultViewMode,
				Type:     catalog.WindowActionType,
				Target:   catalog.DefaultTarget,
			}.Definition(), nil
		},
	}

	w := doRequest(setupRouter(svc), http.MethodPost, "/v1/model-browser/open", `{"model_name":"res.partner"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"id": 9,
		"name": "Contact",
		"type": "ir.actions.act_window",
		"res_model": "res.partner",
		"view_mode": "list,form",
		"views": [[false, "list"], [false, "form"]],
		"target": "current",
		"context": {}
	}`, w.Body.String())
}

func TestOpen_FalsyResults(t *testing.T) {
	tests := []struct {
		name string
		svc  *MockCatalogService
	}{
		{
			name: "unknown model",
			svc:  &MockCatalogService{},
		},
		{
			name: "resolution error",
			svc: &MockCatalogService{
				ResolveActionFunc: func(ctx context.Context, model string) (catalog.Resolution, error) {
					return catalog.Resolution{}, errors.New("deadlock detected")
				},
			},
		},
		{
			name: "resolution panic",
			svc: &MockCatalogService{
				ResolveActionFunc: func(ctx context.Context, model string) (catalog.Resolution, error) {
					panic("boom")
				},
			},
		},
		{
			name: "action vanished",
			svc: &MockCatalogService{
				ResolveActionFunc: func(ctx context.Context, model string) (catalog.Resolution, error) {
					return catalog.Resolution{ActionID: 4, Found: true}, nil
				},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(setupRouter(tt.svc), http.MethodPost, "/v1/model-browser/open", `{"model_name":"nonexistent.model"}`)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "false", w.Body.String())
		})
	}
}

func TestOpen_MissingModelName(t *testing.T) {
	var seen []string
	svc := &MockCatalogService{
		ResolveActionFunc: func(ctx context.Context, model string) (catalog.Resolution, error) {
			seen = append(seen, model)
			return catalog.Resolution{}, nil
		},
	}
	router := setupRouter(svc)

	for _, body := range []string{`{}`, `{"model_name":""}`, `{"model_name":"   "}`, ``} {
		w := doRequest(router, http.MethodPost, "/v1/model-browser/open", body)
		assert.Equal(t, http.StatusOK, w.Code, body)
		assert.Equal(t, "false", w.Body.String(), body)
	}
	assert.Equal(t, []string{"", "", "   ", ""}, seen)
}

func TestOpen_NonJSONBody(t *testing.T) {
	w := doRequest(setupRouter(&MockCatalogService{}), http.MethodPost, "/v1/model-browser/open", `model_name=res.partner`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"error"`)
}

func TestGetAction(t *testing.T) {
	svc := &MockCatalogService{
		GetActionFunc: func(ctx context.Context, id uint) (catalog.ActionDefinition, error) {
			switch id {
			case 1:
				return catalog.ActionDefinition{ID: 1, ResModel: "sale.order"}, nil
			case 2:
				return catalog.ActionDefinition{}, errors.New("connection reset")
			}
			return catalog.ActionDefinition{}, catalog.ErrActionNotFound
		},
	}
	router := setupRouter(svc)

	w := doRequest(router, http.MethodGet, "/v1/model-browser/actions/1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"res_model":"sale.order"`)

	w = doRequest(router, http.MethodGet, "/v1/model-browser/actions/2", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection reset")

	w = doRequest(router, http.MethodGet, "/v1/model-browser/actions/3", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(router, http.MethodGet, "/v1/model-browser/actions/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

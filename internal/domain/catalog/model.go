package catalog

import (
	"errors"
	"strings"
	"time"
)

// Platform identifiers shared by the service and its callers.
const (
	DescriptorModel   = "ir.model"
	ErrorRowModel     = "error"
	WindowActionType  = "ir.actions.act_window"
	DefaultViewMode   = "list,form"
	DefaultTarget     = "current"
	diagnosticRowInfo = "Check server logs for details"
)

// ErrActionNotFound is returned when an action ID does not exist.
var ErrActionNotFound = errors.New("action not found")

// ModelDescriptor describes one data model registered in the platform.
type ModelDescriptor struct {
	ID        uint
	Name      string
	Model     string
	Info      string
	Transient bool
}

// Row is a browsable projection of a descriptor with its live record count.
type Row struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Model string `json:"model"`
	Count int64  `json:"count"`
	Info  string `json:"info"`
}

// ListAction is a navigation directive opening one model in list and form views.
type ListAction struct {
	ID        uint
	Name      string
	ResModel  string
	ViewMode  string
	Type      string
	Target    string
	Context   map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ActionDefinition is the displayable form of a ListAction handed to clients.
type ActionDefinition struct {
	ID       uint             `json:"id" yaml:"id"`
	Name     string           `json:"name" yaml:"name"`
	Type     string           `json:"type" yaml:"type"`
	ResModel string           `json:"res_model" yaml:"res_model"`
	ViewMode string           `json:"view_mode" yaml:"view_mode"`
	Views    []ViewDescriptor `json:"views" yaml:"views"`
	Target   string           `json:"target" yaml:"target"`
	Context  map[string]any   `json:"context" yaml:"context"`
}

// ViewDescriptor is a [view_id, view_type] pair. A false view ID selects the default view.
type ViewDescriptor [2]any

// Definition expands the action into its displayable form.
func (a ListAction) Definition() ActionDefinition {
	ctx := a.Context
	if ctx == nil {
		ctx = map[string]any{}
	}
	return ActionDefinition{
		ID:       a.ID,
		Name:     a.Name,
		Type:     a.Type,
		ResModel: a.ResModel,
		ViewMode: a.ViewMode,
		Views:    viewsFor(a.ViewMode),
		Target:   a.Target,
		Context:  ctx,
	}
}

func viewsFor(viewMode string) []ViewDescriptor {
	views := make([]ViewDescriptor, 0, 2)
	for _, mode := range strings.Split(viewMode, ",") {
		mode = strings.TrimSpace(mode)
		if mode == "" {
			continue
		}
		views = append(views, ViewDescriptor{false, mode})
	}
	return views
}

package handlers

import (
	"github.com/rs/zerolog"

	"jan-server/services/model-browser/internal/domain/catalog"
)

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	ModelBrowser *ModelBrowserHandler
}

// NewProvider constructs the handler provider with domain services.
func NewProvider(catalogService catalog.Service, log zerolog.Logger) *Provider {
	return &Provider{
		ModelBrowser: NewModelBrowserHandler(catalogService, log),
	}
}

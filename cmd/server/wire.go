//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"jan-server/services/model-browser/internal/config"
	"jan-server/services/model-browser/internal/infrastructure/auth"
	"jan-server/services/model-browser/internal/infrastructure/database/transaction"
	"jan-server/services/model-browser/internal/infrastructure/logger"
	"jan-server/services/model-browser/internal/interfaces/httpserver"
)

var catalogSet = wire.NewSet(
	transaction.NewDatabase,
	newRegistry,
	newCatalogService,
)

// BuildApplication assembles the model browser service with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		newDatabaseConfig,
		newGormDB,
		auth.NewValidator,
		catalogSet,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}

//go:build wireinject
// +build wireinject

package di

import (
	"github.com/battuto/EtfManager/pkg/config"
	"github.com/battuto/EtfManager/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideSQLiteClient,
		ProvideRedisCache,
		ProvideCacheService,

		// Repositories
		ProvideTransactionStore,
		ProvideAlertStore,
		ProvidePriceSource,

		// Use cases
		ProvideAnalytics,
		ProvideInvestments,
		ProvideAlerts,

		// HTTP surface and application server
		ProvideHandlers,
		ProvideApp,
	)
	return &server.App{}, nil
}

//go:build wireinject
// +build wireinject

package di

import (
	"RetailPulse/pkg/config"
	"RetailPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,

		// Repositories
		ProvideSnapshotSource,
		ProvideSignalPublisher,

		// Engine
		ProvideStore,
		ProvideRefresher,
		ProvideEngine,

		// Adapters
		ProvideKafkaEventsHandler,
		ProvideAPIHandler,
		ProvideTCPListener,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}

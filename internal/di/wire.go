//go:build wireinject

package di

import (
	"github.com/google/wire"

	"postboard-web/internal/app"
	"postboard-web/internal/config"
)

// InitializeServer conecta todos los componentes del servidor.
func InitializeServer() (*app.Server, func(), error) {
	wire.Build(
		config.Load,
		provideLogger,
		provideAuth,
		provideHTTPClient,
		provideSource,
		provideCache,
		provideSessions,
		provideRouter,
		provideScheduler,
		app.New,
	)
	return nil, nil, nil
}

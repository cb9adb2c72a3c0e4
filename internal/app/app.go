// Package app defines the App struct that composes the ledger's dependencies.
//
// It owns the lifecycle of:
//   - configuration
//   - the application logger
//   - the lazily opened database pool
//   - the services built on top of it
//
// Nothing here touches the network. The pool is opened by the first
// service call and released by Shutdown.
package app

import (
	"context"

	"github.com/deppfellow/ledger/internal/config"
	"github.com/deppfellow/ledger/internal/database"
	"github.com/deppfellow/ledger/internal/repository"
	"github.com/deppfellow/ledger/internal/service"
	"github.com/rs/zerolog"
)

// App is the application container that holds shared resources.
type App struct {
	// Config holds the resolved environment configuration.
	Config *config.Config

	// Logger is the application's main structured logger.
	Logger *zerolog.Logger

	// DB is the shared pool, opened on first use.
	DB *database.Lazy

	// Services are the operations callers are meant to use.
	Services *service.Services
}

// New wires an App from cfg using the real PostgreSQL connector.
func New(cfg *config.Config, logger *zerolog.Logger) *App {
	return NewWithConnector(cfg, logger, database.Connector(cfg.Settings(), logger))
}

// NewWithConnector is New with a custom way of opening the pool.
func NewWithConnector(cfg *config.Config, logger *zerolog.Logger, connect database.ConnectFunc) *App {
	db := database.NewLazy(connect)
	repos := repository.NewRepositories()

	return &App{
		Config:   cfg,
		Logger:   logger,
		DB:       db,
		Services: service.NewServices(db, repos, logger),
	}
}

// Shutdown releases the pool if it was opened.
//
// A connect still in flight is abandoned; its pool is closed as soon
// as it arrives. ctx is honoured only for the log line.
func (a *App) Shutdown(ctx context.Context) error {
	state := a.DB.State()
	a.DB.Close()

	a.Logger.Debug().
		Ctx(ctx).
		Str("pool_state", state.String()).
		Msg("ledger shut down")

	return nil
}

// Package database contains the logic for establishing
// connections to the ledger's PostgreSQL database.
//
// It handles:
//   - building a DSN from config
//   - creating a pgx connection pool (pgxpool) with fixed limits
//   - wiring query tracing/logging (pgx tracelog) at debug level
//   - holding that pool lazily, created once on first use (see Lazy)
package database

import (
	"context"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/deppfellow/ledger/internal/config"
	loggerConfig "github.com/deppfellow/ledger/internal/logger"
	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Pool limits. Idle connections are released until none remain.
const (
	MaxConns        = 10
	MinConns        = 0
	MaxConnIdleTime = 30 * time.Second
)

// DatabasePingTimeout bounds the ping that proves a new pool is usable.
const DatabasePingTimeout = 10 * time.Second

// DBTX is the query surface shared by *pgxpool.Pool, pgx.Tx and test mocks.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Pool is a DBTX that owns connections and must be closed.
type Pool interface {
	DBTX
	Close()
}

// Database wraps the pgx connection pool and a logger.
type Database struct {
	*pgxpool.Pool
	log *zerolog.Logger
}

// DSN builds the postgres URL for cfg. User and password are escaped.
func DSN(cfg config.DatabaseConfig) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:   "/" + cfg.Name,
	}
	if cfg.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {cfg.SSLMode}}.Encode()
	}
	return u.String()
}

// PoolConfig parses cfg into a pgxpool config with the ledger's limits applied.
//
// When logger is at debug level or below every statement is logged
// through pgx's tracelog, bound arguments included.
func PoolConfig(cfg config.DatabaseConfig, logger *zerolog.Logger) (*pgxpool.Config, error) {
	pgxPoolConfig, err := pgxpool.ParseConfig(DSN(cfg))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse pgx pool config")
	}

	pgxPoolConfig.MaxConns = MaxConns
	pgxPoolConfig.MinConns = MinConns
	pgxPoolConfig.MaxConnIdleTime = MaxConnIdleTime

	if logger != nil {
		globalLevel := logger.GetLevel()
		if globalLevel <= zerolog.DebugLevel {
			pgxLogger := loggerConfig.NewPgxLogger(*logger)
			pgxPoolConfig.ConnConfig.Tracer = &tracelog.TraceLog{
				Logger:   pgxzero.NewLogger(pgxLogger),
				LogLevel: loggerConfig.GetPgxTraceLogLevel(globalLevel),
			}
		}
	}

	return pgxPoolConfig, nil
}

// New creates the connection pool and pings it.
//
// A pool that fails its ping is closed before the error is returned,
// so a failed attempt leaves nothing behind.
func New(ctx context.Context, cfg config.DatabaseConfig, logger *zerolog.Logger) (*Database, error) {
	pgxPoolConfig, err := PoolConfig(cfg, logger)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxPoolConfig)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create pgx pool")
	}

	pingCtx, cancel := context.WithTimeout(ctx, DatabasePingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}

	if logger != nil {
		logger.Info().
			Str("host", cfg.Host).
			Int("port", cfg.Port).
			Str("database", cfg.Name).
			Msg("connected to the database")
	}

	return &Database{Pool: pool, log: logger}, nil
}

// Connector returns a ConnectFunc that calls New with cfg.
func Connector(cfg config.DatabaseConfig, logger *zerolog.Logger) ConnectFunc {
	return func(ctx context.Context) (Pool, error) {
		db, err := New(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return db, nil
	}
}

// Close closes the database connection pool.
func (db *Database) Close() {
	if db.log != nil {
		db.log.Info().Msg("closing database connection pool")
	}
	db.Pool.Close()
}


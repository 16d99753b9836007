package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/smart-task/internal/config"
	"github.com/adanyl0v/smart-task/internal/storage"
	"github.com/adanyl0v/smart-task/internal/storage/postgres"
	"github.com/adanyl0v/smart-task/internal/storage/sqlite"
)

// MustOpenStorage connects to the configured backend and applies
// pending migrations.
func MustOpenStorage(ctx context.Context, logger zerolog.Logger, cfg *config.Config) storage.Store {
	switch cfg.Storage.Driver {
	case config.StorageDriverSQLite:
		return mustOpenSQLite(ctx, logger, cfg.Storage)
	default:
		return mustConnectPostgres(ctx, logger, cfg.Postgres)
	}
}

func mustOpenSQLite(ctx context.Context, logger zerolog.Logger, cfg config.StorageConfig) storage.Store {
	store, err := sqlite.Open(ctx, cfg.SQLitePath)
	if err != nil {
		logger.Error().
			Err(err).
			Str("path", cfg.SQLitePath).
			Msg("failed to open sqlite")
		panic(err)
	}
	logger.Info().
		Str("path", cfg.SQLitePath).
		Msg("opened sqlite")
	return store
}

func mustConnectPostgres(ctx context.Context, logger zerolog.Logger, cfg config.PostgresConfig) storage.Store {
	connURL := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Username, cfg.Password, cfg.Host,
		cfg.Port, cfg.Database, cfg.SSLMode)

	poolCfg, err := pgxpool.ParseConfig(connURL)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to parse postgres config")
		panic(err)
	}
	poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to connect to postgres")
		panic(err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()

	err = pool.Ping(pingCtx)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to ping postgres")
		panic(err)
	}
	logger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Msg("connected to postgres")

	store := postgres.NewStore(pool)
	err = store.Migrate(ctx)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to migrate postgres")
		panic(err)
	}
	logger.Info().Msg("migrated postgres")
	return store
}

func CloseStorage(logger zerolog.Logger, store storage.Store) {
	err := store.Close()
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to close storage")
		return
	}
	logger.Info().Msg("closed storage")
}

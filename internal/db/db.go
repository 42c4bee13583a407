package db

import (
	"context"
	"fmt"

	"github.com/texlink-oficial/texlink-scheduler/internal/router/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// InitDb opens the connection pool and checks that the database answers.
func InitDb(ctx context.Context, cfg config.Config) (*pgxpool.Pool, error) {
	databaseUrl := cfg.PostgresConn
	if databaseUrl == "" {
		if cfg.PostgresUser == "" || cfg.PostgresPass == "" || cfg.PostgresHost == "" || cfg.PostgresPort == "" || cfg.PostgresDB == "" {
			return nil, fmt.Errorf("one or more database connection environment variables are missing")
		}
		databaseUrl = ConnString(cfg)
	}

	poolConfig, err := pgxpool.ParseConfig(databaseUrl)
	if err != nil {
		return nil, fmt.Errorf("invalid database url: %w", err)
	}

	dbPool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	if err := dbPool.Ping(ctx); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("database is not reachable: %w", err)
	}

	return dbPool, nil
}

// ConnString builds a postgres url from the individual settings.
func ConnString(cfg config.Config) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.PostgresUser, cfg.PostgresPass, cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresDB)
}

package database

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/sweeper/internal/config"
)

var Log = logrus.New()

func Connect(ctx context.Context, cfg config.Database) (*pgxpool.Pool, error) {
	poolConfig, err := cfg.PoolConfig()
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to reach database: %w", err)
	}
	return pool, nil
}

func newMigrator(url string, migrations fs.FS) (*migrate.Migrate, error) {
	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("unable to create migrations iofs: %w", err)
	}
	migrator, err := migrate.NewWithSourceInstance("iofs", source, url)
	if err != nil {
		return nil, fmt.Errorf("unable to create migrator: %w", err)
	}
	return migrator, nil
}

// Migrate applies every pending up migration.
func Migrate(cfg config.Database, migrations fs.FS) error {
	migrator, err := newMigrator(cfg.ConnString(), migrations)
	if err != nil {
		return err
	}
	defer migrator.Close()

	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	version, dirty, err := migrator.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return err
	}
	Log.WithFields(logrus.Fields{
		"version": version,
		"dirty":   dirty,
	}).Info("database migrated")
	return nil
}

// Rollback reverts the given number of migrations.
func Rollback(cfg config.Database, migrations fs.FS, steps int) error {
	migrator, err := newMigrator(cfg.ConnString(), migrations)
	if err != nil {
		return err
	}
	defer migrator.Close()

	if err := migrator.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to roll back database: %w", err)
	}
	return nil
}

func ConnectAndMigrate(
	ctx context.Context, cfg config.Database, migrations fs.FS,
) (*pgxpool.Pool, error) {
	if err := Migrate(cfg, migrations); err != nil {
		return nil, err
	}
	return Connect(ctx, cfg)
}

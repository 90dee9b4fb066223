package postgres

import (
	"embed"
	"errors"
	"fmt"

	"tasksApp/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func newMigrator(connString string) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("open migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, connString)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return m, nil
}

// Migrate applies every pending up migration. Running it against an up-to-date schema is a no-op.
func Migrate(connString string) error {
	logger.Info("Repository: applying migrations")

	m, err := newMigrator(connString)
	if err != nil {
		logger.Error("Repository: migrator setup failed", err)
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Error("Repository: migration failed", err)
		return fmt.Errorf("migrate up: %w", err)
	}

	logger.Info("Repository: migrations applied")
	return nil
}

// Down rolls back every applied migration.
func Down(connString string) error {
	logger.Info("Repository: rolling back migrations")

	m, err := newMigrator(connString)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Error("Repository: rollback failed", err)
		return fmt.Errorf("migrate down: %w", err)
	}
	return nil
}

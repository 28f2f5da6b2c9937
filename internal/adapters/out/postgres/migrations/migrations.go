// Package migrations holds the versioned schema and applies it with golang-migrate.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed sql/*.sql
var files embed.FS

type migrationLogger struct {
	logger *zap.SugaredLogger
}

func (l migrationLogger) Printf(format string, v ...any) {
	l.logger.Infof(format, v...)
}

func (l migrationLogger) Verbose() bool {
	return false
}

// Up applies every pending migration. A database that is already current is
// not an error.
func Up(db *sql.DB, logger *zap.Logger) error {
	m, err := newMigrate(db, logger)
	if err != nil {
		return err
	}

	before, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("read schema version: %w", err)
	}

	if err = m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("schema is up to date", zap.Uint("version", before))
			return nil
		}
		version, dirty, _ := m.Version()
		logger.Error("migration failed",
			zap.Uint("version", version),
			zap.Bool("dirty", dirty),
			zap.Error(err))
		return err
	}

	after, _, _ := m.Version()
	logger.Info("schema migrated", zap.Uint("from", before), zap.Uint("to", after))
	return nil
}

// Down reverts the last applied migration.
func Down(db *sql.DB, logger *zap.Logger) error {
	m, err := newMigrate(db, logger)
	if err != nil {
		return err
	}
	if err = m.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func newMigrate(db *sql.DB, logger *zap.Logger) (*migrate.Migrate, error) {
	source, err := iofs.New(files, "sql")
	if err != nil {
		return nil, err
	}
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, err
	}
	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return nil, err
	}
	m.Log = migrationLogger{logger: logger.Named("migrate").Sugar()}
	return m, nil
}

// Copyright (c) 2026 Contenedor JEM. All rights reserved.
// Author: jem@contenedorjem.dev

// Package migration applies the schema files under data/migrations through
// golang-migrate during startup.
//
// # Architecture
//
// This package belongs to the Infrastructure layer. Startup calls [RunUp]
// before the HTTP server binds, so the course and student tables are
// guaranteed to exist (with their unique and cascade constraints) by the
// time the first request is served. A dirty schema aborts the boot instead
// of serving traffic against half-applied DDL.
package migration

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// pgx5 driver registers "pgx5" scheme for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	// file source reads .sql files from disk.
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunUp applies every pending UP migration and reports the version moved to.
//
// # Parameters
//   - dsn: A postgres:// or postgresql:// URL, as configured in DATABASE_URL.
//   - migrationsPath: Filesystem path to the .sql migration files.
//   - logger: Structured logger for migration events.
func RunUp(dsn string, migrationsPath string, logger *slog.Logger) error {
	migrator, err := migrate.New("file://"+migrationsPath, pgx5URL(dsn))
	if err != nil {
		return fmt.Errorf("migration: failed to initialize: %w", err)
	}
	defer closeMigrator(migrator, logger)

	migrator.Log = &migrateLogger{logger: logger}

	fromVersion, isDirty, err := migrator.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("migration: failed to read schema version: %w", err)
	}
	if isDirty {
		return fmt.Errorf("migration: schema is dirty at version %d (manual intervention required)", fromVersion)
	}

	logger.Info("schema_migration_started", slog.Int("from_version", int(fromVersion)))

	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("schema_up_to_date", slog.Int("version", int(fromVersion)))
			return nil
		}
		return fmt.Errorf("migration: up failed: %w", err)
	}

	toVersion, _, _ := migrator.Version()
	logger.Info("schema_migration_applied",
		slog.Int("from_version", int(fromVersion)),
		slog.Int("to_version", int(toVersion)),
	)

	return nil
}

// pgx5URL rewrites a libpq-style URL to the pgx5:// scheme golang-migrate
// expects for its pgx/v5 database driver. Any other scheme passes through.
func pgx5URL(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(dsn, prefix) {
			return "pgx5://" + strings.TrimPrefix(dsn, prefix)
		}
	}
	return dsn
}

// closeMigrator releases both migrator handles; close failures are logged
// rather than returned because the schema work itself already finished.
func closeMigrator(migrator *migrate.Migrate, logger *slog.Logger) {
	sourceErr, dbErr := migrator.Close()
	if sourceErr != nil {
		logger.Error("migration_source_close_failed", slog.Any("error", sourceErr))
	}
	if dbErr != nil {
		logger.Error("migration_db_close_failed", slog.Any("error", dbErr))
	}
}

// migrateLogger adapts golang-migrate's logger interface to slog at debug
// level, keeping the library's chatter out of production output.
type migrateLogger struct {
	logger *slog.Logger
}

// Printf implements migrate.Logger.
func (l *migrateLogger) Printf(format string, args ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// Verbose implements migrate.Logger.
func (l *migrateLogger) Verbose() bool {
	return false
}

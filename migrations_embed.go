package main

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"woof-coffee/db"

	"go.uber.org/zap"
)

// Embed migrations into the binary so `woofcoffee migrate` works
// regardless of the current working directory.
//
//go:embed migrations/*.sql
var migrationsFS embed.FS

func migrationNames() ([]string, error) {
	names, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

func applyMigrations(ctx context.Context, log *zap.Logger) error {
	names, err := migrationNames()
	if err != nil {
		return err
	}
	for _, name := range names {
		sqlBytes, err := migrationsFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := db.Pool.Exec(ctx, string(sqlBytes)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
		log.Info("migration applied", zap.String("name", name))
	}
	return nil
}

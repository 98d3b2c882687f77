// Package storage opens and migrates the local cache database and bundles
// the repositories built on top of it.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pressly/goose/v3"
	"github.com/reveriehq/reverie/internal/client/migrations"
	"github.com/reveriehq/reverie/internal/client/repositories/dreams"
	"github.com/reveriehq/reverie/internal/client/repositories/ledgers"
	"github.com/reveriehq/reverie/internal/client/repositories/metadata"
)

// Repositories bundles the repository set sharing one database handle.
type Repositories struct {
	DB       *sql.DB
	Metadata metadata.Repository
	Dreams   dreams.Repository
	Ledgers  ledgers.Repository
}

// DefaultPath returns the cache DB location under the user config dir,
// creating the directory if needed.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving user config dir: %w", err)
	}
	dir := filepath.Join(configDir, "reverie")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("creating config dir: %w", err)
	}
	return filepath.Join(dir, "reverie.db"), nil
}

// RunMigrations applies the embedded goose migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// Open opens (creating if necessary) and migrates the cache database at dsn
// and returns the repository bundle.
func Open(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	// modernc sqlite does not support concurrent writers on one handle.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrating cache db: %w", err)
	}

	return &Repositories{
		DB:       db,
		Metadata: metadata.NewSQLiteRepository(db),
		Dreams:   dreams.NewSQLiteRepository(db),
		Ledgers:  ledgers.NewSQLiteRepository(db),
	}, nil
}

// Close releases the shared database handle.
func (r *Repositories) Close() error {
	return r.DB.Close()
}

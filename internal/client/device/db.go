// Package device opens the device database and wires the repositories that
// live in it.
package device

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/retrorevive/internal/client/repositories/storage"
	"github.com/dmitrijs2005/retrorevive/internal/client/repositories/users"
	"github.com/dmitrijs2005/retrorevive/internal/filex"
	"github.com/dmitrijs2005/retrorevive/internal/client/migrations"

	_ "modernc.org/sqlite"
)

// Repositories bundles everything backed by one device database.
type Repositories struct {
	DB      *sql.DB
	Storage storage.Store
	Users   users.Repository
}

// Close releases the database.
func (r *Repositories) Close() error {
	return r.DB.Close()
}

// RunMigrations applies the embedded migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens the SQLite database at path (filex.MemoryDSN for an
// in-memory one), applies migrations and returns the repositories.
//
// The pool is limited to one connection: the device has a single writer,
// and an in-memory database exists per connection.
func InitDatabase(ctx context.Context, path string) (*Repositories, error) {
	dsn, err := filex.EnsureParentDir(path)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &Repositories{
		DB:      db,
		Storage: storage.NewSQLiteStore(db),
		Users:   users.NewSQLiteRepository(db),
	}, nil
}

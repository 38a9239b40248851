// Package localdb opens the station's durable SQLite store and wires the
// local repositories: the offline submission queue and the session
// key/value store.
package localdb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/anshthakare16/sai-sillicon-valley/internal/client/migrations"
	"github.com/anshthakare16/sai-sillicon-valley/internal/client/repositories/queue"
	"github.com/anshthakare16/sai-sillicon-valley/internal/client/repositories/session"
)

type Store struct {
	DB      *sql.DB
	Queue   queue.Repository
	Session session.Repository
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// Open opens (creating if needed) the local database at path and runs the
// embedded migrations. The returned store survives restarts; in particular
// queued submissions placed before a crash are still there afterwards.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open local database: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return &Store{
		DB:      db,
		Queue:   queue.NewSQLiteRepository(db),
		Session: session.NewSQLiteRepository(db),
	}, nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}

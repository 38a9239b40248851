package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/anshthakare16/sai-sillicon-valley/internal/server/migrations"
	"github.com/anshthakare16/sai-sillicon-valley/internal/server/repositories/admins"
	"github.com/anshthakare16/sai-sillicon-valley/internal/server/repositories/flats"
	"github.com/anshthakare16/sai-sillicon-valley/internal/server/repositories/refreshtokens"
	"github.com/anshthakare16/sai-sillicon-valley/internal/server/repositories/requests"
	"github.com/anshthakare16/sai-sillicon-valley/internal/server/repositories/residents"
)

type PostgresRepositoryManager struct {
	db            *sql.DB
	flats         flats.Repository
	residents     residents.Repository
	requests      requests.Repository
	refreshTokens refreshtokens.Repository
	admins        admins.Repository
}

func NewPostgresRepositoryManager(dsn string) (RepositoryManager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	m := &PostgresRepositoryManager{
		db:            db,
		flats:         flats.NewPostgresRepository(db),
		residents:     residents.NewPostgresRepository(db),
		requests:      requests.NewPostgresRepository(db),
		refreshTokens: refreshtokens.NewPostgresRepository(db),
		admins:        admins.NewPostgresRepository(db),
	}

	if err := m.RunMigrations(context.Background()); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}

func (m *PostgresRepositoryManager) Conn() *sql.DB { return m.db }

func (m *PostgresRepositoryManager) Flats() flats.Repository { return m.flats }

func (m *PostgresRepositoryManager) Residents() residents.Repository { return m.residents }

func (m *PostgresRepositoryManager) Requests() requests.Repository { return m.requests }

func (m *PostgresRepositoryManager) RefreshTokens() refreshtokens.Repository {
	return m.refreshTokens
}

func (m *PostgresRepositoryManager) Admins() admins.Repository { return m.admins }

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	return goose.UpContext(ctx, m.db, ".")
}

func (m *PostgresRepositoryManager) Close() error {
	return m.db.Close()
}

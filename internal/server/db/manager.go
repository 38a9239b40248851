// Package db wires the PostgreSQL connection and the repository set behind
// a single manager. Migrations run at construction.
package db

import (
	"context"
	"database/sql"

	"github.com/anshthakare16/sai-sillicon-valley/internal/server/repositories/admins"
	"github.com/anshthakare16/sai-sillicon-valley/internal/server/repositories/flats"
	"github.com/anshthakare16/sai-sillicon-valley/internal/server/repositories/refreshtokens"
	"github.com/anshthakare16/sai-sillicon-valley/internal/server/repositories/requests"
	"github.com/anshthakare16/sai-sillicon-valley/internal/server/repositories/residents"
)

// RepositoryManager exposes the repository set over one shared connection.
type RepositoryManager interface {
	Conn() *sql.DB
	Flats() flats.Repository
	Residents() residents.Repository
	Requests() requests.Repository
	RefreshTokens() refreshtokens.Repository
	Admins() admins.Repository
	RunMigrations(ctx context.Context) error
	Close() error
}

package residents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/anshthakare16/sai-sillicon-valley/internal/common"
	"github.com/anshthakare16/sai-sillicon-valley/internal/dbx"
	"github.com/anshthakare16/sai-sillicon-valley/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, phone, email, flatID string) (*models.Resident, error) {
	query := `
		INSERT INTO residents (phone, email, flat_id, last_login)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (phone) DO UPDATE SET
			email = excluded.email,
			flat_id = excluded.flat_id,
			last_login = now()
		RETURNING id, phone, email, flat_id, last_login, active, created_at
	`

	res := &models.Resident{}
	err := r.db.QueryRowContext(ctx, query, phone, email, flatID).Scan(
		&res.ID, &res.Phone, &res.Email, &res.FlatID, &res.LastLogin, &res.Active, &res.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return res, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Resident, error) {
	query := `
		SELECT id, phone, email, flat_id, last_login, active, created_at
		FROM residents WHERE id = $1
	`

	res := &models.Resident{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&res.ID, &res.Phone, &res.Email, &res.FlatID, &res.LastLogin, &res.Active, &res.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return res, nil
}

func (r *PostgresRepository) GetByFlat(ctx context.Context, flatID string) (*models.Resident, error) {
	query := `
		SELECT id, phone, email, flat_id, last_login, active, created_at
		FROM residents
		WHERE flat_id = $1 AND active
		ORDER BY last_login DESC
		LIMIT 1
	`

	res := &models.Resident{}
	err := r.db.QueryRowContext(ctx, query, flatID).Scan(
		&res.ID, &res.Phone, &res.Email, &res.FlatID, &res.LastLogin, &res.Active, &res.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return res, nil
}

package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/anshthakare16/sai-sillicon-valley/internal/common"
	"github.com/anshthakare16/sai-sillicon-valley/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, token *Token) error {
	query := `INSERT INTO refresh_tokens (token, resident_id, expires) VALUES ($1, $2, $3)`

	_, err := r.db.ExecContext(ctx, query, token.Token, token.ResidentID, token.Expires)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Find(ctx context.Context, token string) (*Token, error) {
	query := `SELECT token, resident_id, expires FROM refresh_tokens WHERE token = $1`

	t := &Token{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(&t.Token, &t.ResidentID, &t.Expires)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteForResident(ctx context.Context, residentID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE resident_id = $1`, residentID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

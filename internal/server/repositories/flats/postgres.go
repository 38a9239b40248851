package flats

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

func (r *PostgresRepository) List(ctx context.Context) ([]models.Flat, error) {
	query := `SELECT id, wing, number FROM flats ORDER BY wing, number`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.Flat
	for rows.Next() {
		var f models.Flat
		if err := rows.Scan(&f.ID, &f.Wing, &f.Number); err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) GetByCode(ctx context.Context, wing string, number int) (*models.Flat, error) {
	query := `SELECT id, wing, number FROM flats WHERE wing = $1 AND number = $2`

	f := &models.Flat{}
	err := r.db.QueryRowContext(ctx, query, wing, number).Scan(&f.ID, &f.Wing, &f.Number)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return f, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Flat, error) {
	query := `SELECT id, wing, number FROM flats WHERE id = $1`

	f := &models.Flat{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&f.ID, &f.Wing, &f.Number)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return f, nil
}

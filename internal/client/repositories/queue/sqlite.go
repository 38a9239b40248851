package queue

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/anshthakare16/sai-sillicon-valley/internal/api"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Enqueue(ctx context.Context, payload api.CreateRequestPayload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal queued submission: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO queued_submissions (payload) VALUES (?)`, string(raw))
	if err != nil {
		return fmt.Errorf("failed to enqueue submission: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListOrdered(ctx context.Context) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT seq, payload FROM queued_submissions ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to select queued submissions: %w", err)
	}
	defer rows.Close()

	var result []Item
	for rows.Next() {
		var (
			item Item
			raw  string
		)
		if err := rows.Scan(&item.Seq, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan queued submission: %w", err)
		}
		if err := json.Unmarshal([]byte(raw), &item.Payload); err != nil {
			return nil, fmt.Errorf("failed to unmarshal queued submission %d: %w", item.Seq, err)
		}
		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate queued submissions: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, seq int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM queued_submissions WHERE seq = ?`, seq)
	if err != nil {
		return fmt.Errorf("failed to delete queued submission %d: %w", seq, err)
	}
	return nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM queued_submissions`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count queued submissions: %w", err)
	}
	return n, nil
}

package requests

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/anshthakare16/sai-sillicon-valley/internal/common"
	"github.com/anshthakare16/sai-sillicon-valley/internal/dbx"
	"github.com/anshthakare16/sai-sillicon-valley/internal/server/models"
)

const requestColumns = `id, visitor_name, vehicle_type, vehicle_number, purpose,
	flat_id, photo_url, guard_id, status, created_at, approved_at, denied_at,
	entry_time, approved_by`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanRequest(row interface{ Scan(dest ...any) error }) (*models.VisitorRequest, error) {
	r := &models.VisitorRequest{}
	var approvedAt, deniedAt, entryTime sql.NullTime
	var approvedBy sql.NullString

	err := row.Scan(&r.ID, &r.VisitorName, &r.VehicleType, &r.VehicleNumber, &r.Purpose,
		&r.FlatID, &r.PhotoURL, &r.GuardID, &r.Status, &r.CreatedAt,
		&approvedAt, &deniedAt, &entryTime, &approvedBy)
	if err != nil {
		return nil, err
	}

	if approvedAt.Valid {
		r.ApprovedAt = &approvedAt.Time
	}
	if deniedAt.Valid {
		r.DeniedAt = &deniedAt.Time
	}
	if entryTime.Valid {
		r.EntryTime = &entryTime.Time
	}
	if approvedBy.Valid {
		r.ApprovedBy = &approvedBy.String
	}
	return r, nil
}

func (r *PostgresRepository) Create(ctx context.Context, req *models.VisitorRequest) (*models.VisitorRequest, error) {
	query := `
		INSERT INTO visitor_requests
			(id, visitor_name, vehicle_type, vehicle_number, purpose, flat_id, photo_url, guard_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'pending')
		RETURNING ` + requestColumns

	row := r.db.QueryRowContext(ctx, query,
		req.ID, req.VisitorName, req.VehicleType, req.VehicleNumber, req.Purpose,
		req.FlatID, req.PhotoURL, req.GuardID)

	created, err := scanRequest(row)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.VisitorRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM visitor_requests WHERE id = $1`

	req, err := scanRequest(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return req, nil
}

func (r *PostgresRepository) queryRequests(ctx context.Context, query string, args ...any) ([]models.VisitorRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.VisitorRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) ListPending(ctx context.Context) ([]models.VisitorRequest, error) {
	query := `SELECT ` + requestColumns + `
		FROM visitor_requests WHERE status = 'pending' ORDER BY created_at`
	return r.queryRequests(ctx, query)
}

func (r *PostgresRepository) ListPendingForFlat(ctx context.Context, flatID string) ([]models.VisitorRequest, error) {
	query := `SELECT ` + requestColumns + `
		FROM visitor_requests WHERE status = 'pending' AND flat_id = $1 ORDER BY created_at`
	return r.queryRequests(ctx, query, flatID)
}

func (r *PostgresRepository) ListHistoryForFlat(ctx context.Context, flatID string, limit int) ([]models.VisitorRequest, error) {
	query := `SELECT ` + requestColumns + `
		FROM visitor_requests
		WHERE flat_id = $1 AND status <> 'pending'
		ORDER BY created_at DESC
		LIMIT $2`
	return r.queryRequests(ctx, query, flatID, limit)
}

func (r *PostgresRepository) ListAll(ctx context.Context, filter models.RequestFilter, limit int) ([]models.VisitorRequest, error) {
	query := `SELECT ` + prefixedRequestColumns("r") + `
		FROM visitor_requests r
		JOIN flats f ON f.id = r.flat_id
		WHERE ($1 = '' OR f.wing = $1)
		  AND ($2::date IS NULL OR r.created_at::date = $2::date)
		ORDER BY r.created_at DESC
		LIMIT $3`

	var date any
	if filter.Date != nil {
		date = *filter.Date
	}
	return r.queryRequests(ctx, query, filter.Wing, date, limit)
}

// setStatusError distinguishes a vanished row from one that already left
// the expected state. Called after a conditional update touched no rows.
func (r *PostgresRepository) setStatusError(ctx context.Context, id string) error {
	var status string
	err := r.db.QueryRowContext(ctx,
		`SELECT status FROM visitor_requests WHERE id = $1`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return fmt.Errorf("%w: request %s is %s", common.ErrInvalidTransition, id, status)
}

func (r *PostgresRepository) SetStatus(ctx context.Context, id string, status models.RequestStatus, approverID string) (*models.VisitorRequest, error) {
	if status != models.StatusApproved && status != models.StatusDenied {
		return nil, fmt.Errorf("%w: cannot set status %s", common.ErrInvalidTransition, status)
	}

	query := `
		UPDATE visitor_requests SET
			status = $2,
			approved_at = CASE WHEN $2 = 'approved' THEN now() ELSE approved_at END,
			denied_at   = CASE WHEN $2 = 'denied'   THEN now() ELSE denied_at END,
			approved_by = $3
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + requestColumns

	req, err := scanRequest(r.db.QueryRowContext(ctx, query, id, status, approverID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, r.setStatusError(ctx, id)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return req, nil
}

func (r *PostgresRepository) MarkEntry(ctx context.Context, id string) (*models.VisitorRequest, error) {
	query := `
		UPDATE visitor_requests SET
			status = 'completed',
			entry_time = now()
		WHERE id = $1 AND status = 'approved'
		RETURNING ` + requestColumns

	req, err := scanRequest(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, r.setStatusError(ctx, id)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return req, nil
}

func (r *PostgresRepository) CountsForDay(ctx context.Context, day time.Time) (*models.DayStats, error) {
	query := `
		SELECT
			count(*),
			count(*) FILTER (WHERE status = 'pending'),
			count(*) FILTER (WHERE status IN ('approved', 'completed')),
			count(*) FILTER (WHERE status = 'denied')
		FROM visitor_requests
		WHERE created_at::date = $1::date`

	s := &models.DayStats{}
	err := r.db.QueryRowContext(ctx, query, day).Scan(
		&s.TodayVisitors, &s.PendingApprovals, &s.ApprovedToday, &s.DeniedToday)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM visitor_requests WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return res.RowsAffected()
}

func prefixedRequestColumns(alias string) string {
	return alias + `.id, ` + alias + `.visitor_name, ` + alias + `.vehicle_type, ` +
		alias + `.vehicle_number, ` + alias + `.purpose, ` + alias + `.flat_id, ` +
		alias + `.photo_url, ` + alias + `.guard_id, ` + alias + `.status, ` +
		alias + `.created_at, ` + alias + `.approved_at, ` + alias + `.denied_at, ` +
		alias + `.entry_time, ` + alias + `.approved_by`
}

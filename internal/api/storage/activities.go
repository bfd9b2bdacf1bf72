package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/edulane/course-be/internal/domain"
	"github.com/lib/pq"
)

const activityColumns = `
	activity_id, offering_id, facilitator_id, week_number,
	COALESCE(activities, '') AS activities, status,
	COALESCE(notes, '') AS notes, due_date, submitted_at,
	created_at, updated_at
`

// CreateActivity inserts a weekly activity tracker. A duplicate
// (offering, facilitator, week) maps to domain.ErrDuplicateActivity.
func (s *Storage) CreateActivity(ctx context.Context, activity *domain.ActivityTracker) error {
	query := `
		INSERT INTO activity_trackers (
			activity_id, offering_id, facilitator_id, week_number,
			activities, status, notes, due_date, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`

	_, err := s.db.ExecContext(ctx, query,
		activity.ID, activity.OfferingID, activity.FacilitatorID, activity.WeekNumber,
		activity.Activities, activity.Status, activity.Notes, activity.DueDate,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return domain.ErrDuplicateActivity
		}
		return fmt.Errorf("failed to create activity tracker: %w", err)
	}
	return nil
}

// GetActivityByID returns a tracker or domain.ErrNotFound
func (s *Storage) GetActivityByID(ctx context.Context, activityID string) (*domain.ActivityTracker, error) {
	query := `SELECT ` + activityColumns + ` FROM activity_trackers WHERE activity_id = $1`

	var activity domain.ActivityTracker
	err := s.db.GetContext(ctx, &activity, query, activityID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get activity tracker: %w", err)
	}
	return &activity, nil
}

// ActivityFilter narrows ListActivities results
type ActivityFilter struct {
	FacilitatorID string
	OfferingID    string
	Status        string
	Page          Page
}

// ListActivities returns trackers matching the filter plus a total count
func (s *Storage) ListActivities(ctx context.Context, filter ActivityFilter) ([]domain.ActivityTracker, int, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.FacilitatorID != "" {
		where += fmt.Sprintf(" AND facilitator_id = $%d", argIdx)
		args = append(args, filter.FacilitatorID)
		argIdx++
	}
	if filter.OfferingID != "" {
		where += fmt.Sprintf(" AND offering_id = $%d", argIdx)
		args = append(args, filter.OfferingID)
		argIdx++
	}
	if filter.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, filter.Status)
		argIdx++
	}

	var total int
	if err := s.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM activity_trackers"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count activity trackers: %w", err)
	}

	query := `SELECT ` + activityColumns + ` FROM activity_trackers` + where +
		fmt.Sprintf(" ORDER BY week_number, due_date LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, filter.Page.Size, filter.Page.Offset())

	var activities []domain.ActivityTracker
	if err := s.db.SelectContext(ctx, &activities, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list activity trackers: %w", err)
	}

	return activities, total, nil
}

// UpdateActivity updates the tracker's log content
func (s *Storage) UpdateActivity(ctx context.Context, activity *domain.ActivityTracker) error {
	query := `
		UPDATE activity_trackers
		SET activities = $1, notes = $2, updated_at = NOW()
		WHERE activity_id = $3
	`

	res, err := s.db.ExecContext(ctx, query, activity.Activities, activity.Notes, activity.ID)
	if err != nil {
		return fmt.Errorf("failed to update activity tracker: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SubmitActivity marks a tracker submitted at the given time
func (s *Storage) SubmitActivity(ctx context.Context, activityID string, submittedAt time.Time) error {
	query := `
		UPDATE activity_trackers
		SET status = $1, submitted_at = $2, updated_at = NOW()
		WHERE activity_id = $3
	`

	res, err := s.db.ExecContext(ctx, query, domain.ActivityStatusSubmitted, submittedAt, activityID)
	if err != nil {
		return fmt.Errorf("failed to submit activity tracker: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteActivity removes a tracker
func (s *Storage) DeleteActivity(ctx context.Context, activityID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM activity_trackers WHERE activity_id = $1`, activityID)
	if err != nil {
		return fmt.Errorf("failed to delete activity tracker: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/edulane/course-be/internal/domain"
	"github.com/jmoiron/sqlx"
)

// Storage handles the worker's domain reads. Lookups return (nil, nil)
// when the record does not exist; handlers decide whether a missing
// record is an error.
type Storage struct {
	db *sqlx.DB
}

// NewStorage creates a worker storage over the given database
func NewStorage(db *sqlx.DB) *Storage {
	return &Storage{db: db}
}

// FindSubmission looks up the activity tracker for one facilitator,
// offering, and week
func (s *Storage) FindSubmission(ctx context.Context, facilitatorID, offeringID string, weekNumber int) (*domain.ActivityTracker, error) {
	query := `
		SELECT activity_id, offering_id, facilitator_id, week_number,
		       COALESCE(activities, '') AS activities, status,
		       COALESCE(notes, '') AS notes, due_date, submitted_at,
		       created_at, updated_at
		FROM activity_trackers
		WHERE facilitator_id = $1 AND offering_id = $2 AND week_number = $3
	`

	var activity domain.ActivityTracker
	err := s.db.GetContext(ctx, &activity, query, facilitatorID, offeringID, weekNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find submission: %w", err)
	}
	return &activity, nil
}

// FindUser looks up a user by id
func (s *Storage) FindUser(ctx context.Context, userID string) (*domain.User, error) {
	query := `
		SELECT user_id, email, password_hash, first_name, last_name, role,
		       COALESCE(phone_number, '') AS phone_number,
		       COALESCE(department, '') AS department,
		       is_active, created_at, updated_at
		FROM users
		WHERE user_id = $1
	`

	var user domain.User
	err := s.db.GetContext(ctx, &user, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// FindOffering looks up a course offering, optionally joining its
// course and cohort for display fields
func (s *Storage) FindOffering(ctx context.Context, offeringID string, withCourse bool) (*domain.CourseOffering, error) {
	query := `
		SELECT offering_id, course_id, cohort_id, facilitator_id,
		       start_date, end_date, status, max_students,
		       created_at, updated_at
		FROM course_offerings
		WHERE offering_id = $1
	`

	var offering domain.CourseOffering
	err := s.db.GetContext(ctx, &offering, query, offeringID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find course offering: %w", err)
	}

	if withCourse {
		var course domain.Course
		courseQuery := `
			SELECT course_id, code, name, COALESCE(description, '') AS description,
			       credits, is_active, created_at, updated_at
			FROM courses WHERE course_id = $1
		`
		if err := s.db.GetContext(ctx, &course, courseQuery, offering.CourseID); err != nil {
			return nil, fmt.Errorf("failed to find course for offering: %w", err)
		}
		offering.Course = &course

		var cohort domain.Cohort
		cohortQuery := `
			SELECT cohort_id, name, intake, trimester, year, created_at, updated_at
			FROM cohorts WHERE cohort_id = $1
		`
		if err := s.db.GetContext(ctx, &cohort, cohortQuery, offering.CohortID); err != nil {
			return nil, fmt.Errorf("failed to find cohort for offering: %w", err)
		}
		offering.Cohort = &cohort
	}

	return &offering, nil
}

// FindUsersByRole returns users with the given role, optionally only
// active ones
func (s *Storage) FindUsersByRole(ctx context.Context, role string, activeOnly bool) ([]domain.User, error) {
	query := `
		SELECT user_id, email, password_hash, first_name, last_name, role,
		       COALESCE(phone_number, '') AS phone_number,
		       COALESCE(department, '') AS department,
		       is_active, created_at, updated_at
		FROM users
		WHERE role = $1
	`
	args := []interface{}{role}
	if activeOnly {
		query += " AND is_active = TRUE"
	}
	query += " ORDER BY last_name, first_name"

	var users []domain.User
	if err := s.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, fmt.Errorf("failed to find users by role: %w", err)
	}
	return users, nil
}

// UpdateSubmissionStatus sets an activity tracker's status. This is
// the only domain write the worker performs.
func (s *Storage) UpdateSubmissionStatus(ctx context.Context, activityID, status string) error {
	query := `
		UPDATE activity_trackers
		SET status = $1, updated_at = NOW()
		WHERE activity_id = $2
	`
	if _, err := s.db.ExecContext(ctx, query, status, activityID); err != nil {
		return fmt.Errorf("failed to update submission status: %w", err)
	}
	return nil
}

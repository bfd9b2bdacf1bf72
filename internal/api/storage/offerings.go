package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/edulane/course-be/internal/domain"
)

const offeringColumns = `
	offering_id, course_id, cohort_id, facilitator_id,
	start_date, end_date, status, max_students, created_at, updated_at
`

// CreateOffering inserts a new course offering
func (s *Storage) CreateOffering(ctx context.Context, offering *domain.CourseOffering) error {
	query := `
		INSERT INTO course_offerings (
			offering_id, course_id, cohort_id, facilitator_id,
			start_date, end_date, status, max_students, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`

	_, err := s.db.ExecContext(ctx, query,
		offering.ID, offering.CourseID, offering.CohortID, offering.FacilitatorID,
		offering.StartDate, offering.EndDate, offering.Status, offering.MaxStudents,
	)
	if err != nil {
		return fmt.Errorf("failed to create course offering: %w", err)
	}
	return nil
}

// GetOfferingByID returns an offering or domain.ErrNotFound
func (s *Storage) GetOfferingByID(ctx context.Context, offeringID string) (*domain.CourseOffering, error) {
	query := `SELECT ` + offeringColumns + ` FROM course_offerings WHERE offering_id = $1`

	var offering domain.CourseOffering
	err := s.db.GetContext(ctx, &offering, query, offeringID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course offering: %w", err)
	}
	return &offering, nil
}

// OfferingFilter narrows ListOfferings results
type OfferingFilter struct {
	FacilitatorID string
	Trimester     string
	Status        string
	Page          Page
}

// ListOfferings returns offerings matching the filter plus a total count
func (s *Storage) ListOfferings(ctx context.Context, filter OfferingFilter) ([]domain.CourseOffering, int, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.FacilitatorID != "" {
		where += fmt.Sprintf(" AND o.facilitator_id = $%d", argIdx)
		args = append(args, filter.FacilitatorID)
		argIdx++
	}
	if filter.Status != "" {
		where += fmt.Sprintf(" AND o.status = $%d", argIdx)
		args = append(args, filter.Status)
		argIdx++
	}
	if filter.Trimester != "" {
		where += fmt.Sprintf(" AND o.cohort_id IN (SELECT cohort_id FROM cohorts WHERE trimester = $%d)", argIdx)
		args = append(args, filter.Trimester)
		argIdx++
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM course_offerings o" + where
	if err := s.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count course offerings: %w", err)
	}

	query := `
		SELECT o.offering_id, o.course_id, o.cohort_id, o.facilitator_id,
		       o.start_date, o.end_date, o.status, o.max_students,
		       o.created_at, o.updated_at
		FROM course_offerings o` + where +
		fmt.Sprintf(" ORDER BY o.start_date DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, filter.Page.Size, filter.Page.Offset())

	var offerings []domain.CourseOffering
	if err := s.db.SelectContext(ctx, &offerings, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list course offerings: %w", err)
	}

	return offerings, total, nil
}

// UpdateOffering updates schedule, status, and facilitator assignment
func (s *Storage) UpdateOffering(ctx context.Context, offering *domain.CourseOffering) error {
	query := `
		UPDATE course_offerings
		SET facilitator_id = $1, start_date = $2, end_date = $3,
		    status = $4, max_students = $5, updated_at = NOW()
		WHERE offering_id = $6
	`

	res, err := s.db.ExecContext(ctx, query,
		offering.FacilitatorID, offering.StartDate, offering.EndDate,
		offering.Status, offering.MaxStudents, offering.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update course offering: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteOffering removes an offering
func (s *Storage) DeleteOffering(ctx context.Context, offeringID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM course_offerings WHERE offering_id = $1`, offeringID)
	if err != nil {
		return fmt.Errorf("failed to delete course offering: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

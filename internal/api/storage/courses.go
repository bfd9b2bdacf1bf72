package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/edulane/course-be/internal/domain"
)

const courseColumns = `
	course_id, code, name, COALESCE(description, '') AS description,
	credits, is_active, created_at, updated_at
`

// CreateCourse inserts a new catalog course
func (s *Storage) CreateCourse(ctx context.Context, course *domain.Course) error {
	query := `
		INSERT INTO courses (course_id, code, name, description, credits, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`

	_, err := s.db.ExecContext(ctx, query,
		course.ID, course.Code, course.Name, course.Description,
		course.Credits, course.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}
	return nil
}

// GetCourseByID returns a course or domain.ErrNotFound
func (s *Storage) GetCourseByID(ctx context.Context, courseID string) (*domain.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE course_id = $1`

	var course domain.Course
	err := s.db.GetContext(ctx, &course, query, courseID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return &course, nil
}

// CourseFilter narrows ListCourses results
type CourseFilter struct {
	Search string
	Page   Page
}

// ListCourses returns active courses matching the filter plus a total count
func (s *Storage) ListCourses(ctx context.Context, filter CourseFilter) ([]domain.Course, int, error) {
	where := " WHERE is_active = TRUE"
	args := []interface{}{}
	argIdx := 1

	if filter.Search != "" {
		where += fmt.Sprintf(" AND (name ILIKE $%d OR code ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}

	var total int
	if err := s.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM courses"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count courses: %w", err)
	}

	query := `SELECT ` + courseColumns + ` FROM courses` + where +
		fmt.Sprintf(" ORDER BY name LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, filter.Page.Size, filter.Page.Offset())

	var courses []domain.Course
	if err := s.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list courses: %w", err)
	}

	return courses, total, nil
}

// UpdateCourse updates mutable course fields
func (s *Storage) UpdateCourse(ctx context.Context, course *domain.Course) error {
	query := `
		UPDATE courses
		SET name = $1, description = $2, credits = $3, is_active = $4, updated_at = NOW()
		WHERE course_id = $5
	`

	res, err := s.db.ExecContext(ctx, query,
		course.Name, course.Description, course.Credits, course.IsActive, course.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeactivateCourse soft-deletes a course
func (s *Storage) DeactivateCourse(ctx context.Context, courseID string) error {
	query := `UPDATE courses SET is_active = FALSE, updated_at = NOW() WHERE course_id = $1`

	res, err := s.db.ExecContext(ctx, query, courseID)
	if err != nil {
		return fmt.Errorf("failed to deactivate course: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CreateCohort inserts a new cohort
func (s *Storage) CreateCohort(ctx context.Context, cohort *domain.Cohort) error {
	query := `
		INSERT INTO cohorts (cohort_id, name, intake, trimester, year, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`

	_, err := s.db.ExecContext(ctx, query,
		cohort.ID, cohort.Name, cohort.Intake, cohort.Trimester, cohort.Year,
	)
	if err != nil {
		return fmt.Errorf("failed to create cohort: %w", err)
	}
	return nil
}

// GetCohortByID returns a cohort or domain.ErrNotFound
func (s *Storage) GetCohortByID(ctx context.Context, cohortID string) (*domain.Cohort, error) {
	query := `SELECT cohort_id, name, intake, trimester, year, created_at, updated_at FROM cohorts WHERE cohort_id = $1`

	var cohort domain.Cohort
	err := s.db.GetContext(ctx, &cohort, query, cohortID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cohort: %w", err)
	}
	return &cohort, nil
}

// ListCohorts returns all cohorts, newest intake first
func (s *Storage) ListCohorts(ctx context.Context) ([]domain.Cohort, error) {
	query := `SELECT cohort_id, name, intake, trimester, year, created_at, updated_at FROM cohorts ORDER BY year DESC, name`

	var cohorts []domain.Cohort
	if err := s.db.SelectContext(ctx, &cohorts, query); err != nil {
		return nil, fmt.Errorf("failed to list cohorts: %w", err)
	}
	return cohorts, nil
}

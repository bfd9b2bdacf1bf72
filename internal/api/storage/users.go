package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/edulane/course-be/internal/domain"
	"github.com/lib/pq"
)

const userColumns = `
	user_id, email, password_hash, first_name, last_name, role,
	COALESCE(phone_number, '') AS phone_number,
	COALESCE(department, '') AS department,
	is_active, created_at, updated_at
`

// CreateUser inserts a new user. A duplicate email maps to
// domain.ErrEmailExists.
func (s *Storage) CreateUser(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (
			user_id, email, password_hash, first_name, last_name, role,
			phone_number, department, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`

	_, err := s.db.ExecContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName,
		user.Role, user.PhoneNumber, user.Department, user.IsActive,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return domain.ErrEmailExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByID returns a user or domain.ErrNotFound
func (s *Storage) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`

	var user domain.User
	err := s.db.GetContext(ctx, &user, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetUserByEmail returns a user or domain.ErrNotFound
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	var user domain.User
	err := s.db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

// UserFilter narrows ListUsers results
type UserFilter struct {
	Role   string
	Search string
	Page   Page
}

// ListUsers returns active users matching the filter plus a total count
func (s *Storage) ListUsers(ctx context.Context, filter UserFilter) ([]domain.User, int, error) {
	where := " WHERE is_active = TRUE"
	args := []interface{}{}
	argIdx := 1

	if filter.Role != "" {
		where += fmt.Sprintf(" AND role = $%d", argIdx)
		args = append(args, filter.Role)
		argIdx++
	}
	if filter.Search != "" {
		where += fmt.Sprintf(" AND (first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)", argIdx, argIdx, argIdx)
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}

	var total int
	if err := s.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM users"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	query := `SELECT ` + userColumns + ` FROM users` + where +
		fmt.Sprintf(" ORDER BY last_name, first_name LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, filter.Page.Size, filter.Page.Offset())

	var users []domain.User
	if err := s.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	return users, total, nil
}

// UpdateUser updates mutable profile fields
func (s *Storage) UpdateUser(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET first_name = $1, last_name = $2, phone_number = $3,
		    department = $4, is_active = $5, updated_at = NOW()
		WHERE user_id = $6
	`

	res, err := s.db.ExecContext(ctx, query,
		user.FirstName, user.LastName, user.PhoneNumber,
		user.Department, user.IsActive, user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeactivateUser soft-deletes a user
func (s *Storage) DeactivateUser(ctx context.Context, userID string) error {
	query := `UPDATE users SET is_active = FALSE, updated_at = NOW() WHERE user_id = $1`

	res, err := s.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

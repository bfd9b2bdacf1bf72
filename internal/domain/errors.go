package domain

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist
	ErrNotFound = errors.New("entity not found")

	// ErrEmailExists is returned when registering with an email already in use
	ErrEmailExists = errors.New("email already exists")

	// ErrDuplicateActivity is returned when a tracker for the same
	// (offering, facilitator, week) already exists
	ErrDuplicateActivity = errors.New("activity tracker already exists for this week")

	// ErrInvalidCredentials is returned on a failed login
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidRole is returned when a role value is not one of the known roles
	ErrInvalidRole = errors.New("invalid role")
)

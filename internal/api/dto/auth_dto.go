package dto

// RegisterRequest is the payload for POST /api/v1/auth/register
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	Role        string `json:"role" binding:"required,oneof=manager facilitator student"`
	PhoneNumber string `json:"phone_number"`
	Department  string `json:"department"`
}

// LoginRequest is the payload for POST /api/v1/auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserDTO is the public shape of a user
type UserDTO struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Role        string `json:"role"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Department  string `json:"department,omitempty"`
	IsActive    bool   `json:"is_active"`
}

// AuthResponse carries the user and their access token
type AuthResponse struct {
	User  UserDTO `json:"user"`
	Token string  `json:"token"`
}

// UpdateUserRequest is the payload for PUT /api/v1/users/:user_id
type UpdateUserRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Department  string `json:"department"`
	IsActive    *bool  `json:"is_active"`
}

// ListUsersRequest is the query for GET /api/v1/users
type ListUsersRequest struct {
	ListQuery
	Role   string `form:"role" binding:"omitempty,oneof=manager facilitator student"`
	Search string `form:"search"`
}

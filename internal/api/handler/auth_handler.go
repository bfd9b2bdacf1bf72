package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/edulane/course-be/internal/api/dto"
	"github.com/edulane/course-be/internal/auth"
	"github.com/edulane/course-be/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func userDTO(user *domain.User) dto.UserDTO {
	return dto.UserDTO{
		ID:          user.ID,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Role:        user.Role,
		PhoneNumber: user.PhoneNumber,
		Department:  user.Department,
		IsActive:    user.IsActive,
	}
}

// Register handles POST /api/v1/auth/register
func (h *Handler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.fail(c, err, "Failed to register user")
		return
	}

	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         req.Role,
		PhoneNumber:  req.PhoneNumber,
		Department:   req.Department,
		IsActive:     true,
	}

	if err := h.storage.CreateUser(c.Request.Context(), user); err != nil {
		h.fail(c, err, "Failed to register user")
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		h.fail(c, err, "Failed to issue token")
		return
	}

	h.logger.Info("User registered",
		slog.String("user_id", user.ID),
		slog.String("role", user.Role),
	)

	c.JSON(http.StatusCreated, dto.AuthResponse{User: userDTO(user), Token: token})
}

// Login handles POST /api/v1/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.storage.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.fail(c, domain.ErrInvalidCredentials, "")
			return
		}
		h.fail(c, err, "Failed to log in")
		return
	}

	if !user.IsActive || !auth.CheckPassword(user.PasswordHash, req.Password) {
		h.fail(c, domain.ErrInvalidCredentials, "")
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		h.fail(c, err, "Failed to issue token")
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{User: userDTO(user), Token: token})
}

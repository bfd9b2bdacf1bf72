package handler

import (
	"net/http"

	"github.com/edulane/course-be/internal/api/dto"
	"github.com/edulane/course-be/internal/api/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ListUsers handles GET /api/v1/users (managers only)
func (h *Handler) ListUsers(c *gin.Context) {
	var req dto.ListUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}
	req.Normalize()

	users, total, err := h.storage.ListUsers(c.Request.Context(), storage.UserFilter{
		Role:   req.Role,
		Search: req.Search,
		Page:   storage.Page{Number: req.Page, Size: req.PageSize},
	})
	if err != nil {
		h.fail(c, err, "Failed to list users")
		return
	}

	out := make([]dto.UserDTO, len(users))
	for i := range users {
		out[i] = userDTO(&users[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"users":      out,
		"pagination": dto.NewPagination(req.Page, req.PageSize, total),
	})
}

// GetUser handles GET /api/v1/users/:user_id
func (h *Handler) GetUser(c *gin.Context) {
	userID := c.Param("user_id")
	if _, err := uuid.Parse(userID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id must be a valid UUID"})
		return
	}

	user, err := h.storage.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err, "Failed to get user")
		return
	}

	c.JSON(http.StatusOK, userDTO(user))
}

// UpdateUser handles PUT /api/v1/users/:user_id (managers only)
func (h *Handler) UpdateUser(c *gin.Context) {
	userID := c.Param("user_id")
	if _, err := uuid.Parse(userID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id must be a valid UUID"})
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.storage.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err, "Failed to get user")
		return
	}

	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.PhoneNumber != "" {
		user.PhoneNumber = req.PhoneNumber
	}
	if req.Department != "" {
		user.Department = req.Department
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := h.storage.UpdateUser(c.Request.Context(), user); err != nil {
		h.fail(c, err, "Failed to update user")
		return
	}

	c.JSON(http.StatusOK, userDTO(user))
}

// DeleteUser handles DELETE /api/v1/users/:user_id (managers only).
// Users are deactivated, not removed.
func (h *Handler) DeleteUser(c *gin.Context) {
	userID := c.Param("user_id")
	if _, err := uuid.Parse(userID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id must be a valid UUID"})
		return
	}

	if err := h.storage.DeactivateUser(c.Request.Context(), userID); err != nil {
		h.fail(c, err, "Failed to deactivate user")
		return
	}

	c.Status(http.StatusNoContent)
}

package handler

import (
	"net/http"

	"github.com/edulane/course-be/internal/api/dto"
	"github.com/edulane/course-be/internal/api/storage"
	"github.com/edulane/course-be/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ListCourses handles GET /api/v1/courses
func (h *Handler) ListCourses(c *gin.Context) {
	var req dto.ListCoursesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}
	req.Normalize()

	courses, total, err := h.storage.ListCourses(c.Request.Context(), storage.CourseFilter{
		Search: req.Search,
		Page:   storage.Page{Number: req.Page, Size: req.PageSize},
	})
	if err != nil {
		h.fail(c, err, "Failed to list courses")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"courses":    courses,
		"pagination": dto.NewPagination(req.Page, req.PageSize, total),
	})
}

// GetCourse handles GET /api/v1/courses/:course_id
func (h *Handler) GetCourse(c *gin.Context) {
	courseID := c.Param("course_id")
	if _, err := uuid.Parse(courseID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "course_id must be a valid UUID"})
		return
	}

	course, err := h.storage.GetCourseByID(c.Request.Context(), courseID)
	if err != nil {
		h.fail(c, err, "Failed to get course")
		return
	}

	c.JSON(http.StatusOK, course)
}

// CreateCourse handles POST /api/v1/courses (managers only)
func (h *Handler) CreateCourse(c *gin.Context) {
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	course := &domain.Course{
		ID:          uuid.New().String(),
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		Credits:     req.Credits,
		IsActive:    true,
	}

	if err := h.storage.CreateCourse(c.Request.Context(), course); err != nil {
		h.fail(c, err, "Failed to create course")
		return
	}

	c.JSON(http.StatusCreated, course)
}

// UpdateCourse handles PUT /api/v1/courses/:course_id (managers only)
func (h *Handler) UpdateCourse(c *gin.Context) {
	courseID := c.Param("course_id")
	if _, err := uuid.Parse(courseID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "course_id must be a valid UUID"})
		return
	}

	var req dto.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	course, err := h.storage.GetCourseByID(c.Request.Context(), courseID)
	if err != nil {
		h.fail(c, err, "Failed to get course")
		return
	}

	if req.Name != "" {
		course.Name = req.Name
	}
	if req.Description != "" {
		course.Description = req.Description
	}
	if req.Credits > 0 {
		course.Credits = req.Credits
	}
	if req.IsActive != nil {
		course.IsActive = *req.IsActive
	}

	if err := h.storage.UpdateCourse(c.Request.Context(), course); err != nil {
		h.fail(c, err, "Failed to update course")
		return
	}

	c.JSON(http.StatusOK, course)
}

// DeleteCourse handles DELETE /api/v1/courses/:course_id (managers only)
func (h *Handler) DeleteCourse(c *gin.Context) {
	courseID := c.Param("course_id")
	if _, err := uuid.Parse(courseID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "course_id must be a valid UUID"})
		return
	}

	if err := h.storage.DeactivateCourse(c.Request.Context(), courseID); err != nil {
		h.fail(c, err, "Failed to deactivate course")
		return
	}

	c.Status(http.StatusNoContent)
}

// ListCohorts handles GET /api/v1/cohorts
func (h *Handler) ListCohorts(c *gin.Context) {
	cohorts, err := h.storage.ListCohorts(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to list cohorts")
		return
	}

	c.JSON(http.StatusOK, gin.H{"cohorts": cohorts})
}

// CreateCohort handles POST /api/v1/cohorts (managers only)
func (h *Handler) CreateCohort(c *gin.Context) {
	var req dto.CreateCohortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	cohort := &domain.Cohort{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Intake:    req.Intake,
		Trimester: req.Trimester,
		Year:      req.Year,
	}

	if err := h.storage.CreateCohort(c.Request.Context(), cohort); err != nil {
		h.fail(c, err, "Failed to create cohort")
		return
	}

	c.JSON(http.StatusCreated, cohort)
}

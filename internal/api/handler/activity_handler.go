package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/edulane/course-be/internal/api/dto"
	"github.com/edulane/course-be/internal/api/storage"
	"github.com/edulane/course-be/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ListActivities handles GET /api/v1/activities
func (h *Handler) ListActivities(c *gin.Context) {
	var req dto.ListActivitiesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}
	req.Normalize()

	filter := storage.ActivityFilter{
		FacilitatorID: req.FacilitatorID,
		OfferingID:    req.OfferingID,
		Status:        req.Status,
		Page:          storage.Page{Number: req.Page, Size: req.PageSize},
	}

	// Facilitators only see their own trackers
	if c.GetString("role") == domain.RoleFacilitator {
		filter.FacilitatorID = c.GetString("user_id")
	}

	activities, total, err := h.storage.ListActivities(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err, "Failed to list activity trackers")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"activities": activities,
		"pagination": dto.NewPagination(req.Page, req.PageSize, total),
	})
}

// GetActivity handles GET /api/v1/activities/:activity_id
func (h *Handler) GetActivity(c *gin.Context) {
	activityID := c.Param("activity_id")
	if _, err := uuid.Parse(activityID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "activity_id must be a valid UUID"})
		return
	}

	activity, err := h.storage.GetActivityByID(c.Request.Context(), activityID)
	if err != nil {
		h.fail(c, err, "Failed to get activity tracker")
		return
	}

	if c.GetString("role") == domain.RoleFacilitator && activity.FacilitatorID != c.GetString("user_id") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	c.JSON(http.StatusOK, activity)
}

// CreateActivity handles POST /api/v1/activities. Creating a tracker
// schedules the deadline reminder and the late submission alert for
// its due date.
func (h *Handler) CreateActivity(c *gin.Context) {
	var req dto.CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	dueDate, err := time.Parse(time.RFC3339, req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "due_date must be an RFC 3339 timestamp"})
		return
	}

	offering, err := h.storage.GetOfferingByID(c.Request.Context(), req.OfferingID)
	if err != nil {
		h.fail(c, err, "Failed to get course offering")
		return
	}

	facilitatorID := offering.FacilitatorID
	if c.GetString("role") == domain.RoleFacilitator {
		if offering.FacilitatorID != c.GetString("user_id") {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		facilitatorID = c.GetString("user_id")
	}

	activity := &domain.ActivityTracker{
		ID:            uuid.New().String(),
		OfferingID:    req.OfferingID,
		FacilitatorID: facilitatorID,
		WeekNumber:    req.WeekNumber,
		Activities:    req.Activities,
		Status:        domain.ActivityStatusPending,
		Notes:         req.Notes,
		DueDate:       dueDate,
	}

	if err := h.storage.CreateActivity(c.Request.Context(), activity); err != nil {
		h.fail(c, err, "Failed to create activity tracker")
		return
	}

	h.scheduleReminders(c, activity)

	c.JSON(http.StatusCreated, activity)
}

// UpdateActivity handles PUT /api/v1/activities/:activity_id
func (h *Handler) UpdateActivity(c *gin.Context) {
	activityID := c.Param("activity_id")
	if _, err := uuid.Parse(activityID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "activity_id must be a valid UUID"})
		return
	}

	var req dto.UpdateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	activity, err := h.storage.GetActivityByID(c.Request.Context(), activityID)
	if err != nil {
		h.fail(c, err, "Failed to get activity tracker")
		return
	}

	if c.GetString("role") == domain.RoleFacilitator && activity.FacilitatorID != c.GetString("user_id") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	if req.Activities != "" {
		activity.Activities = req.Activities
	}
	if req.Notes != "" {
		activity.Notes = req.Notes
	}

	if err := h.storage.UpdateActivity(c.Request.Context(), activity); err != nil {
		h.fail(c, err, "Failed to update activity tracker")
		return
	}

	c.JSON(http.StatusOK, activity)
}

// SubmitActivity handles POST /api/v1/activities/:activity_id/submit.
// Submission is what the deadline and late-alert workers re-check
// before sending anything.
func (h *Handler) SubmitActivity(c *gin.Context) {
	activityID := c.Param("activity_id")
	if _, err := uuid.Parse(activityID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "activity_id must be a valid UUID"})
		return
	}

	activity, err := h.storage.GetActivityByID(c.Request.Context(), activityID)
	if err != nil {
		h.fail(c, err, "Failed to get activity tracker")
		return
	}

	if c.GetString("role") == domain.RoleFacilitator && activity.FacilitatorID != c.GetString("user_id") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	if activity.Status == domain.ActivityStatusSubmitted {
		c.JSON(http.StatusConflict, gin.H{"error": "Activity tracker already submitted"})
		return
	}

	submittedAt := time.Now()
	if err := h.storage.SubmitActivity(c.Request.Context(), activityID, submittedAt); err != nil {
		h.fail(c, err, "Failed to submit activity tracker")
		return
	}

	activity.Status = domain.ActivityStatusSubmitted
	activity.SubmittedAt = &submittedAt

	c.JSON(http.StatusOK, activity)
}

// DeleteActivity handles DELETE /api/v1/activities/:activity_id
// (managers only)
func (h *Handler) DeleteActivity(c *gin.Context) {
	activityID := c.Param("activity_id")
	if _, err := uuid.Parse(activityID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "activity_id must be a valid UUID"})
		return
	}

	if err := h.storage.DeleteActivity(c.Request.Context(), activityID); err != nil {
		h.fail(c, err, "Failed to delete activity tracker")
		return
	}

	c.Status(http.StatusNoContent)
}

// scheduleReminders enqueues the deadline reminder and late alert for
// a new tracker. Queue failures are logged; the tracker row already
// committed.
func (h *Handler) scheduleReminders(c *gin.Context, activity *domain.ActivityTracker) {
	ctx := c.Request.Context()
	if err := h.scheduler.ScheduleDeadlineReminder(ctx, activity, nil); err != nil {
		h.logger.Error("Failed to enqueue deadline reminder",
			slog.String("activity_id", activity.ID),
			slog.String("error", err.Error()),
		)
	}
	if err := h.scheduler.ScheduleLateSubmissionAlert(ctx, activity); err != nil {
		h.logger.Error("Failed to enqueue late submission alert",
			slog.String("activity_id", activity.ID),
			slog.String("error", err.Error()),
		)
	}
}

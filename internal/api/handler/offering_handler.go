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

const dateLayout = "2006-01-02"

// ListOfferings handles GET /api/v1/offerings
func (h *Handler) ListOfferings(c *gin.Context) {
	var req dto.ListOfferingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}
	req.Normalize()

	filter := storage.OfferingFilter{
		FacilitatorID: req.FacilitatorID,
		Trimester:     req.Trimester,
		Status:        req.Status,
		Page:          storage.Page{Number: req.Page, Size: req.PageSize},
	}

	// Facilitators only see their own offerings
	if c.GetString("role") == domain.RoleFacilitator {
		filter.FacilitatorID = c.GetString("user_id")
	}

	offerings, total, err := h.storage.ListOfferings(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err, "Failed to list course offerings")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"offerings":  offerings,
		"pagination": dto.NewPagination(req.Page, req.PageSize, total),
	})
}

// GetOffering handles GET /api/v1/offerings/:offering_id
func (h *Handler) GetOffering(c *gin.Context) {
	offeringID := c.Param("offering_id")
	if _, err := uuid.Parse(offeringID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "offering_id must be a valid UUID"})
		return
	}

	offering, err := h.storage.GetOfferingByID(c.Request.Context(), offeringID)
	if err != nil {
		h.fail(c, err, "Failed to get course offering")
		return
	}

	c.JSON(http.StatusOK, offering)
}

// CreateOffering handles POST /api/v1/offerings (managers only). The
// assigned facilitator is notified through the job queue.
func (h *Handler) CreateOffering(c *gin.Context) {
	var req dto.CreateOfferingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must be YYYY-MM-DD"})
		return
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must be YYYY-MM-DD"})
		return
	}
	if !endDate.After(startDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must be after start_date"})
		return
	}

	if req.MaxStudents == 0 {
		req.MaxStudents = 30
	}

	offering := &domain.CourseOffering{
		ID:            uuid.New().String(),
		CourseID:      req.CourseID,
		CohortID:      req.CohortID,
		FacilitatorID: req.FacilitatorID,
		StartDate:     startDate,
		EndDate:       endDate,
		Status:        domain.OfferingStatusScheduled,
		MaxStudents:   req.MaxStudents,
	}

	if err := h.storage.CreateOffering(c.Request.Context(), offering); err != nil {
		h.fail(c, err, "Failed to create course offering")
		return
	}

	h.notifyAssignment(c, offering)

	c.JSON(http.StatusCreated, offering)
}

// UpdateOffering handles PUT /api/v1/offerings/:offering_id (managers
// only). Reassigning the facilitator enqueues a fresh assignment
// notification.
func (h *Handler) UpdateOffering(c *gin.Context) {
	offeringID := c.Param("offering_id")
	if _, err := uuid.Parse(offeringID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "offering_id must be a valid UUID"})
		return
	}

	var req dto.UpdateOfferingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	offering, err := h.storage.GetOfferingByID(c.Request.Context(), offeringID)
	if err != nil {
		h.fail(c, err, "Failed to get course offering")
		return
	}

	reassigned := req.FacilitatorID != "" && req.FacilitatorID != offering.FacilitatorID
	if req.FacilitatorID != "" {
		offering.FacilitatorID = req.FacilitatorID
	}
	if req.StartDate != "" {
		startDate, err := time.Parse(dateLayout, req.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must be YYYY-MM-DD"})
			return
		}
		offering.StartDate = startDate
	}
	if req.EndDate != "" {
		endDate, err := time.Parse(dateLayout, req.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must be YYYY-MM-DD"})
			return
		}
		offering.EndDate = endDate
	}
	if req.Status != "" {
		offering.Status = req.Status
	}
	if req.MaxStudents > 0 {
		offering.MaxStudents = req.MaxStudents
	}

	if err := h.storage.UpdateOffering(c.Request.Context(), offering); err != nil {
		h.fail(c, err, "Failed to update course offering")
		return
	}

	if reassigned {
		h.notifyAssignment(c, offering)
	}

	c.JSON(http.StatusOK, offering)
}

// DeleteOffering handles DELETE /api/v1/offerings/:offering_id
// (managers only)
func (h *Handler) DeleteOffering(c *gin.Context) {
	offeringID := c.Param("offering_id")
	if _, err := uuid.Parse(offeringID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "offering_id must be a valid UUID"})
		return
	}

	if err := h.storage.DeleteOffering(c.Request.Context(), offeringID); err != nil {
		h.fail(c, err, "Failed to delete course offering")
		return
	}

	c.Status(http.StatusNoContent)
}

// notifyAssignment enqueues the facilitator assignment notification.
// Queue failures are logged, not surfaced; the offering write already
// committed.
func (h *Handler) notifyAssignment(c *gin.Context, offering *domain.CourseOffering) {
	if err := h.scheduler.SendCourseAssignmentNotification(c.Request.Context(), offering); err != nil {
		h.logger.Error("Failed to enqueue course assignment notification",
			slog.String("offering_id", offering.ID),
			slog.String("facilitator_id", offering.FacilitatorID),
			slog.String("error", err.Error()),
		)
	}
}

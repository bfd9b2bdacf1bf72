package dto

// CreateCourseRequest is the payload for POST /api/v1/courses
type CreateCourseRequest struct {
	Code        string `json:"code" binding:"required"`
	Name        string `json:"name" binding:"required,min=3,max=255"`
	Description string `json:"description"`
	Credits     int    `json:"credits" binding:"required,min=1"`
}

// UpdateCourseRequest is the payload for PUT /api/v1/courses/:course_id
type UpdateCourseRequest struct {
	Name        string `json:"name" binding:"omitempty,min=3,max=255"`
	Description string `json:"description"`
	Credits     int    `json:"credits" binding:"omitempty,min=1"`
	IsActive    *bool  `json:"is_active"`
}

// ListCoursesRequest is the query for GET /api/v1/courses
type ListCoursesRequest struct {
	ListQuery
	Search string `form:"search"`
}

// CreateCohortRequest is the payload for POST /api/v1/cohorts
type CreateCohortRequest struct {
	Name      string `json:"name" binding:"required"`
	Intake    string `json:"intake" binding:"required"`
	Trimester string `json:"trimester" binding:"required,oneof=Fall Spring Summer"`
	Year      int    `json:"year" binding:"required,min=2000"`
}

// CreateOfferingRequest is the payload for POST /api/v1/offerings
type CreateOfferingRequest struct {
	CourseID      string `json:"course_id" binding:"required,uuid"`
	CohortID      string `json:"cohort_id" binding:"required,uuid"`
	FacilitatorID string `json:"facilitator_id" binding:"required,uuid"`
	StartDate     string `json:"start_date" binding:"required"`
	EndDate       string `json:"end_date" binding:"required"`
	MaxStudents   int    `json:"max_students" binding:"omitempty,min=1"`
}

// UpdateOfferingRequest is the payload for PUT /api/v1/offerings/:offering_id
type UpdateOfferingRequest struct {
	FacilitatorID string `json:"facilitator_id" binding:"omitempty,uuid"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	Status        string `json:"status" binding:"omitempty,oneof=scheduled active completed cancelled"`
	MaxStudents   int    `json:"max_students" binding:"omitempty,min=1"`
}

// ListOfferingsRequest is the query for GET /api/v1/offerings
type ListOfferingsRequest struct {
	ListQuery
	FacilitatorID string `form:"facilitator_id"`
	Trimester     string `form:"trimester" binding:"omitempty,oneof=Fall Spring Summer"`
	Status        string `form:"status" binding:"omitempty,oneof=scheduled active completed cancelled"`
}

package dto

// CreateActivityRequest is the payload for POST /api/v1/activities
type CreateActivityRequest struct {
	OfferingID string `json:"offering_id" binding:"required,uuid"`
	WeekNumber int    `json:"week_number" binding:"required,min=1,max=52"`
	Activities string `json:"activities"`
	Notes      string `json:"notes"`
	DueDate    string `json:"due_date" binding:"required"`
}

// UpdateActivityRequest is the payload for PUT /api/v1/activities/:activity_id
type UpdateActivityRequest struct {
	Activities string `json:"activities"`
	Notes      string `json:"notes"`
}

// ListActivitiesRequest is the query for GET /api/v1/activities
type ListActivitiesRequest struct {
	ListQuery
	FacilitatorID string `form:"facilitator_id"`
	OfferingID    string `form:"offering_id"`
	Status        string `form:"status" binding:"omitempty,oneof=pending submitted late missed"`
}

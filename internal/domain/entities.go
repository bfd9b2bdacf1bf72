package domain

import "time"

// User roles
const (
	RoleManager     = "manager"
	RoleFacilitator = "facilitator"
	RoleStudent     = "student"
)

// Activity tracker statuses
const (
	ActivityStatusPending   = "pending"
	ActivityStatusSubmitted = "submitted"
	ActivityStatusLate      = "late"
	ActivityStatusMissed    = "missed"
)

// Course offering statuses
const (
	OfferingStatusScheduled = "scheduled"
	OfferingStatusActive    = "active"
	OfferingStatusCompleted = "completed"
	OfferingStatusCancelled = "cancelled"
)

// User is an account in the system. PasswordHash never leaves the
// storage and auth layers.
type User struct {
	ID           string    `db:"user_id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	Role         string    `db:"role"`
	PhoneNumber  string    `db:"phone_number"`
	Department   string    `db:"department"`
	IsActive     bool      `db:"is_active"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// Course is a catalog entry offered to cohorts
type Course struct {
	ID          string    `db:"course_id"`
	Code        string    `db:"code"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Credits     int       `db:"credits"`
	IsActive    bool      `db:"is_active"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Cohort groups students by intake and trimester
type Cohort struct {
	ID        string    `db:"cohort_id"`
	Name      string    `db:"name"`
	Intake    string    `db:"intake"`
	Trimester string    `db:"trimester"`
	Year      int       `db:"year"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// CourseOffering is a course delivered to a cohort by a facilitator.
// Course and Cohort are populated only when a lookup requests them.
type CourseOffering struct {
	ID            string    `db:"offering_id"`
	CourseID      string    `db:"course_id"`
	CohortID      string    `db:"cohort_id"`
	FacilitatorID string    `db:"facilitator_id"`
	StartDate     time.Time `db:"start_date"`
	EndDate       time.Time `db:"end_date"`
	Status        string    `db:"status"`
	MaxStudents   int       `db:"max_students"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`

	Course *Course `db:"-"`
	Cohort *Cohort `db:"-"`
}

// ActivityTracker is a facilitator's weekly activity log for one
// course offering. Unique per (offering, facilitator, week).
type ActivityTracker struct {
	ID            string     `db:"activity_id"`
	OfferingID    string     `db:"offering_id"`
	FacilitatorID string     `db:"facilitator_id"`
	WeekNumber    int        `db:"week_number"`
	Activities    string     `db:"activities"` // JSON array of conducted activities
	Status        string     `db:"status"`
	Notes         string     `db:"notes"`
	DueDate       time.Time  `db:"due_date"`
	SubmittedAt   *time.Time `db:"submitted_at"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

// FullName returns the user's display name for email templates
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

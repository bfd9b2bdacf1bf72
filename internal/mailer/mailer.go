package mailer

import (
	"context"
	"time"

	"github.com/edulane/course-be/internal/domain"
)

// DeadlineReminderData is the resolved template data for a deadline
// reminder, fetched by the worker at send time
type DeadlineReminderData struct {
	CourseName string
	WeekNumber int
	DueDate    time.Time
}

// LateSubmissionData is the resolved template data for a late
// submission alert
type LateSubmissionData struct {
	CourseName string
	WeekNumber int
	DueDate    time.Time
}

// CourseAssignmentData is the resolved template data for an
// assignment notification
type CourseAssignmentData struct {
	CourseName string
	CohortName string
	StartDate  time.Time
}

// Mailer formats and transmits notification emails. Implementations
// return an error on transport failure; the worker decides whether
// that fails the job.
type Mailer interface {
	SendDeadlineReminder(ctx context.Context, facilitator *domain.User, data DeadlineReminderData) error
	SendLateSubmissionAlert(ctx context.Context, managers []domain.User, facilitator *domain.User, data LateSubmissionData) error
	SendCourseAssignment(ctx context.Context, facilitator *domain.User, data CourseAssignmentData) error
	SendWeeklyReminder(ctx context.Context, facilitator *domain.User) error
}

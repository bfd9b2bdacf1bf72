package notify

import (
	"encoding/json"
	"fmt"
	"time"
)

// Kind identifies a notification job type
type Kind string

const (
	KindDeadlineReminder       Kind = "deadline_reminder"
	KindLateSubmissionAlert    Kind = "late_submission_alert"
	KindCourseAssignment       Kind = "course_assignment_notification"
	KindWeeklyActivityReminder Kind = "weekly_activity_reminder"
)

// Job lifecycle statuses. PENDING rows with a future run_at are the
// delayed set; QUEUED rows have been released to RabbitMQ and are
// waiting for a worker; RUNNING rows are claimed.
const (
	JobStatusPending   = "PENDING"
	JobStatusQueued    = "QUEUED"
	JobStatusRunning   = "RUNNING"
	JobStatusCompleted = "COMPLETED"
	JobStatusFailed    = "FAILED"
)

// Job is one row of the notification job store
type Job struct {
	ID               string          `db:"job_id"`
	Kind             Kind            `db:"kind"`
	Payload          json.RawMessage `db:"payload"`
	Status           string          `db:"status"`
	RunAt            time.Time       `db:"run_at"`
	CronSpec         string          `db:"cron_spec"` // empty for one-shot jobs
	AttemptsMade     int             `db:"attempts_made"`
	MaxAttempts      int             `db:"max_attempts"`
	BackoffInitialMS int64           `db:"backoff_initial_ms"`
	WorkerID         string          `db:"worker_id"`
	LastError        string          `db:"last_error"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"`
}

// Recurring reports whether the job is recycled on completion
func (j *Job) Recurring() bool {
	return j.CronSpec != ""
}

// BackoffBase returns the initial retry delay
func (j *Job) BackoffBase() time.Duration {
	return time.Duration(j.BackoffInitialMS) * time.Millisecond
}

// Payload is the typed content of a notification job. Exactly one
// implementation exists per Kind.
type Payload interface {
	Kind() Kind
}

// DeadlineReminderPayload identifies the weekly log a facilitator
// should be reminded about. Display fields (course name, facilitator
// email) are deliberately absent: the worker resolves them at send
// time.
type DeadlineReminderPayload struct {
	FacilitatorID string    `json:"facilitator_id"`
	OfferingID    string    `json:"course_offering_id"`
	WeekNumber    int       `json:"week_number"`
	DueDate       time.Time `json:"due_date"`
}

func (DeadlineReminderPayload) Kind() Kind { return KindDeadlineReminder }

// LateSubmissionAlertPayload identifies the overdue weekly log the
// managers should be alerted about
type LateSubmissionAlertPayload struct {
	FacilitatorID string    `json:"facilitator_id"`
	OfferingID    string    `json:"course_offering_id"`
	WeekNumber    int       `json:"week_number"`
	DueDate       time.Time `json:"due_date"`
}

func (LateSubmissionAlertPayload) Kind() Kind { return KindLateSubmissionAlert }

// CourseAssignmentPayload identifies a new facilitator assignment
type CourseAssignmentPayload struct {
	FacilitatorID string    `json:"facilitator_id"`
	OfferingID    string    `json:"course_offering_id"`
	StartDate     time.Time `json:"start_date"`
}

func (CourseAssignmentPayload) Kind() Kind { return KindCourseAssignment }

// WeeklyReminderPayload carries no data; the worker fans out to all
// active facilitators at processing time
type WeeklyReminderPayload struct{}

func (WeeklyReminderPayload) Kind() Kind { return KindWeeklyActivityReminder }

// DecodePayload unmarshals raw payload bytes into the typed payload
// for the given kind. An unrecognized kind yields ErrUnknownKind so
// callers can skip instead of failing.
func DecodePayload(kind Kind, raw []byte) (Payload, error) {
	var (
		p   Payload
		err error
	)

	switch kind {
	case KindDeadlineReminder:
		var v DeadlineReminderPayload
		err = json.Unmarshal(raw, &v)
		p = v
	case KindLateSubmissionAlert:
		var v LateSubmissionAlertPayload
		err = json.Unmarshal(raw, &v)
		p = v
	case KindCourseAssignment:
		var v CourseAssignmentPayload
		err = json.Unmarshal(raw, &v)
		p = v
	case KindWeeklyActivityReminder:
		var v WeeklyReminderPayload
		if len(raw) > 0 {
			err = json.Unmarshal(raw, &v)
		}
		p = v
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return p, nil
}

package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/edulane/course-be/internal/domain"
)

// Default timing for deadline-relative notifications
const (
	DefaultReminderLead = 24 * time.Hour
	DefaultLateGrace    = time.Hour

	// WeeklyReminderCron fires every Friday at 10:00 in the store's
	// reference timezone
	WeeklyReminderCron = "0 10 * * 5"
)

// Enqueuer is the producer-side contract of the job store
type Enqueuer interface {
	Enqueue(ctx context.Context, payload Payload, opts EnqueueOptions) (*Job, error)
}

// SchedulerConfig overrides the default notification timing
type SchedulerConfig struct {
	ReminderLead time.Duration
	LateGrace    time.Duration
	WeeklyCron   string
}

// Scheduler translates domain events into queue directives. It never
// sends mail itself; it only decides when a job becomes due.
type Scheduler struct {
	queue        Enqueuer
	logger       *slog.Logger
	reminderLead time.Duration
	lateGrace    time.Duration
	weeklyCron   string
	now          func() time.Time
}

// NewScheduler creates a scheduler over the given job store
func NewScheduler(queue Enqueuer, logger *slog.Logger, cfg SchedulerConfig) *Scheduler {
	if cfg.ReminderLead <= 0 {
		cfg.ReminderLead = DefaultReminderLead
	}
	if cfg.LateGrace <= 0 {
		cfg.LateGrace = DefaultLateGrace
	}
	if cfg.WeeklyCron == "" {
		cfg.WeeklyCron = WeeklyReminderCron
	}

	return &Scheduler{
		queue:        queue,
		logger:       logger,
		reminderLead: cfg.ReminderLead,
		lateGrace:    cfg.LateGrace,
		weeklyCron:   cfg.WeeklyCron,
		now:          time.Now,
	}
}

// ScheduleDeadlineReminder enqueues a reminder for the activity's
// facilitator. reminderTime overrides the default lead of
// ReminderLead before the due date. Past-due reminders are a silent
// no-op, not an error.
func (s *Scheduler) ScheduleDeadlineReminder(ctx context.Context, activity *domain.ActivityTracker, reminderTime *time.Time) error {
	var delay time.Duration
	if reminderTime != nil {
		delay = reminderTime.Sub(s.now())
	} else {
		delay = activity.DueDate.Add(-s.reminderLead).Sub(s.now())
	}

	if delay <= 0 {
		s.logger.Debug("Skipping past-due deadline reminder",
			slog.String("activity_id", activity.ID),
			slog.Int("week", activity.WeekNumber),
		)
		return nil
	}

	_, err := s.queue.Enqueue(ctx, DeadlineReminderPayload{
		FacilitatorID: activity.FacilitatorID,
		OfferingID:    activity.OfferingID,
		WeekNumber:    activity.WeekNumber,
		DueDate:       activity.DueDate,
	}, EnqueueOptions{Delay: delay})
	return err
}

// ScheduleLateSubmissionAlert enqueues a manager alert for LateGrace
// after the activity's due date. Same non-positive-delay guard as the
// deadline reminder.
func (s *Scheduler) ScheduleLateSubmissionAlert(ctx context.Context, activity *domain.ActivityTracker) error {
	delay := activity.DueDate.Add(s.lateGrace).Sub(s.now())
	if delay <= 0 {
		s.logger.Debug("Skipping past-due late submission alert",
			slog.String("activity_id", activity.ID),
			slog.Int("week", activity.WeekNumber),
		)
		return nil
	}

	_, err := s.queue.Enqueue(ctx, LateSubmissionAlertPayload{
		FacilitatorID: activity.FacilitatorID,
		OfferingID:    activity.OfferingID,
		WeekNumber:    activity.WeekNumber,
		DueDate:       activity.DueDate,
	}, EnqueueOptions{Delay: delay})
	return err
}

// SendCourseAssignmentNotification enqueues an immediate notification
// that the offering's facilitator was assigned
func (s *Scheduler) SendCourseAssignmentNotification(ctx context.Context, offering *domain.CourseOffering) error {
	_, err := s.queue.Enqueue(ctx, CourseAssignmentPayload{
		FacilitatorID: offering.FacilitatorID,
		OfferingID:    offering.ID,
		StartDate:     offering.StartDate,
	}, EnqueueOptions{})
	return err
}

// ScheduleWeeklyReminders registers the standing weekly reminder
// recurrence. The store deduplicates identical recurring specs, so
// calling this on every startup is safe.
func (s *Scheduler) ScheduleWeeklyReminders(ctx context.Context) error {
	_, err := s.queue.Enqueue(ctx, WeeklyReminderPayload{}, EnqueueOptions{Cron: s.weeklyCron})
	return err
}

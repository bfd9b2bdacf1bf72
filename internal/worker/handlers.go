package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/edulane/course-be/internal/domain"
	"github.com/edulane/course-be/internal/mailer"
	"github.com/edulane/course-be/internal/notify"
)

// handleDeadlineReminder re-checks current submission state before
// reminding: a log submitted after the job was scheduled suppresses
// the send entirely.
func (w *Worker) handleDeadlineReminder(ctx context.Context, p notify.DeadlineReminderPayload) error {
	activity, err := w.store.FindSubmission(ctx, p.FacilitatorID, p.OfferingID, p.WeekNumber)
	if err != nil {
		return err
	}
	if activity != nil && activity.Status == domain.ActivityStatusSubmitted {
		w.logger.Info("Activity already submitted, skipping reminder",
			slog.String("facilitator_id", p.FacilitatorID),
			slog.Int("week", p.WeekNumber),
		)
		return nil
	}

	facilitator, offering, err := w.resolveFacilitatorAndOffering(ctx, p.FacilitatorID, p.OfferingID)
	if err != nil {
		return err
	}

	return w.mailer.SendDeadlineReminder(ctx, facilitator, mailer.DeadlineReminderData{
		CourseName: offering.Course.Name,
		WeekNumber: p.WeekNumber,
		DueDate:    p.DueDate,
	})
}

// handleLateSubmissionAlert marks an unsubmitted log late and alerts
// all active managers. This is the only path where the worker writes
// domain state.
func (w *Worker) handleLateSubmissionAlert(ctx context.Context, p notify.LateSubmissionAlertPayload) error {
	activity, err := w.store.FindSubmission(ctx, p.FacilitatorID, p.OfferingID, p.WeekNumber)
	if err != nil {
		return err
	}
	if activity != nil && activity.Status == domain.ActivityStatusSubmitted {
		w.logger.Info("Activity was submitted, skipping late alert",
			slog.String("facilitator_id", p.FacilitatorID),
			slog.Int("week", p.WeekNumber),
		)
		return nil
	}

	if activity != nil {
		if err := w.store.UpdateSubmissionStatus(ctx, activity.ID, domain.ActivityStatusLate); err != nil {
			return err
		}
	}

	facilitator, offering, err := w.resolveFacilitatorAndOffering(ctx, p.FacilitatorID, p.OfferingID)
	if err != nil {
		return err
	}

	managers, err := w.store.FindUsersByRole(ctx, domain.RoleManager, true)
	if err != nil {
		return err
	}
	if len(managers) == 0 {
		w.logger.Warn("No active managers to alert",
			slog.String("offering_id", p.OfferingID),
			slog.Int("week", p.WeekNumber),
		)
		return nil
	}

	return w.mailer.SendLateSubmissionAlert(ctx, managers, facilitator, mailer.LateSubmissionData{
		CourseName: offering.Course.Name,
		WeekNumber: p.WeekNumber,
		DueDate:    p.DueDate,
	})
}

// handleCourseAssignment notifies a facilitator of a new assignment
func (w *Worker) handleCourseAssignment(ctx context.Context, p notify.CourseAssignmentPayload) error {
	facilitator, offering, err := w.resolveFacilitatorAndOffering(ctx, p.FacilitatorID, p.OfferingID)
	if err != nil {
		return err
	}

	return w.mailer.SendCourseAssignment(ctx, facilitator, mailer.CourseAssignmentData{
		CourseName: offering.Course.Name,
		CohortName: offering.Cohort.Name,
		StartDate:  p.StartDate,
	})
}

// handleWeeklyReminder fans out to all active facilitators.
// Per-facilitator send failures are logged and do not fail the job,
// so one bad address cannot re-send the whole batch.
func (w *Worker) handleWeeklyReminder(ctx context.Context) error {
	facilitators, err := w.store.FindUsersByRole(ctx, domain.RoleFacilitator, true)
	if err != nil {
		return err
	}
	if len(facilitators) == 0 {
		w.logger.Info("No active facilitators for weekly reminder")
		return nil
	}

	for i := range facilitators {
		facilitator := &facilitators[i]
		if err := w.mailer.SendWeeklyReminder(ctx, facilitator); err != nil {
			w.logger.Error("Failed to send weekly reminder",
				slog.String("facilitator_id", facilitator.ID),
				slog.String("email", facilitator.Email),
				slog.String("error", err.Error()),
			)
		}
	}

	return nil
}

// resolveFacilitatorAndOffering fetches current facilitator and
// offering+course state. A record deleted since scheduling is an
// error, leaving the job to the retry policy.
func (w *Worker) resolveFacilitatorAndOffering(ctx context.Context, facilitatorID, offeringID string) (*domain.User, *domain.CourseOffering, error) {
	facilitator, err := w.store.FindUser(ctx, facilitatorID)
	if err != nil {
		return nil, nil, err
	}
	if facilitator == nil {
		return nil, nil, fmt.Errorf("facilitator %s not found", facilitatorID)
	}

	offering, err := w.store.FindOffering(ctx, offeringID, true)
	if err != nil {
		return nil, nil, err
	}
	if offering == nil {
		return nil, nil, fmt.Errorf("course offering %s not found", offeringID)
	}

	return facilitator, offering, nil
}

package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/edulane/course-be/internal/notify"
)

// processJob claims a job, runs the handler for its kind, and records
// the outcome: completed, recycled (recurring), retried with backoff,
// or terminally failed.
func (w *Worker) processJob(ctx context.Context, jobID string) error {
	job, err := w.queue.Claim(ctx, jobID, w.workerID)
	if err != nil {
		if errors.Is(err, notify.ErrJobAlreadyClaimed) {
			w.logger.Warn("Job already claimed, skipping",
				slog.String("job_id", jobID),
			)
			return nil
		}
		return fmt.Errorf("failed to claim job: %w", err)
	}

	w.logger.Info("Processing job",
		slog.String("job_id", job.ID),
		slog.String("kind", string(job.Kind)),
		slog.Int("attempt", job.AttemptsMade),
		slog.Int("max_attempts", job.MaxAttempts),
	)

	payload, err := notify.DecodePayload(job.Kind, job.Payload)
	if err != nil {
		if errors.Is(err, notify.ErrUnknownKind) {
			// Forward-compatibility guard: an unrecognized kind is not an
			// error for this build
			w.logger.Warn("Unknown job kind, skipping",
				slog.String("job_id", job.ID),
				slog.String("kind", string(job.Kind)),
			)
			w.events.Publish(notify.Event{Type: notify.EventSkipped, JobID: job.ID, Kind: job.Kind})
			return w.queue.Complete(ctx, job.ID)
		}
		// Malformed payloads will never decode; retrying is pointless
		w.logger.Error("Invalid job payload",
			slog.String("job_id", job.ID),
			slog.String("error", err.Error()),
		)
		w.events.Publish(notify.Event{
			Type: notify.EventFailed, JobID: job.ID, Kind: job.Kind,
			Attempt: job.AttemptsMade, Error: err.Error(),
		})
		return w.queue.Fail(ctx, job.ID, err.Error())
	}

	if err := w.dispatch(ctx, payload); err != nil {
		return w.recordFailure(ctx, job, err)
	}

	return w.recordSuccess(ctx, job)
}

// dispatch routes a decoded payload to its handler. The switch is
// exhaustive over the payload types DecodePayload can produce.
func (w *Worker) dispatch(ctx context.Context, payload notify.Payload) error {
	switch p := payload.(type) {
	case notify.DeadlineReminderPayload:
		return w.handleDeadlineReminder(ctx, p)
	case notify.LateSubmissionAlertPayload:
		return w.handleLateSubmissionAlert(ctx, p)
	case notify.CourseAssignmentPayload:
		return w.handleCourseAssignment(ctx, p)
	case notify.WeeklyReminderPayload:
		return w.handleWeeklyReminder(ctx)
	default:
		return fmt.Errorf("%w: %T", notify.ErrUnknownKind, payload)
	}
}

func (w *Worker) recordSuccess(ctx context.Context, job *notify.Job) error {
	if job.Recurring() {
		nextRun, err := w.queue.NextCronRun(job.CronSpec, time.Now())
		if err != nil {
			w.logger.Error("Failed to compute next cron run",
				slog.String("job_id", job.ID),
				slog.String("cron", job.CronSpec),
				slog.String("error", err.Error()),
			)
			return w.queue.Fail(ctx, job.ID, err.Error())
		}

		w.logger.Info("Recurring job completed, recycling",
			slog.String("job_id", job.ID),
			slog.Time("next_run", nextRun),
		)
		w.events.Publish(notify.Event{
			Type: notify.EventCompleted, JobID: job.ID, Kind: job.Kind,
			Attempt: job.AttemptsMade, NextRun: nextRun,
		})
		return w.queue.Recycle(ctx, job.ID, nextRun)
	}

	w.logger.Info("Job completed",
		slog.String("job_id", job.ID),
		slog.String("kind", string(job.Kind)),
	)
	w.events.Publish(notify.Event{
		Type: notify.EventCompleted, JobID: job.ID, Kind: job.Kind,
		Attempt: job.AttemptsMade,
	})
	return w.queue.Complete(ctx, job.ID)
}

func (w *Worker) recordFailure(ctx context.Context, job *notify.Job, handlerErr error) error {
	if job.AttemptsMade < job.MaxAttempts {
		delay := notify.RetryDelay(job.BackoffBase(), job.AttemptsMade)
		runAt := time.Now().Add(delay)

		w.logger.Warn("Job attempt failed, scheduling retry",
			slog.String("job_id", job.ID),
			slog.String("kind", string(job.Kind)),
			slog.Int("attempt", job.AttemptsMade),
			slog.Duration("retry_in", delay),
			slog.String("error", handlerErr.Error()),
		)
		w.events.Publish(notify.Event{
			Type: notify.EventRetried, JobID: job.ID, Kind: job.Kind,
			Attempt: job.AttemptsMade, Error: handlerErr.Error(), NextRun: runAt,
		})
		return w.queue.RetryLater(ctx, job.ID, runAt, handlerErr.Error())
	}

	w.logger.Error("Job exceeded max attempts, abandoning",
		slog.String("job_id", job.ID),
		slog.String("kind", string(job.Kind)),
		slog.Int("attempts", job.AttemptsMade),
		slog.String("error", handlerErr.Error()),
	)
	w.events.Publish(notify.Event{
		Type: notify.EventFailed, JobID: job.ID, Kind: job.Kind,
		Attempt: job.AttemptsMade, Error: handlerErr.Error(),
	})
	return w.queue.Fail(ctx, job.ID, handlerErr.Error())
}

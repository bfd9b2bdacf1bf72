package notify

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/edulane/course-be/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEnqueuer struct {
	calls []enqueueCall
	err   error
}

type enqueueCall struct {
	payload Payload
	opts    EnqueueOptions
}

func (f *fakeEnqueuer) Enqueue(_ context.Context, payload Payload, opts EnqueueOptions) (*Job, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.calls = append(f.calls, enqueueCall{payload: payload, opts: opts})
	return &Job{ID: "job-1", Kind: payload.Kind()}, nil
}

func newTestScheduler(queue Enqueuer, now time.Time) *Scheduler {
	s := NewScheduler(queue, slog.New(slog.NewTextHandler(io.Discard, nil)), SchedulerConfig{})
	s.now = func() time.Time { return now }
	return s
}

func TestScheduleDeadlineReminder(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	t.Run("default lead of 24h before the due date", func(t *testing.T) {
		queue := &fakeEnqueuer{}
		s := newTestScheduler(queue, now)

		activity := &domain.ActivityTracker{
			ID:            "act-1",
			FacilitatorID: "fac-1",
			OfferingID:    "off-1",
			WeekNumber:    2,
			DueDate:       now.Add(48 * time.Hour),
		}

		require.NoError(t, s.ScheduleDeadlineReminder(context.Background(), activity, nil))
		require.Len(t, queue.calls, 1)

		call := queue.calls[0]
		assert.Equal(t, 24*time.Hour, call.opts.Delay)
		assert.Empty(t, call.opts.Cron)

		p, ok := call.payload.(DeadlineReminderPayload)
		require.True(t, ok)
		assert.Equal(t, "fac-1", p.FacilitatorID)
		assert.Equal(t, 2, p.WeekNumber)
	})

	t.Run("explicit reminder time wins over the default", func(t *testing.T) {
		queue := &fakeEnqueuer{}
		s := newTestScheduler(queue, now)

		remindAt := now.Add(30 * time.Minute)
		activity := &domain.ActivityTracker{
			ID:      "act-1",
			DueDate: now.Add(48 * time.Hour),
		}

		require.NoError(t, s.ScheduleDeadlineReminder(context.Background(), activity, &remindAt))
		require.Len(t, queue.calls, 1)
		assert.Equal(t, 30*time.Minute, queue.calls[0].opts.Delay)
	})

	t.Run("past reminder time is a silent no-op", func(t *testing.T) {
		queue := &fakeEnqueuer{}
		s := newTestScheduler(queue, now)

		remindAt := now.Add(-time.Hour)
		activity := &domain.ActivityTracker{
			ID:      "act-1",
			DueDate: now.Add(48 * time.Hour),
		}

		require.NoError(t, s.ScheduleDeadlineReminder(context.Background(), activity, &remindAt))
		assert.Empty(t, queue.calls)
	})

	t.Run("due date inside the lead window is a no-op", func(t *testing.T) {
		queue := &fakeEnqueuer{}
		s := newTestScheduler(queue, now)

		activity := &domain.ActivityTracker{
			ID:      "act-1",
			DueDate: now.Add(12 * time.Hour),
		}

		require.NoError(t, s.ScheduleDeadlineReminder(context.Background(), activity, nil))
		assert.Empty(t, queue.calls)
	})
}

func TestScheduleLateSubmissionAlert(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	t.Run("fires one hour after the due date", func(t *testing.T) {
		queue := &fakeEnqueuer{}
		s := newTestScheduler(queue, now)

		activity := &domain.ActivityTracker{
			ID:            "act-1",
			FacilitatorID: "fac-1",
			OfferingID:    "off-1",
			WeekNumber:    4,
			DueDate:       now.Add(6 * time.Hour),
		}

		require.NoError(t, s.ScheduleLateSubmissionAlert(context.Background(), activity))
		require.Len(t, queue.calls, 1)
		assert.Equal(t, 7*time.Hour, queue.calls[0].opts.Delay)
		assert.IsType(t, LateSubmissionAlertPayload{}, queue.calls[0].payload)
	})

	t.Run("grace already elapsed is a no-op", func(t *testing.T) {
		queue := &fakeEnqueuer{}
		s := newTestScheduler(queue, now)

		activity := &domain.ActivityTracker{
			ID:      "act-1",
			DueDate: now.Add(-2 * time.Hour),
		}

		require.NoError(t, s.ScheduleLateSubmissionAlert(context.Background(), activity))
		assert.Empty(t, queue.calls)
	})
}

func TestSendCourseAssignmentNotification(t *testing.T) {
	queue := &fakeEnqueuer{}
	s := newTestScheduler(queue, time.Now())

	offering := &domain.CourseOffering{
		ID:            "off-1",
		FacilitatorID: "fac-1",
		StartDate:     time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	}

	require.NoError(t, s.SendCourseAssignmentNotification(context.Background(), offering))
	require.Len(t, queue.calls, 1)

	// Immediate: no delay, no cron
	assert.Zero(t, queue.calls[0].opts.Delay)
	assert.Empty(t, queue.calls[0].opts.Cron)

	p, ok := queue.calls[0].payload.(CourseAssignmentPayload)
	require.True(t, ok)
	assert.Equal(t, "off-1", p.OfferingID)
	assert.Equal(t, "fac-1", p.FacilitatorID)
}

func TestScheduleWeeklyReminders(t *testing.T) {
	queue := &fakeEnqueuer{}
	s := newTestScheduler(queue, time.Now())

	require.NoError(t, s.ScheduleWeeklyReminders(context.Background()))
	require.Len(t, queue.calls, 1)
	assert.Equal(t, WeeklyReminderCron, queue.calls[0].opts.Cron)
	assert.IsType(t, WeeklyReminderPayload{}, queue.calls[0].payload)
}

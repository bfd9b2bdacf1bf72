package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/edulane/course-be/internal/domain"
	"github.com/edulane/course-be/internal/mailer"
	"github.com/edulane/course-be/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeQueue records the state transitions the processor drives
type fakeQueue struct {
	job *notify.Job

	claimErr   error
	completed  []string
	failed     map[string]string
	retried    map[string]time.Time
	recycled   map[string]time.Time
	retryErrs  map[string]string
	nextRun    time.Time
	nextRunErr error
}

func newFakeQueue(job *notify.Job) *fakeQueue {
	return &fakeQueue{
		job:       job,
		failed:    map[string]string{},
		retried:   map[string]time.Time{},
		recycled:  map[string]time.Time{},
		retryErrs: map[string]string{},
	}
}

func (f *fakeQueue) ReleaseDue(context.Context, int) ([]string, error) { return nil, nil }
func (f *fakeQueue) RequeueReleased(context.Context, string) error     { return nil }

func (f *fakeQueue) Claim(_ context.Context, jobID, workerID string) (*notify.Job, error) {
	if f.claimErr != nil {
		return nil, f.claimErr
	}
	f.job.AttemptsMade++
	f.job.Status = notify.JobStatusRunning
	f.job.WorkerID = workerID
	return f.job, nil
}

func (f *fakeQueue) Complete(_ context.Context, jobID string) error {
	f.completed = append(f.completed, jobID)
	return nil
}

func (f *fakeQueue) RetryLater(_ context.Context, jobID string, runAt time.Time, errMsg string) error {
	f.retried[jobID] = runAt
	f.retryErrs[jobID] = errMsg
	return nil
}

func (f *fakeQueue) Fail(_ context.Context, jobID, errMsg string) error {
	f.failed[jobID] = errMsg
	return nil
}

func (f *fakeQueue) Recycle(_ context.Context, jobID string, nextRun time.Time) error {
	f.recycled[jobID] = nextRun
	return nil
}

func (f *fakeQueue) NextCronRun(string, time.Time) (time.Time, error) {
	return f.nextRun, f.nextRunErr
}

func (f *fakeQueue) Clean(context.Context, time.Duration, time.Duration) (int64, error) {
	return 0, nil
}

// fakeStore is an in-memory DomainStore
type fakeStore struct {
	users      map[string]*domain.User
	offerings  map[string]*domain.CourseOffering
	activities map[string]*domain.ActivityTracker
	byRole     map[string][]domain.User

	statusWrites map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:        map[string]*domain.User{},
		offerings:    map[string]*domain.CourseOffering{},
		activities:   map[string]*domain.ActivityTracker{},
		byRole:       map[string][]domain.User{},
		statusWrites: map[string]string{},
	}
}

func (f *fakeStore) FindSubmission(_ context.Context, facilitatorID, offeringID string, weekNumber int) (*domain.ActivityTracker, error) {
	for _, a := range f.activities {
		if a.FacilitatorID == facilitatorID && a.OfferingID == offeringID && a.WeekNumber == weekNumber {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FindUser(_ context.Context, userID string) (*domain.User, error) {
	return f.users[userID], nil
}

func (f *fakeStore) FindOffering(_ context.Context, offeringID string, _ bool) (*domain.CourseOffering, error) {
	return f.offerings[offeringID], nil
}

func (f *fakeStore) FindUsersByRole(_ context.Context, role string, _ bool) ([]domain.User, error) {
	return f.byRole[role], nil
}

func (f *fakeStore) UpdateSubmissionStatus(_ context.Context, activityID, status string) error {
	f.statusWrites[activityID] = status
	if a, ok := f.activities[activityID]; ok {
		a.Status = status
	}
	return nil
}

// fakeMailer records sends and can fail on demand
type fakeMailer struct {
	sendErr error

	deadlineReminders []string
	lateAlerts        []mailer.LateSubmissionData
	lateRecipients    [][]domain.User
	assignments       []string
	weeklyRecipients  []string
	weeklyFailFor     map[string]error
}

func (f *fakeMailer) SendDeadlineReminder(_ context.Context, facilitator *domain.User, _ mailer.DeadlineReminderData) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.deadlineReminders = append(f.deadlineReminders, facilitator.ID)
	return nil
}

func (f *fakeMailer) SendLateSubmissionAlert(_ context.Context, managers []domain.User, _ *domain.User, data mailer.LateSubmissionData) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.lateAlerts = append(f.lateAlerts, data)
	f.lateRecipients = append(f.lateRecipients, managers)
	return nil
}

func (f *fakeMailer) SendCourseAssignment(_ context.Context, facilitator *domain.User, _ mailer.CourseAssignmentData) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.assignments = append(f.assignments, facilitator.ID)
	return nil
}

func (f *fakeMailer) SendWeeklyReminder(_ context.Context, facilitator *domain.User) error {
	if err, ok := f.weeklyFailFor[facilitator.ID]; ok {
		return err
	}
	if f.sendErr != nil {
		return f.sendErr
	}
	f.weeklyRecipients = append(f.weeklyRecipients, facilitator.ID)
	return nil
}

func newTestWorker(queue JobQueue, store DomainStore, m mailer.Mailer) *Worker {
	return NewWorker(&Config{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Queue:  queue,
		Store:  store,
		Mailer: m,
	})
}

func mustPayload(t *testing.T, p notify.Payload) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	return raw
}

func seedCourseWorld(store *fakeStore) {
	store.users["fac-1"] = &domain.User{
		ID: "fac-1", Email: "fac@example.com", FirstName: "Fay", LastName: "Field",
		Role: domain.RoleFacilitator, IsActive: true,
	}
	store.offerings["off-1"] = &domain.CourseOffering{
		ID: "off-1", CourseID: "crs-1", CohortID: "coh-1", FacilitatorID: "fac-1",
		Course: &domain.Course{ID: "crs-1", Name: "Distributed Systems"},
		Cohort: &domain.Cohort{ID: "coh-1", Name: "2026 Spring"},
	}
}

func deadlineJob(t *testing.T) *notify.Job {
	due := time.Now().Add(24 * time.Hour)
	return &notify.Job{
		ID:   "job-1",
		Kind: notify.KindDeadlineReminder,
		Payload: mustPayload(t, notify.DeadlineReminderPayload{
			FacilitatorID: "fac-1",
			OfferingID:    "off-1",
			WeekNumber:    3,
			DueDate:       due,
		}),
		Status:           notify.JobStatusQueued,
		MaxAttempts:      notify.DefaultMaxAttempts,
		BackoffInitialMS: notify.DefaultBackoffInitial.Milliseconds(),
	}
}

func TestProcessDeadlineReminder(t *testing.T) {
	t.Run("sends and completes when not submitted", func(t *testing.T) {
		store := newFakeStore()
		seedCourseWorld(store)
		queue := newFakeQueue(deadlineJob(t))
		m := &fakeMailer{}

		w := newTestWorker(queue, store, m)
		require.NoError(t, w.processJob(context.Background(), "job-1"))

		assert.Equal(t, []string{"fac-1"}, m.deadlineReminders)
		assert.Equal(t, []string{"job-1"}, queue.completed)
		assert.Empty(t, queue.failed)
	})

	t.Run("submitted activity suppresses the send", func(t *testing.T) {
		store := newFakeStore()
		seedCourseWorld(store)
		store.activities["act-1"] = &domain.ActivityTracker{
			ID: "act-1", OfferingID: "off-1", FacilitatorID: "fac-1",
			WeekNumber: 3, Status: domain.ActivityStatusSubmitted,
		}
		queue := newFakeQueue(deadlineJob(t))
		m := &fakeMailer{}

		w := newTestWorker(queue, store, m)
		require.NoError(t, w.processJob(context.Background(), "job-1"))

		assert.Empty(t, m.deadlineReminders)
		// Still a successful completion: the job did its re-check
		assert.Equal(t, []string{"job-1"}, queue.completed)
	})

	t.Run("already claimed job is skipped without error", func(t *testing.T) {
		queue := newFakeQueue(deadlineJob(t))
		queue.claimErr = notify.ErrJobAlreadyClaimed

		w := newTestWorker(queue, newFakeStore(), &fakeMailer{})
		require.NoError(t, w.processJob(context.Background(), "job-1"))
		assert.Empty(t, queue.completed)
	})
}

func TestProcessLateSubmissionAlert(t *testing.T) {
	lateJob := func(t *testing.T) *notify.Job {
		return &notify.Job{
			ID:   "job-2",
			Kind: notify.KindLateSubmissionAlert,
			Payload: mustPayload(t, notify.LateSubmissionAlertPayload{
				FacilitatorID: "fac-1",
				OfferingID:    "off-1",
				WeekNumber:    3,
				DueDate:       time.Now().Add(-time.Hour),
			}),
			MaxAttempts:      notify.DefaultMaxAttempts,
			BackoffInitialMS: notify.DefaultBackoffInitial.Milliseconds(),
		}
	}

	t.Run("marks the activity late and alerts managers", func(t *testing.T) {
		store := newFakeStore()
		seedCourseWorld(store)
		store.activities["act-1"] = &domain.ActivityTracker{
			ID: "act-1", OfferingID: "off-1", FacilitatorID: "fac-1",
			WeekNumber: 3, Status: domain.ActivityStatusPending,
		}
		store.byRole[domain.RoleManager] = []domain.User{
			{ID: "mgr-1", Email: "mgr1@example.com", Role: domain.RoleManager},
			{ID: "mgr-2", Email: "mgr2@example.com", Role: domain.RoleManager},
		}
		queue := newFakeQueue(lateJob(t))
		m := &fakeMailer{}

		w := newTestWorker(queue, store, m)
		require.NoError(t, w.processJob(context.Background(), "job-2"))

		assert.Equal(t, domain.ActivityStatusLate, store.statusWrites["act-1"])
		require.Len(t, m.lateRecipients, 1)
		assert.Len(t, m.lateRecipients[0], 2)
		assert.Equal(t, []string{"job-2"}, queue.completed)
	})

	t.Run("submission during the grace window suppresses the alert", func(t *testing.T) {
		store := newFakeStore()
		seedCourseWorld(store)
		store.activities["act-1"] = &domain.ActivityTracker{
			ID: "act-1", OfferingID: "off-1", FacilitatorID: "fac-1",
			WeekNumber: 3, Status: domain.ActivityStatusSubmitted,
		}
		queue := newFakeQueue(lateJob(t))
		m := &fakeMailer{}

		w := newTestWorker(queue, store, m)
		require.NoError(t, w.processJob(context.Background(), "job-2"))

		assert.Empty(t, m.lateAlerts)
		assert.Empty(t, store.statusWrites)
		assert.Equal(t, []string{"job-2"}, queue.completed)
	})

	t.Run("no active managers completes without sending", func(t *testing.T) {
		store := newFakeStore()
		seedCourseWorld(store)
		queue := newFakeQueue(lateJob(t))
		m := &fakeMailer{}

		w := newTestWorker(queue, store, m)
		require.NoError(t, w.processJob(context.Background(), "job-2"))

		assert.Empty(t, m.lateAlerts)
		assert.Equal(t, []string{"job-2"}, queue.completed)
	})
}

func TestProcessCourseAssignment(t *testing.T) {
	store := newFakeStore()
	seedCourseWorld(store)
	job := &notify.Job{
		ID:   "job-3",
		Kind: notify.KindCourseAssignment,
		Payload: mustPayload(t, notify.CourseAssignmentPayload{
			FacilitatorID: "fac-1",
			OfferingID:    "off-1",
			StartDate:     time.Now().Add(7 * 24 * time.Hour),
		}),
		MaxAttempts:      notify.DefaultMaxAttempts,
		BackoffInitialMS: notify.DefaultBackoffInitial.Milliseconds(),
	}
	queue := newFakeQueue(job)
	m := &fakeMailer{}

	w := newTestWorker(queue, store, m)
	require.NoError(t, w.processJob(context.Background(), "job-3"))

	assert.Equal(t, []string{"fac-1"}, m.assignments)
	assert.Equal(t, []string{"job-3"}, queue.completed)
}

func TestProcessWeeklyReminder(t *testing.T) {
	weeklyJob := func(t *testing.T) *notify.Job {
		return &notify.Job{
			ID:               "job-4",
			Kind:             notify.KindWeeklyActivityReminder,
			Payload:          mustPayload(t, notify.WeeklyReminderPayload{}),
			CronSpec:         notify.WeeklyReminderCron,
			MaxAttempts:      notify.DefaultMaxAttempts,
			BackoffInitialMS: notify.DefaultBackoffInitial.Milliseconds(),
		}
	}

	t.Run("fans out to every active facilitator and recycles", func(t *testing.T) {
		store := newFakeStore()
		store.byRole[domain.RoleFacilitator] = []domain.User{
			{ID: "fac-1", Email: "fac1@example.com"},
			{ID: "fac-2", Email: "fac2@example.com"},
			{ID: "fac-3", Email: "fac3@example.com"},
		}
		queue := newFakeQueue(weeklyJob(t))
		queue.nextRun = time.Now().Add(7 * 24 * time.Hour)
		m := &fakeMailer{}

		w := newTestWorker(queue, store, m)
		require.NoError(t, w.processJob(context.Background(), "job-4"))

		assert.ElementsMatch(t, []string{"fac-1", "fac-2", "fac-3"}, m.weeklyRecipients)
		assert.Empty(t, queue.completed)
		assert.Contains(t, queue.recycled, "job-4")
	})

	t.Run("one failed send does not block the rest of the batch", func(t *testing.T) {
		store := newFakeStore()
		store.byRole[domain.RoleFacilitator] = []domain.User{
			{ID: "fac-1", Email: "fac1@example.com"},
			{ID: "fac-2", Email: "bad@example.com"},
			{ID: "fac-3", Email: "fac3@example.com"},
		}
		queue := newFakeQueue(weeklyJob(t))
		queue.nextRun = time.Now().Add(7 * 24 * time.Hour)
		m := &fakeMailer{weeklyFailFor: map[string]error{"fac-2": errors.New("smtp 550")}}

		w := newTestWorker(queue, store, m)
		require.NoError(t, w.processJob(context.Background(), "job-4"))

		assert.ElementsMatch(t, []string{"fac-1", "fac-3"}, m.weeklyRecipients)
		assert.Contains(t, queue.recycled, "job-4")
		assert.Empty(t, queue.failed)
	})

	t.Run("no facilitators is a clean recycle", func(t *testing.T) {
		queue := newFakeQueue(weeklyJob(t))
		queue.nextRun = time.Now().Add(7 * 24 * time.Hour)
		m := &fakeMailer{}

		w := newTestWorker(queue, newFakeStore(), m)
		require.NoError(t, w.processJob(context.Background(), "job-4"))

		assert.Empty(t, m.weeklyRecipients)
		assert.Contains(t, queue.recycled, "job-4")
	})
}

func TestProcessJobRetryPolicy(t *testing.T) {
	t.Run("send failure schedules a backoff retry", func(t *testing.T) {
		store := newFakeStore()
		seedCourseWorld(store)
		queue := newFakeQueue(deadlineJob(t))
		m := &fakeMailer{sendErr: errors.New("smtp connection refused")}

		w := newTestWorker(queue, store, m)

		before := time.Now()
		require.NoError(t, w.processJob(context.Background(), "job-1"))

		runAt, ok := queue.retried["job-1"]
		require.True(t, ok)
		assert.Equal(t, "smtp connection refused", queue.retryErrs["job-1"])

		// First retry waits the initial backoff
		delay := runAt.Sub(before)
		assert.GreaterOrEqual(t, delay, notify.DefaultBackoffInitial)
		assert.Less(t, delay, notify.DefaultBackoffInitial+time.Second)
		assert.Empty(t, queue.failed)
	})

	t.Run("exhausting attempts fails terminally", func(t *testing.T) {
		store := newFakeStore()
		seedCourseWorld(store)
		job := deadlineJob(t)
		job.AttemptsMade = notify.DefaultMaxAttempts - 1 // claim bumps to max
		queue := newFakeQueue(job)
		m := &fakeMailer{sendErr: errors.New("smtp connection refused")}

		w := newTestWorker(queue, store, m)
		require.NoError(t, w.processJob(context.Background(), "job-1"))

		assert.Empty(t, queue.retried)
		assert.Equal(t, "smtp connection refused", queue.failed["job-1"])
	})

	t.Run("backoff doubles per failed attempt", func(t *testing.T) {
		store := newFakeStore()
		seedCourseWorld(store)
		job := deadlineJob(t)
		job.AttemptsMade = 1 // claim bumps to 2: second attempt failing
		queue := newFakeQueue(job)
		m := &fakeMailer{sendErr: errors.New("smtp timeout")}

		w := newTestWorker(queue, store, m)

		before := time.Now()
		require.NoError(t, w.processJob(context.Background(), "job-1"))

		runAt, ok := queue.retried["job-1"]
		require.True(t, ok)
		delay := runAt.Sub(before)
		assert.GreaterOrEqual(t, delay, 2*notify.DefaultBackoffInitial)
		assert.Less(t, delay, 2*notify.DefaultBackoffInitial+time.Second)
	})
}

func TestProcessJobPayloadGuards(t *testing.T) {
	t.Run("unknown kind is skipped and completed", func(t *testing.T) {
		job := &notify.Job{
			ID:      "job-9",
			Kind:    notify.Kind("sms_blast"),
			Payload: json.RawMessage(`{}`),
		}
		queue := newFakeQueue(job)

		w := newTestWorker(queue, newFakeStore(), &fakeMailer{})
		require.NoError(t, w.processJob(context.Background(), "job-9"))

		assert.Equal(t, []string{"job-9"}, queue.completed)
		assert.Empty(t, queue.failed)
	})

	t.Run("malformed payload fails terminally without retries", func(t *testing.T) {
		job := &notify.Job{
			ID:      "job-10",
			Kind:    notify.KindDeadlineReminder,
			Payload: json.RawMessage(`{broken`),
		}
		queue := newFakeQueue(job)

		w := newTestWorker(queue, newFakeStore(), &fakeMailer{})
		require.NoError(t, w.processJob(context.Background(), "job-10"))

		assert.Empty(t, queue.retried)
		assert.Contains(t, queue.failed, "job-10")
	})
}

func TestWorkerEvents(t *testing.T) {
	store := newFakeStore()
	seedCourseWorld(store)
	queue := newFakeQueue(deadlineJob(t))
	events := notify.NewEvents(8)

	w := NewWorker(&Config{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Queue:  queue,
		Store:  store,
		Mailer: &fakeMailer{},
		Events: events,
	})

	require.NoError(t, w.processJob(context.Background(), "job-1"))

	select {
	case ev := <-w.Events():
		assert.Equal(t, notify.EventCompleted, ev.Type)
		assert.Equal(t, "job-1", ev.JobID)
		assert.Equal(t, notify.KindDeadlineReminder, ev.Kind)
	default:
		t.Fatal("expected a completion event on the stream")
	}
}

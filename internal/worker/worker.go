package worker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/edulane/course-be/internal/domain"
	"github.com/edulane/course-be/internal/mailer"
	"github.com/edulane/course-be/internal/notify"
	"github.com/edulane/course-be/shared/rabbitmq"
	"github.com/google/uuid"
)

// JobQueue is the consumer-side contract of the notification job store
type JobQueue interface {
	ReleaseDue(ctx context.Context, limit int) ([]string, error)
	RequeueReleased(ctx context.Context, jobID string) error
	Claim(ctx context.Context, jobID, workerID string) (*notify.Job, error)
	Complete(ctx context.Context, jobID string) error
	RetryLater(ctx context.Context, jobID string, runAt time.Time, errMsg string) error
	Fail(ctx context.Context, jobID, errMsg string) error
	Recycle(ctx context.Context, jobID string, nextRun time.Time) error
	NextCronRun(spec string, after time.Time) (time.Time, error)
	Clean(ctx context.Context, completedTTL, failedTTL time.Duration) (int64, error)
}

// DomainStore is the worker's read view of the course-management data,
// plus the single status write the late-alert path performs
type DomainStore interface {
	FindSubmission(ctx context.Context, facilitatorID, offeringID string, weekNumber int) (*domain.ActivityTracker, error)
	FindUser(ctx context.Context, userID string) (*domain.User, error)
	FindOffering(ctx context.Context, offeringID string, withCourse bool) (*domain.CourseOffering, error)
	FindUsersByRole(ctx context.Context, role string, activeOnly bool) ([]domain.User, error)
	UpdateSubmissionStatus(ctx context.Context, activityID, status string) error
}

// Config holds worker configuration
type Config struct {
	Logger        *slog.Logger
	Queue         JobQueue
	Store         DomainStore
	Mailer        mailer.Mailer
	RabbitClient  *rabbitmq.Client
	Events        *notify.Events
	Concurrency   int
	PrefetchCount int
	PollInterval  time.Duration
	BatchSize     int
	CleanInterval time.Duration
	CompletedTTL  time.Duration
	FailedTTL     time.Duration
}

// Worker consumes notification jobs: a dispatcher loop releases due
// jobs from the store into RabbitMQ, a consumer feeds them to a pool
// of processing goroutines, and a cleaner evicts old terminal jobs.
type Worker struct {
	logger        *slog.Logger
	queue         JobQueue
	store         DomainStore
	mailer        mailer.Mailer
	rabbitClient  *rabbitmq.Client
	events        *notify.Events
	workerID      string
	concurrency   int
	prefetchCount int
	pollInterval  time.Duration
	batchSize     int
	cleanInterval time.Duration
	completedTTL  time.Duration
	failedTTL     time.Duration
	jobsChan      chan string
	wg            sync.WaitGroup
	stopChan      chan struct{}
}

// NewWorker creates a worker instance. Concurrency defaults to one
// job at a time unless configured higher.
func NewWorker(cfg *Config) *Worker {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	prefetch := cfg.PrefetchCount
	if prefetch <= 0 {
		prefetch = concurrency
	}
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 50
	}
	cleanInterval := cfg.CleanInterval
	if cleanInterval <= 0 {
		cleanInterval = time.Hour
	}
	completedTTL := cfg.CompletedTTL
	if completedTTL <= 0 {
		completedTTL = 24 * time.Hour
	}
	failedTTL := cfg.FailedTTL
	if failedTTL <= 0 {
		failedTTL = 7 * 24 * time.Hour
	}
	events := cfg.Events
	if events == nil {
		events = notify.NewEvents(0)
	}

	hostname, _ := os.Hostname()

	return &Worker{
		logger:        cfg.Logger,
		queue:         cfg.Queue,
		store:         cfg.Store,
		mailer:        cfg.Mailer,
		rabbitClient:  cfg.RabbitClient,
		events:        events,
		workerID:      fmt.Sprintf("%s-%s", hostname, uuid.New().String()[:8]),
		concurrency:   concurrency,
		prefetchCount: prefetch,
		pollInterval:  pollInterval,
		batchSize:     batchSize,
		cleanInterval: cleanInterval,
		completedTTL:  completedTTL,
		failedTTL:     failedTTL,
		jobsChan:      make(chan string, concurrency),
		stopChan:      make(chan struct{}),
	}
}

// Events returns the worker's outcome stream
func (w *Worker) Events() <-chan notify.Event {
	return w.events.Subscribe()
}

// Start runs the dispatcher, consumer, pool, and cleaner until the
// context is canceled
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("Starting notification worker",
		slog.String("worker_id", w.workerID),
		slog.Int("concurrency", w.concurrency),
		slog.Duration("poll_interval", w.pollInterval),
	)

	deliveries, err := w.setupConsumer()
	if err != nil {
		return fmt.Errorf("failed to set up consumer: %w", err)
	}

	w.spawnPool(ctx)

	w.wg.Add(3)
	go func() {
		defer w.wg.Done()
		w.runDispatcher(ctx)
	}()
	go func() {
		defer w.wg.Done()
		w.consumeDeliveries(ctx, deliveries)
	}()
	go func() {
		defer w.wg.Done()
		w.runCleaner(ctx)
	}()

	<-ctx.Done()
	w.logger.Info("Worker context canceled, stopping")
	return nil
}

// Stop waits for in-flight jobs to finish
func (w *Worker) Stop() {
	w.logger.Info("Stopping worker")
	close(w.stopChan)
	w.wg.Wait()
	w.logger.Info("Worker stopped")
}

package notify

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/robfig/cron/v3"
)

// EnqueueOptions control when a job becomes due. Delay and Cron are
// mutually exclusive; a zero Delay with no Cron means immediately due.
type EnqueueOptions struct {
	Delay time.Duration
	Cron  string
}

// Store is the PostgreSQL-backed delay queue for notification jobs.
// It is constructed once at startup and injected into both the
// scheduler (producer) and the worker (consumer).
type Store struct {
	db       *sqlx.DB
	logger   *slog.Logger
	location *time.Location
	parser   cron.Parser
}

// NewStore creates a job store. location is the reference timezone
// for cron schedules.
func NewStore(db *sqlx.DB, logger *slog.Logger, location *time.Location) *Store {
	if location == nil {
		location = time.UTC
	}
	return &Store{
		db:       db,
		logger:   logger,
		location: location,
		parser:   cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow),
	}
}

// Enqueue inserts a job that becomes due per opts. Recurring enqueues
// deduplicate: an existing non-terminal job with the same kind and
// cron spec is returned instead of inserting a second one.
func (s *Store) Enqueue(ctx context.Context, payload Payload, opts EnqueueOptions) (*Job, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	kind := payload.Kind()
	now := time.Now().In(s.location)
	runAt := now.Add(opts.Delay)

	if opts.Cron != "" {
		schedule, err := s.parser.Parse(opts.Cron)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCronSpec, err)
		}
		runAt = schedule.Next(now)

		existing, err := s.findRecurring(ctx, kind, opts.Cron)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			s.logger.Debug("Recurring job already scheduled",
				slog.String("job_id", existing.ID),
				slog.String("kind", string(kind)),
				slog.String("cron", opts.Cron),
			)
			return existing, nil
		}
	}

	job := &Job{
		ID:               uuid.New().String(),
		Kind:             kind,
		Payload:          raw,
		Status:           JobStatusPending,
		RunAt:            runAt,
		CronSpec:         opts.Cron,
		MaxAttempts:      DefaultMaxAttempts,
		BackoffInitialMS: DefaultBackoffInitial.Milliseconds(),
	}

	query := `
		INSERT INTO notification_jobs (
			job_id, kind, payload, status, run_at, cron_spec,
			attempts_made, max_attempts, backoff_initial_ms,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, 0, $7, $8, NOW(), NOW())
	`

	_, err = s.db.ExecContext(ctx, query,
		job.ID, job.Kind, job.Payload, job.Status, job.RunAt, job.CronSpec,
		job.MaxAttempts, job.BackoffInitialMS,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue job: %w", err)
	}

	s.logger.Info("Job enqueued",
		slog.String("job_id", job.ID),
		slog.String("kind", string(kind)),
		slog.Time("run_at", runAt),
	)

	return job, nil
}

// findRecurring looks up a non-terminal recurring job by kind and spec
func (s *Store) findRecurring(ctx context.Context, kind Kind, spec string) (*Job, error) {
	query := `
		SELECT job_id, kind, payload, status, run_at, cron_spec,
		       attempts_made, max_attempts, backoff_initial_ms,
		       COALESCE(worker_id, '') AS worker_id,
		       COALESCE(last_error, '') AS last_error,
		       created_at, updated_at
		FROM notification_jobs
		WHERE kind = $1 AND cron_spec = $2 AND status NOT IN ($3, $4)
		LIMIT 1
	`

	var job Job
	err := s.db.GetContext(ctx, &job, query, kind, spec, JobStatusCompleted, JobStatusFailed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up recurring job: %w", err)
	}
	return &job, nil
}

// ReleaseDue moves due PENDING jobs to QUEUED and returns their ids so
// the dispatcher can publish them. SKIP LOCKED keeps concurrent
// dispatchers from releasing the same rows.
func (s *Store) ReleaseDue(ctx context.Context, limit int) ([]string, error) {
	query := `
		UPDATE notification_jobs
		SET status = $1, updated_at = NOW()
		WHERE job_id IN (
			SELECT job_id FROM notification_jobs
			WHERE status = $2 AND run_at <= NOW()
			ORDER BY run_at
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		)
		RETURNING job_id
	`

	var ids []string
	err := s.db.SelectContext(ctx, &ids, query, JobStatusQueued, JobStatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to release due jobs: %w", err)
	}
	return ids, nil
}

// RequeueReleased returns a QUEUED job to PENDING, used when the
// dispatcher fails to publish its id
func (s *Store) RequeueReleased(ctx context.Context, jobID string) error {
	query := `
		UPDATE notification_jobs
		SET status = $1, updated_at = NOW()
		WHERE job_id = $2 AND status = $3
	`
	if _, err := s.db.ExecContext(ctx, query, JobStatusPending, jobID, JobStatusQueued); err != nil {
		return fmt.Errorf("failed to requeue job: %w", err)
	}
	return nil
}

// Claim transitions a QUEUED job to RUNNING for this worker and
// increments its attempt counter. Returns ErrJobAlreadyClaimed when
// the job is not claimable.
func (s *Store) Claim(ctx context.Context, jobID, workerID string) (*Job, error) {
	query := `
		UPDATE notification_jobs
		SET status = $1,
		    worker_id = $2,
		    attempts_made = attempts_made + 1,
		    updated_at = NOW()
		WHERE job_id = $3 AND status = $4
		RETURNING job_id, kind, payload, status, run_at, cron_spec,
		          attempts_made, max_attempts, backoff_initial_ms,
		          COALESCE(worker_id, '') AS worker_id,
		          COALESCE(last_error, '') AS last_error,
		          created_at, updated_at
	`

	var job Job
	err := s.db.GetContext(ctx, &job, query, JobStatusRunning, workerID, jobID, JobStatusQueued)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrJobAlreadyClaimed
	}
	if err != nil {
		return nil, fmt.Errorf("failed to claim job: %w", err)
	}

	return &job, nil
}

// Complete marks a one-shot job COMPLETED
func (s *Store) Complete(ctx context.Context, jobID string) error {
	query := `
		UPDATE notification_jobs
		SET status = $1, last_error = '', completed_at = NOW(), updated_at = NOW()
		WHERE job_id = $2
	`
	if _, err := s.db.ExecContext(ctx, query, JobStatusCompleted, jobID); err != nil {
		return fmt.Errorf("failed to complete job: %w", err)
	}
	return nil
}

// RetryLater reschedules a failed attempt: back to PENDING with the
// backoff-computed due time
func (s *Store) RetryLater(ctx context.Context, jobID string, runAt time.Time, errMsg string) error {
	query := `
		UPDATE notification_jobs
		SET status = $1, run_at = $2, last_error = $3, updated_at = NOW()
		WHERE job_id = $4
	`
	if _, err := s.db.ExecContext(ctx, query, JobStatusPending, runAt, errMsg, jobID); err != nil {
		return fmt.Errorf("failed to schedule retry: %w", err)
	}
	return nil
}

// Fail marks a job terminally FAILED. Failed jobs are retained for
// inspection until the cleaner evicts them.
func (s *Store) Fail(ctx context.Context, jobID, errMsg string) error {
	query := `
		UPDATE notification_jobs
		SET status = $1, last_error = $2, completed_at = NOW(), updated_at = NOW()
		WHERE job_id = $3
	`
	if _, err := s.db.ExecContext(ctx, query, JobStatusFailed, errMsg, jobID); err != nil {
		return fmt.Errorf("failed to mark job failed: %w", err)
	}
	return nil
}

// Recycle resets a recurring job for its next occurrence
func (s *Store) Recycle(ctx context.Context, jobID string, nextRun time.Time) error {
	query := `
		UPDATE notification_jobs
		SET status = $1, run_at = $2, attempts_made = 0, worker_id = NULL,
		    last_error = '', updated_at = NOW()
		WHERE job_id = $3
	`
	if _, err := s.db.ExecContext(ctx, query, JobStatusPending, nextRun, jobID); err != nil {
		return fmt.Errorf("failed to recycle recurring job: %w", err)
	}
	return nil
}

// NextCronRun computes the next occurrence of spec after the given time
func (s *Store) NextCronRun(spec string, after time.Time) (time.Time, error) {
	schedule, err := s.parser.Parse(spec)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidCronSpec, err)
	}
	return schedule.Next(after.In(s.location)), nil
}

// Stats are the queue counts exposed for operational monitoring
type Stats struct {
	Waiting   int `json:"waiting"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
	Delayed   int `json:"delayed"`
}

// Stats returns current queue counts. Waiting covers released jobs
// plus due-but-unreleased ones; delayed covers jobs scheduled in the
// future.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = $1 OR (status = $2 AND run_at <= NOW())) AS waiting,
			COUNT(*) FILTER (WHERE status = $3) AS active,
			COUNT(*) FILTER (WHERE status = $4) AS completed,
			COUNT(*) FILTER (WHERE status = $5) AS failed,
			COUNT(*) FILTER (WHERE status = $2 AND run_at > NOW()) AS delayed
		FROM notification_jobs
	`

	var stats Stats
	err := s.db.QueryRowxContext(ctx, query,
		JobStatusQueued, JobStatusPending, JobStatusRunning,
		JobStatusCompleted, JobStatusFailed,
	).Scan(&stats.Waiting, &stats.Active, &stats.Completed, &stats.Failed, &stats.Delayed)
	if err != nil {
		return nil, fmt.Errorf("failed to read queue stats: %w", err)
	}

	return &stats, nil
}

// Clean evicts completed jobs older than completedTTL and failed jobs
// older than failedTTL. Returns the number of rows removed.
func (s *Store) Clean(ctx context.Context, completedTTL, failedTTL time.Duration) (int64, error) {
	query := `
		DELETE FROM notification_jobs
		WHERE (status = $1 AND completed_at < NOW() - make_interval(secs => $2))
		   OR (status = $3 AND completed_at < NOW() - make_interval(secs => $4))
	`

	res, err := s.db.ExecContext(ctx, query,
		JobStatusCompleted, completedTTL.Seconds(),
		JobStatusFailed, failedTTL.Seconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to clean jobs: %w", err)
	}

	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if removed > 0 {
		s.logger.Info("Old jobs evicted", slog.Int64("removed", removed))
	}

	return removed, nil
}

package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// jobMessage is the wire format of a "job due" message on RabbitMQ
type jobMessage struct {
	JobID string `json:"job_id"`
}

// runDispatcher polls the job store and publishes due job ids to
// RabbitMQ. Jobs it releases but fails to publish go back to PENDING
// so a later poll retries them.
func (w *Worker) runDispatcher(ctx context.Context) {
	w.logger.Info("Due-job dispatcher started",
		slog.Duration("poll_interval", w.pollInterval),
		slog.Int("batch_size", w.batchSize),
	)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Due-job dispatcher stopped")
			return
		case <-w.stopChan:
			w.logger.Info("Due-job dispatcher stopped")
			return
		case <-ticker.C:
			w.dispatchDue(ctx)
		}
	}
}

func (w *Worker) dispatchDue(ctx context.Context) {
	ids, err := w.queue.ReleaseDue(ctx, w.batchSize)
	if err != nil {
		w.logger.Error("Failed to release due jobs",
			slog.String("error", err.Error()),
		)
		return
	}
	if len(ids) == 0 {
		return
	}

	w.logger.Debug("Releasing due jobs", slog.Int("count", len(ids)))

	for _, jobID := range ids {
		body, err := json.Marshal(jobMessage{JobID: jobID})
		if err != nil {
			w.logger.Error("Failed to marshal job message",
				slog.String("job_id", jobID),
				slog.String("error", err.Error()),
			)
			continue
		}

		if err := w.rabbitClient.Publish(ctx, body, "application/json"); err != nil {
			w.logger.Error("Failed to publish due job, requeueing",
				slog.String("job_id", jobID),
				slog.String("error", err.Error()),
			)
			if requeueErr := w.queue.RequeueReleased(ctx, jobID); requeueErr != nil {
				w.logger.Error("Failed to requeue released job",
					slog.String("job_id", jobID),
					slog.String("error", requeueErr.Error()),
				)
			}
		}
	}
}

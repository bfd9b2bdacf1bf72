package worker

import (
	"context"
	"log/slog"
	"time"
)

// runCleaner periodically evicts old terminal jobs: completed ones
// after a short window, failed ones after a longer one so they stay
// inspectable.
func (w *Worker) runCleaner(ctx context.Context) {
	w.logger.Info("Retention cleaner started",
		slog.Duration("interval", w.cleanInterval),
		slog.Duration("completed_ttl", w.completedTTL),
		slog.Duration("failed_ttl", w.failedTTL),
	)

	ticker := time.NewTicker(w.cleanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Retention cleaner stopped")
			return
		case <-w.stopChan:
			w.logger.Info("Retention cleaner stopped")
			return
		case <-ticker.C:
			if _, err := w.queue.Clean(ctx, w.completedTTL, w.failedTTL); err != nil {
				w.logger.Error("Failed to clean old jobs",
					slog.String("error", err.Error()),
				)
			}
		}
	}
}

package worker

import (
	"context"
	"fmt"
	"log/slog"
)

// spawnPool starts the processing goroutines
func (w *Worker) spawnPool(ctx context.Context) {
	w.logger.Info("Spawning worker pool",
		slog.Int("concurrency", w.concurrency),
		slog.String("worker_id", w.workerID),
	)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.poolLoop(ctx, i)
	}
}

// poolLoop is one processing goroutine: it pulls job ids off jobsChan
// and runs them through the processor
func (w *Worker) poolLoop(ctx context.Context, workerNum int) {
	defer w.wg.Done()

	name := fmt.Sprintf("%s-%d", w.workerID, workerNum)
	w.logger.Info("Worker goroutine started", slog.String("worker_name", name))

	for {
		select {
		case <-w.stopChan:
			w.logger.Info("Worker goroutine stopping", slog.String("worker_name", name))
			return

		case <-ctx.Done():
			w.logger.Info("Worker goroutine stopping - context canceled",
				slog.String("worker_name", name),
			)
			return

		case jobID, ok := <-w.jobsChan:
			if !ok {
				return
			}

			if err := w.processJob(ctx, jobID); err != nil {
				w.logger.Error("Job processing failed",
					slog.String("worker_name", name),
					slog.String("job_id", jobID),
					slog.String("error", err.Error()),
				)
			}
		}
	}
}

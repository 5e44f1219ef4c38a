package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/maheshrc27/linkedin-scheduler/internal/service"
)

func (q *Queue) HandlePublishDueTask(ctx context.Context, task *asynq.Task) error {
	var payload PublishDuePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decoding payload: %v: %w", err, asynq.SkipRetry)
	}

	today := q.now()
	if payload.Date != "" {
		d, err := time.Parse("2006-01-02", payload.Date)
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", payload.Date, asynq.SkipRetry)
		}
		today = d
	}

	outcome, err := q.batch.Run(ctx, today)
	if errors.Is(err, service.ErrBatchInProgress) {
		slog.Info("publishing run skipped, another run is active")
		return nil
	}
	if err != nil {
		return err
	}

	slog.Info("publishing task done", "run_id", outcome.RunID, "successful", outcome.Successful, "failed", outcome.Failed)
	return nil
}

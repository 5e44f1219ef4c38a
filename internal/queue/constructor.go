package queue

import (
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// uniqueTTL bounds how long a pending publish task blocks new ones if the
// worker never completes it.
const uniqueTTL = 30 * time.Minute

type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// EnqueuePublishDue queues a publishing run. A run that is already queued or
// active is not queued twice.
func EnqueuePublishDue(client TaskEnqueuer, payload PublishDuePayload) error {
	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypePublishDue, taskPayload)

	_, err = client.Enqueue(task, asynq.Unique(uniqueTTL), asynq.MaxRetry(0))
	if errors.Is(err, asynq.ErrDuplicateTask) {
		slog.Info("publishing run already queued", "date", payload.Date)
		return nil
	}
	if err != nil {
		return err
	}

	slog.Info("publishing run queued", "date", payload.Date)
	return nil
}

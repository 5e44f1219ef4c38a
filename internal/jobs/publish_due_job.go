package job

import (
	"log/slog"
	"time"

	"github.com/maheshrc27/linkedin-scheduler/internal/queue"
)

type PublishDueJob struct {
	client queue.TaskEnqueuer
	now    func() time.Time
}

func NewPublishDueJob(client queue.TaskEnqueuer) *PublishDueJob {
	return &PublishDueJob{
		client: client,
		now:    time.Now,
	}
}

// EnqueueDuePosts runs on every cron tick and hands today's run to the worker.
func (j *PublishDueJob) EnqueueDuePosts() {
	payload := queue.PublishDuePayload{Date: j.now().Format("2006-01-02")}
	if err := queue.EnqueuePublishDue(j.client, payload); err != nil {
		slog.Info(err.Error())
	}
}

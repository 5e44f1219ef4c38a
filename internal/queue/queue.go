package queue

import (
	"time"

	"github.com/maheshrc27/linkedin-scheduler/internal/service"
)

type Queue struct {
	batch service.BatchService
	now   func() time.Time
}

func NewQueue(batch service.BatchService) *Queue {
	return &Queue{
		batch: batch,
		now:   time.Now,
	}
}

const TaskTypePublishDue = "publish:due"

// PublishDuePayload names the day whose posts are published. An empty Date
// means the day the task is processed.
type PublishDuePayload struct {
	Date string `json:"date"`
}

package tasks

import (
	"encoding/json"
	"time"

	"receptionist/models"

	"github.com/hibiken/asynq"
)

const (
	TypeRegenerateAvailability = "availability:regenerate"
	TypeSweepAvailability      = "availability:sweep"

	QueueAvailability = "availability"
)

// NewRegenerateTask rebuilds one business's slot table. Duplicate requests for the
// same business and start date collapse while one is pending.
func NewRegenerateTask(payload models.RegeneratePayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeRegenerateAvailability, b)
	opts := []asynq.Option{
		asynq.Queue(QueueAvailability),
		asynq.MaxRetry(5),
		asynq.Timeout(2 * time.Minute),
		asynq.Unique(10 * time.Minute),
	}
	return task, opts, nil
}

// NewSweepTask fans out one regenerate task per business.
func NewSweepTask() (*asynq.Task, []asynq.Option) {
	task := asynq.NewTask(TypeSweepAvailability, nil)
	opts := []asynq.Option{
		asynq.Queue(QueueAvailability),
		asynq.MaxRetry(3),
	}
	return task, opts
}

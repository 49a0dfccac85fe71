package tasks

import (
	"encoding/json"
	"time"

	"barberremind/models"

	"github.com/hibiken/asynq"
)

const TypeDispatchReminders = "reminder:dispatch"

// NewDispatchTask wraps a dispatch payload in an asynq task scheduled
// for fireAt.
func NewDispatchTask(payload models.DispatchPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeDispatchReminders, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}

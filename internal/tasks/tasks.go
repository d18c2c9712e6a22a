package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// Task type constants
const (
	// Expiry sweep tasks keep resource availability windows honest
	TypeResourceExpirySweep    = "resources:expiry_sweep"
	TypeApplicationExpirySweep = "applications:expiry_sweep"
)

// TaskPayload is the common payload for all tasks
type TaskPayload struct {
	ResourceID string `json:"resource_id,omitempty"`
}

// NewResourceExpirySweepTask creates a task that expires resources whose
// availability window has closed.
func NewResourceExpirySweepTask() (*asynq.Task, error) {
	payload, err := json.Marshal(TaskPayload{})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return asynq.NewTask(TypeResourceExpirySweep, payload), nil
}

// NewApplicationExpirySweepTask creates a task that expires the open
// applications of a single expired resource.
func NewApplicationExpirySweepTask(resourceID string) (*asynq.Task, error) {
	payload, err := json.Marshal(TaskPayload{
		ResourceID: resourceID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return asynq.NewTask(TypeApplicationExpirySweep, payload), nil
}

// ParseTaskPayload parses task payload from Asynq task
func ParseTaskPayload(task *asynq.Task) (TaskPayload, error) {
	var payload TaskPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	return payload, nil
}

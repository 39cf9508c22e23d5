package models

import (
	"encoding/json"
	"time"
)

type TaskAction string

const (
	TaskActionCreated TaskAction = "created"
	TaskActionUpdated TaskAction = "updated"
	TaskActionDeleted TaskAction = "deleted"
)

// TaskActivity is one entry of a task's change history.
type TaskActivity struct {
	ID              string          `json:"taskActivityId"`
	TaskID          string          `json:"taskId"`
	Action          TaskAction      `json:"action"`
	ChangedByUserID string          `json:"changedByUserId"`
	Payload         json.RawMessage `json:"payload,omitempty"`
	Created         time.Time       `json:"created"`
}

package models

// TaskInput is the create/update payload of the task form.
// Pointer numbers distinguish "not selected" from zero.
type TaskInput struct {
	EventDayType       *int    `json:"eventDayType" validate:"required,min=0,max=2"`
	CurrentStatus      *int    `json:"currentStatus" validate:"required,min=0,max=2"`
	LeaderUserID       string  `json:"leaderUserId" validate:"required"`
	FromLocationID     string  `json:"fromLocationId" validate:"required"`
	ToLocationID       string  `json:"toLocationId" validate:"required"`
	ItemID             string  `json:"itemId" validate:"required"`
	Quantity           *int    `json:"quantity" validate:"required,min=1"`
	ScheduledStartTime string  `json:"scheduledStartTime" validate:"required,timeofday"`
	ScheduledEndTime   string  `json:"scheduledEndTime" validate:"required,timeofday"`
	Note               *string `json:"note,omitempty" validate:"omitempty,max=1000"`
}

type TaskFormMode string

const (
	TaskFormCreate TaskFormMode = "create"
	TaskFormEdit   TaskFormMode = "edit"
)

// TaskFormState is what the task dialog starts from.
type TaskFormState struct {
	Mode   TaskFormMode `json:"mode"`
	TaskID string       `json:"taskId,omitempty"`
	Values TaskInput    `json:"values"`
}

// ActionResult is the uniform outcome of a mutation: success, or failure
// with an optional message and per-field validation messages.
type ActionResult struct {
	OK          bool                `json:"ok"`
	Message     string              `json:"message,omitempty"`
	FieldErrors map[string][]string `json:"fieldErrors,omitempty"`
}

func Succeeded() ActionResult {
	return ActionResult{OK: true}
}

func Failed(message string) ActionResult {
	return ActionResult{OK: false, Message: message}
}

func Invalid(fieldErrors map[string][]string) ActionResult {
	return ActionResult{OK: false, FieldErrors: fieldErrors}
}

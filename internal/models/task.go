// internal/models/task.go
package models

import "time"

// EventDayType is the festival day a task belongs to.
type EventDayType int

const (
	EventDayPrePreparation EventDayType = 0
	EventDayPreparation    EventDayType = 1
	EventDayCleanup        EventDayType = 2
)

// TaskStatus defines the possible statuses for a task.
type TaskStatus int

const (
	StatusNotStarted TaskStatus = 0
	StatusInProgress TaskStatus = 1
	StatusDone       TaskStatus = 2
)

// Option is a fixed {value,label} pair offered in pickers.
type Option struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

var EventDayOptions = []Option{
	{Value: int(EventDayPrePreparation), Label: "準々備日"},
	{Value: int(EventDayPreparation), Label: "準備日"},
	{Value: int(EventDayCleanup), Label: "片付け日"},
}

var StatusOptions = []Option{
	{Value: int(StatusNotStarted), Label: "未着手"},
	{Value: int(StatusInProgress), Label: "進行中"},
	{Value: int(StatusDone), Label: "完了"},
}

func (d EventDayType) IsValid() bool {
	return d >= EventDayPrePreparation && d <= EventDayCleanup
}

func (d EventDayType) Label() string {
	if !d.IsValid() {
		return "-"
	}
	return EventDayOptions[d].Label
}

func (s TaskStatus) IsValid() bool {
	return s >= StatusNotStarted && s <= StatusDone
}

func (s TaskStatus) Label() string {
	if !s.IsValid() {
		return "-"
	}
	return StatusOptions[s].Label
}

// Task is a row of the tasks table.
type Task struct {
	ID                 string       `json:"taskId"`
	EventDayType       EventDayType `json:"eventDayType"`
	CurrentStatus      TaskStatus   `json:"currentStatus"`
	ItemID             string       `json:"itemId"`
	Quantity           int          `json:"quantity"`
	FromLocationID     string       `json:"fromLocationId"`
	ToLocationID       string       `json:"toLocationId"`
	ScheduledStartTime string       `json:"scheduledStartTime"`
	ScheduledEndTime   string       `json:"scheduledEndTime"`
	ActualStartTime    *string      `json:"actualStartTime"`
	ActualEndTime      *string      `json:"actualEndTime"`
	LeaderUserID       *string      `json:"leaderUserId"`
	Note               *string      `json:"note"`
	CreatedUserID      string       `json:"createdUserId"`
	Created            time.Time    `json:"created"`
	Modified           time.Time    `json:"modified"`
	Deleted            *time.Time   `json:"deleted"`
}

// TaskFilter narrows active task reads. Nil fields are not applied.
type TaskFilter struct {
	EventDayType   *EventDayType
	Status         *TaskStatus
	ItemID         *string
	LeaderUserID   *string
	FromLocationID *string
	ToLocationID   *string
}

// AdminTask is a task with its foreign keys resolved to display names.
type AdminTask struct {
	TaskID             string       `json:"taskId"`
	EventDayType       EventDayType `json:"eventDayType"`
	CurrentStatus      TaskStatus   `json:"currentStatus"`
	ItemID             string       `json:"itemId"`
	ItemName           string       `json:"itemName"`
	Quantity           int          `json:"quantity"`
	FromLocationID     string       `json:"fromLocationId"`
	FromLocationName   string       `json:"fromLocationName"`
	ToLocationID       string       `json:"toLocationId"`
	ToLocationName     string       `json:"toLocationName"`
	ScheduledStartTime string       `json:"scheduledStartTime"`
	ScheduledEndTime   string       `json:"scheduledEndTime"`
	ActualStartTime    *string      `json:"actualStartTime"`
	ActualEndTime      *string      `json:"actualEndTime"`
	LeaderUserID       *string      `json:"leaderUserId"`
	LeaderName         *string      `json:"leaderName"`
	Note               *string      `json:"note"`
}

type TaskFormOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Group string `json:"group"`
}

type TaskFilterOptions struct {
	Items       []TaskFormOption `json:"items"`
	Leaders     []TaskFormOption `json:"leaders"`
	Locations   []TaskFormOption `json:"locations"`
	TimeOptions []string         `json:"timeOptions"`
	EventDays   []Option         `json:"eventDays"`
	Statuses    []Option         `json:"statuses"`
}

type AdminTaskListPageData struct {
	Query         TaskListQuery     `json:"query"`
	Tasks         []AdminTask       `json:"tasks"`
	FilterOptions TaskFilterOptions `json:"filterOptions"`
}

// TaskDetail is a single task, deleted or not, with its change history.
type TaskDetail struct {
	Task       Task           `json:"task"`
	Activities []TaskActivity `json:"activities"`
}

// FilterTag is one active filter shown above the task list, keyed by its
// query parameter.
type FilterTag struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

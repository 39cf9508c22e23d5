package services

import "goodsgo/internal/models"

// NewTaskFormState is the initial state of the task dialog. Edit mode
// requires the task being edited; without one it falls back to create.
func NewTaskFormState(mode models.TaskFormMode, task *models.AdminTask) models.TaskFormState {
	if mode != models.TaskFormEdit || task == nil {
		return models.TaskFormState{
			Mode: models.TaskFormCreate,
			Values: models.TaskInput{
				EventDayType:  intPtr(int(models.EventDayPrePreparation)),
				CurrentStatus: intPtr(int(models.StatusNotStarted)),
				Quantity:      intPtr(1),
				Note:          strPtr(""),
			},
		}
	}

	leaderID := ""
	if task.LeaderUserID != nil {
		leaderID = *task.LeaderUserID
	}
	note := ""
	if task.Note != nil {
		note = *task.Note
	}
	return models.TaskFormState{
		Mode:   models.TaskFormEdit,
		TaskID: task.TaskID,
		Values: models.TaskInput{
			EventDayType:       intPtr(int(task.EventDayType)),
			CurrentStatus:      intPtr(int(task.CurrentStatus)),
			LeaderUserID:       leaderID,
			FromLocationID:     task.FromLocationID,
			ToLocationID:       task.ToLocationID,
			ItemID:             task.ItemID,
			Quantity:           intPtr(task.Quantity),
			ScheduledStartTime: task.ScheduledStartTime,
			ScheduledEndTime:   task.ScheduledEndTime,
			Note:               &note,
		},
	}
}

func intPtr(n int) *int { return &n }

func strPtr(s string) *string { return &s }

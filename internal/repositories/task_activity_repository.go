package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"goodsgo/internal/models"
)

// TaskActivityRepository keeps the append-only change history of tasks.
type TaskActivityRepository interface {
	Append(ctx context.Context, activity *models.TaskActivity) error
	ListByTask(ctx context.Context, taskID string) ([]models.TaskActivity, error)
}

type taskActivityRepository struct {
	db *DB
}

func NewTaskActivityRepository(db *DB) TaskActivityRepository {
	return &taskActivityRepository{db: db}
}

func (r *taskActivityRepository) Append(ctx context.Context, activity *models.TaskActivity) error {
	if activity.ID == "" {
		activity.ID = uuid.NewString()
	}
	// jsonb takes the text form; a nil payload is stored as NULL
	var payload any
	if len(activity.Payload) > 0 {
		payload = string(activity.Payload)
	}
	query := `INSERT INTO task_activities (task_activity_id, task_id, action, changed_by_user_id, payload, created)
		VALUES (` + r.db.Dialect.Placeholders(1, 6) + `)`
	_, err := r.db.ExecContext(ctx, query,
		activity.ID, activity.TaskID, string(activity.Action), activity.ChangedByUserID, payload, activity.Created)
	if err != nil {
		return fmt.Errorf("insert task activity: %w", mapError(err))
	}
	return nil
}

// ListByTask returns the history of one task, oldest first.
func (r *taskActivityRepository) ListByTask(ctx context.Context, taskID string) ([]models.TaskActivity, error) {
	query := `SELECT task_activity_id, task_id, action, changed_by_user_id, CAST(payload AS TEXT), created
		FROM task_activities WHERE task_id = ` + r.db.ph(1) + ` ORDER BY created ASC`
	rows, err := r.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("list task activities: %w", err)
	}
	defer rows.Close()

	activities := []models.TaskActivity{}
	for rows.Next() {
		var (
			a       models.TaskActivity
			action  string
			payload []byte
		)
		if err := rows.Scan(&a.ID, &a.TaskID, &action, &a.ChangedByUserID, &payload, &a.Created); err != nil {
			return nil, fmt.Errorf("scan task activity: %w", err)
		}
		a.Action = models.TaskAction(action)
		if len(payload) > 0 {
			a.Payload = payload
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

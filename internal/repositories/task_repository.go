package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"goodsgo/internal/models"
)

type TaskRepository interface {
	Store(ctx context.Context, task *models.Task) error
	// FindByID returns the task even when it is soft-deleted.
	FindByID(ctx context.Context, id string) (*models.Task, error)
	// FindActive returns non-deleted tasks matching every set filter, newest first.
	FindActive(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
}

type taskRepository struct {
	db *DB
}

func NewTaskRepository(db *DB) TaskRepository {
	return &taskRepository{db: db}
}

// time-of-day columns are read as text; lib/pq would decode them into time.Time
const taskColumns = `task_id, event_day_type, current_status, item_id, quantity,
       from_location_id, to_location_id,
       CAST(scheduled_start_time AS TEXT), CAST(scheduled_end_time AS TEXT),
       CAST(actual_start_time AS TEXT), CAST(actual_end_time AS TEXT),
       leader_user_id, note, created_user_id, created, modified, deleted`

func scanTask(row rowScanner) (models.Task, error) {
	var (
		t           models.Task
		actualStart sql.NullString
		actualEnd   sql.NullString
		leaderID    sql.NullString
		note        sql.NullString
		deleted     sql.NullTime
	)
	err := row.Scan(
		&t.ID, &t.EventDayType, &t.CurrentStatus, &t.ItemID, &t.Quantity,
		&t.FromLocationID, &t.ToLocationID, &t.ScheduledStartTime, &t.ScheduledEndTime,
		&actualStart, &actualEnd, &leaderID, &note, &t.CreatedUserID,
		&t.Created, &t.Modified, &deleted,
	)
	if err != nil {
		return t, err
	}
	t.ActualStartTime = nullString(actualStart)
	t.ActualEndTime = nullString(actualEnd)
	t.LeaderUserID = nullString(leaderID)
	t.Note = nullString(note)
	if deleted.Valid {
		d := deleted.Time
		t.Deleted = &d
	}
	return t, nil
}

func (r *taskRepository) Store(ctx context.Context, task *models.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	query := fmt.Sprintf(`
		INSERT INTO tasks (
			task_id, event_day_type, current_status, item_id, quantity,
			from_location_id, to_location_id, scheduled_start_time, scheduled_end_time,
			actual_start_time, actual_end_time, leader_user_id, note, created_user_id,
			created, modified
		)
		VALUES (%s)`, r.db.Dialect.Placeholders(1, 16))
	_, err := r.db.ExecContext(ctx, query,
		task.ID, task.EventDayType, task.CurrentStatus, task.ItemID, task.Quantity,
		task.FromLocationID, task.ToLocationID, task.ScheduledStartTime, task.ScheduledEndTime,
		task.ActualStartTime, task.ActualEndTime, task.LeaderUserID, task.Note, task.CreatedUserID,
		task.Created, task.Modified,
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", mapError(err))
	}
	return nil
}

func (r *taskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE task_id = ` + r.db.ph(1)
	task, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("find task %s: %w", id, mapLookupError(err))
	}
	return &task, nil
}

func (r *taskRepository) FindActive(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	baseQuery := `SELECT ` + taskColumns + ` FROM tasks`

	conditions := []string{"deleted IS NULL"}
	args := []any{}
	argID := 1

	add := func(column string, value any) {
		conditions = append(conditions, fmt.Sprintf("%s = %s", column, r.db.ph(argID)))
		args = append(args, value)
		argID++
	}
	if filter.EventDayType != nil {
		add("event_day_type", *filter.EventDayType)
	}
	if filter.Status != nil {
		add("current_status", *filter.Status)
	}
	if filter.ItemID != nil {
		add("item_id", *filter.ItemID)
	}
	if filter.LeaderUserID != nil {
		add("leader_user_id", *filter.LeaderUserID)
	}
	if filter.FromLocationID != nil {
		add("from_location_id", *filter.FromLocationID)
	}
	if filter.ToLocationID != nil {
		add("to_location_id", *filter.ToLocationID)
	}

	baseQuery += " WHERE " + strings.Join(conditions, " AND ")
	baseQuery += " ORDER BY created DESC"

	rows, err := r.db.QueryContext(ctx, baseQuery, args...)
	if err != nil {
		if errors.Is(mapLookupError(err), ErrNotFound) {
			// an id filter that is not a uuid matches nothing
			return []models.Task{}, nil
		}
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Update replaces the mutable fields of a non-deleted task.
func (r *taskRepository) Update(ctx context.Context, task *models.Task) error {
	query := fmt.Sprintf(`
		UPDATE tasks SET
			event_day_type=%s, item_id=%s, quantity=%s, from_location_id=%s,
			to_location_id=%s, scheduled_start_time=%s, scheduled_end_time=%s,
			leader_user_id=%s, current_status=%s, note=%s, modified=%s
		WHERE task_id=%s AND deleted IS NULL`,
		r.db.ph(1), r.db.ph(2), r.db.ph(3), r.db.ph(4),
		r.db.ph(5), r.db.ph(6), r.db.ph(7),
		r.db.ph(8), r.db.ph(9), r.db.ph(10), r.db.ph(11),
		r.db.ph(12),
	)
	res, err := r.db.ExecContext(ctx, query,
		task.EventDayType, task.ItemID, task.Quantity, task.FromLocationID,
		task.ToLocationID, task.ScheduledStartTime, task.ScheduledEndTime,
		task.LeaderUserID, task.CurrentStatus, task.Note, task.Modified,
		task.ID,
	)
	if err != nil {
		return fmt.Errorf("update task %s: %w", task.ID, mapLookupError(err))
	}
	return requireAffected(res, "update task "+task.ID)
}

// SoftDelete stamps the deletion time of a non-deleted task.
func (r *taskRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	query := fmt.Sprintf(`UPDATE tasks SET deleted=%s, modified=%s WHERE task_id=%s AND deleted IS NULL`,
		r.db.ph(1), r.db.ph(1), r.db.ph(2))
	res, err := r.db.ExecContext(ctx, query, at, id)
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, mapLookupError(err))
	}
	return requireAffected(res, "delete task "+id)
}

func requireAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

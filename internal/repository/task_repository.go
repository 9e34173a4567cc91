package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/task-tracker/internal/model"
)

// TaskRepo persists rows of the 'tasks' table.  Every query is scoped by
// the owning user's id, which is how per-user isolation is enforced: a task
// belonging to another user simply never matches.
type TaskRepo struct{ DB *sql.DB }

func NewTaskRepo(db *sql.DB) *TaskRepo { return &TaskRepo{DB: db} }

const taskColumns = "id,user_id,title,description,due_date,priority,status,created_at,updated_at"

// TaskDraft carries the fields accepted at task creation.  Priority and
// Status may be empty, in which case the defaults (Medium, Pending) apply.
type TaskDraft struct {
	Title       string
	Description string
	DueDate     model.Date
	Priority    model.Priority
	Status      model.Status
}

// TaskPatch carries a partial update.  Only non-nil fields are applied; a
// nil pointer means "leave the current value alone", which is distinct from
// an explicitly provided zero value (a present empty Description clears it).
type TaskPatch struct {
	Title       *string
	Description *string
	DueDate     *model.Date
	Priority    *model.Priority
	Status      *model.Status
}

// Create validates the draft and inserts a task owned by ownerID.  The due
// date must lie in [today, today+365]; both endpoints are valid.  A title
// collision within the owner's task set returns ErrTitleExists (pre-checked
// for a clean error, with the uq_tasks_owner_title unique key as the
// authoritative guard).
func (r *TaskRepo) Create(ctx context.Context, ownerID uint64, d TaskDraft) (model.Task, error) {
	d.Title = strings.TrimSpace(d.Title)
	if err := model.ValidateTitle(d.Title); err != nil {
		return model.Task{}, err
	}
	if err := model.ValidateDescription(d.Description); err != nil {
		return model.Task{}, err
	}
	if err := model.ValidateDueDate(d.DueDate); err != nil {
		return model.Task{}, err
	}
	if d.Priority == "" {
		d.Priority = model.PriorityMedium
	}
	if d.Status == "" {
		d.Status = model.StatusPending
	}

	var exists int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM tasks WHERE user_id=? AND title=? LIMIT 1", ownerID, d.Title).Scan(&exists)
	if err == nil {
		return model.Task{}, ErrTitleExists
	}
	if err != sql.ErrNoRows {
		return model.Task{}, err
	}

	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO tasks (user_id, title, description, due_date, priority, status) VALUES (?,?,?,?,?,?)",
		ownerID, d.Title, d.Description, d.DueDate, string(d.Priority), string(d.Status))
	if err != nil {
		if isDuplicate(err, "uq_tasks_owner_title") {
			return model.Task{}, ErrTitleExists
		}
		return model.Task{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Task{}, err
	}
	return r.GetByID(ctx, uint64(id), ownerID)
}

// GetByID fetches a task by id for the given owner.  Tasks owned by other
// users yield ErrNotFound, indistinguishable from absence.
func (r *TaskRepo) GetByID(ctx context.Context, id, ownerID uint64) (model.Task, error) {
	var t model.Task
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE id=? AND user_id=? LIMIT 1", id, ownerID).
		Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.DueDate,
			&t.Priority, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Task{}, ErrNotFound
	}
	return t, err
}

// Update applies a partial patch to the owner's task.  Unsupplied fields
// keep their prior values.  A supplied due date is only checked against the
// past-date rule; the creation-time forward bound is intentionally not
// re-applied here.  updated_at is always refreshed, whether or not any
// other column changed.  Concurrent updates to the same task are not
// serialized; the last write wins.
func (r *TaskRepo) Update(ctx context.Context, id, ownerID uint64, p TaskPatch) (model.Task, error) {
	sets, args, err := buildPatch(p)
	if err != nil {
		return model.Task{}, err
	}

	// Confirm the task exists for this owner before updating so a miss is
	// reported as not-found rather than a silent zero-row update.
	if _, err := r.GetByID(ctx, id, ownerID); err != nil {
		return model.Task{}, err
	}

	if p.Title != nil {
		var other uint64
		err := r.DB.QueryRowContext(ctx,
			"SELECT id FROM tasks WHERE user_id=? AND title=? AND id<>? LIMIT 1",
			ownerID, *p.Title, id).Scan(&other)
		if err == nil {
			return model.Task{}, ErrTitleExists
		}
		if err != sql.ErrNoRows {
			return model.Task{}, err
		}
	}

	args = append(args, id, ownerID)
	_, err = r.DB.ExecContext(ctx,
		"UPDATE tasks SET "+strings.Join(sets, ", ")+" WHERE id=? AND user_id=?", args...)
	if err != nil {
		if isDuplicate(err, "uq_tasks_owner_title") {
			return model.Task{}, ErrTitleExists
		}
		return model.Task{}, err
	}
	return r.GetByID(ctx, id, ownerID)
}

// buildPatch validates the supplied fields and assembles the SET clause.
// updated_at is refreshed unconditionally.
func buildPatch(p TaskPatch) ([]string, []any, error) {
	sets := []string{}
	args := []any{}
	if p.Title != nil {
		*p.Title = strings.TrimSpace(*p.Title)
		if err := model.ValidateTitle(*p.Title); err != nil {
			return nil, nil, err
		}
		sets = append(sets, "title=?")
		args = append(args, *p.Title)
	}
	if p.Description != nil {
		if err := model.ValidateDescription(*p.Description); err != nil {
			return nil, nil, err
		}
		sets = append(sets, "description=?")
		args = append(args, *p.Description)
	}
	if p.DueDate != nil {
		if err := model.ValidateDueDateUpdate(*p.DueDate); err != nil {
			return nil, nil, err
		}
		sets = append(sets, "due_date=?")
		args = append(args, *p.DueDate)
	}
	if p.Priority != nil {
		sets = append(sets, "priority=?")
		args = append(args, string(*p.Priority))
	}
	if p.Status != nil {
		sets = append(sets, "status=?")
		args = append(args, string(*p.Status))
	}
	sets = append(sets, "updated_at=NOW(6)")
	return sets, args, nil
}

// Delete removes the owner's task immediately.  No tombstone is kept.
func (r *TaskRepo) Delete(ctx context.Context, id, ownerID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM tasks WHERE id=? AND user_id=?", id, ownerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

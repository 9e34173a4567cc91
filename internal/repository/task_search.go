package repository

import (
	"context"
	"strings"

	"github.com/iliyamo/task-tracker/internal/model"
)

// Pagination bounds for task listing.
const (
	defaultPageLimit = 100
	maxPageLimit     = 100
)

// TaskSearchQuery defines filters & pagination for listing a user's tasks.
// Each filter is optional; present filters are AND-combined on top of the
// owner predicate.  Title and description match by substring,
// case-insensitively (LOWER ... LIKE).  DueDate, Status and Priority match
// exactly.  Skip/Limit paginate over a stable id ASC ordering so repeated
// calls with increasing Skip never skip or duplicate a row absent
// concurrent writes.
type TaskSearchQuery struct {
	Title       string
	Description string
	DueDate     *model.Date
	Status      *model.Status
	Priority    *model.Priority
	Skip        int
	Limit       int
}

// buildFilter assembles the WHERE fragments and bind arguments for q on top
// of the mandatory owner predicate.  Values travel exclusively through bind
// parameters; the SQL text only ever contains fixed column expressions.
func buildFilter(ownerID uint64, q TaskSearchQuery) ([]string, []any) {
	where := []string{"user_id=?"}
	args := []any{ownerID}

	if q.Title != "" {
		where = append(where, "LOWER(title) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Title)+"%")
	}
	if q.Description != "" {
		where = append(where, "LOWER(description) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Description)+"%")
	}
	if q.DueDate != nil {
		where = append(where, "due_date=?")
		args = append(args, *q.DueDate)
	}
	if q.Status != nil {
		where = append(where, "status=?")
		args = append(args, string(*q.Status))
	}
	if q.Priority != nil {
		where = append(where, "priority=?")
		args = append(args, string(*q.Priority))
	}
	return where, args
}

// clampPage normalizes skip/limit: negative skip becomes 0, a missing or
// out-of-range limit becomes the default (100).
func clampPage(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > maxPageLimit {
		limit = defaultPageLimit
	}
	return skip, limit
}

// Search returns one page of the owner's tasks matching q plus the total
// match count across all pages.
func (r *TaskRepo) Search(ctx context.Context, ownerID uint64, q TaskSearchQuery) ([]model.Task, int64, error) {
	where, args := buildFilter(ownerID, q)
	cond := strings.Join(where, " AND ")

	var total int64
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM tasks WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	skip, limit := clampPage(q.Skip, q.Limit)
	argsData := append(append([]any{}, args...), limit, skip)

	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE "+cond+" ORDER BY id ASC LIMIT ? OFFSET ?",
		argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.Task, 0, limit)
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.DueDate,
			&t.Priority, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/task-tracker/internal/middleware"
	"github.com/iliyamo/task-tracker/internal/model"
	"github.com/iliyamo/task-tracker/internal/queue"
	"github.com/iliyamo/task-tracker/internal/repository"
	"github.com/iliyamo/task-tracker/internal/service"
)

// TaskHandler bundles dependencies for the task endpoints.  Every handler
// here runs behind the authentication gate and scopes all storage access by
// the resolved caller's id.
type TaskHandler struct {
	Tasks *repository.TaskRepo
}

func NewTaskHandler(t *repository.TaskRepo) *TaskHandler {
	return &TaskHandler{Tasks: t}
}

// ----- DTOs -----

type taskCreateReq struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     model.Date `json:"due_date"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
}

// taskUpdateReq uses pointers so that an absent field can be told apart
// from an explicitly supplied zero value.  A present empty description
// clears the stored one.
type taskUpdateReq struct {
	Title       *string     `json:"title"`
	Description *string     `json:"description"`
	DueDate     *model.Date `json:"due_date"`
	Priority    *string     `json:"priority"`
	Status      *string     `json:"status"`
}

type taskResp struct {
	ID          uint64         `json:"id"`
	UserID      uint64         `json:"user_id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	DueDate     model.Date     `json:"due_date"`
	Priority    model.Priority `json:"priority"`
	Status      model.Status   `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func toTaskResp(t model.Task) taskResp {
	return taskResp{
		ID:          t.ID,
		UserID:      t.OwnerID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Priority:    t.Priority,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// toDraft converts the create payload, applying enum parsing and defaults.
func toDraft(req taskCreateReq) (repository.TaskDraft, error) {
	d := repository.TaskDraft{Title: req.Title, Description: req.Description, DueDate: req.DueDate}
	if req.DueDate.IsZero() {
		return d, &model.ValidationError{Field: "due_date", Reason: "required"}
	}
	if req.Priority != "" {
		p, err := model.ParsePriority(req.Priority)
		if err != nil {
			return d, err
		}
		d.Priority = p
	}
	if req.Status != "" {
		s, err := model.ParseStatus(req.Status)
		if err != nil {
			return d, err
		}
		d.Status = s
	}
	return d, nil
}

// toPatch converts the update payload into a repository patch, parsing the
// enum fields and carrying the present/absent markers through.
func toPatch(req taskUpdateReq) (repository.TaskPatch, error) {
	p := repository.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	if req.Priority != nil {
		prio, err := model.ParsePriority(*req.Priority)
		if err != nil {
			return p, err
		}
		p.Priority = &prio
	}
	if req.Status != nil {
		status, err := model.ParseStatus(*req.Status)
		if err != nil {
			return p, err
		}
		p.Status = &status
	}
	return p, nil
}

// parseSearchQuery reads the optional list filters from query parameters.
func parseSearchQuery(c echo.Context) (repository.TaskSearchQuery, error) {
	q := repository.TaskSearchQuery{
		Title:       c.QueryParam("title"),
		Description: c.QueryParam("description"),
	}
	if v := c.QueryParam("skip"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return q, &model.ValidationError{Field: "skip", Reason: "must be an integer"}
		}
		q.Skip = n
	}
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return q, &model.ValidationError{Field: "limit", Reason: "must be an integer"}
		}
		q.Limit = n
	}
	if v := c.QueryParam("due_date"); v != "" {
		d, err := model.ParseDate(v)
		if err != nil {
			return q, err
		}
		q.DueDate = &d
	}
	if v := c.QueryParam("status"); v != "" {
		s, err := model.ParseStatus(v)
		if err != nil {
			return q, err
		}
		q.Status = &s
	}
	if v := c.QueryParam("priority"); v != "" {
		p, err := model.ParsePriority(v)
		if err != nil {
			return q, err
		}
		q.Priority = &p
	}
	return q, nil
}

func taskID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, &model.ValidationError{Field: "id", Reason: "must be a positive integer"}
	}
	return id, nil
}

// Create inserts a new task owned by the caller.
func (h *TaskHandler) Create(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return invalidCredentials(c)
	}
	var req taskCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	draft, err := toDraft(req)
	if err != nil {
		return writeError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Tasks.Create(ctx, u.ID, draft)
	if err != nil {
		return writeError(c, err)
	}
	service.PublishActivity(queue.ActivityEvent{
		Action:   queue.ActionTaskCreated,
		Username: u.Username,
		TaskID:   t.ID,
		Title:    t.Title,
		At:       time.Now().UTC(),
	})
	return c.JSON(http.StatusCreated, toTaskResp(t))
}

// List returns one page of the caller's tasks matching the optional
// filters.  The total match count travels in the X-Total-Count header.
func (h *TaskHandler) List(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return invalidCredentials(c)
	}
	q, err := parseSearchQuery(c)
	if err != nil {
		return writeError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tasks, total, err := h.Tasks.Search(ctx, u.ID, q)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]taskResp, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResp(t))
	}
	c.Response().Header().Set("X-Total-Count", strconv.FormatInt(total, 10))
	return c.JSON(http.StatusOK, out)
}

// Get returns a single task by id.
func (h *TaskHandler) Get(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return invalidCredentials(c)
	}
	id, err := taskID(c)
	if err != nil {
		return writeError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Tasks.GetByID(ctx, id, u.ID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toTaskResp(t))
}

// Update applies a partial update to the caller's task.  Only the supplied
// fields change; updated_at is refreshed either way.
func (h *TaskHandler) Update(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return invalidCredentials(c)
	}
	id, err := taskID(c)
	if err != nil {
		return writeError(c, err)
	}
	var req taskUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	patch, err := toPatch(req)
	if err != nil {
		return writeError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Tasks.Update(ctx, id, u.ID, patch)
	if err != nil {
		return writeError(c, err)
	}
	if patch.Status != nil && *patch.Status == model.StatusCompleted {
		service.PublishActivity(queue.ActivityEvent{
			Action:   queue.ActionTaskCompleted,
			Username: u.Username,
			TaskID:   t.ID,
			Title:    t.Title,
			At:       time.Now().UTC(),
		})
	}
	return c.JSON(http.StatusOK, toTaskResp(t))
}

// Delete removes the caller's task.  Success is an empty 204.
func (h *TaskHandler) Delete(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return invalidCredentials(c)
	}
	id, err := taskID(c)
	if err != nil {
		return writeError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tasks.Delete(ctx, id, u.ID); err != nil {
		return writeError(c, err)
	}
	service.PublishActivity(queue.ActivityEvent{
		Action:   queue.ActionTaskDeleted,
		Username: u.Username,
		TaskID:   id,
		At:       time.Now().UTC(),
	})
	return c.NoContent(http.StatusNoContent)
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/atlas/errors"
	taskDTO "github.com/johnquangdev/atlas/internal/adapter/dto/task"
	"github.com/johnquangdev/atlas/internal/adapter/presenter"
	"github.com/johnquangdev/atlas/internal/domain/entities"
	"github.com/johnquangdev/atlas/internal/domain/repositories"
	"github.com/johnquangdev/atlas/internal/usecase/task"
)

// Task handles task HTTP requests
type Task struct {
	taskService *task.Service
	logger      *zap.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService *task.Service, logger *zap.Logger) *Task {
	return &Task{
		taskService: taskService,
		logger:      logger,
	}
}

// List handles GET /tasks
// @Summary      List tasks
// @Tags         Tasks
// @Produce      json
// @Security     BearerAuth
// @Param        status      query     string  false  "todo, in_progress or done"
// @Param        priority    query     string  false  "low, medium or high"
// @Param        meeting_id  query     string  false  "Source meeting"
// @Param        open        query     bool    false  "Exclude done tasks"
// @Param        page        query     int     false  "Page"
// @Param        page_size   query     int     false  "Page size"
// @Success      200         {object}  common.ListResponse
// @Failure      400         {object}  map[string]interface{}  "Invalid filter"
// @Router       /tasks [get]
func (h *Task) List(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	page, pageSize, err := pagination(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	filters := repositories.TaskFilters{Limit: pageSize, Offset: offset(page, pageSize)}
	if raw := c.QueryParam("status"); raw != "" {
		status := entities.TaskStatus(raw)
		filters.Status = &status
	}
	if raw := c.QueryParam("priority"); raw != "" {
		priority := entities.TaskPriority(raw)
		filters.Priority = &priority
	}
	if raw := c.QueryParam("meeting_id"); raw != "" {
		meetingID, err := uuid.Parse(raw)
		if err != nil {
			return HandleError(h.logger, c, errors.ErrInvalidArgument("meeting_id must be a valid UUID"))
		}
		filters.MeetingID = &meetingID
	}
	if raw := c.QueryParam("open"); raw != "" {
		open, err := strconv.ParseBool(raw)
		if err != nil {
			return HandleError(h.logger, c, errors.ErrInvalidArgument("open must be true or false"))
		}
		filters.OpenOnly = open
	}

	tasks, total, err := h.taskService.List(c.Request().Context(), userID, filters)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, newListResponse(presenter.ToTaskResponses(tasks), total, page, pageSize))
}

// Create handles POST /tasks
// @Summary      Create a task
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      taskDTO.CreateTaskRequest  true  "Task"
// @Success      201      {object}  taskDTO.TaskResponse
// @Failure      400      {object}  map[string]interface{}  "Invalid request"
// @Router       /tasks [post]
func (h *Task) Create(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req taskDTO.CreateTaskRequest
	if err := bindJSON(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	if err := validate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	input := task.CreateTaskInput{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Status:      entities.TaskStatus(req.Status),
		Priority:    entities.TaskPriority(req.Priority),
		DueDate:     req.DueDate,
	}
	if req.MeetingID != nil {
		meetingID, err := uuid.Parse(*req.MeetingID)
		if err != nil {
			return HandleError(h.logger, c, errors.ErrInvalidArgument("meeting_id must be a valid UUID"))
		}
		input.MeetingID = &meetingID
	}

	t, err := h.taskService.Create(c.Request().Context(), input)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccessStatus(h.logger, c, http.StatusCreated, presenter.ToTaskResponse(t))
}

// Get handles GET /tasks/:id
// @Summary      Get a task
// @Tags         Tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task ID (UUID)"
// @Success      200  {object}  taskDTO.TaskResponse
// @Failure      404  {object}  map[string]interface{}  "Task not found"
// @Router       /tasks/{id} [get]
func (h *Task) Get(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := pathID(c, "Task")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	t, err := h.taskService.Get(c.Request().Context(), userID, id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToTaskResponse(t))
}

// Update handles PATCH /tasks/:id
// @Summary      Update a task
// @Description  Partial update. The source meeting's action items are not changed.
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                     true  "Task ID (UUID)"
// @Param        request  body      taskDTO.UpdateTaskRequest  true  "Fields to change"
// @Success      200      {object}  taskDTO.TaskResponse
// @Failure      400      {object}  map[string]interface{}  "Invalid request"
// @Failure      404      {object}  map[string]interface{}  "Task not found"
// @Router       /tasks/{id} [patch]
func (h *Task) Update(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := pathID(c, "Task")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req taskDTO.UpdateTaskRequest
	if err := bindJSON(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	if err := validate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	input := task.UpdateTaskInput{
		UserID:      userID,
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	if req.Status != nil {
		status := entities.TaskStatus(*req.Status)
		input.Status = &status
	}
	if req.Priority != nil {
		priority := entities.TaskPriority(*req.Priority)
		input.Priority = &priority
	}

	t, err := h.taskService.Update(c.Request().Context(), input)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToTaskResponse(t))
}

// Delete handles DELETE /tasks/:id
// @Summary      Delete a task
// @Tags         Tasks
// @Security     BearerAuth
// @Param        id   path  string  true  "Task ID (UUID)"
// @Success      204
// @Failure      404  {object}  map[string]interface{}  "Task not found"
// @Router       /tasks/{id} [delete]
func (h *Task) Delete(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := pathID(c, "Task")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if err := h.taskService.Delete(c.Request().Context(), userID, id); err != nil {
		return HandleError(h.logger, c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

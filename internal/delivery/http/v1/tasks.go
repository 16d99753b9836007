package v1

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/smart-task/internal/models"
	"github.com/adanyl0v/smart-task/internal/services"
)

// flexBool accepts true/false, 1/0 and "yes"/"no" or "true"/"false"
// in any letter case.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	raw := strings.ToLower(strings.Trim(strings.TrimSpace(string(data)), `"`))
	switch raw {
	case "null":
	case "true", "1", "yes":
		*b = true
	case "false", "0", "no":
		*b = false
	default:
		return fmt.Errorf("invalid boolean: %s", data)
	}
	return nil
}

type getTaskResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    string    `json:"priority"`
	DueDate     string    `json:"dueDate"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func newGetTaskResponse(task *models.Task) getTaskResponse {
	return getTaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Priority:    string(task.Priority),
		DueDate:     task.DueDate.Format(time.DateOnly),
		Completed:   task.Completed,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

type createTaskRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description" binding:"max=2000"`
	Priority    string   `json:"priority"`
	DueDate     string   `json:"dueDate"`
	Completed   flexBool `json:"completed"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		abort(c, newUnauthorizedError(msgNotAuthorized))
		return
	}

	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Debug().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(msgInvalidRequestBody))
		return
	}

	task, err := h.tasks.CreateTask(c.Request.Context(), services.CreateTaskParams{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		Completed:   bool(req.Completed),
	})
	if err != nil {
		h.abortWithServiceError(c, err, "failed to create task")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Task created successfully",
		"task":    newGetTaskResponse(task),
	})
}

type getTasksQuery struct {
	Filter string `form:"filter"`
	Status string `form:"status"`
	Sort   string `form:"sort"`
}

func (h *handlerImpl) HandleGetTasks(c *gin.Context) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		abort(c, newUnauthorizedError(msgNotAuthorized))
		return
	}

	var query getTasksQuery
	err := c.ShouldBindQuery(&query)
	if err != nil {
		h.logger.Debug().
			Err(err).
			Msg("failed to bind query")
		abort(c, newBadRequestError("Invalid query parameters"))
		return
	}

	tasks, err := h.tasks.ListTasks(c.Request.Context(), services.ListTasksParams{
		UserID: userID,
		Filter: services.TaskFilter(query.Filter),
		Status: services.TaskStatusFilter(query.Status),
		Sort:   services.TaskSort(query.Sort),
	})
	if err != nil {
		h.abortWithServiceError(c, err, "failed to list tasks")
		return
	}

	response := make([]getTaskResponse, len(tasks))
	for i, task := range tasks {
		response[i] = newGetTaskResponse(task)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"tasks":   response,
	})
}

type getTaskStatsResponse struct {
	Total                int `json:"total"`
	Completed            int `json:"completed"`
	Pending              int `json:"pending"`
	CompletionPercentage int `json:"completionPercentage"`
	LowPriority          int `json:"lowPriority"`
	MediumPriority       int `json:"mediumPriority"`
	HighPriority         int `json:"highPriority"`
}

func (h *handlerImpl) HandleGetTaskStats(c *gin.Context) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		abort(c, newUnauthorizedError(msgNotAuthorized))
		return
	}

	stats, err := h.tasks.GetTaskStats(c.Request.Context(), userID)
	if err != nil {
		h.abortWithServiceError(c, err, "failed to get task stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   getTaskStatsResponse(*stats),
	})
}

func (h *handlerImpl) HandleGetTask(c *gin.Context) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		abort(c, newUnauthorizedError(msgNotAuthorized))
		return
	}

	task, err := h.tasks.GetTask(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.abortWithServiceError(c, err, "failed to get task")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"task":    newGetTaskResponse(task),
	})
}

type updateTaskRequest struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty" binding:"omitempty,max=2000"`
	Priority    *string   `json:"priority,omitempty"`
	DueDate     *string   `json:"dueDate,omitempty"`
	Completed   *flexBool `json:"completed,omitempty"`
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		abort(c, newUnauthorizedError(msgNotAuthorized))
		return
	}

	var req updateTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Debug().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(msgInvalidRequestBody))
		return
	}

	params := services.UpdateTaskParams{
		ID:          c.Param("id"),
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	}
	if req.Completed != nil {
		completed := bool(*req.Completed)
		params.Completed = &completed
	}

	task, err := h.tasks.UpdateTask(c.Request.Context(), params)
	if err != nil {
		h.abortWithServiceError(c, err, "failed to update task")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Task updated successfully",
		"task":    newGetTaskResponse(task),
	})
}

func (h *handlerImpl) HandleToggleTaskCompletion(c *gin.Context) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		abort(c, newUnauthorizedError(msgNotAuthorized))
		return
	}

	task, err := h.tasks.ToggleTaskCompletion(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.abortWithServiceError(c, err, "failed to toggle task completion")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Task status updated",
		"task":    newGetTaskResponse(task),
	})
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		abort(c, newUnauthorizedError(msgNotAuthorized))
		return
	}

	err := h.tasks.DeleteTask(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.abortWithServiceError(c, err, "failed to delete task")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Task deleted successfully",
	})
}

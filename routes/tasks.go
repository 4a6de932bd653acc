package routes

import (
	"errors"
	"net/http"
	"time"

	"tasknest/database"
	"tasknest/models"
	"tasknest/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func RegisterTaskRoutes(group *gin.RouterGroup, db *database.Database, taskService services.TaskServiceInterface) {
	group.GET("/tasks", func(c *gin.Context) { GetTasks(c, db, taskService) })
	group.POST("/tasks", func(c *gin.Context) { CreateTask(c, db, taskService) })
	group.GET("/tasks/:id", func(c *gin.Context) { GetTaskById(c, db, taskService) })
	group.PUT("/tasks/:id", func(c *gin.Context) { UpdateTask(c, db, taskService) })
	group.DELETE("/tasks/:id", func(c *gin.Context) { DeleteTask(c, db, taskService) })
	group.POST("/tasks/:id/toggle", func(c *gin.Context) { ToggleTask(c, db, taskService) })
	group.GET("/dashboard", func(c *gin.Context) { GetDashboard(c, db, taskService) })
}

// currentUserID resolves the authenticated owner from the gin context.
// Every owner-scoped handler goes through it; there is no way to reach a
// task list without it.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return uuid.Nil, false
	}
	return userID, true
}

// renderTaskError maps service errors to responses. Validation errors
// come back as field-attached messages, never as fatal errors.
func renderTaskError(c *gin.Context, err error) {
	var verrs services.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		c.JSON(http.StatusBadRequest, gin.H{"errors": verrs.Fields()})
	case errors.Is(err, services.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	case errors.Is(err, services.ErrTaskCompleted):
		c.JSON(http.StatusConflict, gin.H{"error": "Completed tasks cannot be edited"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

type taskDetailResponse struct {
	models.Task
	IsOverdue bool `json:"is_overdue"`
}

func GetTasks(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	filters := services.TaskFilters{
		Query:    c.Query("q"),
		Filter:   c.DefaultQuery("filter", services.FilterAll),
		Category: c.Query("category"),
	}

	tasks, err := taskService.GetTasks(db, userID, filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func CreateTask(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input services.TaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := taskService.CreateTask(db, userID, input)
	if err != nil {
		renderTaskError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func GetTaskById(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	task, err := taskService.GetTaskById(db, userID, c.Param("id"))
	if err != nil {
		renderTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskDetailResponse{Task: task, IsOverdue: task.Overdue(time.Now())})
}

func UpdateTask(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input services.TaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := taskService.UpdateTask(db, userID, c.Param("id"), input)
	if err != nil {
		renderTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func DeleteTask(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := taskService.DeleteTask(db, userID, c.Param("id")); err != nil {
		renderTaskError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, gin.H{})
}

// ToggleTask flips the completion flag. Ajax-style callers get the bare
// {success, is_completed} payload, everyone else the updated task.
func ToggleTask(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	task, err := taskService.ToggleTask(db, userID, c.Param("id"))
	if err != nil {
		renderTaskError(c, err)
		return
	}

	if c.GetHeader("X-Requested-With") == "XMLHttpRequest" {
		c.JSON(http.StatusOK, gin.H{"success": true, "is_completed": task.IsCompleted})
		return
	}
	c.JSON(http.StatusOK, task)
}

func GetDashboard(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	dashboard, err := taskService.GetDashboard(db, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

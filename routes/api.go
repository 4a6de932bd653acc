package routes

import (
	"net/http"
	"time"

	"tasknest/database"
	"tasknest/models"
	"tasknest/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Read-only serializer shapes for the public list endpoints.

type categoryResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
}

type tagResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type taskResponse struct {
	ID           uuid.UUID         `json:"id"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	DueDate      string            `json:"due_date"`
	DueTime      string            `json:"due_time"`
	ReminderDate *string           `json:"reminder_date"`
	ReminderTime *string           `json:"reminder_time"`
	Priority     string            `json:"priority"`
	IsCompleted  bool              `json:"is_completed"`
	CreatedDate  time.Time         `json:"created_date"`
	Category     *categoryResponse `json:"category"`
	Tags         []tagResponse     `json:"tags"`
}

func newTaskResponse(task models.Task) taskResponse {
	response := taskResponse{
		ID:           task.ID,
		Title:        task.Title,
		Description:  task.Description,
		DueDate:      task.DueDate,
		DueTime:      task.DueTime,
		ReminderDate: task.ReminderDate,
		ReminderTime: task.ReminderTime,
		Priority:     task.Priority,
		IsCompleted:  task.IsCompleted,
		CreatedDate:  task.CreatedAt,
		Tags:         make([]tagResponse, 0, len(task.Tags)),
	}
	if task.Category != nil {
		response.Category = &categoryResponse{
			ID:    task.Category.ID,
			Name:  task.Category.Name,
			Color: task.Category.Color,
		}
	}
	for _, tag := range task.Tags {
		response.Tags = append(response.Tags, tagResponse{ID: tag.ID, Name: tag.Name})
	}
	return response
}

// RegisterReadAPIRoutes exposes the two read-only list endpoints. The
// group must already carry the auth middleware.
func RegisterReadAPIRoutes(group *gin.RouterGroup, db *database.Database, taskService services.TaskServiceInterface, categoryService services.CategoryServiceInterface) {
	group.GET("/tasks/", func(c *gin.Context) { ListTasksAPI(c, db, taskService) })
	group.GET("/categories/", func(c *gin.Context) { ListCategoriesAPI(c, db, categoryService) })
}

func ListTasksAPI(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	tasks, err := taskService.GetTasks(db, userID, services.TaskFilters{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]taskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, newTaskResponse(task))
	}
	c.JSON(http.StatusOK, responses)
}

func ListCategoriesAPI(c *gin.Context, db *database.Database, categoryService services.CategoryServiceInterface) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	categories, err := categoryService.GetCategories(db, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]categoryResponse, 0, len(categories))
	for _, category := range categories {
		responses = append(responses, categoryResponse{ID: category.ID, Name: category.Name, Color: category.Color})
	}
	c.JSON(http.StatusOK, responses)
}

package services

import (
	"errors"
	"strings"
	"time"

	"tasknest/database"
	"tasknest/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Quick-filter selectors for the task list.
const (
	FilterAll       = "all"
	FilterActive    = "active"
	FilterCompleted = "completed"
	FilterToday     = "today"
	FilterWeek      = "week"
	FilterOverdue   = "overdue"
)

// TaskInput is a task form submission. Dates are "2006-01-02" strings,
// times of day "15:04".
type TaskInput struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	CategoryID   string   `json:"category_id"`
	TagIDs       []string `json:"tag_ids"`
	NewTag       string   `json:"new_tag"`
	DueDate      string   `json:"due_date"`
	DueTime      string   `json:"due_time"`
	ReminderDate string   `json:"reminder_date"`
	ReminderTime string   `json:"reminder_time"`
	Priority     string   `json:"priority"`
}

// TaskFilters narrows the owner's task list. Unknown filter values and
// malformed category ids are ignored rather than failing the request.
type TaskFilters struct {
	Query    string
	Filter   string
	Category string
}

// Dashboard is the landing-page data set: the next few open tasks plus
// tasks whose reminder date has arrived.
type Dashboard struct {
	Tasks     []models.Task `json:"tasks"`
	Reminders []models.Task `json:"reminders"`
}

type TaskServiceInterface interface {
	GetTasks(db *database.Database, userID uuid.UUID, filters TaskFilters) ([]models.Task, error)
	GetTaskById(db *database.Database, userID uuid.UUID, id string) (models.Task, error)
	CreateTask(db *database.Database, userID uuid.UUID, input TaskInput) (models.Task, error)
	UpdateTask(db *database.Database, userID uuid.UUID, id string, input TaskInput) (models.Task, error)
	DeleteTask(db *database.Database, userID uuid.UUID, id string) error
	ToggleTask(db *database.Database, userID uuid.UUID, id string) (models.Task, error)
	GetDashboard(db *database.Database, userID uuid.UUID) (Dashboard, error)
}

type TaskService struct{}

func (s *TaskService) GetTasks(db *database.Database, userID uuid.UUID, filters TaskFilters) ([]models.Task, error) {
	now := time.Now()
	today := now.Format(models.DateLayout)

	query := db.DB.Model(&models.Task{}).Where("tasks.user_id = ?", userID)

	if q := strings.TrimSpace(filters.Query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.
			Joins("LEFT JOIN categories ON categories.id = tasks.category_id").
			Joins("LEFT JOIN task_tags ON task_tags.task_id = tasks.id").
			Joins("LEFT JOIN tags ON tags.id = task_tags.tag_id").
			Where("LOWER(tasks.title) LIKE ? OR LOWER(tasks.description) LIKE ? OR LOWER(tags.name) LIKE ? OR LOWER(categories.name) LIKE ?",
				like, like, like, like).
			Distinct("tasks.*")
	}

	switch filters.Filter {
	case FilterActive:
		query = query.Where("tasks.is_completed = ?", false)
	case FilterCompleted:
		query = query.Where("tasks.is_completed = ?", true)
	case FilterToday:
		query = query.Where("tasks.due_date = ?", today)
	case FilterWeek:
		weekEnd := now.AddDate(0, 0, 7).Format(models.DateLayout)
		query = query.Where("tasks.due_date >= ? AND tasks.due_date <= ?", today, weekEnd)
	case FilterOverdue:
		query = query.Where("tasks.is_completed = ? AND (tasks.due_date < ? OR (tasks.due_date = ? AND tasks.due_time <= ?))",
			false, today, today, now.Format(models.TimeLayout))
	}

	if raw := strings.TrimSpace(filters.Category); raw != "" {
		if categoryID, err := uuid.Parse(raw); err == nil {
			query = query.Where("tasks.category_id = ?", categoryID)
		}
	}

	var tasks []models.Task
	err := query.Preload("Category").Preload("Tags").
		Order("tasks.is_completed, tasks.due_date, tasks.due_time").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *TaskService) GetTaskById(db *database.Database, userID uuid.UUID, id string) (models.Task, error) {
	taskID, err := uuid.Parse(id)
	if err != nil {
		return models.Task{}, ErrTaskNotFound
	}
	var task models.Task
	err = db.DB.Preload("Category").Preload("Tags").
		First(&task, "id = ? AND user_id = ?", taskID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, ErrTaskNotFound
		}
		return models.Task{}, err
	}
	return task, nil
}

func (s *TaskService) CreateTask(db *database.Database, userID uuid.UUID, input TaskInput) (models.Task, error) {
	fields, err := validateTaskInput(db, userID, input, nil)
	if err != nil {
		return models.Task{}, err
	}

	task := models.Task{
		ID:           uuid.New(),
		UserID:       userID,
		CategoryID:   fields.CategoryID,
		Tags:         fields.Tags,
		Title:        fields.Title,
		Description:  fields.Description,
		DueDate:      fields.DueDate,
		DueTime:      fields.DueTime,
		ReminderDate: fields.ReminderDate,
		ReminderTime: fields.ReminderTime,
		Priority:     fields.Priority,
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Task{}, tx.Error
	}

	if err := tx.Omit("Tags.*").Create(&task).Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	// The pending new-tag instruction is applied only once the task save
	// itself has succeeded.
	if fields.NewTag != "" {
		tag, err := getOrCreateTag(tx, userID, fields.NewTag)
		if err != nil {
			tx.Rollback()
			return models.Task{}, err
		}
		if err := tx.Model(&task).Association("Tags").Append(&tag); err != nil {
			tx.Rollback()
			return models.Task{}, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	return s.GetTaskById(db, userID, task.ID.String())
}

func (s *TaskService) UpdateTask(db *database.Database, userID uuid.UUID, id string, input TaskInput) (models.Task, error) {
	taskID, err := uuid.Parse(id)
	if err != nil {
		return models.Task{}, ErrTaskNotFound
	}
	var task models.Task
	if err := db.DB.First(&task, "id = ? AND user_id = ?", taskID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, ErrTaskNotFound
		}
		return models.Task{}, err
	}
	if task.IsCompleted {
		return models.Task{}, ErrTaskCompleted
	}

	fields, err := validateTaskInput(db, userID, input, &taskID)
	if err != nil {
		return models.Task{}, err
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Task{}, tx.Error
	}

	updates := map[string]interface{}{
		"title":         fields.Title,
		"description":   fields.Description,
		"category_id":   fields.CategoryID,
		"due_date":      fields.DueDate,
		"due_time":      fields.DueTime,
		"reminder_date": fields.ReminderDate,
		"reminder_time": fields.ReminderTime,
		"priority":      fields.Priority,
	}
	if err := tx.Model(&task).Updates(updates).Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	if len(fields.Tags) > 0 {
		if err := tx.Model(&task).Association("Tags").Replace(&fields.Tags); err != nil {
			tx.Rollback()
			return models.Task{}, err
		}
	} else {
		if err := tx.Model(&task).Association("Tags").Clear(); err != nil {
			tx.Rollback()
			return models.Task{}, err
		}
	}

	if fields.NewTag != "" {
		tag, err := getOrCreateTag(tx, userID, fields.NewTag)
		if err != nil {
			tx.Rollback()
			return models.Task{}, err
		}
		if err := tx.Model(&task).Association("Tags").Append(&tag); err != nil {
			tx.Rollback()
			return models.Task{}, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Task{}, err
	}

	return s.GetTaskById(db, userID, id)
}

func (s *TaskService) DeleteTask(db *database.Database, userID uuid.UUID, id string) error {
	taskID, err := uuid.Parse(id)
	if err != nil {
		return ErrTaskNotFound
	}
	var task models.Task
	if err := db.DB.First(&task, "id = ? AND user_id = ?", taskID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return err
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	if err := tx.Model(&task).Association("Tags").Clear(); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(&task).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

func (s *TaskService) ToggleTask(db *database.Database, userID uuid.UUID, id string) (models.Task, error) {
	taskID, err := uuid.Parse(id)
	if err != nil {
		return models.Task{}, ErrTaskNotFound
	}
	var task models.Task
	if err := db.DB.First(&task, "id = ? AND user_id = ?", taskID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, ErrTaskNotFound
		}
		return models.Task{}, err
	}

	if err := db.DB.Model(&task).Update("is_completed", !task.IsCompleted).Error; err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (s *TaskService) GetDashboard(db *database.Database, userID uuid.UUID) (Dashboard, error) {
	var dashboard Dashboard

	err := db.DB.Preload("Category").Preload("Tags").
		Where("user_id = ? AND is_completed = ?", userID, false).
		Order("due_date, due_time").
		Limit(5).
		Find(&dashboard.Tasks).Error
	if err != nil {
		return Dashboard{}, err
	}

	today := time.Now().Format(models.DateLayout)
	err = db.DB.Preload("Category").Preload("Tags").
		Where("user_id = ? AND is_completed = ? AND reminder_date IS NOT NULL AND reminder_date <= ?", userID, false, today).
		Order("reminder_date, reminder_time").
		Find(&dashboard.Reminders).Error
	if err != nil {
		return Dashboard{}, err
	}

	return dashboard, nil
}

var TaskServiceInstance TaskServiceInterface = &TaskService{}

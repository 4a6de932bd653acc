package services

import (
	"testing"
	"time"

	"tasknest/database"
	"tasknest/models"
	"tasknest/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// insertTask writes a row directly, bypassing validation, so fixtures can
// have past due dates.
func insertTask(t *testing.T, db *database.Database, userID uuid.UUID, title, dueDate, dueTime string, completed bool) models.Task {
	t.Helper()
	task := models.Task{
		ID: uuid.New(), UserID: userID, Title: title,
		DueDate: dueDate, DueTime: dueTime,
		Priority: models.PriorityMedium, IsCompleted: completed,
	}
	if err := db.DB.Create(&task).Error; err != nil {
		t.Fatalf("failed to insert task fixture: %v", err)
	}
	return task
}

func titles(tasks []models.Task) []string {
	names := make([]string, 0, len(tasks))
	for _, task := range tasks {
		names = append(names, task.Title)
	}
	return names
}

func TestCreateTask(t *testing.T) {
	db := testutils.SetupTestDB(t)
	user := testutils.CreateTestUser(t, db, "owner@example.com")
	taskService := &TaskService{}
	categoryService := &CategoryService{}

	category, err := categoryService.CreateCategory(db, user.ID, CategoryInput{Name: "Work"})
	assert.NoError(t, err)

	tomorrow := time.Now().AddDate(0, 0, 1).Format(models.DateLayout)
	task, err := taskService.CreateTask(db, user.ID, TaskInput{
		Title:      "Write report",
		DueDate:    tomorrow,
		CategoryID: category.ID.String(),
		NewTag:     "quarterly",
	})
	assert.NoError(t, err)

	assert.Equal(t, "Write report", task.Title)
	assert.Equal(t, models.DefaultDueTime, task.DueTime)
	assert.Equal(t, models.PriorityMedium, task.Priority)
	assert.False(t, task.IsCompleted)
	if assert.NotNil(t, task.Category) {
		assert.Equal(t, "Work", task.Category.Name)
	}
	// Inline tag is created and attached once the save succeeds.
	assert.Equal(t, []string{"quarterly"}, func() []string {
		names := make([]string, 0, len(task.Tags))
		for _, tag := range task.Tags {
			names = append(names, tag.Name)
		}
		return names
	}())
}

func TestCreateTask_ValidationFailureWritesNothing(t *testing.T) {
	db := testutils.SetupTestDB(t)
	user := testutils.CreateTestUser(t, db, "owner@example.com")
	taskService := &TaskService{}

	yesterday := time.Now().AddDate(0, 0, -1).Format(models.DateLayout)
	_, err := taskService.CreateTask(db, user.ID, TaskInput{Title: "Late", DueDate: yesterday})

	var verrs ValidationErrors
	assert.ErrorAs(t, err, &verrs)

	var count int64
	assert.NoError(t, db.DB.Model(&models.Task{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGetTasks_OwnershipIsolation(t *testing.T) {
	db := testutils.SetupTestDB(t)
	owner := testutils.CreateTestUser(t, db, "owner@example.com")
	other := testutils.CreateTestUser(t, db, "other@example.com")
	taskService := &TaskService{}

	today := time.Now().Format(models.DateLayout)
	insertTask(t, db, owner.ID, "mine", today, "09:00", false)
	insertTask(t, db, other.ID, "theirs", today, "09:00", false)

	tasks, err := taskService.GetTasks(db, owner.ID, TaskFilters{})
	assert.NoError(t, err)
	assert.Equal(t, []string{"mine"}, titles(tasks))
}

func TestGetTasks_QuickFilters(t *testing.T) {
	db := testutils.SetupTestDB(t)
	user := testutils.CreateTestUser(t, db, "owner@example.com")
	taskService := &TaskService{}

	now := time.Now()
	today := now.Format(models.DateLayout)
	yesterday := now.AddDate(0, 0, -1).Format(models.DateLayout)
	inThree := now.AddDate(0, 0, 3).Format(models.DateLayout)
	inEight := now.AddDate(0, 0, 8).Format(models.DateLayout)

	insertTask(t, db, user.ID, "due today", today, "23:59", false)
	insertTask(t, db, user.ID, "due in three days", inThree, "00:00", false)
	insertTask(t, db, user.ID, "due next week", inEight, "00:00", false)
	insertTask(t, db, user.ID, "yesterday overdue", yesterday, "00:00", false)
	insertTask(t, db, user.ID, "yesterday done", yesterday, "00:00", true)

	cases := []struct {
		filter string
		want   []string
	}{
		{FilterActive, []string{"yesterday overdue", "due today", "due in three days", "due next week"}},
		{FilterCompleted, []string{"yesterday done"}},
		{FilterToday, []string{"due today"}},
		{FilterWeek, []string{"due today", "due in three days"}},
		{FilterOverdue, []string{"yesterday overdue"}},
		{FilterAll, []string{"yesterday overdue", "due today", "due in three days", "due next week", "yesterday done"}},
		// Out-of-range filter values degrade to "all".
		{"bogus", []string{"yesterday overdue", "due today", "due in three days", "due next week", "yesterday done"}},
	}
	for _, tc := range cases {
		t.Run(tc.filter, func(t *testing.T) {
			tasks, err := taskService.GetTasks(db, user.ID, TaskFilters{Filter: tc.filter})
			assert.NoError(t, err)
			assert.Equal(t, tc.want, titles(tasks))
		})
	}
}

func TestGetTasks_Ordering(t *testing.T) {
	db := testutils.SetupTestDB(t)
	user := testutils.CreateTestUser(t, db, "owner@example.com")
	taskService := &TaskService{}

	now := time.Now()
	today := now.Format(models.DateLayout)
	tomorrow := now.AddDate(0, 0, 1).Format(models.DateLayout)

	// Completed tasks sort last no matter how early their deadline is.
	insertTask(t, db, user.ID, "done early", today, "01:00", true)
	insertTask(t, db, user.ID, "open later", tomorrow, "09:00", false)
	insertTask(t, db, user.ID, "open sooner", today, "08:00", false)
	insertTask(t, db, user.ID, "open same day", today, "12:00", false)

	tasks, err := taskService.GetTasks(db, user.ID, TaskFilters{})
	assert.NoError(t, err)
	assert.Equal(t, []string{"open sooner", "open same day", "open later", "done early"}, titles(tasks))
}

func TestGetTasks_Search(t *testing.T) {
	db := testutils.SetupTestDB(t)
	user := testutils.CreateTestUser(t, db, "owner@example.com")
	other := testutils.CreateTestUser(t, db, "other@example.com")
	taskService := &TaskService{}
	tagService := &TagService{}
	categoryService := &CategoryService{}

	today := time.Now().Format(models.DateLayout)
	insertTask(t, db, user.ID, "Buy milk", today, "09:00", false)

	described := insertTask(t, db, user.ID, "Report", today, "10:00", false)
	assert.NoError(t, db.DB.Model(&described).Update("description", "quarterly numbers").Error)

	tagged := insertTask(t, db, user.ID, "errands list", today, "11:00", false)
	tag, err := tagService.CreateTag(db, user.ID, "errands")
	assert.NoError(t, err)
	assert.NoError(t, db.DB.Model(&tagged).Association("Tags").Append(&tag))

	category, err := categoryService.CreateCategory(db, user.ID, CategoryInput{Name: "Housework"})
	assert.NoError(t, err)
	categorized := insertTask(t, db, user.ID, "Vacuum", today, "12:00", false)
	assert.NoError(t, db.DB.Model(&categorized).Update("category_id", category.ID).Error)

	insertTask(t, db, other.ID, "milk for someone else", today, "09:00", false)

	cases := []struct {
		query string
		want  []string
	}{
		{"MILK", []string{"Buy milk"}},
		{"quarterly", []string{"Report"}},
		// Matches both the title and the attached tag, returned once.
		{"errands", []string{"errands list"}},
		{"housework", []string{"Vacuum"}},
		{"nothing matches this", []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			tasks, err := taskService.GetTasks(db, user.ID, TaskFilters{Query: tc.query})
			assert.NoError(t, err)
			assert.Equal(t, tc.want, titles(tasks))
		})
	}
}

func TestGetTasks_CategoryNarrowing(t *testing.T) {
	db := testutils.SetupTestDB(t)
	user := testutils.CreateTestUser(t, db, "owner@example.com")
	taskService := &TaskService{}
	categoryService := &CategoryService{}

	category, err := categoryService.CreateCategory(db, user.ID, CategoryInput{Name: "Work"})
	assert.NoError(t, err)

	today := time.Now().Format(models.DateLayout)
	assigned := insertTask(t, db, user.ID, "assigned", today, "09:00", false)
	assert.NoError(t, db.DB.Model(&assigned).Update("category_id", category.ID).Error)
	insertTask(t, db, user.ID, "unassigned", today, "10:00", false)

	tasks, err := taskService.GetTasks(db, user.ID, TaskFilters{Category: category.ID.String()})
	assert.NoError(t, err)
	assert.Equal(t, []string{"assigned"}, titles(tasks))

	t.Run("Malformed Category Id Is Ignored", func(t *testing.T) {
		tasks, err := taskService.GetTasks(db, user.ID, TaskFilters{Category: "not-a-uuid"})
		assert.NoError(t, err)
		assert.Len(t, tasks, 2)
	})
}

func TestUpdateTask(t *testing.T) {
	db := testutils.SetupTestDB(t)
	user := testutils.CreateTestUser(t, db, "owner@example.com")
	taskService := &TaskService{}

	tomorrow := time.Now().AddDate(0, 0, 1).Format(models.DateLayout)
	task, err := taskService.CreateTask(db, user.ID, TaskInput{Title: "Draft report", DueDate: tomorrow})
	assert.NoError(t, err)

	updated, err := taskService.UpdateTask(db, user.ID, task.ID.String(), TaskInput{
		Title:    "Final report",
		DueDate:  tomorrow,
		DueTime:  "17:00",
		Priority: models.PriorityHigh,
	})
	assert.NoError(t, err)
	assert.Equal(t, "Final report", updated.Title)
	assert.Equal(t, "17:00", updated.DueTime)
	assert.Equal(t, models.PriorityHigh, updated.Priority)

	t.Run("Completed Tasks Are Locked", func(t *testing.T) {
		done := insertTask(t, db, user.ID, "done", tomorrow, "00:00", true)
		_, err := taskService.UpdateTask(db, user.ID, done.ID.String(), TaskInput{Title: "rename", DueDate: tomorrow})
		assert.ErrorIs(t, err, ErrTaskCompleted)
	})

	t.Run("Other Owner Sees Not Found", func(t *testing.T) {
		other := testutils.CreateTestUser(t, db, "other@example.com")
		_, err := taskService.UpdateTask(db, other.ID, task.ID.String(), TaskInput{Title: "steal", DueDate: tomorrow})
		assert.ErrorIs(t, err, ErrTaskNotFound)
	})
}

func TestToggleTask(t *testing.T) {
	db := testutils.SetupTestDB(t)
	user := testutils.CreateTestUser(t, db, "owner@example.com")
	taskService := &TaskService{}

	today := time.Now().Format(models.DateLayout)
	task := insertTask(t, db, user.ID, "flip me", today, "09:00", false)

	toggled, err := taskService.ToggleTask(db, user.ID, task.ID.String())
	assert.NoError(t, err)
	assert.True(t, toggled.IsCompleted)

	toggled, err = taskService.ToggleTask(db, user.ID, task.ID.String())
	assert.NoError(t, err)
	assert.False(t, toggled.IsCompleted)

	t.Run("Unknown Id", func(t *testing.T) {
		_, err := taskService.ToggleTask(db, user.ID, uuid.NewString())
		assert.ErrorIs(t, err, ErrTaskNotFound)
	})
}

func TestDeleteTask(t *testing.T) {
	db := testutils.SetupTestDB(t)
	user := testutils.CreateTestUser(t, db, "owner@example.com")
	other := testutils.CreateTestUser(t, db, "other@example.com")
	taskService := &TaskService{}

	today := time.Now().Format(models.DateLayout)
	task := insertTask(t, db, user.ID, "remove me", today, "09:00", false)

	assert.ErrorIs(t, taskService.DeleteTask(db, other.ID, task.ID.String()), ErrTaskNotFound)
	assert.NoError(t, taskService.DeleteTask(db, user.ID, task.ID.String()))

	var count int64
	assert.NoError(t, db.DB.Model(&models.Task{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGetDashboard(t *testing.T) {
	db := testutils.SetupTestDB(t)
	user := testutils.CreateTestUser(t, db, "owner@example.com")
	taskService := &TaskService{}

	now := time.Now()
	yesterday := now.AddDate(0, 0, -1).Format(models.DateLayout)
	for i := 0; i < 6; i++ {
		due := now.AddDate(0, 0, i+1).Format(models.DateLayout)
		insertTask(t, db, user.ID, "open "+due, due, "09:00", false)
	}

	reminded := insertTask(t, db, user.ID, "pay rent", now.AddDate(0, 0, 1).Format(models.DateLayout), "09:00", false)
	reminderTime := "09:00"
	assert.NoError(t, db.DB.Model(&reminded).Updates(map[string]interface{}{
		"reminder_date": yesterday,
		"reminder_time": reminderTime,
	}).Error)

	dashboard, err := taskService.GetDashboard(db, user.ID)
	assert.NoError(t, err)
	assert.Len(t, dashboard.Tasks, 5)
	assert.Equal(t, []string{"pay rent"}, titles(dashboard.Reminders))
}

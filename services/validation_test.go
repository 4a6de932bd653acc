package services

import (
	"errors"
	"testing"
	"time"

	"tasknest/models"
	"tasknest/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func fieldCodes(t *testing.T, err error) map[string][]string {
	t.Helper()
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	codes := make(map[string][]string)
	for _, fe := range verrs {
		codes[fe.Field] = append(codes[fe.Field], fe.Code)
	}
	return codes
}

func TestValidateTask_RequiredFields(t *testing.T) {
	db := testutils.SetupTestDB(t)
	user := testutils.CreateTestUser(t, db, "owner@example.com")

	_, err := validateTaskInput(db, user.ID, TaskInput{}, nil)
	codes := fieldCodes(t, err)

	assert.Contains(t, codes["title"], CodeRequired)
	assert.Contains(t, codes["due_date"], CodeRequired)
}

func TestValidateTask_CollectsAllFieldErrors(t *testing.T) {
	db := testutils.SetupTestDB(t)
	user := testutils.CreateTestUser(t, db, "owner@example.com")

	yesterday := time.Now().AddDate(0, 0, -1).Format(models.DateLayout)
	_, err := validateTaskInput(db, user.ID, TaskInput{Title: "ab", DueDate: yesterday}, nil)
	codes := fieldCodes(t, err)

	// Field errors are collected, not reported fail-fast.
	assert.Contains(t, codes["title"], CodeTooShort)
	assert.Contains(t, codes["due_date"], CodePastDate)
}

func TestValidateTask_DuplicateTitle(t *testing.T) {
	db := testutils.SetupTestDB(t)
	owner := testutils.CreateTestUser(t, db, "owner@example.com")
	other := testutils.CreateTestUser(t, db, "other@example.com")

	tomorrow := time.Now().AddDate(0, 0, 1).Format(models.DateLayout)
	existing := models.Task{
		ID: uuid.New(), UserID: owner.ID, Title: "Groceries",
		DueDate: tomorrow, DueTime: "00:00", Priority: models.PriorityMedium,
	}
	assert.NoError(t, db.DB.Create(&existing).Error)

	t.Run("Same Owner Differs Only By Case", func(t *testing.T) {
		_, err := validateTaskInput(db, owner.ID, TaskInput{Title: "GROCERIES", DueDate: tomorrow}, nil)
		codes := fieldCodes(t, err)
		assert.Contains(t, codes["title"], CodeDuplicate)
	})

	t.Run("Other Owner Is Unaffected", func(t *testing.T) {
		_, err := validateTaskInput(db, other.ID, TaskInput{Title: "groceries", DueDate: tomorrow}, nil)
		assert.NoError(t, err)
	})

	t.Run("Editing The Same Task Is Not A Duplicate", func(t *testing.T) {
		_, err := validateTaskInput(db, owner.ID, TaskInput{Title: "groceries", DueDate: tomorrow}, &existing.ID)
		assert.NoError(t, err)
	})
}

func TestValidateTask_ReminderPairing(t *testing.T) {
	db := testutils.SetupTestDB(t)
	user := testutils.CreateTestUser(t, db, "owner@example.com")

	now := time.Now()
	tomorrow := now.AddDate(0, 0, 1).Format(models.DateLayout)
	nextWeek := now.AddDate(0, 0, 6).Format(models.DateLayout)

	t.Run("Date Without Time", func(t *testing.T) {
		_, err := validateTaskInput(db, user.ID, TaskInput{
			Title: "Call dentist", DueDate: tomorrow, ReminderDate: tomorrow,
		}, nil)
		codes := fieldCodes(t, err)
		assert.Contains(t, codes[NonFieldErrors], CodeIncompleteReminder)
	})

	t.Run("Time Without Date", func(t *testing.T) {
		_, err := validateTaskInput(db, user.ID, TaskInput{
			Title: "Call dentist", DueDate: tomorrow, ReminderTime: "09:00",
		}, nil)
		codes := fieldCodes(t, err)
		assert.Contains(t, codes[NonFieldErrors], CodeIncompleteReminder)
	})

	t.Run("Reminder After Due Date", func(t *testing.T) {
		_, err := validateTaskInput(db, user.ID, TaskInput{
			Title: "Call dentist", DueDate: tomorrow,
			ReminderDate: nextWeek, ReminderTime: "09:00",
		}, nil)
		codes := fieldCodes(t, err)
		assert.Contains(t, codes[NonFieldErrors], CodeReminderAfterDue)
	})

	t.Run("Cross-Field Checks Wait For Field Checks", func(t *testing.T) {
		_, err := validateTaskInput(db, user.ID, TaskInput{
			Title: "ab", DueDate: tomorrow, ReminderDate: tomorrow,
		}, nil)
		codes := fieldCodes(t, err)
		assert.Contains(t, codes["title"], CodeTooShort)
		assert.NotContains(t, codes, NonFieldErrors)
	})
}

func TestValidateTask_NewTagDuplicate(t *testing.T) {
	db := testutils.SetupTestDB(t)
	user := testutils.CreateTestUser(t, db, "owner@example.com")

	tomorrow := time.Now().AddDate(0, 0, 1).Format(models.DateLayout)

	// "work" is part of the default set seeded by the first validation.
	_, err := validateTaskInput(db, user.ID, TaskInput{
		Title: "Write report", DueDate: tomorrow, NewTag: "WORK",
	}, nil)
	codes := fieldCodes(t, err)
	assert.Contains(t, codes["new_tag"], CodeDuplicate)
}

func TestValidateTask_NormalizesDefaults(t *testing.T) {
	db := testutils.SetupTestDB(t)
	user := testutils.CreateTestUser(t, db, "owner@example.com")

	tomorrow := time.Now().AddDate(0, 0, 1).Format(models.DateLayout)
	fields, err := validateTaskInput(db, user.ID, TaskInput{Title: "Write report", DueDate: tomorrow}, nil)

	assert.NoError(t, err)
	assert.Equal(t, models.DefaultDueTime, fields.DueTime)
	assert.Equal(t, models.PriorityMedium, fields.Priority)
	assert.Nil(t, fields.ReminderDate)
	assert.Nil(t, fields.ReminderTime)
}

func TestValidateTask_SeedsDefaultTags(t *testing.T) {
	db := testutils.SetupTestDB(t)
	user := testutils.CreateTestUser(t, db, "owner@example.com")

	// Seeding happens even when the submission itself is invalid.
	_, err := validateTaskInput(db, user.ID, TaskInput{}, nil)
	assert.Error(t, err)

	var count int64
	assert.NoError(t, db.DB.Model(&models.Tag{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(len(DefaultTags)), count)
}

func TestValidateTask_InvalidPriorityAndCategory(t *testing.T) {
	db := testutils.SetupTestDB(t)
	user := testutils.CreateTestUser(t, db, "owner@example.com")
	other := testutils.CreateTestUser(t, db, "other@example.com")

	category := models.Category{ID: uuid.New(), Name: "Errands", Color: "#ff0000", UserID: &other.ID}
	assert.NoError(t, db.DB.Create(&category).Error)

	tomorrow := time.Now().AddDate(0, 0, 1).Format(models.DateLayout)
	_, err := validateTaskInput(db, user.ID, TaskInput{
		Title: "Write report", DueDate: tomorrow,
		Priority: "critical", CategoryID: category.ID.String(),
	}, nil)
	codes := fieldCodes(t, err)

	assert.Contains(t, codes["priority"], CodeInvalid)
	// Another owner's category is as invalid as a nonexistent one.
	assert.Contains(t, codes["category"], CodeInvalid)
}

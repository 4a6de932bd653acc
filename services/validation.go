package services

import (
	"strings"
	"time"
	"unicode/utf8"

	"tasknest/database"
	"tasknest/models"

	"github.com/google/uuid"
)

// Validation error codes attached to individual fields.
const (
	CodeRequired           = "Required"
	CodeTooShort           = "TooShort"
	CodeDuplicate          = "Duplicate"
	CodePastDate           = "PastDate"
	CodeIncompleteReminder = "IncompleteReminder"
	CodeReminderAfterDue   = "ReminderAfterDue"
	CodeInvalid            = "Invalid"
)

// NonFieldErrors is the pseudo-field that cross-field violations attach to.
const NonFieldErrors = "__all__"

type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationErrors collects every violated rule of a submitted form. It
// implements error so services can return it through their normal error
// path; routes unwrap it with errors.As and render field messages.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	messages := make([]string, 0, len(v))
	for _, fe := range v {
		messages = append(messages, fe.Message)
	}
	return strings.Join(messages, " ")
}

// Fields groups messages by field name for rendering.
func (v ValidationErrors) Fields() map[string][]string {
	fields := make(map[string][]string, len(v))
	for _, fe := range v {
		fields[fe.Field] = append(fields[fe.Field], fe.Message)
	}
	return fields
}

func (v ValidationErrors) Has(field string) bool {
	for _, fe := range v {
		if fe.Field == field {
			return true
		}
	}
	return false
}

func (v *ValidationErrors) add(field, code, message string) {
	*v = append(*v, FieldError{Field: field, Code: code, Message: message})
}

// taskFields is the normalized, persist-ready form of a task submission.
type taskFields struct {
	Title        string
	Description  string
	DueDate      string
	DueTime      string
	ReminderDate *string
	ReminderTime *string
	Priority     string
	CategoryID   *uuid.UUID
	Tags         []models.Tag
	NewTag       string
}

// validateTaskInput checks a task submission for the given owner and
// returns either normalized fields or the full set of violations. Field
// checks are all collected before reporting; cross-field checks run only
// once every field check passes, and stop at the first violation.
//
// Building a task form also lazily provisions the owner's default tag
// set, exactly once per call and regardless of the validation outcome.
func validateTaskInput(db *database.Database, userID uuid.UUID, input TaskInput, excludeID *uuid.UUID) (taskFields, error) {
	if err := EnsureDefaultTags(db, userID); err != nil {
		return taskFields{}, err
	}

	var verrs ValidationErrors
	now := time.Now()
	today := now.Format(models.DateLayout)

	title := strings.TrimSpace(input.Title)
	switch {
	case title == "":
		verrs.add("title", CodeRequired, "Title is required.")
	case utf8.RuneCountInString(title) < 3:
		verrs.add("title", CodeTooShort, "Title must be at least 3 characters.")
	case utf8.RuneCountInString(title) > 127:
		verrs.add("title", CodeInvalid, "Title must be at most 127 characters.")
	default:
		query := db.DB.Model(&models.Task{}).
			Where("user_id = ? AND LOWER(title) = LOWER(?)", userID, title)
		if excludeID != nil {
			query = query.Where("id <> ?", *excludeID)
		}
		var count int64
		if err := query.Count(&count).Error; err != nil {
			return taskFields{}, err
		}
		if count > 0 {
			verrs.add("title", CodeDuplicate, "A task with this title already exists.")
		}
	}

	newTag := strings.TrimSpace(input.NewTag)
	if newTag != "" {
		if utf8.RuneCountInString(newTag) > 30 {
			verrs.add("new_tag", CodeInvalid, "Tag name must be at most 30 characters.")
		} else {
			var count int64
			err := db.DB.Model(&models.Tag{}).
				Where("user_id = ? AND LOWER(name) = LOWER(?)", userID, newTag).
				Count(&count).Error
			if err != nil {
				return taskFields{}, err
			}
			if count > 0 {
				verrs.add("new_tag", CodeDuplicate, "A tag with this name already exists.")
			}
		}
	}

	dueDate := strings.TrimSpace(input.DueDate)
	if dueDate == "" {
		verrs.add("due_date", CodeRequired, "Due date is required.")
	} else if parsed, err := time.ParseInLocation(models.DateLayout, dueDate, time.Local); err != nil {
		verrs.add("due_date", CodeInvalid, "Due date must be a valid date.")
	} else {
		dueDate = parsed.Format(models.DateLayout)
		if dueDate < today {
			verrs.add("due_date", CodePastDate, "Due date cannot be in the past.")
		}
	}

	dueTime, ok := normalizeTimeOfDay(input.DueTime, models.DefaultDueTime)
	if !ok {
		verrs.add("due_time", CodeInvalid, "Due time must be a valid time.")
	}

	reminderDate := strings.TrimSpace(input.ReminderDate)
	if reminderDate != "" {
		if parsed, err := time.ParseInLocation(models.DateLayout, reminderDate, time.Local); err != nil {
			verrs.add("reminder_date", CodeInvalid, "Reminder date must be a valid date.")
		} else {
			reminderDate = parsed.Format(models.DateLayout)
		}
	}
	reminderTime, ok := normalizeTimeOfDay(input.ReminderTime, "")
	if !ok {
		verrs.add("reminder_time", CodeInvalid, "Reminder time must be a valid time.")
	}

	priority := strings.TrimSpace(input.Priority)
	if priority == "" {
		priority = models.PriorityMedium
	} else if !models.ValidPriority(priority) {
		verrs.add("priority", CodeInvalid, "Select a valid priority.")
	}

	var categoryID *uuid.UUID
	if raw := strings.TrimSpace(input.CategoryID); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			verrs.add("category", CodeInvalid, "Select a valid category.")
		} else {
			var count int64
			err := db.DB.Model(&models.Category{}).
				Where("id = ? AND user_id = ?", id, userID).
				Count(&count).Error
			if err != nil {
				return taskFields{}, err
			}
			if count == 0 {
				verrs.add("category", CodeInvalid, "Select a valid category.")
			} else {
				categoryID = &id
			}
		}
	}

	var tags []models.Tag
	if len(input.TagIDs) > 0 {
		tagIDs := make([]uuid.UUID, 0, len(input.TagIDs))
		valid := true
		for _, raw := range input.TagIDs {
			id, err := uuid.Parse(raw)
			if err != nil {
				verrs.add("tags", CodeInvalid, "Select valid tags.")
				valid = false
				break
			}
			tagIDs = append(tagIDs, id)
		}
		if valid {
			err := db.DB.Where("id IN ? AND user_id = ?", tagIDs, userID).Find(&tags).Error
			if err != nil {
				return taskFields{}, err
			}
			if len(tags) != len(tagIDs) {
				verrs.add("tags", CodeInvalid, "Select valid tags.")
			}
		}
	}

	if len(verrs) > 0 {
		return taskFields{}, verrs
	}

	// Cross-field rules, first violation wins.
	switch {
	case reminderDate != "" && reminderTime == "":
		verrs.add(NonFieldErrors, CodeIncompleteReminder, "Reminder time is required when a reminder date is set.")
	case reminderTime != "" && reminderDate == "":
		verrs.add(NonFieldErrors, CodeIncompleteReminder, "Reminder date is required when a reminder time is set.")
	case reminderDate != "" && reminderDate > dueDate:
		verrs.add(NonFieldErrors, CodeReminderAfterDue, "Reminder must be on or before the due date.")
	}
	if len(verrs) > 0 {
		return taskFields{}, verrs
	}

	fields := taskFields{
		Title:       title,
		Description: input.Description,
		DueDate:     dueDate,
		DueTime:     dueTime,
		Priority:    priority,
		CategoryID:  categoryID,
		Tags:        tags,
		NewTag:      newTag,
	}
	if reminderDate != "" {
		fields.ReminderDate = &reminderDate
		fields.ReminderTime = &reminderTime
	}
	return fields, nil
}

// normalizeTimeOfDay parses an "HH:MM" (or "HH:MM:SS") value and returns
// it normalized to "HH:MM". An empty value yields the fallback.
func normalizeTimeOfDay(raw, fallback string) (string, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return fallback, true
	}
	if parsed, err := time.Parse(models.TimeLayout, value); err == nil {
		return parsed.Format(models.TimeLayout), true
	}
	if parsed, err := time.Parse(models.TimeLayout+":05", value); err == nil {
		return parsed.Format(models.TimeLayout), true
	}
	return "", false
}

// validateCategoryInput checks a category submission for the given owner.
// Name uniqueness is case-insensitive, color uniqueness is exact.
func validateCategoryInput(db *database.Database, userID uuid.UUID, input CategoryInput, excludeID *uuid.UUID) (string, string, error) {
	var verrs ValidationErrors

	name := strings.TrimSpace(input.Name)
	switch {
	case name == "":
		verrs.add("name", CodeRequired, "Name is required.")
	case utf8.RuneCountInString(name) > 50:
		verrs.add("name", CodeInvalid, "Name must be at most 50 characters.")
	default:
		query := db.DB.Model(&models.Category{}).
			Where("user_id = ? AND LOWER(name) = LOWER(?)", userID, name)
		if excludeID != nil {
			query = query.Where("id <> ?", *excludeID)
		}
		var count int64
		if err := query.Count(&count).Error; err != nil {
			return "", "", err
		}
		if count > 0 {
			verrs.add("name", CodeDuplicate, "A category with this name already exists.")
		}
	}

	color := strings.TrimSpace(input.Color)
	if color == "" {
		color = models.DefaultCategoryColor
	}
	if utf8.RuneCountInString(color) > 7 {
		verrs.add("color", CodeInvalid, "Color must be at most 7 characters.")
	} else {
		query := db.DB.Model(&models.Category{}).
			Where("user_id = ? AND color = ?", userID, color)
		if excludeID != nil {
			query = query.Where("id <> ?", *excludeID)
		}
		var count int64
		if err := query.Count(&count).Error; err != nil {
			return "", "", err
		}
		if count > 0 {
			verrs.add("color", CodeDuplicate, "This color is already used by another category.")
		}
	}

	if len(verrs) > 0 {
		return "", "", verrs
	}
	return name, color, nil
}

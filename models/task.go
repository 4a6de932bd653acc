package models

import (
	"time"

	"github.com/google/uuid"
)

// Task priorities
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Dates and times-of-day are stored as normalized strings ("2006-01-02"
// and "15:04") so that lexicographic order matches chronological order
// across both postgres and sqlite.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

const DefaultDueTime = "00:00"

type Task struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;index;constraint:OnDelete:CASCADE;" json:"user_id"`
	CategoryID   *uuid.UUID `gorm:"type:uuid" json:"category_id,omitempty"`
	Category     *Category  `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL;" json:"category"`
	Tags         []Tag      `gorm:"many2many:task_tags;" json:"tags"`
	Title        string     `gorm:"size:127;not null" json:"title"`
	Description  string     `json:"description"`
	DueDate      string     `gorm:"size:10;not null" json:"due_date"`
	DueTime      string     `gorm:"size:5;not null;default:'00:00'" json:"due_time"`
	ReminderDate *string    `gorm:"size:10" json:"reminder_date"`
	ReminderTime *string    `gorm:"size:5" json:"reminder_time"`
	Priority     string     `gorm:"size:10;not null;default:'medium'" json:"priority"`
	IsCompleted  bool       `gorm:"default:false" json:"is_completed"`
	CreatedAt    time.Time  `gorm:"not null" json:"created_date"`
}

func ValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Deadline combines the due date and due time into a single instant in
// local time. A malformed stored value falls back to the zero time.
func (t *Task) Deadline() time.Time {
	deadline, err := time.ParseInLocation(DateLayout+" "+TimeLayout, t.DueDate+" "+t.DueTime, time.Local)
	if err != nil {
		return time.Time{}
	}
	return deadline
}

// Overdue reports whether the task is past its deadline at the given
// moment. Completed tasks are never overdue.
func (t *Task) Overdue(now time.Time) bool {
	if t.IsCompleted {
		return false
	}
	return now.After(t.Deadline())
}

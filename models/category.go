package models

import "github.com/google/uuid"

const DefaultCategoryColor = "#64748b"

type Category struct {
	ID     uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name   string     `gorm:"size:50;not null;uniqueIndex:unique_category_per_user" json:"name"`
	Color  string     `gorm:"size:7;not null;default:'#64748b'" json:"color"`
	UserID *uuid.UUID `gorm:"type:uuid;uniqueIndex:unique_category_per_user;constraint:OnDelete:CASCADE;" json:"user_id,omitempty"`

	// Computed on list reads, never persisted.
	TaskCount int64 `gorm:"-" json:"task_count"`
}

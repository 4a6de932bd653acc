package models

import "github.com/google/uuid"

type Tag struct {
	ID     uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name   string     `gorm:"size:30;not null;uniqueIndex:unique_tag_per_user" json:"name"`
	UserID *uuid.UUID `gorm:"type:uuid;uniqueIndex:unique_tag_per_user;constraint:OnDelete:CASCADE;" json:"user_id,omitempty"`
}

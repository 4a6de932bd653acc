package services

import (
	"errors"
	"strings"
	"unicode/utf8"

	"tasknest/database"
	"tasknest/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultTags is the fixed set of tag names provisioned for every owner
// the first time they build a task form.
var DefaultTags = []string{
	"urgent", "important", "work", "home", "shopping", "study", "project",
	"health", "family", "finance", "sport", "hobby", "meeting",
	"phone", "email", "deadline", "daily", "weekly",
}

type TagServiceInterface interface {
	GetTags(db *database.Database, userID uuid.UUID) ([]models.Tag, error)
	CreateTag(db *database.Database, userID uuid.UUID, name string) (models.Tag, error)
}

type TagService struct{}

func (s *TagService) GetTags(db *database.Database, userID uuid.UUID) ([]models.Tag, error) {
	var tags []models.Tag
	if err := db.DB.Where("user_id = ?", userID).Order("name").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (s *TagService) CreateTag(db *database.Database, userID uuid.UUID, name string) (models.Tag, error) {
	var verrs ValidationErrors
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		verrs.add("name", CodeRequired, "Name is required.")
	case utf8.RuneCountInString(name) > 30:
		verrs.add("name", CodeInvalid, "Name must be at most 30 characters.")
	default:
		var count int64
		err := db.DB.Model(&models.Tag{}).
			Where("user_id = ? AND LOWER(name) = LOWER(?)", userID, name).
			Count(&count).Error
		if err != nil {
			return models.Tag{}, err
		}
		if count > 0 {
			verrs.add("name", CodeDuplicate, "A tag with this name already exists.")
		}
	}
	if len(verrs) > 0 {
		return models.Tag{}, verrs
	}

	tag := models.Tag{ID: uuid.New(), Name: name, UserID: &userID}
	if err := db.DB.Create(&tag).Error; err != nil {
		// The uniqueness pre-check can race with a concurrent submission;
		// the storage constraint is the authoritative rejection.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			verrs.add("name", CodeDuplicate, "A tag with this name already exists.")
			return models.Tag{}, verrs
		}
		return models.Tag{}, err
	}
	return tag, nil
}

// EnsureDefaultTags idempotently creates any of the default tag names the
// owner does not have yet. Calling it repeatedly never duplicates rows.
func EnsureDefaultTags(db *database.Database, userID uuid.UUID) error {
	var existing []string
	if err := db.DB.Model(&models.Tag{}).Where("user_id = ?", userID).Pluck("name", &existing).Error; err != nil {
		return err
	}
	have := make(map[string]bool, len(existing))
	for _, name := range existing {
		have[strings.ToLower(name)] = true
	}

	for _, name := range DefaultTags {
		if have[name] {
			continue
		}
		tag := models.Tag{ID: uuid.New(), Name: name, UserID: &userID}
		if err := db.DB.Create(&tag).Error; err != nil {
			// Another request may have seeded the same tag concurrently.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			return err
		}
	}
	return nil
}

// getOrCreateTag resolves a tag by case-insensitive name, creating it when
// absent. On a creation race it attaches the row that won.
func getOrCreateTag(tx *gorm.DB, userID uuid.UUID, name string) (models.Tag, error) {
	var tag models.Tag
	err := tx.Where("user_id = ? AND LOWER(name) = LOWER(?)", userID, name).First(&tag).Error
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Tag{}, err
	}

	tag = models.Tag{ID: uuid.New(), Name: name, UserID: &userID}
	if err := tx.Create(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			lookupErr := tx.Where("user_id = ? AND LOWER(name) = LOWER(?)", userID, name).First(&tag).Error
			return tag, lookupErr
		}
		return models.Tag{}, err
	}
	return tag, nil
}

var TagServiceInstance TagServiceInterface = &TagService{}

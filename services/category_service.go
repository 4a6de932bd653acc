package services

import (
	"errors"

	"tasknest/database"
	"tasknest/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryInput struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type CategoryServiceInterface interface {
	GetCategories(db *database.Database, userID uuid.UUID) ([]models.Category, error)
	GetCategoryById(db *database.Database, userID uuid.UUID, id string) (models.Category, error)
	CreateCategory(db *database.Database, userID uuid.UUID, input CategoryInput) (models.Category, error)
	UpdateCategory(db *database.Database, userID uuid.UUID, id string, input CategoryInput) (models.Category, error)
	DeleteCategory(db *database.Database, userID uuid.UUID, id string) error
}

type CategoryService struct{}

func (s *CategoryService) GetCategories(db *database.Database, userID uuid.UUID) ([]models.Category, error) {
	var categories []models.Category
	if err := db.DB.Where("user_id = ?", userID).Order("name").Find(&categories).Error; err != nil {
		return nil, err
	}

	type categoryCount struct {
		CategoryID uuid.UUID
		Count      int64
	}
	var counts []categoryCount
	err := db.DB.Model(&models.Task{}).
		Select("category_id, COUNT(*) AS count").
		Where("user_id = ? AND category_id IS NOT NULL", userID).
		Group("category_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]int64, len(counts))
	for _, cc := range counts {
		byID[cc.CategoryID] = cc.Count
	}
	for i := range categories {
		categories[i].TaskCount = byID[categories[i].ID]
	}
	return categories, nil
}

func (s *CategoryService) GetCategoryById(db *database.Database, userID uuid.UUID, id string) (models.Category, error) {
	categoryID, err := uuid.Parse(id)
	if err != nil {
		return models.Category{}, ErrCategoryNotFound
	}
	var category models.Category
	if err := db.DB.First(&category, "id = ? AND user_id = ?", categoryID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Category{}, ErrCategoryNotFound
		}
		return models.Category{}, err
	}
	return category, nil
}

func (s *CategoryService) CreateCategory(db *database.Database, userID uuid.UUID, input CategoryInput) (models.Category, error) {
	name, color, err := validateCategoryInput(db, userID, input, nil)
	if err != nil {
		return models.Category{}, err
	}

	category := models.Category{
		ID:     uuid.New(),
		Name:   name,
		Color:  color,
		UserID: &userID,
	}
	if err := db.DB.Create(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.Category{}, ValidationErrors{{Field: "name", Code: CodeDuplicate, Message: "A category with this name already exists."}}
		}
		return models.Category{}, err
	}
	return category, nil
}

func (s *CategoryService) UpdateCategory(db *database.Database, userID uuid.UUID, id string, input CategoryInput) (models.Category, error) {
	category, err := s.GetCategoryById(db, userID, id)
	if err != nil {
		return models.Category{}, err
	}

	name, color, err := validateCategoryInput(db, userID, input, &category.ID)
	if err != nil {
		return models.Category{}, err
	}

	updates := map[string]interface{}{"name": name, "color": color}
	if err := db.DB.Model(&category).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.Category{}, ValidationErrors{{Field: "name", Code: CodeDuplicate, Message: "A category with this name already exists."}}
		}
		return models.Category{}, err
	}
	return category, nil
}

// DeleteCategory removes a category and detaches it from the owner's
// tasks. The tasks themselves are never deleted.
func (s *CategoryService) DeleteCategory(db *database.Database, userID uuid.UUID, id string) error {
	category, err := s.GetCategoryById(db, userID, id)
	if err != nil {
		return err
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	err = tx.Model(&models.Task{}).
		Where("category_id = ?", category.ID).
		Update("category_id", nil).Error
	if err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Delete(&category).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

var CategoryServiceInstance CategoryServiceInterface = &CategoryService{}

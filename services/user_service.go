package services

import (
	"errors"

	"tasknest/database"
	"tasknest/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserServiceInterface interface {
	Register(db *database.Database, email, password string) (models.User, error)
	GetUserById(db *database.Database, id string) (models.User, error)
	DeleteUser(db *database.Database, id string) error
}

type UserService struct {
	auth AuthServiceInterface
}

func NewUserService(auth AuthServiceInterface) *UserService {
	return &UserService{auth: auth}
}

func (s *UserService) Register(db *database.Database, email, password string) (models.User, error) {
	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.User{}, ErrEmailExists
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *UserService) GetUserById(db *database.Database, id string) (models.User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return models.User{}, ErrUserNotFound
	}
	var user models.User
	if err := db.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// DeleteUser removes the user together with every category, tag and task
// they own.
func (s *UserService) DeleteUser(db *database.Database, id string) error {
	user, err := s.GetUserById(db, id)
	if err != nil {
		return err
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	err = tx.Exec("DELETE FROM task_tags WHERE task_id IN (SELECT id FROM tasks WHERE user_id = ?)", user.ID).Error
	if err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Where("user_id = ?", user.ID).Delete(&models.Task{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Where("user_id = ?", user.ID).Delete(&models.Category{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Where("user_id = ?", user.ID).Delete(&models.Tag{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(&user).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

var UserServiceInstance UserServiceInterface

package testutils

import (
	"testing"

	"tasknest/database"
	"tasknest/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens a migrated in-memory sqlite database. The pool is
// pinned to a single connection so the whole test sees one database.
func SetupTestDB(t *testing.T) *database.Database {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get test database instance: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.RunMigrations(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	testDB := &database.Database{DB: db}
	t.Cleanup(testDB.Close)
	return testDB
}

// CreateTestUser inserts a user row to own fixture data.
func CreateTestUser(t *testing.T, db *database.Database, email string) models.User {
	t.Helper()

	user := models.User{ID: uuid.New(), Email: email, PasswordHash: "x"}
	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

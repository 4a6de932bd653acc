package testutils

import (
	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"tasknest/database"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// SetupMockDB opens a gorm connection backed by sqlmock, for tests that
// assert on the exact SQL a service issues.
func SetupMockDB() (*database.Database, sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		panic(err)
	}

	dialector := postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		panic(err)
	}

	cleanup := func() {
		sqlDB.Close()
	}

	return &database.Database{DB: gormDB}, mock, cleanup
}

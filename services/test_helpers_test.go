package services

import (
	"testing"

	"formflow_app_go/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared"), &gorm.Config{})
	assert.NoError(t, err)

	err = testDB.AutoMigrate(
		&models.User{}, &models.Session{},
		&models.Form{}, &models.Step{}, &models.Field{},
		&models.Submission{}, &models.Template{},
	)
	assert.NoError(t, err)
	return testDB
}

func createTestUser(t *testing.T, dbConn *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		Name:     "Test User",
		Email:    "user-" + uuid.New().String() + "@test.com",
		Password: "hashed",
		IsActive: true,
	}
	assert.NoError(t, dbConn.Create(user).Error)
	return user
}

func createTestForm(t *testing.T, dbConn *gorm.DB, userID string) *models.Form {
	t.Helper()
	title := "Test Form"
	form, err := CreateForm(dbConn, userID, FormInput{Title: &title})
	assert.NoError(t, err)
	return form
}

func intPtr(i int) *int {
	return &i
}

func strPtr(s string) *string {
	return &s
}

package handlers

import (
	"io"
	"net/http/httptest"
	"testing"

	"formflow_app_go/config"
	"formflow_app_go/db"
	"formflow_app_go/middleware"
	"formflow_app_go/models"
	"formflow_app_go/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Unique shared memory name isolates tests while keeping one store per test
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{})
	assert.NoError(t, err)

	err = testDB.AutoMigrate(
		&models.User{}, &models.Session{},
		&models.Form{}, &models.Step{}, &models.Field{},
		&models.Submission{}, &models.Template{},
	)
	assert.NoError(t, err)

	db.DB = testDB
	return testDB
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	c.Set("config", &config.Config{
		Environment:   "test",
		EmailTestMode: true,
		SessionSecret: testSessionSecret,
		AppURL:        "http://test.local",
	})
	return e, c, rec
}

const testSessionSecret = "handler-test-session-secret-0123456789"

func createHandlerUser(t *testing.T) *models.User {
	t.Helper()
	user, err := services.CreateUser(db.DB, "Handler User", "handler-"+uuid.New().String()+"@test.com", "longenough1")
	assert.NoError(t, err)
	return user
}

func asUser(c echo.Context, user *models.User) {
	c.Set(middleware.ContextKeyUser, user)
}

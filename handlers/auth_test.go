package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"formflow_app_go/db"
	"formflow_app_go/middleware"
	"formflow_app_go/models"
	"formflow_app_go/services"

	"github.com/stretchr/testify/assert"
)

func TestRegisterHandler(t *testing.T) {
	setupTestDB(t)

	payload := `{"name": "Ada", "email": "ada@example.com", "password": "longenough1"}`
	_, c, rec := setupEcho(http.MethodPost, "/api/auth/register", strings.NewReader(payload))

	assert.NoError(t, RegisterHandler(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	// Session cookie is set, signed with the server secret, and the password
	// never leaves the server
	cookies := rec.Result().Cookies()
	var found bool
	for _, cookie := range cookies {
		if cookie.Name == middleware.SessionCookieName && cookie.Value != "" {
			found = true
			_, ok := middleware.VerifySessionCookie(testSessionSecret, cookie.Value)
			assert.True(t, ok)
		}
	}
	assert.True(t, found)
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotContains(t, rec.Body.String(), "longenough1")
}

func TestLoginHandler(t *testing.T) {
	setupTestDB(t)
	_, err := services.CreateUser(db.DB, "Ada", "ada@example.com", "longenough1")
	assert.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		payload := `{"email": "Ada@Example.com", "password": "longenough1"}`
		_, c, rec := setupEcho(http.MethodPost, "/api/auth/login", strings.NewReader(payload))

		assert.NoError(t, LoginHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var count int64
		db.DB.Model(&models.Session{}).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("wrong password", func(t *testing.T) {
		payload := `{"email": "ada@example.com", "password": "wrong-pass"}`
		_, c, rec := setupEcho(http.MethodPost, "/api/auth/login", strings.NewReader(payload))

		assert.NoError(t, LoginHandler(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown email reads the same as wrong password", func(t *testing.T) {
		payload := `{"email": "ghost@example.com", "password": "longenough1"}`
		_, c, rec := setupEcho(http.MethodPost, "/api/auth/login", strings.NewReader(payload))

		assert.NoError(t, LoginHandler(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		var body map[string]string
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Invalid email or password", body["error"])
	})
}

func TestLogoutHandler(t *testing.T) {
	setupTestDB(t)
	user := createHandlerUser(t)
	session, err := services.CreateSession(db.DB, user.ID, "127.0.0.1", "TestAgent")
	assert.NoError(t, err)

	_, c, rec := setupEcho(http.MethodPost, "/api/auth/logout", nil)
	c.Request().AddCookie(&http.Cookie{
		Name:  middleware.SessionCookieName,
		Value: middleware.SignSessionToken(testSessionSecret, session.Token),
	})

	assert.NoError(t, LogoutHandler(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	_, err = services.ValidateSession(db.DB, session.Token)
	assert.Error(t, err)
}

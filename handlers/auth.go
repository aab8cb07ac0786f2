package handlers

import (
	"net/http"
	"strings"

	"formflow_app_go/db"
	"formflow_app_go/middleware"
	"formflow_app_go/services"

	"github.com/labstack/echo/v4"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterHandler creates a new account and opens a session for it
func RegisterHandler(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	user, err := services.CreateUser(db.DB, req.Name, strings.ToLower(strings.TrimSpace(req.Email)), req.Password)
	if err != nil {
		return respondError(c, err)
	}

	session, err := services.CreateSession(db.DB, user.ID, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		return respondError(c, err)
	}

	middleware.SetSessionCookie(c, session, getConfig(c))
	return c.JSON(http.StatusCreated, user)
}

// LoginHandler verifies credentials and opens a session
func LoginHandler(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Email and password are required"})
	}

	user, err := services.AuthenticateUser(db.DB, strings.ToLower(strings.TrimSpace(req.Email)), req.Password)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid email or password"})
	}

	session, err := services.CreateSession(db.DB, user.ID, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		return respondError(c, err)
	}

	middleware.SetSessionCookie(c, session, getConfig(c))
	return c.JSON(http.StatusOK, user)
}

// LogoutHandler deletes the current session and clears the cookie
func LogoutHandler(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.SessionCookieName); err == nil {
		if token, ok := middleware.VerifySessionCookie(getConfig(c).SessionSecret, cookie.Value); ok {
			if err := services.DeleteSession(db.DB, token); err != nil {
				c.Logger().Error(err)
			}
		}
	}
	middleware.ClearSessionCookie(c)
	return c.NoContent(http.StatusNoContent)
}

// MeHandler returns the authenticated user
func MeHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Authentication required"})
	}
	return c.JSON(http.StatusOK, user)
}

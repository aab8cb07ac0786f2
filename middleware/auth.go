package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"formflow_app_go/config"
	"formflow_app_go/db"
	"formflow_app_go/models"
	"formflow_app_go/services"

	"github.com/labstack/echo/v4"
)

const (
	// SessionCookieName is the name of the session cookie
	SessionCookieName = "formflow_session"
	// ContextKeyUser is the context key for the authenticated user
	ContextKeyUser = "user"
	// ContextKeySession is the context key for the session
	ContextKeySession = "session"
)

// SignSessionToken appends an HMAC of the token keyed by the session secret,
// so a token lifted from the database cannot be replayed as a cookie.
func SignSessionToken(secret, token string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(token))
	return token + "." + hex.EncodeToString(mac.Sum(nil))
}

// VerifySessionCookie checks a signed cookie value and returns the embedded
// token when the signature matches.
func VerifySessionCookie(secret, value string) (string, bool) {
	i := strings.LastIndex(value, ".")
	if i <= 0 {
		return "", false
	}
	token := value[:i]
	if !hmac.Equal([]byte(SignSessionToken(secret, token)), []byte(value)) {
		return "", false
	}
	return token, true
}

func sessionSecret(c echo.Context) string {
	if cfg, ok := c.Get("config").(*config.Config); ok {
		return cfg.SessionSecret
	}
	return ""
}

// RequireAuth is middleware that requires an authenticated session. The API
// is JSON-only, so failures are 401 responses rather than redirects.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookieName)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Authentication required"})
			}

			token, ok := VerifySessionCookie(sessionSecret(c), cookie.Value)
			if !ok {
				ClearSessionCookie(c)
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or expired session"})
			}

			session, err := services.ValidateSession(db.DB, token)
			if err != nil {
				ClearSessionCookie(c)
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or expired session"})
			}

			if !session.User.IsActive {
				ClearSessionCookie(c)
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Account is disabled"})
			}

			c.Set(ContextKeyUser, &session.User)
			c.Set(ContextKeySession, session)
			return next(c)
		}
	}
}

// GetCurrentUser retrieves the current user from context
func GetCurrentUser(c echo.Context) *models.User {
	user, ok := c.Get(ContextKeyUser).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// GetCurrentSession retrieves the current session from context
func GetCurrentSession(c echo.Context) *models.Session {
	session, ok := c.Get(ContextKeySession).(*models.Session)
	if !ok {
		return nil
	}
	return session
}

// SetSessionCookie writes the signed session cookie on login
func SetSessionCookie(c echo.Context, session *models.Session, cfg *config.Config) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    SignSessionToken(cfg.SessionSecret, session.Token),
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   cfg.Environment == "production",
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie on logout or invalid session
func ClearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
	})
}

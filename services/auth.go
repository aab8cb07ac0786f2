package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"formflow_app_go/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	// BcryptCost is the cost factor for bcrypt hashing
	BcryptCost = 10
	// SessionTokenLength is the length of the session token in bytes (64 chars hex)
	SessionTokenLength = 32
	// DefaultSessionDuration is the default session duration (7 days)
	DefaultSessionDuration = 7 * 24 * time.Hour
)

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// CheckPassword verifies a password against a bcrypt hash
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateSessionToken generates a cryptographically secure random token
func GenerateSessionToken() (string, error) {
	bytes := make([]byte, SessionTokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// CreateUser registers a new account with a hashed password
func CreateUser(dbConn *gorm.DB, name, email, password string) (*models.User, error) {
	if _, verr := RequiredText(&name, CodeMissingName, "name"); verr != nil {
		return nil, verr
	}
	if !isValidEmail(email) {
		return nil, NewValidationError(CodeInvalidEmail, "a valid email address is required")
	}
	if len(password) < 8 {
		return nil, NewValidationError(CodeInvalidRequiredField, "password must be at least 8 characters")
	}

	var count int64
	if err := dbConn.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return nil, NewValidationError(CodeInvalidEmail, "an account with this email already exists")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     SanitizeText(name),
		Email:    email,
		Password: hash,
		IsActive: true,
	}
	if err := dbConn.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// AuthenticateUser verifies credentials and records the login time. The same
// error is returned for an unknown email and a wrong password.
func AuthenticateUser(dbConn *gorm.DB, email, password string) (*models.User, error) {
	var user models.User
	if err := dbConn.First(&user, "email = ?", email).Error; err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}
	if !user.IsActive {
		return nil, fmt.Errorf("invalid credentials")
	}
	if !CheckPassword(password, user.Password) {
		return nil, fmt.Errorf("invalid credentials")
	}

	now := time.Now()
	if err := dbConn.Model(&user).Update("last_login_at", now).Error; err != nil {
		log.Printf("failed to record login time for %s: %v", user.ID, err)
	}
	user.LastLoginAt = &now
	return &user, nil
}

// CreateSession creates a new session for a user
func CreateSession(dbConn *gorm.DB, userID, ipAddress, userAgent string) (*models.Session, error) {
	token, err := GenerateSessionToken()
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: time.Now().Add(DefaultSessionDuration),
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
	if err := dbConn.Create(session).Error; err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// ValidateSession validates a session token and returns the session if valid
func ValidateSession(dbConn *gorm.DB, token string) (*models.Session, error) {
	var session models.Session
	err := dbConn.Preload("User").Where("token = ?", token).First(&session).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("session not found")
		}
		return nil, fmt.Errorf("failed to validate session: %w", err)
	}

	if session.IsExpired() {
		dbConn.Delete(&session)
		return nil, fmt.Errorf("session expired")
	}
	return &session, nil
}

// DeleteSession deletes a session (logout)
func DeleteSession(dbConn *gorm.DB, token string) error {
	result := dbConn.Where("token = ?", token).Delete(&models.Session{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete session: %w", result.Error)
	}
	return nil
}

// CleanupExpiredSessions removes all expired sessions from the database
func CleanupExpiredSessions(dbConn *gorm.DB) error {
	result := dbConn.Where("expires_at < ?", time.Now()).Delete(&models.Session{})
	if result.Error != nil {
		return fmt.Errorf("failed to cleanup expired sessions: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		log.Printf("Cleaned up %d expired sessions", result.RowsAffected)
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Template represents a reusable form blueprint. Config holds a JSON
// document with the same shape as a form draft's steps array. Templates
// never cascade deletes onto forms: a form only copies the config at
// creation time.
type Template struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Name        string  `gorm:"not null" json:"name"`
	Description *string `gorm:"type:text" json:"description,omitempty"`
	Icon        *string `json:"icon,omitempty"`
	Category    *string `gorm:"index" json:"category,omitempty"`

	Config string `gorm:"type:text;not null" json:"config"`
}

// BeforeCreate hook to generate UUID
func (t *Template) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Template model
func (Template) TableName() string {
	return "templates"
}

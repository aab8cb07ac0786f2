package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Step represents one ordered page of fields within a form
type Step struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	FormID string `gorm:"type:uuid;not null;index" json:"form_id"`

	Title       string  `gorm:"not null" json:"title"`
	Description *string `gorm:"type:text" json:"description,omitempty"`

	// Dense zero-based rank within the owning form. Maintained by the
	// ordering service, not by the database.
	OrderIndex int `gorm:"not null" json:"order_index"`

	// Relationships
	Fields []Field `gorm:"foreignKey:StepID;constraint:OnDelete:CASCADE" json:"fields,omitempty"`
}

// BeforeCreate hook to generate UUID
func (s *Step) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Step model
func (Step) TableName() string {
	return "steps"
}

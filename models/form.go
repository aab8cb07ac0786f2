package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Form represents a user-owned, publishable container of ordered steps
type Form struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Owner (opaque identity reference)
	UserID string `gorm:"type:uuid;not null;index" json:"user_id"`

	Title       string  `gorm:"not null" json:"title"`
	Description *string `gorm:"type:text" json:"description,omitempty"`

	// Provenance pointer to the template this form was instantiated from.
	// The config was copied at creation time; no live reference is kept.
	TemplateID *string `gorm:"type:uuid;index" json:"template_id,omitempty"`

	IsPublished bool `gorm:"not null;default:false;index" json:"is_published"`

	// Relationships
	Steps       []Step       `gorm:"foreignKey:FormID;constraint:OnDelete:CASCADE" json:"steps,omitempty"`
	Submissions []Submission `gorm:"foreignKey:FormID;constraint:OnDelete:CASCADE" json:"submissions,omitempty"`
}

// BeforeCreate hook to generate UUID
func (f *Form) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Form model
func (Form) TableName() string {
	return "forms"
}

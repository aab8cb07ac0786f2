package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Submission represents one respondent's answer set for a form. Data is a
// JSON object keyed by field label, never empty.
type Submission struct {
	ID          string    `gorm:"type:uuid;primarykey" json:"id"`
	SubmittedAt time.Time `gorm:"not null;index" json:"submitted_at"`

	FormID string `gorm:"type:uuid;not null;index" json:"form_id"`

	Data string `gorm:"type:text;not null" json:"data"`
}

// BeforeCreate hook to generate UUID and set SubmittedAt
func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.SubmittedAt.IsZero() {
		s.SubmittedAt = time.Now()
	}
	return nil
}

// TableName specifies the table name for Submission model
func (Submission) TableName() string {
	return "submissions"
}

// DataMap decodes the stored answer document
func (s *Submission) DataMap() (map[string]interface{}, error) {
	data := map[string]interface{}{}
	if err := json.Unmarshal([]byte(s.Data), &data); err != nil {
		return nil, err
	}
	return data, nil
}

package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Field type constants. "boolean" and "bool" are legacy aliases that are
// normalized to checkbox by the field type service.
const (
	FieldTypeText     = "text"
	FieldTypeEmail    = "email"
	FieldTypeNumber   = "number"
	FieldTypeTel      = "tel"
	FieldTypeURL      = "url"
	FieldTypeTextarea = "textarea"
	FieldTypeSelect   = "select"
	FieldTypeRadio    = "radio"
	FieldTypeCheckbox = "checkbox"
	FieldTypeDate     = "date"
)

// Field represents a single typed input definition within a step
type Field struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	StepID string `gorm:"type:uuid;not null;index" json:"step_id"`

	Type         string  `gorm:"not null" json:"type"`
	Label        string  `gorm:"not null" json:"label"`
	Placeholder  *string `json:"placeholder,omitempty"`
	DefaultValue *string `json:"default_value,omitempty"`
	Required     bool    `gorm:"not null;default:false" json:"required"`

	// Dense zero-based rank within the owning step
	OrderIndex int `gorm:"not null" json:"order_index"`

	// JSON documents stored as text. ConditionalLogic is persisted but not
	// consumed by the current rendering pipeline.
	ValidationRules  *string `gorm:"type:text" json:"validation_rules,omitempty"`
	ConditionalLogic *string `gorm:"type:text" json:"conditional_logic,omitempty"`

	// Options is a JSON array of strings for select/radio/checkbox fields
	Options *string `gorm:"type:text" json:"options,omitempty"`
}

// BeforeCreate hook to generate UUID
func (f *Field) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Field model
func (Field) TableName() string {
	return "fields"
}

// OptionList decodes the stored options document into a string slice.
// Malformed or absent options yield an empty list.
func (f *Field) OptionList() []string {
	if f.Options == nil || *f.Options == "" {
		return nil
	}
	var opts []string
	if err := json.Unmarshal([]byte(*f.Options), &opts); err != nil {
		return nil
	}
	return opts
}

// HasOptions reports whether the field carries at least one option
func (f *Field) HasOptions() bool {
	return len(f.OptionList()) > 0
}

// IsValidFieldType checks if the type belongs to the fixed vocabulary,
// including the legacy boolean aliases
func IsValidFieldType(fieldType string) bool {
	validTypes := []string{
		FieldTypeText,
		FieldTypeEmail,
		FieldTypeNumber,
		FieldTypeTel,
		FieldTypeURL,
		FieldTypeTextarea,
		FieldTypeSelect,
		FieldTypeRadio,
		FieldTypeCheckbox,
		FieldTypeDate,
		"boolean",
		"bool",
	}
	for _, t := range validTypes {
		if t == fieldType {
			return true
		}
	}
	return false
}

package services

import (
	"encoding/json"

	"formflow_app_go/models"

	"github.com/google/uuid"
)

// FormDraft is the in-memory shape of a form's whole step/field tree. It is
// produced by the builder UI, by the AI generator and by template configs,
// and consumed by ReplaceFormTree. Draft identifiers are local until the
// tree is persisted.
type FormDraft struct {
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Steps       []StepDraft `json:"steps"`
}

type StepDraft struct {
	ID          string       `json:"id,omitempty"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	OrderIndex  int          `json:"order_index"`
	Fields      []FieldDraft `json:"fields"`
}

type FieldDraft struct {
	ID           string   `json:"id,omitempty"`
	Type         string   `json:"type"`
	Label        string   `json:"label"`
	Placeholder  string   `json:"placeholder,omitempty"`
	DefaultValue string   `json:"default_value,omitempty"`
	Required     bool     `json:"required"`
	Options      []string `json:"options,omitempty"`
	OrderIndex   int      `json:"order_index"`
}

// Normalize assigns fresh local identifiers where absent, defaults blank
// types to text and blank labels to "Field", and rewrites every orderIndex
// to a dense zero-based sequence.
func (d *FormDraft) Normalize() {
	for si := range d.Steps {
		step := &d.Steps[si]
		if step.ID == "" {
			step.ID = uuid.New().String()
		}
		step.OrderIndex = si
		for fi := range step.Fields {
			field := &step.Fields[fi]
			if field.ID == "" {
				field.ID = uuid.New().String()
			}
			if field.Type == "" {
				field.Type = models.FieldTypeText
			}
			if field.Label == "" {
				field.Label = "Field"
			}
			field.OrderIndex = fi
		}
	}
}

// templateConfig is the stored shape of a template's config document
type templateConfig struct {
	Steps []StepDraft `json:"steps"`
}

// ParseTemplateConfig decodes a template's config document into step drafts
func ParseTemplateConfig(config string) ([]StepDraft, error) {
	var cfg templateConfig
	if err := json.Unmarshal([]byte(config), &cfg); err != nil {
		return nil, err
	}
	return cfg.Steps, nil
}

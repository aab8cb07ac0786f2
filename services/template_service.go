package services

import (
	"encoding/json"
	"fmt"

	"formflow_app_go/models"

	"gorm.io/gorm"
)

// TemplateInput carries caller-supplied template attributes
type TemplateInput struct {
	Name        *string         `json:"name"`
	Description *string         `json:"description"`
	Icon        *string         `json:"icon"`
	Category    *string         `json:"category"`
	Config      json.RawMessage `json:"config"`
}

// CreateTemplate validates and persists a reusable form template
func CreateTemplate(dbConn *gorm.DB, input TemplateInput) (*models.Template, error) {
	name, verr := RequiredText(input.Name, CodeMissingName, "name")
	if verr != nil {
		return nil, verr
	}
	if len(input.Config) == 0 || string(input.Config) == "null" {
		return nil, NewValidationError(CodeMissingConfig, "config is required")
	}
	configText, verr := NormalizeJSONObject(input.Config, CodeInvalidConfig, "config")
	if verr != nil {
		return nil, verr
	}

	template := &models.Template{
		Name:        name,
		Description: OptionalText(input.Description),
		Icon:        OptionalText(input.Icon),
		Category:    OptionalText(input.Category),
		Config:      configText,
	}
	if err := dbConn.Create(template).Error; err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}
	return template, nil
}

// GetTemplate loads one template by id
func GetTemplate(dbConn *gorm.DB, templateID string) (*models.Template, error) {
	if verr := ValidateUUID(templateID, CodeInvalidUUID); verr != nil {
		return nil, verr
	}
	var template models.Template
	if err := dbConn.First(&template, "id = ?", templateID).Error; err != nil {
		return nil, err
	}
	return &template, nil
}

// ListTemplates returns the catalog newest first, optionally filtered by
// category and by a substring search over name and description.
func ListTemplates(dbConn *gorm.DB, category, search string) ([]models.Template, error) {
	query := dbConn.Model(&models.Template{}).Order("created_at DESC")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", pattern, pattern)
	}
	var templates []models.Template
	if err := query.Find(&templates).Error; err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}

// UpdateTemplate applies a partial attribute set to a template
func UpdateTemplate(dbConn *gorm.DB, templateID string, input TemplateInput) (*models.Template, error) {
	template, err := GetTemplate(dbConn, templateID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		name, verr := RequiredText(input.Name, CodeMissingName, "name")
		if verr != nil {
			return nil, verr
		}
		updates["name"] = name
	}
	if input.Description != nil {
		updates["description"] = OptionalText(input.Description)
	}
	if input.Icon != nil {
		updates["icon"] = OptionalText(input.Icon)
	}
	if input.Category != nil {
		updates["category"] = OptionalText(input.Category)
	}
	if len(input.Config) > 0 && string(input.Config) != "null" {
		configText, verr := NormalizeJSONObject(input.Config, CodeInvalidConfig, "config")
		if verr != nil {
			return nil, verr
		}
		updates["config"] = configText
	}

	if len(updates) > 0 {
		if err := dbConn.Model(template).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update template: %w", err)
		}
	}
	return template, nil
}

// DeleteTemplate removes a template from the catalog. Forms created from it
// keep their copied tree; only the provenance pointer dangles.
func DeleteTemplate(dbConn *gorm.DB, templateID string) error {
	template, err := GetTemplate(dbConn, templateID)
	if err != nil {
		return err
	}
	if err := dbConn.Delete(template).Error; err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	return nil
}

// builtinTemplate pairs catalog metadata with a draft tree for seeding
type builtinTemplate struct {
	Name        string
	Description string
	Icon        string
	Category    string
	Steps       []StepDraft
}

var builtinTemplates = []builtinTemplate{
	{
		Name:        "Contact Form",
		Description: "A simple contact form with name, email and message",
		Icon:        "mail",
		Category:    "general",
		Steps: []StepDraft{
			{
				Title: "Contact Details",
				Fields: []FieldDraft{
					{Type: models.FieldTypeText, Label: "Full Name", Placeholder: "Enter your full name", Required: true},
					{Type: models.FieldTypeEmail, Label: "Email Address", Placeholder: "your@email.com", Required: true},
					{Type: models.FieldTypeTel, Label: "Phone Number", Placeholder: "+1 (555) 000-0000", Required: false},
					{Type: models.FieldTypeTextarea, Label: "Message", Placeholder: "How can we help?", Required: true},
				},
			},
		},
	},
	{
		Name:        "Survey Form",
		Description: "Gather structured feedback with ratings and comments",
		Icon:        "clipboard",
		Category:    "feedback",
		Steps: []StepDraft{
			{
				Title: "About You",
				Fields: []FieldDraft{
					{Type: models.FieldTypeText, Label: "Name", Placeholder: "Your name", Required: false},
					{Type: models.FieldTypeEmail, Label: "Email", Placeholder: "your@email.com", Required: false},
				},
			},
			{
				Title: "Your Feedback",
				Fields: []FieldDraft{
					{Type: models.FieldTypeSelect, Label: "Overall Rating", Options: []string{"Excellent", "Good", "Average", "Poor"}, Required: true},
					{Type: models.FieldTypeRadio, Label: "Would you recommend us?", Options: []string{"Yes", "No", "Maybe"}, Required: true},
					{Type: models.FieldTypeTextarea, Label: "Comments", Placeholder: "Tell us more...", Required: false},
				},
			},
		},
	},
	{
		Name:        "Registration Form",
		Description: "Multi-step event or account registration",
		Icon:        "user-plus",
		Category:    "general",
		Steps: []StepDraft{
			{
				Title: "Personal Information",
				Fields: []FieldDraft{
					{Type: models.FieldTypeText, Label: "Full Name", Placeholder: "Enter your full name", Required: true},
					{Type: models.FieldTypeEmail, Label: "Email", Placeholder: "your@email.com", Required: true},
					{Type: models.FieldTypeTel, Label: "Phone", Placeholder: "+1 (555) 000-0000", Required: false},
					{Type: models.FieldTypeDate, Label: "Date of Birth", Required: false},
				},
			},
			{
				Title: "Preferences",
				Fields: []FieldDraft{
					{Type: models.FieldTypeCheckbox, Label: "I agree to the terms and conditions", Required: true},
					{Type: models.FieldTypeCheckbox, Label: "Subscribe to the newsletter", Required: false},
				},
			},
		},
	},
}

// SeedTemplates inserts the built-in template catalog. Seeding is idempotent
// by name: an existing template with the same name is left untouched.
func SeedTemplates(dbConn *gorm.DB) (int, error) {
	created := 0
	for _, builtin := range builtinTemplates {
		var count int64
		if err := dbConn.Model(&models.Template{}).Where("name = ?", builtin.Name).Count(&count).Error; err != nil {
			return created, fmt.Errorf("failed to check template %s: %w", builtin.Name, err)
		}
		if count > 0 {
			continue
		}

		draft := FormDraft{Steps: builtin.Steps}
		draft.Normalize()
		configText, err := json.Marshal(templateConfig{Steps: draft.Steps})
		if err != nil {
			return created, fmt.Errorf("failed to encode template %s: %w", builtin.Name, err)
		}

		description := builtin.Description
		icon := builtin.Icon
		category := builtin.Category
		template := models.Template{
			Name:        builtin.Name,
			Description: &description,
			Icon:        &icon,
			Category:    &category,
			Config:      string(configText),
		}
		if err := dbConn.Create(&template).Error; err != nil {
			return created, fmt.Errorf("failed to seed template %s: %w", builtin.Name, err)
		}
		created++
	}
	return created, nil
}

package services

import (
	"encoding/json"
	"fmt"

	"formflow_app_go/models"

	"gorm.io/gorm"
)

// FormInput carries the caller-supplied attributes of a form create or
// update. Pointer fields distinguish "absent" from "empty".
type FormInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	TemplateID  *string `json:"template_id"`
	IsPublished *bool   `json:"is_published"`
}

// FormSummary is a dashboard projection of a form plus its submission count
type FormSummary struct {
	models.Form
	SubmissionCount int64 `json:"submission_count"`
}

// CreateForm validates and persists a new form for the owner
func CreateForm(dbConn *gorm.DB, userID string, input FormInput) (*models.Form, error) {
	if userID == "" {
		return nil, NewValidationError(CodeMissingUserID, "userId is required and must be a non-empty string")
	}

	title, verr := RequiredText(input.Title, CodeMissingTitle, "title")
	if verr != nil {
		return nil, verr
	}

	form := &models.Form{
		UserID:      userID,
		Title:       title,
		Description: OptionalText(input.Description),
	}
	if input.TemplateID != nil && *input.TemplateID != "" {
		if verr := ValidateUUID(*input.TemplateID, CodeInvalidTemplateID); verr != nil {
			return nil, verr
		}
		form.TemplateID = input.TemplateID
	}
	if input.IsPublished != nil {
		form.IsPublished = *input.IsPublished
	}

	if err := dbConn.Create(form).Error; err != nil {
		return nil, fmt.Errorf("failed to create form: %w", err)
	}
	return form, nil
}

// UpdateForm applies a partial attribute set to an owned form
func UpdateForm(dbConn *gorm.DB, formID, userID string, input FormInput) (*models.Form, error) {
	form, err := GetOwnedForm(dbConn, formID, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		title, verr := RequiredText(input.Title, CodeInvalidTitle, "title")
		if verr != nil {
			return nil, verr
		}
		updates["title"] = title
	}
	if input.Description != nil {
		updates["description"] = OptionalText(input.Description)
	}
	if input.TemplateID != nil {
		if *input.TemplateID != "" {
			if verr := ValidateUUID(*input.TemplateID, CodeInvalidTemplateID); verr != nil {
				return nil, verr
			}
		}
		updates["template_id"] = OptionalText(input.TemplateID)
	}
	if input.IsPublished != nil {
		updates["is_published"] = *input.IsPublished
	}

	if len(updates) > 0 {
		if err := dbConn.Model(form).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update form: %w", err)
		}
	}
	return form, nil
}

// GetOwnedForm loads a form scoped to its owner. A form owned by someone
// else resolves to not-found, not forbidden.
func GetOwnedForm(dbConn *gorm.DB, formID, userID string) (*models.Form, error) {
	if verr := ValidateUUID(formID, CodeInvalidUUID); verr != nil {
		return nil, verr
	}
	var form models.Form
	if err := dbConn.First(&form, "id = ? AND user_id = ?", formID, userID).Error; err != nil {
		return nil, err
	}
	return &form, nil
}

// ListForms returns the owner's forms newest first, with submission counts,
// optionally filtered by a title/description substring and publication flag.
func ListForms(dbConn *gorm.DB, userID, search string, isPublished *bool, limit, offset int) ([]FormSummary, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	query := dbConn.Model(&models.Form{}).
		Select("forms.*, COUNT(DISTINCT submissions.id) AS submission_count").
		Joins("LEFT JOIN submissions ON submissions.form_id = forms.id").
		Where("forms.user_id = ?", userID).
		Group("forms.id").
		Order("forms.created_at DESC")

	if search != "" {
		likeSearch := "%" + search + "%"
		query = query.Where("forms.title LIKE ? OR forms.description LIKE ?", likeSearch, likeSearch)
	}
	if isPublished != nil {
		query = query.Where("forms.is_published = ?", *isPublished)
	}

	var summaries []FormSummary
	if err := query.Limit(limit).Offset(offset).Find(&summaries).Error; err != nil {
		return nil, fmt.Errorf("failed to list forms: %w", err)
	}
	return summaries, nil
}

// DeleteForm removes a form and everything it owns: steps, fields and
// submissions, in one transaction.
func DeleteForm(dbConn *gorm.DB, formID, userID string) error {
	form, err := GetOwnedForm(dbConn, formID, userID)
	if err != nil {
		return err
	}

	return dbConn.Transaction(func(tx *gorm.DB) error {
		if err := deleteStepTree(tx, form.ID); err != nil {
			return err
		}
		if err := tx.Where("form_id = ?", form.ID).Delete(&models.Submission{}).Error; err != nil {
			return fmt.Errorf("failed to delete submissions: %w", err)
		}
		if err := tx.Delete(form).Error; err != nil {
			return fmt.Errorf("failed to delete form: %w", err)
		}
		return nil
	})
}

// GetFormTree loads a form with its steps and fields in canonical order
func GetFormTree(dbConn *gorm.DB, formID string) (*models.Form, error) {
	if verr := ValidateUUID(formID, CodeInvalidUUID); verr != nil {
		return nil, verr
	}

	var form models.Form
	if err := dbConn.First(&form, "id = ?", formID).Error; err != nil {
		return nil, err
	}

	var steps []models.Step
	if err := dbConn.Where("form_id = ?", formID).Order(siblingOrder).Find(&steps).Error; err != nil {
		return nil, fmt.Errorf("failed to load steps: %w", err)
	}
	for i := range steps {
		var fields []models.Field
		if err := dbConn.Where("step_id = ?", steps[i].ID).Order(siblingOrder).Find(&fields).Error; err != nil {
			return nil, fmt.Errorf("failed to load fields: %w", err)
		}
		steps[i].Fields = fields
	}
	form.Steps = steps
	return &form, nil
}

// ReplaceFormTree replaces a form's entire step/field tree with the draft,
// in a single transaction so a mid-sequence failure can never leave the
// form with a partially-recreated tree.
func ReplaceFormTree(dbConn *gorm.DB, formID, userID string, steps []StepDraft) error {
	form, err := GetOwnedForm(dbConn, formID, userID)
	if err != nil {
		return err
	}

	draft := FormDraft{Steps: steps}
	draft.Normalize()
	for _, step := range draft.Steps {
		if verr := validateStepDraft(step); verr != nil {
			return verr
		}
	}

	return dbConn.Transaction(func(tx *gorm.DB) error {
		if err := deleteStepTree(tx, form.ID); err != nil {
			return err
		}
		if err := createStepTree(tx, form.ID, draft.Steps); err != nil {
			return err
		}
		return tx.Model(form).Update("updated_at", tx.NowFunc()).Error
	})
}

// InstantiateTemplate creates a new form by copying a template's config.
// Only the provenance pointer is retained; later template edits do not
// affect the form.
func InstantiateTemplate(dbConn *gorm.DB, userID, templateID string) (*models.Form, error) {
	template, err := GetTemplate(dbConn, templateID)
	if err != nil {
		return nil, err
	}

	steps, perr := ParseTemplateConfig(template.Config)
	if perr != nil {
		return nil, NewValidationError(CodeInvalidConfig, "template config must be a valid JSON object")
	}

	draft := FormDraft{Steps: steps}
	draft.Normalize()

	form := &models.Form{
		UserID:      userID,
		Title:       template.Name,
		Description: template.Description,
		TemplateID:  &template.ID,
	}

	err = dbConn.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(form).Error; err != nil {
			return fmt.Errorf("failed to create form: %w", err)
		}
		return createStepTree(tx, form.ID, draft.Steps)
	})
	if err != nil {
		return nil, err
	}
	return form, nil
}

// SetPublished toggles the public availability of a form
func SetPublished(dbConn *gorm.DB, formID, userID string, published bool) (*models.Form, error) {
	form, err := GetOwnedForm(dbConn, formID, userID)
	if err != nil {
		return nil, err
	}
	if err := dbConn.Model(form).Update("is_published", published).Error; err != nil {
		return nil, fmt.Errorf("failed to update form: %w", err)
	}
	return form, nil
}

// validateStepDraft gates a draft step (and its fields) before persistence
func validateStepDraft(step StepDraft) *ValidationError {
	if _, verr := RequiredText(&step.Title, CodeMissingTitle, "step title"); verr != nil {
		return verr
	}
	for _, field := range step.Fields {
		if _, verr := RequiredText(&field.Label, CodeMissingLabel, "label"); verr != nil {
			return verr
		}
		if field.Type != "" && !models.IsValidFieldType(NormalizeFieldType(field.Type)) {
			return NewValidationError(CodeInvalidType, fmt.Sprintf("unsupported field type %q", field.Type))
		}
		// select and radio fields, and checkboxes offering choices, need a
		// non-trivial option list
		normalized := NormalizeFieldType(field.Type)
		if (normalized == models.FieldTypeSelect || normalized == models.FieldTypeRadio) && len(field.Options) == 0 {
			return NewValidationError(CodeInvalidOptions, fmt.Sprintf("%s requires a non-empty options list", field.Label))
		}
	}
	return nil
}

// deleteStepTree removes all of a form's steps together with their fields
func deleteStepTree(tx *gorm.DB, formID string) error {
	var stepIDs []string
	if err := tx.Model(&models.Step{}).Where("form_id = ?", formID).Pluck("id", &stepIDs).Error; err != nil {
		return fmt.Errorf("failed to load step ids: %w", err)
	}
	if len(stepIDs) > 0 {
		if err := tx.Where("step_id IN ?", stepIDs).Delete(&models.Field{}).Error; err != nil {
			return fmt.Errorf("failed to delete fields: %w", err)
		}
		if err := tx.Where("form_id = ?", formID).Delete(&models.Step{}).Error; err != nil {
			return fmt.Errorf("failed to delete steps: %w", err)
		}
	}
	return nil
}

// createStepTree persists a normalized draft tree under the form
func createStepTree(tx *gorm.DB, formID string, steps []StepDraft) error {
	for _, stepDraft := range steps {
		step := models.Step{
			FormID:      formID,
			Title:       SanitizeText(stepDraft.Title),
			Description: OptionalText(&stepDraft.Description),
			OrderIndex:  stepDraft.OrderIndex,
		}
		if err := tx.Create(&step).Error; err != nil {
			return fmt.Errorf("failed to create step: %w", err)
		}

		for _, fieldDraft := range stepDraft.Fields {
			field := models.Field{
				StepID:      step.ID,
				Type:        NormalizeFieldType(fieldDraft.Type),
				Label:       SanitizeText(fieldDraft.Label),
				Placeholder: OptionalText(&fieldDraft.Placeholder),
				Required:    fieldDraft.Required,
				OrderIndex:  fieldDraft.OrderIndex,
			}
			if fieldDraft.DefaultValue != "" {
				field.DefaultValue = OptionalText(&fieldDraft.DefaultValue)
			}
			if len(fieldDraft.Options) > 0 {
				text, err := json.Marshal(fieldDraft.Options)
				if err != nil {
					return fmt.Errorf("failed to encode options: %w", err)
				}
				s := string(text)
				field.Options = &s
			}
			if err := tx.Create(&field).Error; err != nil {
				return fmt.Errorf("failed to create field: %w", err)
			}
		}
	}
	return nil
}

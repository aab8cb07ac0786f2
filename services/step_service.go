package services

import (
	"fmt"

	"formflow_app_go/models"

	"gorm.io/gorm"
)

// StepInput carries caller-supplied step attributes. OrderIndex doubles as
// the insertion position on create.
type StepInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	OrderIndex  *int    `json:"order_index"`
}

// CreateStep validates a new step and inserts it at the requested position,
// or appends when no position is given.
func CreateStep(dbConn *gorm.DB, formID, userID string, input StepInput) (*models.Step, error) {
	form, err := GetOwnedForm(dbConn, formID, userID)
	if err != nil {
		return nil, err
	}

	title, verr := RequiredText(input.Title, CodeMissingTitle, "title")
	if verr != nil {
		return nil, verr
	}
	if input.OrderIndex != nil {
		if _, verr := ValidateOrderIndex(input.OrderIndex); verr != nil {
			return nil, verr
		}
	}

	step := &models.Step{
		FormID:      form.ID,
		Title:       title,
		Description: OptionalText(input.Description),
	}
	if err := InsertStepAt(dbConn, step, input.OrderIndex); err != nil {
		return nil, err
	}
	return step, nil
}

// GetOwnedStep loads a step scoped through its form to the owner
func GetOwnedStep(dbConn *gorm.DB, stepID, userID string) (*models.Step, error) {
	if verr := ValidateUUID(stepID, CodeInvalidUUID); verr != nil {
		return nil, verr
	}
	var step models.Step
	err := dbConn.Joins("JOIN forms ON forms.id = steps.form_id").
		Where("steps.id = ? AND forms.user_id = ?", stepID, userID).
		First(&step).Error
	if err != nil {
		return nil, err
	}
	return &step, nil
}

// UpdateStep applies a partial attribute set to a step. A changed OrderIndex
// is treated as a reorder within the form.
func UpdateStep(dbConn *gorm.DB, stepID, userID string, input StepInput) (*models.Step, error) {
	step, err := GetOwnedStep(dbConn, stepID, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		title, verr := RequiredText(input.Title, CodeMissingTitle, "title")
		if verr != nil {
			return nil, verr
		}
		updates["title"] = title
	}
	if input.Description != nil {
		updates["description"] = OptionalText(input.Description)
	}

	if len(updates) > 0 {
		if err := dbConn.Model(step).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update step: %w", err)
		}
	}

	if input.OrderIndex != nil {
		newIndex, verr := ValidateOrderIndex(input.OrderIndex)
		if verr != nil {
			return nil, verr
		}
		if err := ReorderSteps(dbConn, step.FormID, step.ID, newIndex); err != nil {
			return nil, err
		}
		if err := dbConn.First(step, "id = ?", step.ID).Error; err != nil {
			return nil, err
		}
	}
	return step, nil
}

// DeleteStep removes an owned step and compacts its siblings
func DeleteStep(dbConn *gorm.DB, stepID, userID string) error {
	step, err := GetOwnedStep(dbConn, stepID, userID)
	if err != nil {
		return err
	}
	return DeleteStepAndCompact(dbConn, step.ID)
}

// ListSteps returns a form's steps with their fields in canonical order
func ListSteps(dbConn *gorm.DB, formID string) ([]models.Step, error) {
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
	return steps, nil
}

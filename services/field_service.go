package services

import (
	"encoding/json"
	"fmt"

	"formflow_app_go/models"

	"gorm.io/gorm"
)

// FieldInput carries caller-supplied field attributes. JSON-typed attributes
// arrive raw so both literals and string-encoded documents are accepted.
type FieldInput struct {
	Type             *string         `json:"type"`
	Label            *string         `json:"label"`
	Placeholder      *string         `json:"placeholder"`
	DefaultValue     *string         `json:"default_value"`
	Required         *bool           `json:"required"`
	OrderIndex       *int            `json:"order_index"`
	Options          json.RawMessage `json:"options"`
	ValidationRules  json.RawMessage `json:"validation_rules"`
	ConditionalLogic json.RawMessage `json:"conditional_logic"`
}

// CreateField validates a new field and inserts it at the requested position
// within its step, or appends when no position is given.
func CreateField(dbConn *gorm.DB, stepID, userID string, input FieldInput) (*models.Field, error) {
	step, err := GetOwnedStep(dbConn, stepID, userID)
	if err != nil {
		return nil, err
	}

	label, verr := RequiredText(input.Label, CodeMissingLabel, "label")
	if verr != nil {
		return nil, verr
	}

	fieldType := ""
	if input.Type != nil {
		fieldType = NormalizeFieldType(*input.Type)
		if *input.Type != "" && !models.IsValidFieldType(fieldType) {
			return nil, NewValidationError(CodeInvalidType, fmt.Sprintf("unsupported field type %q", *input.Type))
		}
	}

	optionsText, _, verr := NormalizeOptions(input.Options)
	if verr != nil {
		return nil, verr
	}

	// An unmarked field's concrete type is decided by the render strategy:
	// option-less affirmations become boolean checkboxes, everything else is
	// a text input.
	if fieldType == "" {
		if optionsText == nil && IsAffirmationLabel(label) {
			fieldType = models.FieldTypeCheckbox
		} else {
			fieldType = models.FieldTypeText
		}
	}

	if (fieldType == models.FieldTypeSelect || fieldType == models.FieldTypeRadio) && optionsText == nil {
		return nil, NewValidationError(CodeInvalidOptions, fmt.Sprintf("%s fields require a non-empty options list", fieldType))
	}

	rulesText, verr := NormalizeJSONDocument(input.ValidationRules, CodeInvalidValidationRules, "validationRules")
	if verr != nil {
		return nil, verr
	}
	logicText, verr := NormalizeJSONDocument(input.ConditionalLogic, CodeInvalidConditionalLogic, "conditionalLogic")
	if verr != nil {
		return nil, verr
	}
	if input.OrderIndex != nil {
		if _, verr := ValidateOrderIndex(input.OrderIndex); verr != nil {
			return nil, verr
		}
	}

	field := &models.Field{
		StepID:           step.ID,
		Type:             fieldType,
		Label:            label,
		Placeholder:      OptionalText(input.Placeholder),
		DefaultValue:     OptionalText(input.DefaultValue),
		Options:          optionsText,
		ValidationRules:  rulesText,
		ConditionalLogic: logicText,
	}
	if input.Required != nil {
		field.Required = *input.Required
	}

	if err := InsertFieldAt(dbConn, field, input.OrderIndex); err != nil {
		return nil, err
	}
	return field, nil
}

// GetOwnedField loads a field scoped through its step and form to the owner
func GetOwnedField(dbConn *gorm.DB, fieldID, userID string) (*models.Field, error) {
	if verr := ValidateUUID(fieldID, CodeInvalidUUID); verr != nil {
		return nil, verr
	}
	var field models.Field
	err := dbConn.Joins("JOIN steps ON steps.id = fields.step_id").
		Joins("JOIN forms ON forms.id = steps.form_id").
		Where("fields.id = ? AND forms.user_id = ?", fieldID, userID).
		First(&field).Error
	if err != nil {
		return nil, err
	}
	return &field, nil
}

// UpdateField applies a partial attribute set to a field. A changed
// OrderIndex is treated as a reorder within the step.
func UpdateField(dbConn *gorm.DB, fieldID, userID string, input FieldInput) (*models.Field, error) {
	field, err := GetOwnedField(dbConn, fieldID, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Type != nil {
		fieldType := NormalizeFieldType(*input.Type)
		if !models.IsValidFieldType(fieldType) {
			return nil, NewValidationError(CodeInvalidType, fmt.Sprintf("unsupported field type %q", *input.Type))
		}
		updates["type"] = fieldType
	}
	if input.Label != nil {
		label, verr := RequiredText(input.Label, CodeMissingLabel, "label")
		if verr != nil {
			return nil, verr
		}
		updates["label"] = label
	}
	if input.Placeholder != nil {
		updates["placeholder"] = OptionalText(input.Placeholder)
	}
	if input.DefaultValue != nil {
		updates["default_value"] = OptionalText(input.DefaultValue)
	}
	if input.Required != nil {
		updates["required"] = *input.Required
	}
	if len(input.Options) > 0 {
		optionsText, _, verr := NormalizeOptions(input.Options)
		if verr != nil {
			return nil, verr
		}
		updates["options"] = optionsText
	}
	if len(input.ValidationRules) > 0 {
		rulesText, verr := NormalizeJSONDocument(input.ValidationRules, CodeInvalidValidationRules, "validationRules")
		if verr != nil {
			return nil, verr
		}
		updates["validation_rules"] = rulesText
	}
	if len(input.ConditionalLogic) > 0 {
		logicText, verr := NormalizeJSONDocument(input.ConditionalLogic, CodeInvalidConditionalLogic, "conditionalLogic")
		if verr != nil {
			return nil, verr
		}
		updates["conditional_logic"] = logicText
	}

	// The type/options invariant must hold for the post-update pair: a field
	// cannot be retyped to select or radio without options, nor have its
	// options cleared while it is one.
	nextType := field.Type
	if t, ok := updates["type"].(string); ok {
		nextType = t
	}
	nextOptions := field.Options
	if raw, ok := updates["options"]; ok {
		nextOptions, _ = raw.(*string)
	}
	if (nextType == models.FieldTypeSelect || nextType == models.FieldTypeRadio) && nextOptions == nil {
		return nil, NewValidationError(CodeInvalidOptions, fmt.Sprintf("%s fields require a non-empty options list", nextType))
	}

	if len(updates) > 0 {
		if err := dbConn.Model(field).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update field: %w", err)
		}
	}

	if input.OrderIndex != nil {
		newIndex, verr := ValidateOrderIndex(input.OrderIndex)
		if verr != nil {
			return nil, verr
		}
		if err := ReorderFields(dbConn, field.StepID, field.ID, newIndex); err != nil {
			return nil, err
		}
		if err := dbConn.First(field, "id = ?", field.ID).Error; err != nil {
			return nil, err
		}
	}
	return field, nil
}

// DeleteField removes an owned field and compacts its siblings
func DeleteField(dbConn *gorm.DB, fieldID, userID string) error {
	field, err := GetOwnedField(dbConn, fieldID, userID)
	if err != nil {
		return err
	}
	return DeleteFieldAndCompact(dbConn, field.ID)
}

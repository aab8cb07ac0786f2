package services

import (
	"testing"

	"formflow_app_go/models"

	"github.com/stretchr/testify/assert"
)

func optionsJSON(t *testing.T, opts string) *string {
	t.Helper()
	return &opts
}

func TestNormalizeFieldType(t *testing.T) {
	assert.Equal(t, "text", NormalizeFieldType(" Text "))
	assert.Equal(t, "checkbox", NormalizeFieldType("boolean"))
	assert.Equal(t, "checkbox", NormalizeFieldType("Bool"))
	assert.Equal(t, "wibble", NormalizeFieldType("wibble"))
}

func TestResolveStrategy(t *testing.T) {
	t.Run("checkbox without options is a single boolean", func(t *testing.T) {
		field := &models.Field{Type: "checkbox", Label: "I agree to the terms"}
		assert.Equal(t, StrategyBooleanCheckbox, ResolveStrategy(field))
	})

	t.Run("checkbox with options is a group", func(t *testing.T) {
		field := &models.Field{Type: "checkbox", Label: "Toppings", Options: optionsJSON(t, `["Ham","Cheese"]`)}
		assert.Equal(t, StrategyCheckboxGroup, ResolveStrategy(field))
	})

	t.Run("boolean alias resolves through checkbox", func(t *testing.T) {
		field := &models.Field{Type: "boolean", Label: "Subscribe"}
		assert.Equal(t, StrategyBooleanCheckbox, ResolveStrategy(field))
	})

	t.Run("unknown type with affirmation label is a boolean checkbox", func(t *testing.T) {
		field := &models.Field{Type: "mystery", Label: "I have read the policy"}
		assert.Equal(t, StrategyBooleanCheckbox, ResolveStrategy(field))
	})

	t.Run("unknown type with plain label falls back to input", func(t *testing.T) {
		field := &models.Field{Type: "mystery", Label: "Favourite Colour"}
		assert.Equal(t, StrategyInput, ResolveStrategy(field))
	})

	t.Run("affirmation label with a declared scalar type stays an input", func(t *testing.T) {
		field := &models.Field{Type: "text", Label: "I agree statement text"}
		assert.Equal(t, StrategyInput, ResolveStrategy(field))
	})

	t.Run("core types", func(t *testing.T) {
		assert.Equal(t, StrategyTextarea, ResolveStrategy(&models.Field{Type: "textarea", Label: "Notes"}))
		assert.Equal(t, StrategySelect, ResolveStrategy(&models.Field{Type: "select", Label: "Pick", Options: optionsJSON(t, `["A"]`)}))
		assert.Equal(t, StrategyRadio, ResolveStrategy(&models.Field{Type: "radio", Label: "Pick", Options: optionsJSON(t, `["A"]`)}))
		assert.Equal(t, StrategyDate, ResolveStrategy(&models.Field{Type: "date", Label: "When"}))
		assert.Equal(t, StrategyInput, ResolveStrategy(&models.Field{Type: "email", Label: "Email"}))
	})
}

func TestIsAffirmationLabel(t *testing.T) {
	assert.True(t, IsAffirmationLabel("I agree to the terms"))
	assert.True(t, IsAffirmationLabel("  CONSENT to processing"))
	assert.True(t, IsAffirmationLabel("I am over 18"))
	assert.False(t, IsAffirmationLabel("Describe your agreement"))
	assert.False(t, IsAffirmationLabel("Email"))
}

func TestValidateFieldValue(t *testing.T) {
	t.Run("required text missing", func(t *testing.T) {
		field := &models.Field{Type: "text", Label: "Full Name", Required: true}
		verr := ValidateFieldValue(field, "")
		assert.NotNil(t, verr)
		assert.Equal(t, CodeRequiredField, verr.Code)
		assert.Equal(t, "Full Name is required", verr.Message)
	})

	t.Run("optional text missing is fine", func(t *testing.T) {
		field := &models.Field{Type: "text", Label: "Nickname"}
		assert.Nil(t, ValidateFieldValue(field, nil))
	})

	t.Run("required boolean checkbox must be checked", func(t *testing.T) {
		field := &models.Field{Type: "checkbox", Label: "I agree to the terms", Required: true}
		verr := ValidateFieldValue(field, false)
		assert.NotNil(t, verr)
		assert.Equal(t, "I agree to the terms is required", verr.Message)
		assert.Nil(t, ValidateFieldValue(field, true))
	})

	t.Run("required checkbox group needs a selection", func(t *testing.T) {
		field := &models.Field{Type: "checkbox", Label: "Toppings", Required: true, Options: optionsJSON(t, `["Ham","Cheese"]`)}
		verr := ValidateFieldValue(field, []interface{}{})
		assert.NotNil(t, verr)
		assert.Nil(t, ValidateFieldValue(field, []interface{}{"Ham"}))
	})

	t.Run("email format", func(t *testing.T) {
		field := &models.Field{Type: "email", Label: "Email"}
		assert.Nil(t, ValidateFieldValue(field, "ada@example.com"))
		verr := ValidateFieldValue(field, "ada@example")
		assert.NotNil(t, verr)
		assert.Equal(t, CodeInvalidEmail, verr.Code)
		assert.NotNil(t, ValidateFieldValue(field, "not-an-email"))
	})

	t.Run("phone needs at least seven digits", func(t *testing.T) {
		field := &models.Field{Type: "tel", Label: "Phone"}
		assert.Nil(t, ValidateFieldValue(field, "+1 (555) 000-0000"))
		verr := ValidateFieldValue(field, "12345")
		assert.NotNil(t, verr)
		assert.Equal(t, CodeInvalidPhone, verr.Code)
	})

	t.Run("date must parse", func(t *testing.T) {
		field := &models.Field{Type: "date", Label: "Date of Birth"}
		assert.Nil(t, ValidateFieldValue(field, "1990-06-15"))
		assert.Nil(t, ValidateFieldValue(field, "1990-06-15T10:00:00Z"))
		verr := ValidateFieldValue(field, "June 15th")
		assert.NotNil(t, verr)
		assert.Equal(t, CodeInvalidDate, verr.Code)
	})

	t.Run("select value outside the option list is accepted", func(t *testing.T) {
		// Membership is intentionally unenforced: options constrain the
		// rendered choices, not the stored value.
		field := &models.Field{Type: "select", Label: "Size", Required: true, Options: optionsJSON(t, `["S","M","L"]`)}
		assert.Nil(t, ValidateFieldValue(field, "XXL"))
		verr := ValidateFieldValue(field, "")
		assert.NotNil(t, verr)
		assert.Equal(t, CodeRequiredField, verr.Code)
	})

	t.Run("format validators run even when optional", func(t *testing.T) {
		field := &models.Field{Type: "email", Label: "Backup Email"}
		assert.Nil(t, ValidateFieldValue(field, ""))
		assert.NotNil(t, ValidateFieldValue(field, "broken"))
	})
}

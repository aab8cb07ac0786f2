package services

import (
	"fmt"
	"strings"
	"time"

	"formflow_app_go/models"
)

// RenderStrategy identifies how a field is rendered and which validation
// rule applies to its value.
type RenderStrategy string

const (
	StrategyInput           RenderStrategy = "input"
	StrategyTextarea        RenderStrategy = "textarea"
	StrategySelect          RenderStrategy = "select"
	StrategyRadio           RenderStrategy = "radio"
	StrategyCheckboxGroup   RenderStrategy = "checkbox_group"
	StrategyBooleanCheckbox RenderStrategy = "boolean_checkbox"
	StrategyDate            RenderStrategy = "date"
)

// affirmationPrefixes classify mis-tagged consent style fields. A field
// whose label starts with one of these behaves as a single boolean checkbox
// even when its type tag was not set to checkbox.
var affirmationPrefixes = []string{
	"i am",
	"i have",
	"i agree",
	"i accept",
	"agree",
	"accept",
	"consent",
}

// NormalizeFieldType lower-cases the declared type and maps the legacy
// boolean aliases onto checkbox. Unknown types are returned as-is; strategy
// resolution falls back to a plain text input for them.
func NormalizeFieldType(raw string) string {
	t := strings.ToLower(strings.TrimSpace(raw))
	switch t {
	case "boolean", "bool":
		return models.FieldTypeCheckbox
	default:
		return t
	}
}

// IsAffirmationLabel reports whether a label matches the affirmation
// pattern ("I agree...", "Consent...", case-insensitive). This is the
// explicit secondary classifier for mis-tagged boolean fields.
func IsAffirmationLabel(label string) bool {
	l := strings.ToLower(strings.TrimSpace(label))
	for _, prefix := range affirmationPrefixes {
		if strings.HasPrefix(l, prefix) {
			return true
		}
	}
	return false
}

// ResolveStrategy maps a field definition to its rendering strategy.
// Dispatch key is the normalized type; checkbox fields without options are
// single boolean checkboxes, and the affirmation classifier extends that
// strategy to mis-tagged fields whose label reads like a consent statement.
func ResolveStrategy(field *models.Field) RenderStrategy {
	options := field.OptionList()
	fieldType := NormalizeFieldType(field.Type)

	switch fieldType {
	case models.FieldTypeTextarea:
		return StrategyTextarea
	case models.FieldTypeSelect:
		return StrategySelect
	case models.FieldTypeRadio:
		return StrategyRadio
	case models.FieldTypeCheckbox:
		if len(options) == 0 {
			return StrategyBooleanCheckbox
		}
		return StrategyCheckboxGroup
	case models.FieldTypeDate:
		return StrategyDate
	case models.FieldTypeText, models.FieldTypeEmail, models.FieldTypeNumber,
		models.FieldTypeTel, models.FieldTypeURL:
		return StrategyInput
	default:
		// Unknown types render as a plain single-line input, unless the
		// label reads like an affirmation statement without options.
		if len(options) == 0 && IsAffirmationLabel(field.Label) {
			return StrategyBooleanCheckbox
		}
		return StrategyInput
	}
}

// ValidateFieldValue applies the per-type validation rule to a single
// answer value. It returns nil when the value is acceptable. Option
// membership is deliberately not enforced here: only the field definition
// is checked for non-trivial options at persistence time, not the value.
func ValidateFieldValue(field *models.Field, value interface{}) *ValidationError {
	strategy := ResolveStrategy(field)

	switch strategy {
	case StrategyBooleanCheckbox:
		checked, _ := value.(bool)
		if field.Required && !checked {
			return requiredError(field.Label)
		}
		return nil

	case StrategyCheckboxGroup:
		selected := toStringList(value)
		if field.Required && len(selected) == 0 {
			return requiredError(field.Label)
		}
		return nil
	}

	text := strings.TrimSpace(toString(value))
	if field.Required && text == "" {
		return requiredError(field.Label)
	}
	if text == "" {
		return nil
	}

	// Value-format validators, independent of required
	switch NormalizeFieldType(field.Type) {
	case models.FieldTypeEmail:
		if !isValidEmail(text) {
			return NewValidationError(CodeInvalidEmail, "Enter a valid email")
		}
	case models.FieldTypeTel:
		if !isValidPhone(text) {
			return NewValidationError(CodeInvalidPhone, "Enter a valid phone")
		}
	case models.FieldTypeDate:
		if !isValidDate(text) {
			return NewValidationError(CodeInvalidDate, "Enter a valid date")
		}
	}

	return nil
}

func requiredError(label string) *ValidationError {
	return NewValidationError(CodeRequiredField, fmt.Sprintf("%s is required", label))
}

// isValidEmail requires an @ and a dot in the domain part
func isValidEmail(s string) bool {
	at := strings.Index(s, "@")
	if at <= 0 || at == len(s)-1 {
		return false
	}
	domain := s[at+1:]
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1
}

// isValidPhone requires at least 7 digits after stripping non-digit characters
func isValidPhone(s string) bool {
	digits := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= 7
}

// isValidDate requires the value to parse as a calendar date
func isValidDate(s string) bool {
	layouts := []string{
		"2006-01-02",
		time.RFC3339,
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

func toString(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	case float64:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", v), "0"), ".")
	default:
		return fmt.Sprintf("%v", v)
	}
}

func toStringList(value interface{}) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

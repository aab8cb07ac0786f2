package services

import (
	"encoding/json"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Stable validation error codes. These are part of the API contract and
// must not change between releases.
const (
	CodeMissingTitle            = "MISSING_TITLE"
	CodeInvalidTitle            = "INVALID_TITLE"
	CodeMissingName             = "MISSING_NAME"
	CodeMissingUserID           = "MISSING_USER_ID"
	CodeMissingFormID           = "MISSING_FORM_ID"
	CodeMissingStepID           = "MISSING_STEP_ID"
	CodeMissingType             = "MISSING_TYPE"
	CodeInvalidType             = "INVALID_TYPE"
	CodeMissingLabel            = "MISSING_LABEL"
	CodeInvalidLabel            = "INVALID_LABEL"
	CodeMissingConfig           = "MISSING_CONFIG"
	CodeInvalidConfig           = "INVALID_CONFIG"
	CodeMissingOrderIndex       = "MISSING_ORDER_INDEX"
	CodeInvalidOrderIndex       = "INVALID_ORDER_INDEX"
	CodeInvalidRequiredField    = "INVALID_REQUIRED_FIELD"
	CodeInvalidOptions          = "INVALID_OPTIONS"
	CodeInvalidValidationRules  = "INVALID_VALIDATION_RULES"
	CodeInvalidConditionalLogic = "INVALID_CONDITIONAL_LOGIC"
	CodeMissingData             = "MISSING_DATA"
	CodeInvalidDataFormat       = "INVALID_DATA_FORMAT"
	CodeEmptyData               = "EMPTY_DATA"
	CodeInvalidUUID             = "INVALID_UUID"
	CodeInvalidTemplateID       = "INVALID_TEMPLATE_ID"
	CodeRequiredField           = "REQUIRED_FIELD"
	CodeInvalidEmail            = "INVALID_EMAIL"
	CodeInvalidPhone            = "INVALID_PHONE"
	CodeInvalidDate             = "INVALID_DATE"
)

// ValidationError carries a stable machine-readable code alongside a
// human-readable message. Every mutation is gated by these before any
// persistence write.
type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a validation error with a stable code
func NewValidationError(code, message string) *ValidationError {
	return &ValidationError{Code: code, Message: message}
}

// Canonical unique-identifier text pattern (32 hex digits grouped 8-4-4-4-12)
var uuidPattern = regexp.MustCompile(`^(?i)[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// strictPolicy strips all markup from caller-supplied text
var strictPolicy = bluemonday.StrictPolicy()

// SanitizeText strips markup and trims surrounding whitespace. The result is
// plain text; entities escaped by the policy are unescaped again so ordinary
// characters like & survive the round trip.
func SanitizeText(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

// ValidateUUID rejects malformed identifiers before any lookup
func ValidateUUID(id string, code string) *ValidationError {
	if !uuidPattern.MatchString(id) {
		return NewValidationError(code, "Invalid UUID format")
	}
	return nil
}

// RequiredText validates a required string attribute: it must be present and
// non-empty after trimming. The sanitized value is returned for storage.
func RequiredText(value *string, code, name string) (string, *ValidationError) {
	if value == nil {
		return "", NewValidationError(code, fmt.Sprintf("%s is required and must be a non-empty string", name))
	}
	clean := SanitizeText(*value)
	if clean == "" {
		return "", NewValidationError(code, fmt.Sprintf("%s is required and must be a non-empty string", name))
	}
	return clean, nil
}

// OptionalText trims and sanitizes an optional string attribute. Values that
// are empty after trimming are stored as an explicit absence (nil), never as
// an empty string.
func OptionalText(value *string) *string {
	if value == nil {
		return nil
	}
	clean := SanitizeText(*value)
	if clean == "" {
		return nil
	}
	return &clean
}

// ValidateOrderIndex enforces a non-negative integer order index
func ValidateOrderIndex(value *int) (int, *ValidationError) {
	if value == nil {
		return 0, NewValidationError(CodeMissingOrderIndex, "orderIndex is required")
	}
	if *value < 0 {
		return 0, NewValidationError(CodeInvalidOrderIndex, "orderIndex must be a non-negative integer")
	}
	return *value, nil
}

// NormalizeJSONObject accepts a JSON-typed attribute that must be an object:
// either an object literal or a string containing a JSON object. Arrays and
// scalars are rejected. The canonical JSON text is returned.
func NormalizeJSONObject(raw json.RawMessage, code, name string) (string, *ValidationError) {
	doc, err := decodeJSONAttribute(raw)
	if err != nil {
		return "", NewValidationError(code, fmt.Sprintf("%s must be valid JSON", name))
	}
	obj, ok := doc.(map[string]interface{})
	if !ok {
		return "", NewValidationError(code, fmt.Sprintf("%s must be a valid JSON object", name))
	}
	text, merr := json.Marshal(obj)
	if merr != nil {
		return "", NewValidationError(code, fmt.Sprintf("%s must be valid JSON", name))
	}
	return string(text), nil
}

// NormalizeJSONDocument accepts a JSON-typed attribute that may be either an
// object or an array (validationRules, conditionalLogic), as a literal or a
// JSON-parseable string. Scalars are rejected.
func NormalizeJSONDocument(raw json.RawMessage, code, name string) (*string, *ValidationError) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	doc, err := decodeJSONAttribute(raw)
	if err != nil {
		return nil, NewValidationError(code, fmt.Sprintf("%s must be valid JSON", name))
	}
	switch doc.(type) {
	case map[string]interface{}, []interface{}:
	default:
		return nil, NewValidationError(code, fmt.Sprintf("%s must be a JSON object or array", name))
	}
	text, merr := json.Marshal(doc)
	if merr != nil {
		return nil, NewValidationError(code, fmt.Sprintf("%s must be valid JSON", name))
	}
	s := string(text)
	return &s, nil
}

// NormalizeOptions accepts a field's option list: a JSON array of strings,
// or a string containing one. The canonical JSON text plus the decoded list
// are returned; absent options yield (nil, nil, nil).
func NormalizeOptions(raw json.RawMessage) (*string, []string, *ValidationError) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil, nil
	}
	doc, err := decodeJSONAttribute(raw)
	if err != nil {
		return nil, nil, NewValidationError(CodeInvalidOptions, "options must be valid JSON")
	}
	items, ok := doc.([]interface{})
	if !ok {
		return nil, nil, NewValidationError(CodeInvalidOptions, "options must be a JSON array")
	}
	opts := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, nil, NewValidationError(CodeInvalidOptions, "options must be an array of strings")
		}
		s = strings.TrimSpace(s)
		if s != "" {
			opts = append(opts, s)
		}
	}
	if len(opts) == 0 {
		return nil, nil, nil
	}
	text, merr := json.Marshal(opts)
	if merr != nil {
		return nil, nil, NewValidationError(CodeInvalidOptions, "options must be valid JSON")
	}
	str := string(text)
	return &str, opts, nil
}

// ValidateSubmissionData enforces that a submission's data document is a
// non-empty JSON object. Values may be strings, booleans, numbers or ordered
// string lists (multi-select checkboxes).
func ValidateSubmissionData(raw json.RawMessage) (string, map[string]interface{}, *ValidationError) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil, NewValidationError(CodeMissingData, "data is required")
	}
	doc, err := decodeJSONAttribute(raw)
	if err != nil {
		return "", nil, NewValidationError(CodeInvalidDataFormat, "data must be a valid JSON object")
	}
	obj, ok := doc.(map[string]interface{})
	if !ok {
		return "", nil, NewValidationError(CodeInvalidDataFormat, "data must be a valid JSON object")
	}
	if len(obj) == 0 {
		return "", nil, NewValidationError(CodeEmptyData, "data cannot be an empty object")
	}
	text, merr := json.Marshal(obj)
	if merr != nil {
		return "", nil, NewValidationError(CodeInvalidDataFormat, "data must be a valid JSON object")
	}
	return string(text), obj, nil
}

// decodeJSONAttribute decodes a raw JSON value, unwrapping one level of
// string encoding: "{"a":1}" and {"a":1} are equivalent inputs.
func decodeJSONAttribute(raw json.RawMessage) (interface{}, error) {
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if s, ok := doc.(string); ok {
		var inner interface{}
		if err := json.Unmarshal([]byte(s), &inner); err != nil {
			return nil, err
		}
		doc = inner
	}
	return doc, nil
}

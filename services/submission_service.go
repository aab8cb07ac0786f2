package services

import (
	"encoding/json"
	"fmt"

	"formflow_app_go/models"

	"gorm.io/gorm"
)

// The submission pipeline validates respondent answers against the form's
// current tree and stores them as one JSON document keyed by field label.
// Label keying is lossy when two fields share a label: the later field in
// document order wins. Field ids in stored submissions would fix that, but
// exports and the dashboard read labels, so the format stays.

// ValidateStepValues checks one step's answers in field document order and
// fails fast on the first violation.
func ValidateStepValues(step *models.Step, values map[string]interface{}) *ValidationError {
	fields := step.Fields
	sortFields(fields)
	for i := range fields {
		if verr := ValidateFieldValue(&fields[i], values[fields[i].ID]); verr != nil {
			return verr
		}
	}
	return nil
}

// ValidateFormValues checks every step's answers in document order
func ValidateFormValues(form *models.Form, values map[string]interface{}) *ValidationError {
	steps := form.Steps
	sortSteps(steps)
	for i := range steps {
		if verr := ValidateStepValues(&steps[i], values); verr != nil {
			return verr
		}
	}
	return nil
}

// BuildSubmissionData converts field-id-keyed answers into the stored
// label-keyed document. Fields are walked in document order; unanswered
// fields are recorded as empty strings so every column is present.
func BuildSubmissionData(form *models.Form, values map[string]interface{}) map[string]interface{} {
	data := make(map[string]interface{})
	steps := form.Steps
	sortSteps(steps)
	for si := range steps {
		fields := steps[si].Fields
		sortFields(fields)
		for fi := range fields {
			field := &fields[fi]
			value, ok := values[field.ID]
			if !ok || value == nil {
				data[field.Label] = ""
				continue
			}
			data[field.Label] = value
		}
	}
	return data
}

// CreateSubmission validates answers against the form tree and persists one
// submission document.
func CreateSubmission(dbConn *gorm.DB, formID string, raw json.RawMessage) (*models.Submission, error) {
	form, err := GetFormTree(dbConn, formID)
	if err != nil {
		return nil, err
	}

	_, values, verr := ValidateSubmissionData(raw)
	if verr != nil {
		return nil, verr
	}
	if verr := ValidateFormValues(form, values); verr != nil {
		return nil, verr
	}

	data := BuildSubmissionData(form, values)
	text, merr := json.Marshal(data)
	if merr != nil {
		return nil, fmt.Errorf("failed to encode submission data: %w", merr)
	}

	submission := &models.Submission{
		FormID: form.ID,
		Data:   string(text),
	}
	if err := dbConn.Create(submission).Error; err != nil {
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}
	return submission, nil
}

// ListSubmissions returns a form's submissions newest first
func ListSubmissions(dbConn *gorm.DB, formID string, limit, offset int) ([]models.Submission, int64, error) {
	if verr := ValidateUUID(formID, CodeInvalidUUID); verr != nil {
		return nil, 0, verr
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	var total int64
	if err := dbConn.Model(&models.Submission{}).Where("form_id = ?", formID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count submissions: %w", err)
	}

	var submissions []models.Submission
	if err := dbConn.Where("form_id = ?", formID).
		Order("submitted_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&submissions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list submissions: %w", err)
	}
	return submissions, total, nil
}

// GetSubmission loads one submission scoped to its form
func GetSubmission(dbConn *gorm.DB, formID, submissionID string) (*models.Submission, error) {
	if verr := ValidateUUID(submissionID, CodeInvalidUUID); verr != nil {
		return nil, verr
	}
	var submission models.Submission
	if err := dbConn.First(&submission, "id = ? AND form_id = ?", submissionID, formID).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

// UpdateSubmission replaces a submission's data document after validating it
// against the form's current tree.
func UpdateSubmission(dbConn *gorm.DB, formID, submissionID string, raw json.RawMessage) (*models.Submission, error) {
	submission, err := GetSubmission(dbConn, formID, submissionID)
	if err != nil {
		return nil, err
	}
	form, err := GetFormTree(dbConn, formID)
	if err != nil {
		return nil, err
	}

	_, values, verr := ValidateSubmissionData(raw)
	if verr != nil {
		return nil, verr
	}
	if verr := ValidateFormValues(form, values); verr != nil {
		return nil, verr
	}

	data := BuildSubmissionData(form, values)
	text, merr := json.Marshal(data)
	if merr != nil {
		return nil, fmt.Errorf("failed to encode submission data: %w", merr)
	}

	if err := dbConn.Model(submission).Update("data", string(text)).Error; err != nil {
		return nil, fmt.Errorf("failed to update submission: %w", err)
	}
	return submission, nil
}

// DeleteSubmission removes one submission
func DeleteSubmission(dbConn *gorm.DB, formID, submissionID string) error {
	submission, err := GetSubmission(dbConn, formID, submissionID)
	if err != nil {
		return err
	}
	if err := dbConn.Delete(submission).Error; err != nil {
		return fmt.Errorf("failed to delete submission: %w", err)
	}
	return nil
}

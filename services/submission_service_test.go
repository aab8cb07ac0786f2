package services

import (
	"encoding/json"
	"fmt"
	"testing"

	"formflow_app_go/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// buildSubmissionForm persists a two step form: contact details plus consent
func buildSubmissionForm(t *testing.T, dbConn *gorm.DB, userID string) *models.Form {
	t.Helper()
	form := createTestForm(t, dbConn, userID)
	draft := []StepDraft{
		{
			Title: "Contact",
			Fields: []FieldDraft{
				{Type: "text", Label: "Name", Required: true},
				{Type: "email", Label: "Email", Required: true},
				{Type: "tel", Label: "Phone"},
			},
		},
		{
			Title: "Consent",
			Fields: []FieldDraft{
				{Type: "checkbox", Label: "I agree to the terms", Required: true},
			},
		},
	}
	assert.NoError(t, ReplaceFormTree(dbConn, form.ID, userID, draft))
	tree, err := GetFormTree(dbConn, form.ID)
	assert.NoError(t, err)
	return tree
}

func fieldIDByLabel(form *models.Form, label string) string {
	for _, step := range form.Steps {
		for _, field := range step.Fields {
			if field.Label == label {
				return field.ID
			}
		}
	}
	return ""
}

func TestCreateSubmission(t *testing.T) {
	dbConn := setupServiceDB(t)
	user := createTestUser(t, dbConn)
	form := buildSubmissionForm(t, dbConn, user.ID)

	answers := map[string]interface{}{
		fieldIDByLabel(form, "Name"):                "Ada Lovelace",
		fieldIDByLabel(form, "Email"):               "ada@example.com",
		fieldIDByLabel(form, "I agree to the terms"): true,
	}
	raw, _ := json.Marshal(answers)

	submission, err := CreateSubmission(dbConn, form.ID, raw)
	assert.NoError(t, err)
	assert.NotEmpty(t, submission.ID)
	assert.False(t, submission.SubmittedAt.IsZero())

	// Stored keyed by label; the unanswered phone is present as empty text
	doc, err := submission.DataMap()
	assert.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", doc["Name"])
	assert.Equal(t, "ada@example.com", doc["Email"])
	assert.Equal(t, "", doc["Phone"])
	assert.Equal(t, true, doc["I agree to the terms"])
}

func TestCreateSubmissionValidation(t *testing.T) {
	dbConn := setupServiceDB(t)
	user := createTestUser(t, dbConn)
	form := buildSubmissionForm(t, dbConn, user.ID)

	t.Run("first violation in document order wins", func(t *testing.T) {
		// Name missing and consent missing: Name is earlier in the tree
		answers := map[string]interface{}{
			fieldIDByLabel(form, "Email"): "ada@example.com",
		}
		raw, _ := json.Marshal(answers)
		_, err := CreateSubmission(dbConn, form.ID, raw)
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
		assert.Equal(t, "Name is required", verr.Message)
	})

	t.Run("bad email format", func(t *testing.T) {
		answers := map[string]interface{}{
			fieldIDByLabel(form, "Name"):                "Ada",
			fieldIDByLabel(form, "Email"):               "ada@broken",
			fieldIDByLabel(form, "I agree to the terms"): true,
		}
		raw, _ := json.Marshal(answers)
		_, err := CreateSubmission(dbConn, form.ID, raw)
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
		assert.Equal(t, CodeInvalidEmail, verr.Code)
	})

	t.Run("unchecked required consent", func(t *testing.T) {
		answers := map[string]interface{}{
			fieldIDByLabel(form, "Name"):  "Ada",
			fieldIDByLabel(form, "Email"): "ada@example.com",
		}
		raw, _ := json.Marshal(answers)
		_, err := CreateSubmission(dbConn, form.ID, raw)
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
		assert.Equal(t, "I agree to the terms is required", verr.Message)
	})

	t.Run("empty data document", func(t *testing.T) {
		_, err := CreateSubmission(dbConn, form.ID, json.RawMessage(`{}`))
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
		assert.Equal(t, CodeEmptyData, verr.Code)
	})

	t.Run("unknown form", func(t *testing.T) {
		_, err := CreateSubmission(dbConn, "3b3b3b3b-0000-4000-8000-000000000000", json.RawMessage(`{"x":"y"}`))
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestDuplicateLabelLastWriteWins(t *testing.T) {
	dbConn := setupServiceDB(t)
	user := createTestUser(t, dbConn)
	form := createTestForm(t, dbConn, user.ID)

	draft := []StepDraft{{
		Title: "Step",
		Fields: []FieldDraft{
			{Type: "text", Label: "Comment"},
			{Type: "text", Label: "Comment"},
		},
	}}
	assert.NoError(t, ReplaceFormTree(dbConn, form.ID, user.ID, draft))
	tree, err := GetFormTree(dbConn, form.ID)
	assert.NoError(t, err)

	answers := map[string]interface{}{
		tree.Steps[0].Fields[0].ID: "first",
		tree.Steps[0].Fields[1].ID: "second",
	}
	raw, _ := json.Marshal(answers)
	submission, err := CreateSubmission(dbConn, form.ID, raw)
	assert.NoError(t, err)

	// Two fields share a label, so the later one in document order wins
	doc, err := submission.DataMap()
	assert.NoError(t, err)
	assert.Len(t, doc, 1)
	assert.Equal(t, "second", doc["Comment"])
}

func TestListSubmissions(t *testing.T) {
	dbConn := setupServiceDB(t)
	user := createTestUser(t, dbConn)
	form := buildSubmissionForm(t, dbConn, user.ID)

	for i := 0; i < 5; i++ {
		answers := map[string]interface{}{
			fieldIDByLabel(form, "Name"):                fmt.Sprintf("Person %d", i),
			fieldIDByLabel(form, "Email"):               "p@example.com",
			fieldIDByLabel(form, "I agree to the terms"): true,
		}
		raw, _ := json.Marshal(answers)
		_, err := CreateSubmission(dbConn, form.ID, raw)
		assert.NoError(t, err)
	}

	page, total, err := ListSubmissions(dbConn, form.ID, 2, 0)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, page, 2)
}

func TestUpdateAndDeleteSubmission(t *testing.T) {
	dbConn := setupServiceDB(t)
	user := createTestUser(t, dbConn)
	form := buildSubmissionForm(t, dbConn, user.ID)

	answers := map[string]interface{}{
		fieldIDByLabel(form, "Name"):                "Ada",
		fieldIDByLabel(form, "Email"):               "ada@example.com",
		fieldIDByLabel(form, "I agree to the terms"): true,
	}
	raw, _ := json.Marshal(answers)
	submission, err := CreateSubmission(dbConn, form.ID, raw)
	assert.NoError(t, err)

	answers[fieldIDByLabel(form, "Name")] = "Grace"
	raw, _ = json.Marshal(answers)
	updated, err := UpdateSubmission(dbConn, form.ID, submission.ID, raw)
	assert.NoError(t, err)
	doc, _ := updated.DataMap()
	assert.Equal(t, "Grace", doc["Name"])

	assert.NoError(t, DeleteSubmission(dbConn, form.ID, submission.ID))
	_, err = GetSubmission(dbConn, form.ID, submission.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"formflow_app_go/db"
	"formflow_app_go/models"
	"formflow_app_go/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestCreateFormHandler(t *testing.T) {
	setupTestDB(t)
	user := createHandlerUser(t)

	t.Run("valid", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodPost, "/api/forms", strings.NewReader(`{"title": "My Form"}`))
		asUser(c, user)

		assert.NoError(t, CreateFormHandler(c))
		assert.Equal(t, http.StatusCreated, rec.Code)

		var form models.Form
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &form))
		assert.Equal(t, "My Form", form.Title)
		assert.Equal(t, user.ID, form.UserID)
	})

	t.Run("missing title returns the stable code", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodPost, "/api/forms", strings.NewReader(`{"title": "   "}`))
		asUser(c, user)

		assert.NoError(t, CreateFormHandler(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var body map[string]string
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, services.CodeMissingTitle, body["code"])
	})
}

func TestGetFormHandlerScoping(t *testing.T) {
	setupTestDB(t)
	owner := createHandlerUser(t)
	stranger := createHandlerUser(t)

	title := "Private"
	form, err := services.CreateForm(db.DB, owner.ID, services.FormInput{Title: &title})
	assert.NoError(t, err)

	t.Run("owner sees the tree", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/forms/"+form.ID, nil)
		c.SetParamNames("id")
		c.SetParamValues(form.ID)
		asUser(c, owner)

		assert.NoError(t, GetFormHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("stranger gets 404, not 403", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/forms/"+form.ID, nil)
		c.SetParamNames("id")
		c.SetParamValues(form.ID)
		asUser(c, stranger)

		assert.NoError(t, GetFormHandler(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id is a 400 with INVALID_UUID", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/forms/abc", nil)
		c.SetParamNames("id")
		c.SetParamValues("abc")
		asUser(c, owner)

		assert.NoError(t, GetFormHandler(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var body map[string]string
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, services.CodeInvalidUUID, body["code"])
	})
}

func TestReplaceFormTreeHandler(t *testing.T) {
	setupTestDB(t)
	user := createHandlerUser(t)
	title := "Builder"
	form, err := services.CreateForm(db.DB, user.ID, services.FormInput{Title: &title})
	assert.NoError(t, err)

	payload := `{"steps": [
		{"title": "Contact", "fields": [
			{"type": "text", "label": "Name", "required": true}
		]}
	]}`
	_, c, rec := setupEcho(http.MethodPut, "/api/forms/"+form.ID+"/tree", strings.NewReader(payload))
	c.SetParamNames("id")
	c.SetParamValues(form.ID)
	asUser(c, user)

	assert.NoError(t, ReplaceFormTreeHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var tree models.Form
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tree))
	assert.Len(t, tree.Steps, 1)
	assert.Len(t, tree.Steps[0].Fields, 1)
}

func TestPublishUnpublishHandlers(t *testing.T) {
	setupTestDB(t)
	user := createHandlerUser(t)
	title := "Toggle"
	form, err := services.CreateForm(db.DB, user.ID, services.FormInput{Title: &title})
	assert.NoError(t, err)

	_, c, rec := setupEcho(http.MethodPost, "/api/forms/"+form.ID+"/publish", nil)
	c.SetParamNames("id")
	c.SetParamValues(form.ID)
	asUser(c, user)
	assert.NoError(t, PublishFormHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var updated models.Form
	assert.NoError(t, db.DB.First(&updated, "id = ?", form.ID).Error)
	assert.True(t, updated.IsPublished)

	_, c, rec = setupEcho(http.MethodPost, "/api/forms/"+form.ID+"/unpublish", nil)
	c.SetParamNames("id")
	c.SetParamValues(form.ID)
	asUser(c, user)
	assert.NoError(t, UnpublishFormHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.NoError(t, db.DB.First(&updated, "id = ?", form.ID).Error)
	assert.False(t, updated.IsPublished)
}

func TestExportSubmissionsHandler(t *testing.T) {
	setupTestDB(t)
	user := createHandlerUser(t)
	title := "Exportable"
	form, err := services.CreateForm(db.DB, user.ID, services.FormInput{Title: &title})
	assert.NoError(t, err)

	draft := []services.StepDraft{{
		Title:  "Step",
		Fields: []services.FieldDraft{{Type: "text", Label: "Name", Required: true}},
	}}
	assert.NoError(t, services.ReplaceFormTree(db.DB, form.ID, user.ID, draft))
	tree, err := services.GetFormTree(db.DB, form.ID)
	assert.NoError(t, err)

	raw, _ := json.Marshal(map[string]interface{}{tree.Steps[0].Fields[0].ID: "Ada"})
	_, err = services.CreateSubmission(db.DB, form.ID, raw)
	assert.NoError(t, err)

	t.Run("csv default", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/forms/"+form.ID+"/submissions/export", nil)
		c.SetParamNames("id")
		c.SetParamValues(form.ID)
		asUser(c, user)

		assert.NoError(t, ExportSubmissionsHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "submissions.csv")
		assert.Contains(t, rec.Body.String(), "Ada")
	})

	t.Run("unknown format", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/forms/"+form.ID+"/submissions/export?format=pdf", nil)
		c.SetParamNames("id")
		c.SetParamValues(form.ID)
		asUser(c, user)

		assert.NoError(t, ExportSubmissionsHandler(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

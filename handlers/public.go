package handlers

import (
	"net/http"

	"formflow_app_go/db"
	"formflow_app_go/models"
	"formflow_app_go/services"

	"github.com/labstack/echo/v4"
)

// The public boundary never distinguishes "does not exist" from "not
// published": both answer the same 404, so probing ids reveals nothing
// about unpublished drafts.

func publicNotFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, map[string]string{"error": "Form not found"})
}

// loadPublishedForm resolves an id to a published form, or nil
func loadPublishedForm(c echo.Context) *models.Form {
	formID := c.Param("id")
	if verr := services.ValidateUUID(formID, services.CodeInvalidUUID); verr != nil {
		return nil
	}
	form, err := services.GetFormTree(db.DB, formID)
	if err != nil || !form.IsPublished {
		return nil
	}
	return form
}

// PublicFormHandler serves a published form's tree to respondents
func PublicFormHandler(c echo.Context) error {
	form := loadPublishedForm(c)
	if form == nil {
		return publicNotFound(c)
	}

	// Respondents get the render shape, not the owner record
	steps := make([]map[string]interface{}, 0, len(form.Steps))
	for _, step := range form.Steps {
		fields := make([]map[string]interface{}, 0, len(step.Fields))
		for i := range step.Fields {
			field := &step.Fields[i]
			fields = append(fields, map[string]interface{}{
				"id":          field.ID,
				"type":        field.Type,
				"label":       field.Label,
				"placeholder": field.Placeholder,
				"required":    field.Required,
				"options":     field.OptionList(),
				"strategy":    services.ResolveStrategy(field),
				"order_index": field.OrderIndex,
			})
		}
		steps = append(steps, map[string]interface{}{
			"id":          step.ID,
			"title":       step.Title,
			"description": step.Description,
			"order_index": step.OrderIndex,
			"fields":      fields,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":          form.ID,
		"title":       form.Title,
		"description": form.Description,
		"steps":       steps,
	})
}

// PublicSubmitHandler accepts a respondent submission for a published form
func PublicSubmitHandler(c echo.Context) error {
	form := loadPublishedForm(c)
	if form == nil {
		return publicNotFound(c)
	}

	var req submissionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	submission, err := services.CreateSubmission(db.DB, form.ID, req.Data)
	if err != nil {
		return respondError(c, err)
	}

	// Notify the owner off the request path
	var owner models.User
	if err := db.DB.First(&owner, "id = ?", form.UserID).Error; err == nil {
		cfg := getConfig(c)
		services.SendEmailAsync(cfg, services.BuildSubmissionNotification(cfg, owner.Email, form, submission))
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"id":           submission.ID,
		"submitted_at": submission.SubmittedAt,
	})
}

package handlers

import (
	"net/http"
	"strconv"

	"formflow_app_go/db"
	"formflow_app_go/middleware"
	"formflow_app_go/services"

	"github.com/labstack/echo/v4"
)

// CreateFormHandler creates an empty form for the authenticated user
func CreateFormHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	var input services.FormInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	form, err := services.CreateForm(db.DB, user.ID, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, form)
}

// ListFormsHandler lists the user's forms with submission counts. Supports
// ?search=, ?published=true|false, ?limit= and ?offset=.
func ListFormsHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	var isPublished *bool
	if raw := c.QueryParam("published"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "published must be true or false"})
		}
		isPublished = &parsed
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	forms, err := services.ListForms(db.DB, user.ID, c.QueryParam("search"), isPublished, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"forms": forms})
}

// GetFormHandler returns a form with its full ordered step/field tree
func GetFormHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	if _, err := services.GetOwnedForm(db.DB, c.Param("id"), user.ID); err != nil {
		return respondError(c, err)
	}
	form, err := services.GetFormTree(db.DB, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, form)
}

// UpdateFormHandler applies a partial update to form attributes
func UpdateFormHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	var input services.FormInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	form, err := services.UpdateForm(db.DB, c.Param("id"), user.ID, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, form)
}

// DeleteFormHandler deletes a form with its steps, fields and submissions
func DeleteFormHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	if err := services.DeleteForm(db.DB, c.Param("id"), user.ID); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// PublishFormHandler makes a form publicly reachable
func PublishFormHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	form, err := services.SetPublished(db.DB, c.Param("id"), user.ID, true)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, form)
}

// UnpublishFormHandler withdraws a form from public reach
func UnpublishFormHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	form, err := services.SetPublished(db.DB, c.Param("id"), user.ID, false)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, form)
}

type replaceTreeRequest struct {
	Steps []services.StepDraft `json:"steps"`
}

// ReplaceFormTreeHandler swaps a form's entire step/field tree for the
// submitted draft in one transaction.
func ReplaceFormTreeHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	var req replaceTreeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	if err := services.ReplaceFormTree(db.DB, c.Param("id"), user.ID, req.Steps); err != nil {
		return respondError(c, err)
	}
	form, err := services.GetFormTree(db.DB, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, form)
}

type fromTemplateRequest struct {
	TemplateID string `json:"template_id"`
}

// CreateFormFromTemplateHandler instantiates a catalog template as a new
// form owned by the user.
func CreateFormFromTemplateHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	var req fromTemplateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	form, err := services.InstantiateTemplate(db.DB, user.ID, req.TemplateID)
	if err != nil {
		return respondError(c, err)
	}
	created, err := services.GetFormTree(db.DB, form.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

package handlers

import (
	"net/http"

	"formflow_app_go/db"
	"formflow_app_go/services"

	"github.com/labstack/echo/v4"
)

// ListTemplatesHandler returns the template catalog, optionally filtered by
// ?category= and ?search=.
func ListTemplatesHandler(c echo.Context) error {
	templates, err := services.ListTemplates(db.DB, c.QueryParam("category"), c.QueryParam("search"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"templates": templates})
}

// GetTemplateHandler returns one template including its config document
func GetTemplateHandler(c echo.Context) error {
	template, err := services.GetTemplate(db.DB, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, template)
}

// CreateTemplateHandler adds a template to the catalog
func CreateTemplateHandler(c echo.Context) error {
	var input services.TemplateInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	template, err := services.CreateTemplate(db.DB, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, template)
}

// UpdateTemplateHandler applies a partial update to a template
func UpdateTemplateHandler(c echo.Context) error {
	var input services.TemplateInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	template, err := services.UpdateTemplate(db.DB, c.Param("id"), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, template)
}

// DeleteTemplateHandler removes a template; forms built from it keep their
// copied trees.
func DeleteTemplateHandler(c echo.Context) error {
	if err := services.DeleteTemplate(db.DB, c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

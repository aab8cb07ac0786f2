package handlers

import (
	"net/http"

	"formflow_app_go/db"
	"formflow_app_go/middleware"
	"formflow_app_go/services"

	"github.com/labstack/echo/v4"
)

// CreateFieldHandler adds a field to a step. An order_index in the body
// inserts at that position; without one the field is appended.
func CreateFieldHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	var input services.FieldInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	field, err := services.CreateField(db.DB, c.Param("id"), user.ID, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, field)
}

// UpdateFieldHandler applies a partial update; a changed order_index
// reorders the field within its step.
func UpdateFieldHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	var input services.FieldInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	field, err := services.UpdateField(db.DB, c.Param("id"), user.ID, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, field)
}

// DeleteFieldHandler removes a field and renumbers the remaining siblings
func DeleteFieldHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	if err := services.DeleteField(db.DB, c.Param("id"), user.ID); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

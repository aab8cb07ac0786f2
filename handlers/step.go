package handlers

import (
	"net/http"

	"formflow_app_go/db"
	"formflow_app_go/middleware"
	"formflow_app_go/services"

	"github.com/labstack/echo/v4"
)

// CreateStepHandler adds a step to a form. An order_index in the body
// inserts at that position; without one the step is appended.
func CreateStepHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	var input services.StepInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	step, err := services.CreateStep(db.DB, c.Param("id"), user.ID, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, step)
}

// UpdateStepHandler applies a partial update; a changed order_index reorders
// the step within its form.
func UpdateStepHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	var input services.StepInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	step, err := services.UpdateStep(db.DB, c.Param("id"), user.ID, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, step)
}

// DeleteStepHandler removes a step and renumbers the remaining siblings
func DeleteStepHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	if err := services.DeleteStep(db.DB, c.Param("id"), user.ID); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

package handlers

import (
	"net/http"
	"strings"

	"formflow_app_go/db"
	"formflow_app_go/middleware"
	"formflow_app_go/services"

	"github.com/labstack/echo/v4"
)

type generateRequest struct {
	Prompt string `json:"prompt"`
}

// GenerateFormHandler produces a whole form draft from a free-text prompt.
// An unreachable AI backend degrades to the deterministic fallback; a reply
// the pipeline cannot parse is reported to the caller.
func GenerateFormHandler(c echo.Context) error {
	var req generateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "prompt is required"})
	}

	draft, err := services.GenerateForm(getConfig(c), prompt)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, draft)
}

// GenerateFieldsHandler produces a field set from a free-text prompt; this
// endpoint always succeeds.
func GenerateFieldsHandler(c echo.Context) error {
	var req generateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "prompt is required"})
	}

	fields := services.GenerateFieldSuggestions(getConfig(c), prompt)
	return c.JSON(http.StatusOK, map[string]interface{}{"fields": fields})
}

// SuggestFieldsHandler proposes additional fields for an existing form based
// on its title, description and current labels.
func SuggestFieldsHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	form, err := services.GetOwnedForm(db.DB, c.Param("id"), user.ID)
	if err != nil {
		return respondError(c, err)
	}
	tree, err := services.GetFormTree(db.DB, form.ID)
	if err != nil {
		return respondError(c, err)
	}

	sctx := services.SuggestionContext{FormTitle: tree.Title}
	if tree.Description != nil {
		sctx.FormDescription = *tree.Description
	}
	for _, step := range tree.Steps {
		for _, field := range step.Fields {
			sctx.ExistingLabels = append(sctx.ExistingLabels, field.Label)
		}
	}

	fields := services.SuggestFields(getConfig(c), sctx)
	return c.JSON(http.StatusOK, map[string]interface{}{"fields": fields})
}

package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"formflow_app_go/db"
	"formflow_app_go/middleware"
	"formflow_app_go/services"

	"github.com/labstack/echo/v4"
)

type submissionRequest struct {
	Data json.RawMessage `json:"data"`
}

// ListSubmissionsHandler lists a form's submissions newest first. Supports
// ?limit= and ?offset=.
func ListSubmissionsHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	form, err := services.GetOwnedForm(db.DB, c.Param("id"), user.ID)
	if err != nil {
		return respondError(c, err)
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	submissions, total, err := services.ListSubmissions(db.DB, form.ID, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"submissions": submissions,
		"total":       total,
	})
}

// GetSubmissionHandler returns one submission of an owned form
func GetSubmissionHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	form, err := services.GetOwnedForm(db.DB, c.Param("id"), user.ID)
	if err != nil {
		return respondError(c, err)
	}

	submission, err := services.GetSubmission(db.DB, form.ID, c.Param("submissionId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, submission)
}

// UpdateSubmissionHandler replaces a submission's data after revalidation
func UpdateSubmissionHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	form, err := services.GetOwnedForm(db.DB, c.Param("id"), user.ID)
	if err != nil {
		return respondError(c, err)
	}

	var req submissionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	submission, err := services.UpdateSubmission(db.DB, form.ID, c.Param("submissionId"), req.Data)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, submission)
}

// DeleteSubmissionHandler removes one submission
func DeleteSubmissionHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	form, err := services.GetOwnedForm(db.DB, c.Param("id"), user.ID)
	if err != nil {
		return respondError(c, err)
	}

	if err := services.DeleteSubmission(db.DB, form.ID, c.Param("submissionId")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ExportSubmissionsHandler streams a form's submissions as a download.
// ?format= selects csv (default), xlsx or json.
func ExportSubmissionsHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	form, err := services.GetOwnedForm(db.DB, c.Param("id"), user.ID)
	if err != nil {
		return respondError(c, err)
	}

	table, err := services.BuildSubmissionTable(db.DB, form.ID)
	if err != nil {
		return respondError(c, err)
	}

	format := c.QueryParam("format")
	if format == "" {
		format = "csv"
	}

	switch format {
	case "csv":
		buf, err := table.WriteCSV()
		if err != nil {
			return respondError(c, err)
		}
		c.Response().Header().Set(echo.HeaderContentDisposition,
			fmt.Sprintf("attachment; filename=%q", "submissions.csv"))
		return c.Blob(http.StatusOK, "text/csv", buf.Bytes())
	case "xlsx":
		buf, err := table.WriteXLSX()
		if err != nil {
			return respondError(c, err)
		}
		c.Response().Header().Set(echo.HeaderContentDisposition,
			fmt.Sprintf("attachment; filename=%q", "submissions.xlsx"))
		return c.Blob(http.StatusOK,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
	case "json":
		buf, err := table.WriteJSON()
		if err != nil {
			return respondError(c, err)
		}
		c.Response().Header().Set(echo.HeaderContentDisposition,
			fmt.Sprintf("attachment; filename=%q", "submissions.json"))
		return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, buf.Bytes())
	default:
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "format must be csv, xlsx or json"})
	}
}

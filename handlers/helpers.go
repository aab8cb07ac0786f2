package handlers

import (
	"errors"
	"net/http"

	"formflow_app_go/config"
	"formflow_app_go/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// respondError maps service errors onto the JSON error contract: validation
// failures are 400 with their stable code, missing records are 404, and
// everything else is an opaque 500.
func respondError(c echo.Context, err error) error {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": verr.Message,
			"code":  verr.Code,
		})
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
	}
	c.Logger().Error(err)
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
}

// getConfig retrieves the application config injected by the server setup
func getConfig(c echo.Context) *config.Config {
	cfg, ok := c.Get("config").(*config.Config)
	if !ok {
		return &config.Config{}
	}
	return cfg
}

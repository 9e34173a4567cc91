package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/task-tracker/internal/model"
	"github.com/iliyamo/task-tracker/internal/repository"
	"github.com/iliyamo/task-tracker/internal/utils"
)

// writeError maps a repository or validation error onto the client-facing
// response.  Expected failures (validation, duplicates, not-found) carry
// their message through; anything else is a server fault, logged in full
// with a generated incident id while the client only sees the id.
func writeError(c echo.Context, err error) error {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": verr.Error()})
	case errors.Is(err, repository.ErrEmailExists),
		errors.Is(err, repository.ErrUsernameExists),
		errors.Is(err, repository.ErrTitleExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "task not found"})
	}

	incident := utils.NewIncidentID()
	log.Printf("storage fault [incident %s] [request %s] %s %s: %v",
		incident,
		c.Response().Header().Get(echo.HeaderXRequestID),
		c.Request().Method, c.Request().URL.Path, err)
	return c.JSON(http.StatusInternalServerError, echo.Map{
		"error":       "internal error",
		"incident_id": incident,
	})
}

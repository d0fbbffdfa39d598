// Package handler implements the HTTP endpoints.  Handlers bind request
// DTOs, call the services with a bounded context and translate the
// service error taxonomy into status codes.  Unrecognized errors become
// a plain 500 so internal failures are never dressed up as auth errors.
package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/thanhng/workchat/internal/service"
)

// respondErr maps a service error onto an HTTP response.
func respondErr(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrAlreadyActive),
		errors.Is(err, service.ErrLastAdminCannotLeave):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrTokenInvalid),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrSessionHashMismatch):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrAccountNotActivated),
		errors.Is(err, service.ErrNotAMember),
		errors.Is(err, service.ErrPermissionDenied):
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrAlreadyExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

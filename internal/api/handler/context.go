package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bankabc/backoffice-api/internal/api/middleware"
	"github.com/bankabc/backoffice-api/internal/core/domain"
)

// ctxPrincipal extracts the principal injected by the Auth middleware.
// Presence proves the middleware ran; a handler reached without it is a
// wiring bug surfaced as 401 rather than a panic.
func ctxPrincipal(c echo.Context) (domain.Principal, error) {
	principal, ok := c.Get(middleware.PrincipalKey).(domain.Principal)
	if !ok {
		return domain.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return principal, nil
}

// loginOutcome maps a login error onto its metrics label.
func loginOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrBadCredentials):
		return "bad_credentials"
	case errors.Is(err, domain.ErrDirectoryUnavailable):
		return "unavailable"
	case errors.Is(err, domain.ErrSigningFailure):
		return "signing_failure"
	default:
		return "error"
	}
}

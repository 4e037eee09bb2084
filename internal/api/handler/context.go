package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/debttracker/debt-api/internal/api/metrics"
	"github.com/debttracker/debt-api/internal/api/middleware"
	"github.com/debttracker/debt-api/internal/core/domain"
)

// callerIdentity returns the identity injected by the Auth middleware.
// Its absence means the route was mounted without Auth.
func callerIdentity(c echo.Context) (domain.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return id, nil
}

// forbidden answers 403 and counts the denial against the route.
func forbidden(c echo.Context, text string) error {
	metrics.PolicyDenialsTotal.WithLabelValues(c.Path()).Inc()
	return c.JSON(http.StatusForbidden, msg(text))
}

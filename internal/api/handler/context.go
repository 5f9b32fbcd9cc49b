package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxIdentity extracts the identity injected by the Auth middleware and
// fast-fails before any service call: a missing role means the middleware
// never ran for this route, which is a wiring bug, not a user error.
func ctxIdentity(c echo.Context) (userID, username, role string, err error) {
	role, _ = c.Get("role").(string)
	if role == "" {
		return "", "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	userID, _ = c.Get("user_id").(string)
	username, _ = c.Get("username").(string)
	return userID, username, role, nil
}

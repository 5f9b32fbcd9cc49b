package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/atelierhq/backoffice/internal/core/ports"
)

const sessionCookieName = "bo_session"

// Auth authenticates the request and injects the caller's identity into the
// echo context (user_id, username, role). Two credentials are accepted:
//
//   - a Bearer JWT in the Authorization header (API clients), or
//   - the session cookie issued at login (browser screens).
//
// Unauthenticated browser requests are redirected to /login; everything else
// gets a 401.
func Auth(jwtSecret string, sessions ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if authHeader := c.Request().Header.Get("Authorization"); authHeader != "" {
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
					return reject(c, "invalid authorization header")
				}

				claims := jwt.MapClaims{}
				tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
					if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
						return nil, jwt.ErrTokenSignatureInvalid
					}
					return []byte(jwtSecret), nil
				})
				if err != nil || !tkn.Valid {
					return reject(c, "invalid token")
				}

				c.Set("user_id", claims["user_id"])
				c.Set("username", claims["username"])
				c.Set("role", claims["role"])
				return next(c)
			}

			cookie, err := c.Cookie(sessionCookieName)
			if err != nil || cookie.Value == "" {
				return reject(c, "missing credentials")
			}

			session, err := sessions.VerifySession(c.Request().Context(), cookie.Value)
			if err != nil {
				return reject(c, "session expired")
			}

			c.Set("user_id", session.UserID)
			c.Set("username", session.Username)
			c.Set("role", session.Role)
			return next(c)
		}
	}
}

// reject sends browsers back to the login screen and API clients a plain 401.
func reject(c echo.Context, msg string) error {
	if wantsHTML(c) {
		return c.Redirect(http.StatusFound, "/login")
	}
	return echo.NewHTTPError(http.StatusUnauthorized, msg)
}

// wantsHTML reports whether the request came from a browser navigation.
func wantsHTML(c echo.Context) bool {
	return strings.Contains(c.Request().Header.Get("Accept"), "text/html")
}

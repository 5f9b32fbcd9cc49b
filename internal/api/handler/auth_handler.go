package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/atelierhq/backoffice/internal/core/domain"
	"github.com/atelierhq/backoffice/internal/core/ports"
)

// SessionCookieName is the cookie the browser screens authenticate with.
const SessionCookieName = "bo_session"

type AuthHandler struct {
	authService   ports.AuthService
	accessService ports.AccessService
}

func NewAuthHandler(authService ports.AuthService, accessService ports.AccessService) *AuthHandler {
	return &AuthHandler{authService: authService, accessService: accessService}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string           `json:"token"`
	User     *domain.User     `json:"user"`
	Features []domain.Feature `json:"features"`
	Landing  string           `json:"landing"`
}

// Login authenticates a user, issues the session cookie for the screens and
// returns a JWT for API clients, along with the caller's feature set and
// default landing route.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}

	result, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    result.SessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	ctx := c.Request().Context()
	return c.JSON(http.StatusOK, loginResponse{
		Token:    result.Token,
		User:     result.User,
		Features: h.accessService.AllowedFeaturesForRole(ctx, result.User.Role),
		Landing:  h.accessService.DefaultLandingRoute(ctx, result.User.Role),
	})
}

// Logout deletes the server-side session and expires the cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.authService.Logout(c.Request().Context(), cookie.Value); err != nil {
			return err
		}
	}

	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.NoContent(http.StatusNoContent)
}

type meResponse struct {
	UserID   string           `json:"user_id"`
	Username string           `json:"username"`
	Role     string           `json:"role"`
	Features []domain.Feature `json:"features"`
	Landing  string           `json:"landing"`
}

// Me returns the authenticated caller's identity and resolved feature set.
// The screens call this on load to decide which navigation entries to draw.
func (h *AuthHandler) Me(c echo.Context) error {
	userID, username, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	return c.JSON(http.StatusOK, meResponse{
		UserID:   userID,
		Username: username,
		Role:     role,
		Features: h.accessService.AllowedFeaturesForRole(ctx, role),
		Landing:  h.accessService.DefaultLandingRoute(ctx, role),
	})
}

package handler

import (
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/atelierhq/backoffice/internal/core/domain"
	"github.com/atelierhq/backoffice/internal/core/ports"
)

// SettingsHandler serves the settings admin screen. Reads of setting
// metadata go straight to the repository; only the update paths touch the
// in-process cache, through the service's write-through and eviction rules.
type SettingsHandler struct {
	service ports.SettingsService
}

func NewSettingsHandler(service ports.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// settingValueRequest carries one typed value. The kind must match the
// stored setting's kind exactly; the server never guesses from the JSON
// payload type.
type settingValueRequest struct {
	Kind  string `json:"kind" validate:"required,oneof=bool int float string json"`
	Value any    `json:"value"`
}

type bulkUpdateRequest struct {
	Values map[string]settingValueRequest `json:"values" validate:"required,min=1"`
}

type bulkUpdateResponse struct {
	Updated []string `json:"updated"`
	Failed  []string `json:"failed"`
}

type settingResponse struct {
	Key             string              `json:"key"`
	Value           any                 `json:"value"`
	Kind            string              `json:"kind"`
	Category        string              `json:"category"`
	DisplayName     string              `json:"display_name"`
	Description     string              `json:"description,omitempty"`
	Default         any                 `json:"default"`
	Rules           domain.SettingRules `json:"rules,omitempty"`
	RestartRequired bool                `json:"restart_required"`
	UpdatedBy       string              `json:"updated_by,omitempty"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

func toSettingResponse(s domain.Setting) settingResponse {
	return settingResponse{
		Key:             s.Key,
		Value:           s.Value.Raw(),
		Kind:            string(s.Kind),
		Category:        s.Category,
		DisplayName:     s.DisplayName,
		Description:     s.Description,
		Default:         s.Default.Raw(),
		Rules:           s.Rules,
		RestartRequired: s.RestartRequired,
		UpdatedBy:       s.UpdatedBy,
		UpdatedAt:       s.UpdatedAt,
	}
}

// sortedSettingResponses flattens a setting map into a key-ordered slice so
// the screen renders deterministically.
func sortedSettingResponses(settings map[string]domain.Setting) []settingResponse {
	keys := make([]string, 0, len(settings))
	for key := range settings {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]settingResponse, 0, len(keys))
	for _, key := range keys {
		out = append(out, toSettingResponse(settings[key]))
	}
	return out
}

// Categories handles GET /settings/categories.
func (h *SettingsHandler) Categories(c echo.Context) error {
	categories, err := h.service.GetCategories(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, categories)
}

// Category handles GET /settings/categories/:name.
func (h *SettingsHandler) Category(c echo.Context) error {
	settings, err := h.service.GetCategory(c.Request().Context(), c.Param("name"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sortedSettingResponses(settings))
}

// Update handles PUT /settings/:key.
func (h *SettingsHandler) Update(c echo.Context) error {
	var req settingValueRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	actorID, _, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	value, err := domain.CoerceValue(domain.SettingKind(req.Kind), req.Value)
	if err != nil {
		return err
	}

	if err := h.service.Set(c.Request().Context(), c.Param("key"), value, actorID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// BulkUpdate handles POST /settings/bulk. Keys that fail validation are
// reported back; everything else is applied, so the screen can save a whole
// form and re-prompt only for the rejected fields.
func (h *SettingsHandler) BulkUpdate(c echo.Context) error {
	var req bulkUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	actorID, _, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	values := make(map[string]domain.SettingValue, len(req.Values))
	malformed := make([]string, 0)
	for key, raw := range req.Values {
		value, err := domain.CoerceValue(domain.SettingKind(raw.Kind), raw.Value)
		if err != nil {
			malformed = append(malformed, key)
			continue
		}
		values[key] = value
	}

	failed, err := h.service.BulkUpdate(c.Request().Context(), values, actorID)
	if err != nil {
		return err
	}
	failed = append(failed, malformed...)
	sort.Strings(failed)

	updated := make([]string, 0, len(values))
	failedSet := make(map[string]struct{}, len(failed))
	for _, key := range failed {
		failedSet[key] = struct{}{}
	}
	for key := range values {
		if _, bad := failedSet[key]; !bad {
			updated = append(updated, key)
		}
	}
	sort.Strings(updated)

	return c.JSON(http.StatusOK, bulkUpdateResponse{Updated: updated, Failed: failed})
}

// Reset handles POST /settings/:key/reset.
func (h *SettingsHandler) Reset(c echo.Context) error {
	actorID, _, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	if err := h.service.ResetToDefault(c.Request().Context(), c.Param("key"), actorID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Export handles GET /settings/export: a full live dump for backups.
func (h *SettingsHandler) Export(c echo.Context) error {
	settings, err := h.service.ExportAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sortedSettingResponses(settings))
}

// RestartRequired handles GET /settings/restart-required: the keys whose
// changed values only take effect after a restart.
func (h *SettingsHandler) RestartRequired(c echo.Context) error {
	keys, err := h.service.GetRestartRequired(c.Request().Context())
	if err != nil {
		return err
	}
	if keys == nil {
		keys = []string{}
	}
	return c.JSON(http.StatusOK, map[string][]string{"keys": keys})
}

// ClearCache handles POST /settings/cache/clear. The next read reloads
// everything from the repository.
func (h *SettingsHandler) ClearCache(c echo.Context) error {
	h.service.ClearCache()
	return c.NoContent(http.StatusNoContent)
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/atelierhq/backoffice/internal/core/domain"
)

// stubSettingsService records writes and serves canned metadata. Only the
// methods the settings screen touches carry behaviour.
type stubSettingsService struct {
	sets         map[string]domain.SettingValue
	resets       []string
	bulkFailed   []string
	bulkReceived map[string]domain.SettingValue
	cleared      int
	restartKeys  []string
	category     map[string]domain.Setting
}

func newStubSettingsService() *stubSettingsService {
	return &stubSettingsService{sets: make(map[string]domain.SettingValue)}
}

func (s *stubSettingsService) Get(ctx context.Context, key string, def domain.SettingValue) domain.SettingValue {
	return def
}

func (s *stubSettingsService) GetMultiple(ctx context.Context, keys []string) map[string]domain.SettingValue {
	return map[string]domain.SettingValue{}
}

func (s *stubSettingsService) Exists(ctx context.Context, key string) bool { return false }

func (s *stubSettingsService) Set(ctx context.Context, key string, value domain.SettingValue, userID string) error {
	s.sets[key] = value
	return nil
}

func (s *stubSettingsService) ResetToDefault(ctx context.Context, key, userID string) error {
	s.resets = append(s.resets, key)
	return nil
}

func (s *stubSettingsService) BulkUpdate(ctx context.Context, values map[string]domain.SettingValue, userID string) ([]string, error) {
	s.bulkReceived = values
	return s.bulkFailed, nil
}

func (s *stubSettingsService) GetCategory(ctx context.Context, category string) (map[string]domain.Setting, error) {
	return s.category, nil
}

func (s *stubSettingsService) GetCategories(ctx context.Context) ([]domain.SettingCategory, error) {
	return []domain.SettingCategory{{Category: "business", SettingCount: 2}}, nil
}

func (s *stubSettingsService) GetRestartRequired(ctx context.Context) ([]string, error) {
	return s.restartKeys, nil
}

func (s *stubSettingsService) ExportAll(ctx context.Context) (map[string]domain.Setting, error) {
	return s.category, nil
}

func (s *stubSettingsService) ClearCache() { s.cleared++ }

func (s *stubSettingsService) TaxRate(ctx context.Context) float64              { return 0.0635 }
func (s *stubSettingsService) OrderPageSize(ctx context.Context) int            { return 25 }
func (s *stubSettingsService) CustomerPageSize(ctx context.Context) int         { return 25 }
func (s *stubSettingsService) OverdueThresholdDays(ctx context.Context) int     { return 7 }
func (s *stubSettingsService) RushThresholdDays(ctx context.Context) int        { return 3 }
func (s *stubSettingsService) SessionTimeout(ctx context.Context) time.Duration { return time.Hour }
func (s *stubSettingsService) RecentOrdersLimit(ctx context.Context) int        { return 10 }
func (s *stubSettingsService) MaxSearchResults(ctx context.Context) int         { return 100 }

func settingsContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "admin-1")
	c.Set("username", "admin")
	c.Set("role", domain.RoleAdministrator)
	return c, rec
}

func TestSettingsHandler_Update_CoercesTypedValue(t *testing.T) {
	stub := newStubSettingsService()
	h := NewSettingsHandler(stub)

	c, rec := settingsContext(t, http.MethodPut, "/settings/orders.page_size", `{"kind":"int","value":50}`)
	c.SetParamNames("key")
	c.SetParamValues("orders.page_size")

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	got, ok := stub.sets["orders.page_size"]
	if !ok {
		t.Fatalf("service not called")
	}
	if got.Kind != domain.KindInt || got.Int != 50 {
		t.Fatalf("expected int 50, got %+v", got)
	}
}

func TestSettingsHandler_Update_KindMismatch(t *testing.T) {
	stub := newStubSettingsService()
	h := NewSettingsHandler(stub)

	c, _ := settingsContext(t, http.MethodPut, "/settings/orders.page_size", `{"kind":"bool","value":25}`)
	c.SetParamNames("key")
	c.SetParamValues("orders.page_size")

	err := h.Update(c)
	if !errors.Is(err, domain.ErrSettingInvalid) {
		t.Fatalf("expected ErrSettingInvalid, got %v", err)
	}
	if len(stub.sets) != 0 {
		t.Fatalf("service should not be called on a malformed value")
	}
}

func TestSettingsHandler_Update_UnknownKind(t *testing.T) {
	stub := newStubSettingsService()
	h := NewSettingsHandler(stub)

	c, rec := settingsContext(t, http.MethodPut, "/settings/x", `{"kind":"color","value":"red"}`)
	c.SetParamNames("key")
	c.SetParamValues("x")

	_ = h.Update(c)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSettingsHandler_BulkUpdate_ReportsMalformedAndRejected(t *testing.T) {
	stub := newStubSettingsService()
	stub.bulkFailed = []string{"business.ct_tax_rate"}
	h := NewSettingsHandler(stub)

	body := `{"values":{
		"business.ct_tax_rate": {"kind":"float","value":9.9},
		"orders.page_size":     {"kind":"int","value":30},
		"search.max_results":   {"kind":"int","value":"not-a-number"}
	}}`
	c, rec := settingsContext(t, http.MethodPost, "/settings/bulk", body)

	if err := h.BulkUpdate(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	// The malformed key never reaches the service.
	if _, ok := stub.bulkReceived["search.max_results"]; ok {
		t.Fatalf("malformed value should not reach the service")
	}
	if len(stub.bulkReceived) != 2 {
		t.Fatalf("expected 2 values forwarded, got %d", len(stub.bulkReceived))
	}

	var resp bulkUpdateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	wantFailed := []string{"business.ct_tax_rate", "search.max_results"}
	if !reflect.DeepEqual(resp.Failed, wantFailed) {
		t.Fatalf("expected failed %v, got %v", wantFailed, resp.Failed)
	}
	if !reflect.DeepEqual(resp.Updated, []string{"orders.page_size"}) {
		t.Fatalf("expected updated [orders.page_size], got %v", resp.Updated)
	}
}

func TestSettingsHandler_Reset(t *testing.T) {
	stub := newStubSettingsService()
	h := NewSettingsHandler(stub)

	c, rec := settingsContext(t, http.MethodPost, "/settings/orders.page_size/reset", "")
	c.SetParamNames("key")
	c.SetParamValues("orders.page_size")

	if err := h.Reset(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if !reflect.DeepEqual(stub.resets, []string{"orders.page_size"}) {
		t.Fatalf("reset not forwarded: %v", stub.resets)
	}
}

func TestSettingsHandler_Category_SortedByKey(t *testing.T) {
	stub := newStubSettingsService()
	stub.category = map[string]domain.Setting{
		"orders.page_size":              {Key: "orders.page_size", Kind: domain.KindInt, Value: domain.IntValue(25), Default: domain.IntValue(25)},
		"orders.overdue_threshold_days": {Key: "orders.overdue_threshold_days", Kind: domain.KindInt, Value: domain.IntValue(7), Default: domain.IntValue(7)},
	}
	h := NewSettingsHandler(stub)

	c, rec := settingsContext(t, http.MethodGet, "/settings/categories/orders", "")
	c.SetParamNames("name")
	c.SetParamValues("orders")

	if err := h.Category(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp []settingResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected 2 settings, got %d", len(resp))
	}
	if resp[0].Key != "orders.overdue_threshold_days" || resp[1].Key != "orders.page_size" {
		t.Fatalf("settings not key-ordered: %s, %s", resp[0].Key, resp[1].Key)
	}
}

func TestSettingsHandler_RestartRequired_EmptyIsAnArray(t *testing.T) {
	stub := newStubSettingsService()
	h := NewSettingsHandler(stub)

	c, rec := settingsContext(t, http.MethodGet, "/settings/restart-required", "")

	if err := h.RestartRequired(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"keys":[]`) {
		t.Fatalf("expected empty array, got %s", rec.Body.String())
	}
}

func TestSettingsHandler_ClearCache(t *testing.T) {
	stub := newStubSettingsService()
	h := NewSettingsHandler(stub)

	c, rec := settingsContext(t, http.MethodPost, "/settings/cache/clear", "")

	if err := h.ClearCache(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if stub.cleared != 1 {
		t.Fatalf("cache not cleared")
	}
}

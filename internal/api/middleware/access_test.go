package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/atelierhq/backoffice/internal/core/domain"
)

type stubAccessService struct {
	allowed map[string][]domain.Feature
	landing map[string]string
}

func (s *stubAccessService) AllFeatures() []domain.Feature {
	return domain.AllFeatures
}

func (s *stubAccessService) AllowedFeaturesForRole(ctx context.Context, role string) []domain.Feature {
	return s.allowed[role]
}

func (s *stubAccessService) CanAccess(ctx context.Context, role string, feature domain.Feature) bool {
	for _, f := range s.allowed[role] {
		if f == feature {
			return true
		}
	}
	return false
}

func (s *stubAccessService) DefaultLandingRoute(ctx context.Context, role string) string {
	if route, ok := s.landing[role]; ok {
		return route
	}
	return "/profile"
}

func (s *stubAccessService) FeatureRoute(feature domain.Feature) string {
	return feature.Route()
}

func newStubAccess() *stubAccessService {
	return &stubAccessService{
		allowed: map[string][]domain.Feature{
			"administrator":   domain.AllFeatures,
			"production_team": {domain.FeatureSupplierTracking, domain.FeatureWorkspace, domain.FeatureProfile},
		},
		landing: map[string]string{
			"production_team": "/workspace",
		},
	}
}

func TestRequireFeature_Allows(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/workspace", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("role", "production_team")

	called := false
	mw := RequireFeature(domain.FeatureWorkspace, newStubAccess())
	handler := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireFeature_ForbidsJSON(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("role", "production_team")

	mw := RequireFeature(domain.FeatureUsers, newStubAccess())
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	_ = handler(c)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRequireFeature_BrowserRedirectsToLanding(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("role", "production_team")

	mw := RequireFeature(domain.FeatureUsers, newStubAccess())
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	_ = handler(c)
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/workspace" {
		t.Fatalf("expected redirect to /workspace, got %q", loc)
	}
}

func TestRequireFeature_MissingRoleForbidden(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := RequireFeature(domain.FeatureUsers, newStubAccess())
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	_ = handler(c)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

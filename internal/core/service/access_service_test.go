package service

import (
	"context"
	"reflect"
	"testing"

	"github.com/atelierhq/backoffice/internal/core/domain"
)

// stubSettingReader serves role overrides straight from a map.
type stubSettingReader struct {
	values map[string]domain.SettingValue
}

func (r *stubSettingReader) Get(_ context.Context, key string, def domain.SettingValue) domain.SettingValue {
	if v, ok := r.values[key]; ok {
		return v
	}
	return def
}

func newAccessUnderTest(values map[string]domain.SettingValue) *AccessService {
	if values == nil {
		values = make(map[string]domain.SettingValue)
	}
	return NewAccessService(&stubSettingReader{values: values}, discardLogger)
}

func featureNames(features []domain.Feature) []string {
	out := make([]string, len(features))
	for i, f := range features {
		out[i] = string(f)
	}
	return out
}

func TestAccessService_Administrator_GetsAllFeatures(t *testing.T) {
	svc := newAccessUnderTest(nil)

	got := svc.AllowedFeaturesForRole(context.Background(), domain.RoleAdministrator)
	if !reflect.DeepEqual(got, svc.AllFeatures()) {
		t.Errorf("administrator must get the full enumeration, got %v", featureNames(got))
	}
}

func TestAccessService_ProfileAlwaysIncluded(t *testing.T) {
	svc := newAccessUnderTest(nil)
	ctx := context.Background()

	for _, role := range []string{domain.RoleProductionTeam, "sales", "warehouse", ""} {
		found := false
		for _, f := range svc.AllowedFeaturesForRole(ctx, role) {
			if f == domain.FeatureProfile {
				found = true
			}
		}
		if !found {
			t.Errorf("role %q: profile must always be allowed", role)
		}
	}
}

func TestAccessService_ProductionTeam_Defaults(t *testing.T) {
	svc := newAccessUnderTest(nil)

	got := svc.AllowedFeaturesForRole(context.Background(), domain.RoleProductionTeam)
	want := []domain.Feature{
		domain.FeatureSupplierTracking,
		domain.FeatureWorkspace,
		domain.FeatureProfile,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", featureNames(want), featureNames(got))
	}
}

func TestAccessService_UnknownRole_FallsBackToProfile(t *testing.T) {
	svc := newAccessUnderTest(nil)

	got := svc.AllowedFeaturesForRole(context.Background(), "warehouse")
	want := []domain.Feature{domain.FeatureProfile}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected profile only, got %v", featureNames(got))
	}
}

func TestAccessService_Override_OrderedByEnumeration(t *testing.T) {
	// The override lists orders before customers; the result must follow the
	// feature enumeration instead: customers, orders, profile.
	svc := newAccessUnderTest(map[string]domain.SettingValue{
		"access.roles.sales.allowed_features": domain.JSONValue([]any{"orders", "customers"}),
	})

	got := svc.AllowedFeaturesForRole(context.Background(), "sales")
	want := []domain.Feature{
		domain.FeatureCustomers,
		domain.FeatureOrders,
		domain.FeatureProfile,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", featureNames(want), featureNames(got))
	}
}

func TestAccessService_Override_DropsUnknownAndDuplicates(t *testing.T) {
	svc := newAccessUnderTest(map[string]domain.SettingValue{
		"access.roles.sales.allowed_features": domain.JSONValue([]any{"orders", "orders", "time_travel"}),
	})

	got := svc.AllowedFeaturesForRole(context.Background(), "sales")
	want := []domain.Feature{domain.FeatureOrders, domain.FeatureProfile}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", featureNames(want), featureNames(got))
	}
}

func TestAccessService_MalformedOverride_FallsBackToDefaults(t *testing.T) {
	// A non-list value must behave exactly like an absent override.
	svc := newAccessUnderTest(map[string]domain.SettingValue{
		"access.roles.production_team.allowed_features": domain.StringValue("workspace"),
	})

	got := svc.AllowedFeaturesForRole(context.Background(), domain.RoleProductionTeam)
	want := []domain.Feature{
		domain.FeatureSupplierTracking,
		domain.FeatureWorkspace,
		domain.FeatureProfile,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected built-in defaults, got %v", featureNames(got))
	}
}

func TestAccessService_CanAccess_MatchesAllowedSet(t *testing.T) {
	svc := newAccessUnderTest(map[string]domain.SettingValue{
		"access.roles.sales.allowed_features": domain.JSONValue([]any{"orders", "customers"}),
	})
	ctx := context.Background()

	for _, role := range []string{domain.RoleAdministrator, "sales", "warehouse"} {
		allowed := make(map[domain.Feature]struct{})
		for _, f := range svc.AllowedFeaturesForRole(ctx, role) {
			allowed[f] = struct{}{}
		}
		for _, f := range svc.AllFeatures() {
			_, inSet := allowed[f]
			want := role == domain.RoleAdministrator || inSet
			if got := svc.CanAccess(ctx, role, f); got != want {
				t.Errorf("CanAccess(%q, %q) = %v, want %v", role, f, got, want)
			}
		}
	}
}

func TestAccessService_DefaultLandingRoute(t *testing.T) {
	svc := newAccessUnderTest(map[string]domain.SettingValue{
		"access.roles.sales.allowed_features": domain.JSONValue([]any{"orders", "customers"}),
	})
	ctx := context.Background()

	tests := []struct {
		role string
		want string
	}{
		{domain.RoleAdministrator, "/dashboard"},
		// workspace precedes supplier_tracking in the landing order
		{domain.RoleProductionTeam, "/workspace"},
		{"sales", "/orders"},
		{"warehouse", "/profile"},
	}
	for _, tt := range tests {
		if got := svc.DefaultLandingRoute(ctx, tt.role); got != tt.want {
			t.Errorf("DefaultLandingRoute(%q) = %q, want %q", tt.role, got, tt.want)
		}
	}
}

func TestAccessService_ReadsOverridesThroughSettingsStore(t *testing.T) {
	// Wire the resolver against the real settings service so the override
	// lookup exercises the cache path end to end.
	repo := newStubSettingsRepo()
	repo.seed("access.roles.sales.allowed_features",
		domain.JSONValue([]any{"orders", "customers"}), domain.SettingValue{}, "access")
	settings := newSettingsUnderTest(repo)
	svc := NewAccessService(settings, discardLogger)
	ctx := context.Background()

	want := []domain.Feature{
		domain.FeatureCustomers,
		domain.FeatureOrders,
		domain.FeatureProfile,
	}
	if got := svc.AllowedFeaturesForRole(ctx, "sales"); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", featureNames(want), featureNames(got))
	}

	// Second resolution is served from the settings cache.
	svc.AllowedFeaturesForRole(ctx, "sales")
	if repo.exportCalls != 1 {
		t.Errorf("expected one bulk load, got %d", repo.exportCalls)
	}
}

func TestAccessService_FeatureRoute_IsTotal(t *testing.T) {
	svc := newAccessUnderTest(nil)

	for _, f := range svc.AllFeatures() {
		if svc.FeatureRoute(f) == "" {
			t.Errorf("feature %q has no route", f)
		}
	}
	if got := svc.FeatureRoute(domain.Feature("time_travel")); got != "/profile" {
		t.Errorf("unknown feature must map to the profile route, got %q", got)
	}
}

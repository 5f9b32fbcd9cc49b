package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/atelierhq/backoffice/internal/core/domain"
)

// SettingReader is the slice of the settings store the access resolver needs.
type SettingReader interface {
	Get(ctx context.Context, key string, def domain.SettingValue) domain.SettingValue
}

// defaultRoleFeatures are the built-in fallbacks used when a role has no
// stored override, or the stored override is not a list of strings. Roles
// not listed here fall back to profile only.
var defaultRoleFeatures = map[string][]domain.Feature{
	domain.RoleProductionTeam: {
		domain.FeatureWorkspace,
		domain.FeatureSupplierTracking,
		domain.FeatureProfile,
	},
}

// AccessService maps roles to the features they may reach. Resolution never
// fails: bad configuration degrades to the minimal profile-only set rather
// than locking anyone out of their own profile or leaking extra access.
type AccessService struct {
	settings SettingReader
	log      zerolog.Logger
}

func NewAccessService(settings SettingReader, log zerolog.Logger) *AccessService {
	return &AccessService{settings: settings, log: log}
}

// AllFeatures returns the full feature enumeration in canonical order.
func (a *AccessService) AllFeatures() []domain.Feature {
	return append([]domain.Feature(nil), domain.AllFeatures...)
}

// AllowedFeaturesForRole resolves the feature set a role may reach.
// Administrators always get the full enumeration, never a stored override.
// Other roles resolve their override list from the settings store, fall back
// to the built-in defaults when it is absent or malformed, always include
// profile, and are reported in feature-enumeration order with unknown
// entries dropped.
func (a *AccessService) AllowedFeaturesForRole(ctx context.Context, role string) []domain.Feature {
	if role == domain.RoleAdministrator {
		return a.AllFeatures()
	}

	raw := a.settings.Get(ctx, roleFeaturesKey(role), domain.SettingValue{})
	names, ok := raw.StringList()
	if !ok {
		if !raw.IsZero() {
			a.log.Warn().Str("role", role).Msg("role feature override is not a string list, using defaults")
		}
		names = fallbackFeatureNames(role)
	}

	want := make(map[domain.Feature]struct{}, len(names)+1)
	for _, name := range names {
		want[domain.Feature(name)] = struct{}{}
	}
	want[domain.FeatureProfile] = struct{}{}

	// Enumeration order doubles as intersection and dedup.
	out := make([]domain.Feature, 0, len(want))
	for _, f := range domain.AllFeatures {
		if _, ok := want[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

// CanAccess reports whether role may reach feature.
func (a *AccessService) CanAccess(ctx context.Context, role string, feature domain.Feature) bool {
	if role == domain.RoleAdministrator {
		return true
	}
	for _, f := range a.AllowedFeaturesForRole(ctx, role) {
		if f == feature {
			return true
		}
	}
	return false
}

// DefaultLandingRoute picks the role's post-login destination: the first
// entry of the landing order the role may access. The profile guarantee
// means the scan cannot come up empty, but the profile route is returned
// anyway if it somehow does.
func (a *AccessService) DefaultLandingRoute(ctx context.Context, role string) string {
	allowed := a.AllowedFeaturesForRole(ctx, role)
	set := make(map[domain.Feature]struct{}, len(allowed))
	for _, f := range allowed {
		set[f] = struct{}{}
	}
	for _, f := range domain.LandingOrder {
		if _, ok := set[f]; ok {
			return f.Route()
		}
	}
	return domain.FeatureProfile.Route()
}

// FeatureRoute returns the URL path for a feature.
func (a *AccessService) FeatureRoute(feature domain.Feature) string {
	return feature.Route()
}

func roleFeaturesKey(role string) string {
	return "access.roles." + role + ".allowed_features"
}

func fallbackFeatureNames(role string) []string {
	features, ok := defaultRoleFeatures[role]
	if !ok {
		return []string{string(domain.FeatureProfile)}
	}
	names := make([]string, len(features))
	for i, f := range features {
		names[i] = string(f)
	}
	return names
}

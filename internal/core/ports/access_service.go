package ports

import (
	"context"

	"github.com/atelierhq/backoffice/internal/core/domain"
)

// AccessService answers which features a role may reach and where a role
// lands after login. None of the methods fail: malformed role configuration
// degrades to the minimal profile-only feature set.
type AccessService interface {
	AllFeatures() []domain.Feature
	AllowedFeaturesForRole(ctx context.Context, role string) []domain.Feature
	CanAccess(ctx context.Context, role string, feature domain.Feature) bool
	DefaultLandingRoute(ctx context.Context, role string) string
	FeatureRoute(feature domain.Feature) string
}

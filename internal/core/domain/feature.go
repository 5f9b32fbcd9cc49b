package domain

// Feature names an application area that can be granted to a role.
type Feature string

const (
	FeatureDashboard        Feature = "dashboard"
	FeatureCustomers        Feature = "customers"
	FeatureOrders           Feature = "orders"
	FeatureProduction       Feature = "production"
	FeatureSupplierTracking Feature = "supplier_tracking"
	FeatureWorkspace        Feature = "workspace"
	FeatureUsers            Feature = "users"
	FeatureSettings         Feature = "settings"
	FeatureProfile          Feature = "profile"
)

// AllFeatures is the closed enumeration of features, in canonical order.
// Allowed-feature sets are always reported in this order. Never mutated.
var AllFeatures = []Feature{
	FeatureDashboard,
	FeatureCustomers,
	FeatureOrders,
	FeatureProduction,
	FeatureSupplierTracking,
	FeatureWorkspace,
	FeatureUsers,
	FeatureSettings,
	FeatureProfile,
}

// LandingOrder is the fixed priority used to pick a role's default page:
// the first entry a role may access wins.
var LandingOrder = []Feature{
	FeatureDashboard,
	FeatureWorkspace,
	FeatureSupplierTracking,
	FeatureProduction,
	FeatureOrders,
	FeatureCustomers,
	FeatureUsers,
	FeatureSettings,
	FeatureProfile,
}

var featureRoutes = map[Feature]string{
	FeatureDashboard:        "/dashboard",
	FeatureCustomers:        "/customers",
	FeatureOrders:           "/orders",
	FeatureProduction:       "/production",
	FeatureSupplierTracking: "/supplier-tracking",
	FeatureWorkspace:        "/workspace",
	FeatureUsers:            "/users",
	FeatureSettings:         "/settings",
	FeatureProfile:          "/profile",
}

// Route returns the URL path for a feature. Unknown features map to the
// profile page so the function is total.
func (f Feature) Route() string {
	if route, ok := featureRoutes[f]; ok {
		return route
	}
	return featureRoutes[FeatureProfile]
}

// Known reports whether f is part of the feature enumeration.
func (f Feature) Known() bool {
	_, ok := featureRoutes[f]
	return ok
}

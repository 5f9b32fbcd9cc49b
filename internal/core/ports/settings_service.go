package ports

import (
	"context"
	"time"

	"github.com/atelierhq/backoffice/internal/core/domain"
)

// SettingsService resolves configuration values through an in-process cache
// layered over a SettingsRepository.
//
// Get never fails: unknown keys resolve to def and a repository outage also
// falls back to def. Set, ResetToDefault and BulkUpdate report persistence
// failures to the caller and leave the cache untouched for any key that did
// not persist. The category, export and restart queries bypass the cache and
// always read live.
type SettingsService interface {
	Get(ctx context.Context, key string, def domain.SettingValue) domain.SettingValue
	GetMultiple(ctx context.Context, keys []string) map[string]domain.SettingValue
	Exists(ctx context.Context, key string) bool
	Set(ctx context.Context, key string, value domain.SettingValue, userID string) error
	ResetToDefault(ctx context.Context, key, userID string) error
	BulkUpdate(ctx context.Context, values map[string]domain.SettingValue, userID string) ([]string, error)
	GetCategory(ctx context.Context, category string) (map[string]domain.Setting, error)
	GetCategories(ctx context.Context) ([]domain.SettingCategory, error)
	GetRestartRequired(ctx context.Context) ([]string, error)
	ExportAll(ctx context.Context) (map[string]domain.Setting, error)
	ClearCache()

	// Typed accessors. Each pins one dotted key to one hardcoded default so
	// call sites never repeat key strings or fallback literals.
	TaxRate(ctx context.Context) float64
	OrderPageSize(ctx context.Context) int
	CustomerPageSize(ctx context.Context) int
	OverdueThresholdDays(ctx context.Context) int
	RushThresholdDays(ctx context.Context) int
	SessionTimeout(ctx context.Context) time.Duration
	RecentOrdersLimit(ctx context.Context) int
	MaxSearchResults(ctx context.Context) int
}

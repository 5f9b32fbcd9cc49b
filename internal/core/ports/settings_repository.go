package ports

import (
	"context"

	"github.com/atelierhq/backoffice/internal/core/domain"
)

// SettingsRepository is the persistence contract backing the settings store.
//
// GetValue resolves a key to its typed value, returning def (with a nil
// error) when the key is unknown. BulkUpdate applies each key independently
// and returns the keys it could not apply; a key is only ever reported
// applied when the exact supplied value was stored. A non-nil error from any
// method means the store itself was unreachable.
type SettingsRepository interface {
	GetValue(ctx context.Context, key string, def domain.SettingValue) (domain.SettingValue, error)
	SetValue(ctx context.Context, key string, value domain.SettingValue, userID string) error
	GetByCategory(ctx context.Context, category string) (map[string]domain.Setting, error)
	GetCategories(ctx context.Context) ([]domain.SettingCategory, error)
	ResetToDefault(ctx context.Context, key, userID string) error
	BulkUpdate(ctx context.Context, values map[string]domain.SettingValue, userID string) (failed []string, err error)
	ExportAll(ctx context.Context) (map[string]domain.Setting, error)
	GetRestartRequired(ctx context.Context) ([]string, error)
}

package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/atelierhq/backoffice/internal/api/metrics"
	"github.com/atelierhq/backoffice/internal/core/domain"
	"github.com/atelierhq/backoffice/internal/core/ports"
)

// SettingsService resolves configuration keys through an explicit in-process
// cache layered over the settings repository. The cache is owned by the
// service instance and injected wherever settings are read; there is no
// package-level state. Each process holds its own cache, so a write made by
// one instance becomes visible to others only when their caches are cleared
// or reloaded — an accepted eventual-consistency window.
type SettingsService struct {
	repo  ports.SettingsRepository
	cache *settingsCache
	log   zerolog.Logger
}

func NewSettingsService(repo ports.SettingsRepository, log zerolog.Logger) *SettingsService {
	return &SettingsService{repo: repo, cache: newSettingsCache(), log: log}
}

// ensureLoaded bulk-loads every known setting into the cache on the first
// read. A failed load leaves the cache unloaded so the next read retries.
func (s *SettingsService) ensureLoaded(ctx context.Context) {
	if s.cache.isLoaded() {
		return
	}
	all, err := s.repo.ExportAll(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("settings cache load failed")
		return
	}
	values := make(map[string]domain.SettingValue, len(all))
	for key, rec := range all {
		values[key] = rec.Value
	}
	s.cache.fill(values)
	metrics.SettingsCacheLoadsTotal.Inc()
	s.log.Debug().Int("settings", len(values)).Msg("settings cache loaded")
}

// Get resolves key to its cached value, falling back to a single-key
// repository read on a miss. The resolved value is memoized even when it is
// the fallback default, so repeated lookups of an unknown key stay in
// memory. Get never fails: a repository outage resolves to def.
func (s *SettingsService) Get(ctx context.Context, key string, def domain.SettingValue) domain.SettingValue {
	s.ensureLoaded(ctx)

	if v, ok := s.cache.lookup(key); ok {
		metrics.SettingsCacheHitsTotal.Inc()
		return v
	}
	metrics.SettingsCacheMissesTotal.Inc()

	v, err := s.repo.GetValue(ctx, key, def)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("setting read failed, using default")
		return def
	}
	s.cache.store(key, v)
	return v
}

// GetMultiple resolves each key via Get, preserving the input key set.
// Duplicates collapse; every lookup after the first load is a cache hit.
func (s *SettingsService) GetMultiple(ctx context.Context, keys []string) map[string]domain.SettingValue {
	out := make(map[string]domain.SettingValue, len(keys))
	for _, key := range keys {
		out[key] = s.Get(ctx, key, domain.SettingValue{})
	}
	return out
}

// Exists reports whether key is known to the store. Triggers the lazy load.
func (s *SettingsService) Exists(ctx context.Context, key string) bool {
	s.ensureLoaded(ctx)
	_, ok := s.cache.lookup(key)
	return ok
}

// Set persists the new value and write-throughs the cache on success. On
// failure the cache is left untouched and the error is returned; callers
// must not ignore it, or their next read will serve the stale cached value.
func (s *SettingsService) Set(ctx context.Context, key string, value domain.SettingValue, userID string) error {
	if err := s.repo.SetValue(ctx, key, value, userID); err != nil {
		return err
	}
	s.cache.store(key, value)
	return nil
}

// ResetToDefault restores the stored default and evicts just that key from
// the cache. The next Get for the key re-resolves it individually; every
// other cached key stays put.
func (s *SettingsService) ResetToDefault(ctx context.Context, key, userID string) error {
	if err := s.repo.ResetToDefault(ctx, key, userID); err != nil {
		return err
	}
	s.cache.evict(key)
	metrics.SettingsCacheEvictionsTotal.WithLabelValues("key").Inc()
	return nil
}

// BulkUpdate applies a batch write and returns the keys the repository could
// not apply. The cache is updated with the supplied value for every key not
// reported failed; the repository contract guarantees those keys were stored
// exactly as given.
func (s *SettingsService) BulkUpdate(ctx context.Context, values map[string]domain.SettingValue, userID string) ([]string, error) {
	failed, err := s.repo.BulkUpdate(ctx, values, userID)
	if err != nil {
		return nil, err
	}

	failedSet := make(map[string]struct{}, len(failed))
	for _, key := range failed {
		failedSet[key] = struct{}{}
	}
	for key, value := range values {
		if _, bad := failedSet[key]; !bad {
			s.cache.store(key, value)
		}
	}
	return failed, nil
}

// GetCategory returns every setting in a category, live from the repository.
// The admin screens want freshness over speed, so the cache is bypassed.
func (s *SettingsService) GetCategory(ctx context.Context, category string) (map[string]domain.Setting, error) {
	return s.repo.GetByCategory(ctx, category)
}

// GetCategories returns all categories with their setting counts, live.
func (s *SettingsService) GetCategories(ctx context.Context) ([]domain.SettingCategory, error) {
	return s.repo.GetCategories(ctx)
}

// GetRestartRequired returns the keys whose changes only take effect after a
// restart, live.
func (s *SettingsService) GetRestartRequired(ctx context.Context) ([]string, error) {
	return s.repo.GetRestartRequired(ctx)
}

// ExportAll returns every setting with metadata, live.
func (s *SettingsService) ExportAll(ctx context.Context) (map[string]domain.Setting, error) {
	return s.repo.ExportAll(ctx)
}

// ClearCache empties the cache entirely; the next read triggers a full
// reload. Idempotent.
func (s *SettingsService) ClearCache() {
	s.cache.clear()
	metrics.SettingsCacheEvictionsTotal.WithLabelValues("all").Inc()
}

// ── Typed accessors ──────────────────────────────────────────────────────────
// One method per tunable, pinning the dotted key and its hardcoded default.
// Call sites never repeat key strings or fallback literals.

func (s *SettingsService) TaxRate(ctx context.Context) float64 {
	return s.Get(ctx, "business.ct_tax_rate", domain.FloatValue(0.0635)).AsFloat()
}

func (s *SettingsService) OrderPageSize(ctx context.Context) int {
	return int(s.Get(ctx, "orders.page_size", domain.IntValue(25)).AsInt())
}

func (s *SettingsService) CustomerPageSize(ctx context.Context) int {
	return int(s.Get(ctx, "customers.page_size", domain.IntValue(25)).AsInt())
}

func (s *SettingsService) OverdueThresholdDays(ctx context.Context) int {
	return int(s.Get(ctx, "orders.overdue_threshold_days", domain.IntValue(7)).AsInt())
}

func (s *SettingsService) RushThresholdDays(ctx context.Context) int {
	return int(s.Get(ctx, "production.rush_threshold_days", domain.IntValue(3)).AsInt())
}

func (s *SettingsService) SessionTimeout(ctx context.Context) time.Duration {
	minutes := s.Get(ctx, "auth.session_timeout_minutes", domain.IntValue(60)).AsInt()
	return time.Duration(minutes) * time.Minute
}

func (s *SettingsService) RecentOrdersLimit(ctx context.Context) int {
	return int(s.Get(ctx, "dashboard.recent_orders_limit", domain.IntValue(10)).AsInt())
}

func (s *SettingsService) MaxSearchResults(ctx context.Context) int {
	return int(s.Get(ctx, "search.max_results", domain.IntValue(100)).AsInt())
}

package mongo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/atelierhq/backoffice/internal/core/domain"
)

const collectionSettings = "settings"

// SettingRepository implements the settings persistence contract over the
// settings collection. Settings are seeded externally; this repository never
// creates or deletes documents, it only reads, writes and resets values.
type SettingRepository struct {
	col *mongo.Collection
}

func NewSettingRepository(db *mongo.Database) *SettingRepository {
	return &SettingRepository{col: db.Collection(collectionSettings)}
}

type settingDoc struct {
	Key             string              `bson:"_id"`
	Value           any                 `bson:"value"`
	Kind            string              `bson:"kind"`
	Category        string              `bson:"category"`
	DisplayName     string              `bson:"display_name"`
	Description     string              `bson:"description,omitempty"`
	Default         any                 `bson:"default"`
	Rules           domain.SettingRules `bson:"rules,omitempty"`
	RestartRequired bool                `bson:"restart_required"`
	UpdatedBy       string              `bson:"updated_by,omitempty"`
	UpdatedAt       time.Time           `bson:"updated_at,omitempty"`
}

// GetValue resolves key to its typed value. Unknown keys and values that no
// longer decode under their kind tag resolve to def without an error.
func (r *SettingRepository) GetValue(ctx context.Context, key string, def domain.SettingValue) (domain.SettingValue, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc settingDoc
	err := r.col.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return def, nil
		}
		return def, err
	}

	value, err := coerceDoc(doc.Kind, doc.Value)
	if err == nil {
		return value, nil
	}
	// Broken value: fall back to the stored default, then the caller's.
	if fallback, defErr := coerceDoc(doc.Kind, doc.Default); defErr == nil {
		return fallback, nil
	}
	return def, nil
}

// SetValue validates the new value against the setting's kind and rules and
// writes it with attribution. A value the setting cannot accept is an
// ErrSettingInvalid, never a silent normalization: callers may trust that a
// nil error means the value was stored exactly as given.
func (r *SettingRepository) SetValue(ctx context.Context, key string, value domain.SettingValue, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc settingDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": key}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.ErrSettingNotFound
		}
		return err
	}

	if string(value.Kind) != doc.Kind {
		return fmt.Errorf("%w: %s expects kind %s, got %s", domain.ErrSettingInvalid, key, doc.Kind, value.Kind)
	}
	if err := validateRules(doc.Rules, value); err != nil {
		return err
	}

	_, err := r.col.UpdateOne(ctx, bson.M{"_id": key}, bson.M{"$set": bson.M{
		"value":      value.Raw(),
		"updated_by": userID,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

func (r *SettingRepository) GetByCategory(ctx context.Context, category string) (map[string]domain.Setting, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"category": category})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	return decodeSettingMap(ctx, cur)
}

func (r *SettingRepository) GetCategories(ctx context.Context) ([]domain.SettingCategory, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$category"},
			{Key: "setting_count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []domain.SettingCategory
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ResetToDefault copies the stored default over the current value.
func (r *SettingRepository) ResetToDefault(ctx context.Context, key, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc settingDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": key}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.ErrSettingNotFound
		}
		return err
	}

	_, err := r.col.UpdateOne(ctx, bson.M{"_id": key}, bson.M{"$set": bson.M{
		"value":      doc.Default,
		"updated_by": userID,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// BulkUpdate applies each key independently and reports the keys that were
// rejected (unknown key or invalid value). A transport failure aborts the
// whole batch with an error instead.
func (r *SettingRepository) BulkUpdate(ctx context.Context, values map[string]domain.SettingValue, userID string) ([]string, error) {
	var failed []string
	for key, value := range values {
		err := r.SetValue(ctx, key, value, userID)
		if err == nil {
			continue
		}
		if errors.Is(err, domain.ErrSettingNotFound) || errors.Is(err, domain.ErrSettingInvalid) {
			failed = append(failed, key)
			continue
		}
		return nil, err
	}
	sort.Strings(failed)
	return failed, nil
}

func (r *SettingRepository) ExportAll(ctx context.Context) (map[string]domain.Setting, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	return decodeSettingMap(ctx, cur)
}

// GetRestartRequired returns the keys of restart-flagged settings whose
// current value differs from the default, i.e. changes waiting on a restart.
func (r *SettingRepository) GetRestartRequired(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"restart_required": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []string
	for cur.Next(ctx) {
		var doc settingDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		rec := docToSetting(doc)
		if rec.Value.AsString() != rec.Default.AsString() {
			out = append(out, doc.Key)
		}
	}
	return out, cur.Err()
}

func decodeSettingMap(ctx context.Context, cur *mongo.Cursor) (map[string]domain.Setting, error) {
	out := make(map[string]domain.Setting)
	for cur.Next(ctx) {
		var doc settingDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out[doc.Key] = docToSetting(doc)
	}
	return out, cur.Err()
}

func docToSetting(doc settingDoc) domain.Setting {
	value, err := coerceDoc(doc.Kind, doc.Value)
	def, defErr := coerceDoc(doc.Kind, doc.Default)
	if err != nil && defErr == nil {
		value = def
	}
	return domain.Setting{
		Key:             doc.Key,
		Value:           value,
		Kind:            domain.SettingKind(doc.Kind),
		Category:        doc.Category,
		DisplayName:     doc.DisplayName,
		Description:     doc.Description,
		Default:         def,
		Rules:           doc.Rules,
		RestartRequired: doc.RestartRequired,
		UpdatedBy:       doc.UpdatedBy,
		UpdatedAt:       doc.UpdatedAt,
	}
}

// coerceDoc normalizes BSON container types before handing the raw value to
// the domain coercion switch.
func coerceDoc(kind string, raw any) (domain.SettingValue, error) {
	return domain.CoerceValue(domain.SettingKind(kind), normalizeBSON(raw))
}

// normalizeBSON converts the driver's primitive containers into plain Go
// values so the domain layer never sees BSON types.
func normalizeBSON(v any) any {
	switch tv := v.(type) {
	case primitive.A:
		out := make([]any, len(tv))
		for i, item := range tv {
			out[i] = normalizeBSON(item)
		}
		return out
	case primitive.M:
		out := make(map[string]any, len(tv))
		for k, item := range tv {
			out[k] = normalizeBSON(item)
		}
		return out
	case primitive.D:
		out := make(map[string]any, len(tv))
		for _, e := range tv {
			out[e.Key] = normalizeBSON(e.Value)
		}
		return out
	}
	return v
}

// validateRules checks a candidate value against a setting's constraints.
func validateRules(rules domain.SettingRules, value domain.SettingValue) error {
	if rules.Required {
		if value.IsZero() || (value.Kind == domain.KindString && value.Str == "") {
			return fmt.Errorf("%w: value is required", domain.ErrSettingInvalid)
		}
	}

	switch value.Kind {
	case domain.KindInt, domain.KindFloat:
		n := value.AsFloat()
		if rules.Min != nil && n < *rules.Min {
			return fmt.Errorf("%w: %v is below minimum %v", domain.ErrSettingInvalid, n, *rules.Min)
		}
		if rules.Max != nil && n > *rules.Max {
			return fmt.Errorf("%w: %v is above maximum %v", domain.ErrSettingInvalid, n, *rules.Max)
		}
		if rules.Step != nil && *rules.Step > 0 {
			base := 0.0
			if rules.Min != nil {
				base = *rules.Min
			}
			steps := (n - base) / *rules.Step
			if math.Abs(steps-math.Round(steps)) > 1e-9 {
				return fmt.Errorf("%w: %v is not a multiple of step %v", domain.ErrSettingInvalid, n, *rules.Step)
			}
		}
	case domain.KindString:
		if len(rules.Enum) > 0 {
			found := false
			for _, allowed := range rules.Enum {
				if value.Str == allowed {
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("%w: %q is not one of the allowed values", domain.ErrSettingInvalid, value.Str)
			}
		}
		if rules.Pattern != "" {
			re, err := regexp.Compile(rules.Pattern)
			if err != nil {
				return fmt.Errorf("%w: bad validation pattern: %v", domain.ErrSettingInvalid, err)
			}
			if !re.MatchString(value.Str) {
				return fmt.Errorf("%w: %q does not match %q", domain.ErrSettingInvalid, value.Str, rules.Pattern)
			}
		}
	}
	return nil
}

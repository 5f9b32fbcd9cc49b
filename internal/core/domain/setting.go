package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

var ErrSettingNotFound = errors.New("setting not found")
var ErrSettingInvalid = errors.New("setting value invalid")

// SettingKind discriminates the closed set of value types a setting may hold.
type SettingKind string

const (
	KindBool   SettingKind = "bool"
	KindInt    SettingKind = "int"
	KindFloat  SettingKind = "float"
	KindString SettingKind = "string"
	KindJSON   SettingKind = "json"
)

// SettingValue is a tagged variant over the setting value kinds. Exactly one
// payload field is meaningful, selected by Kind. The zero value (empty Kind)
// means "no value" and is what callers pass when they have no default.
type SettingValue struct {
	Kind  SettingKind
	Bool  bool
	Int   int64
	Float float64
	Str   string
	JSON  any
}

func BoolValue(v bool) SettingValue     { return SettingValue{Kind: KindBool, Bool: v} }
func IntValue(v int64) SettingValue     { return SettingValue{Kind: KindInt, Int: v} }
func FloatValue(v float64) SettingValue { return SettingValue{Kind: KindFloat, Float: v} }
func StringValue(v string) SettingValue { return SettingValue{Kind: KindString, Str: v} }
func JSONValue(v any) SettingValue      { return SettingValue{Kind: KindJSON, JSON: v} }

// IsZero reports whether the value carries no payload at all.
func (v SettingValue) IsZero() bool { return v.Kind == "" }

// AsBool interprets the value as a boolean. Non-bool kinds fall back to false
// except strings, which accept the usual ParseBool spellings.
func (v SettingValue) AsBool() bool {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindInt:
		return v.Int != 0
	case KindString:
		b, err := strconv.ParseBool(v.Str)
		return err == nil && b
	}
	return false
}

// AsInt interprets the value as an integer, truncating floats and parsing
// numeric strings. Anything else yields zero.
func (v SettingValue) AsInt() int64 {
	switch v.Kind {
	case KindInt:
		return v.Int
	case KindFloat:
		return int64(v.Float)
	case KindString:
		n, err := strconv.ParseInt(v.Str, 10, 64)
		if err == nil {
			return n
		}
	case KindBool:
		if v.Bool {
			return 1
		}
	}
	return 0
}

// AsFloat interprets the value as a float, widening integers and parsing
// numeric strings. Anything else yields zero.
func (v SettingValue) AsFloat() float64 {
	switch v.Kind {
	case KindFloat:
		return v.Float
	case KindInt:
		return float64(v.Int)
	case KindString:
		f, err := strconv.ParseFloat(v.Str, 64)
		if err == nil {
			return f
		}
	}
	return 0
}

// AsString formats the value for display or export.
func (v SettingValue) AsString() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	case KindJSON:
		b, err := json.Marshal(v.JSON)
		if err != nil {
			return ""
		}
		return string(b)
	}
	return ""
}

// StringList interprets a JSON-kind value as a list of strings. The second
// return is false when the value is not a list of strings, which callers
// treat the same as an absent value.
func (v SettingValue) StringList() ([]string, bool) {
	if v.Kind != KindJSON {
		return nil, false
	}
	switch list := v.JSON.(type) {
	case []string:
		return append([]string(nil), list...), true
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

// Raw returns the payload as a dynamically typed value, for persistence and
// export. The inverse of CoerceValue.
func (v SettingValue) Raw() any {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindInt:
		return v.Int
	case KindFloat:
		return v.Float
	case KindString:
		return v.Str
	case KindJSON:
		return v.JSON
	}
	return nil
}

// CoerceValue builds a SettingValue from a stored dynamic value and its kind
// tag. The switch is deliberately explicit per kind; a payload that cannot be
// represented under the tag is an ErrSettingInvalid.
func CoerceValue(kind SettingKind, raw any) (SettingValue, error) {
	switch kind {
	case KindBool:
		if b, ok := raw.(bool); ok {
			return BoolValue(b), nil
		}
	case KindInt:
		switch n := raw.(type) {
		case int:
			return IntValue(int64(n)), nil
		case int32:
			return IntValue(int64(n)), nil
		case int64:
			return IntValue(n), nil
		case float64:
			return IntValue(int64(n)), nil
		}
	case KindFloat:
		switch n := raw.(type) {
		case float64:
			return FloatValue(n), nil
		case float32:
			return FloatValue(float64(n)), nil
		case int:
			return FloatValue(float64(n)), nil
		case int32:
			return FloatValue(float64(n)), nil
		case int64:
			return FloatValue(float64(n)), nil
		}
	case KindString:
		if s, ok := raw.(string); ok {
			return StringValue(s), nil
		}
	case KindJSON:
		if raw != nil {
			return JSONValue(raw), nil
		}
	}
	return SettingValue{}, fmt.Errorf("%w: %v is not a %s", ErrSettingInvalid, raw, kind)
}

// SettingRules constrains the values a setting accepts. Zero fields mean
// "no constraint".
type SettingRules struct {
	Min      *float64 `json:"min,omitempty" bson:"min,omitempty"`
	Max      *float64 `json:"max,omitempty" bson:"max,omitempty"`
	Step     *float64 `json:"step,omitempty" bson:"step,omitempty"`
	Enum     []string `json:"enum,omitempty" bson:"enum,omitempty"`
	Pattern  string   `json:"pattern,omitempty" bson:"pattern,omitempty"`
	Required bool     `json:"required,omitempty" bson:"required,omitempty"`
}

// Setting is a persisted configuration entry. Settings are seeded externally,
// read and written through the settings service, and only ever reset to their
// default, never deleted.
type Setting struct {
	Key             string       `json:"key"`
	Value           SettingValue `json:"-"`
	Kind            SettingKind  `json:"kind"`
	Category        string       `json:"category"`
	DisplayName     string       `json:"display_name"`
	Description     string       `json:"description,omitempty"`
	Default         SettingValue `json:"-"`
	Rules           SettingRules `json:"rules,omitempty"`
	RestartRequired bool         `json:"restart_required"`
	UpdatedBy       string       `json:"updated_by,omitempty"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// SettingCategory summarises one category for the admin screen.
type SettingCategory struct {
	Category     string `json:"category" bson:"_id"`
	SettingCount int    `json:"setting_count" bson:"setting_count"`
}

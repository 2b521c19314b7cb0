// Package types provides the default value type capabilities for blueprint
// properties: string, integer, double, boolean, datetime, uuid and url.
//
// Every type treats an absent value as valid; refusing absent values is the
// job of a not-null property, not of its type.
package types

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/CaliLuke/go-graphschema/blueprint"
)

// String accepts Go strings, optionally bounded by length, pattern and an
// enumeration of allowed values.
type String struct {
	MaxLen  int
	Pattern *regexp.Regexp
	Values  []string
}

// Name returns "string".
func (String) Name() string { return "string" }

// FromDB formats any stored value as a string.
func (String) FromDB(v any) (any, error) {
	v = deref(v)
	if v == nil {
		return nil, nil
	}
	if s, ok := v.(string); ok {
		return s, nil
	}
	return fmt.Sprintf("%v", v), nil
}

// ToDB requires a string.
func (String) ToDB(v any) (any, error) {
	v = deref(v)
	if v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("expected string, got %T", v)
	}
	return s, nil
}

// Validate checks the Go type and every configured constraint.
func (t String) Validate(v any) (bool, []string) {
	v = deref(v)
	if v == nil {
		return true, nil
	}
	s, ok := v.(string)
	if !ok {
		return false, []string{"Value is not a string."}
	}
	var errs []string
	if t.MaxLen > 0 && utf8.RuneCountInString(s) > t.MaxLen {
		errs = append(errs, fmt.Sprintf("Value is longer than %d characters.", t.MaxLen))
	}
	if t.Pattern != nil && !t.Pattern.MatchString(s) {
		errs = append(errs, fmt.Sprintf("Value does not match %q.", t.Pattern.String()))
	}
	if len(t.Values) > 0 && !slices.Contains(t.Values, s) {
		errs = append(errs, fmt.Sprintf("Value must be one of %s.", strings.Join(t.Values, ", ")))
	}
	return len(errs) == 0, errs
}

// Integer accepts Go integers and integral floats within an optional range.
type Integer struct {
	Min *int64
	Max *int64
}

// Name returns "integer".
func (Integer) Name() string { return "integer" }

// FromDB coerces numeric values to int64.
func (Integer) FromDB(v any) (any, error) {
	v = deref(v)
	if v == nil {
		return nil, nil
	}
	return toInt64(v)
}

// ToDB coerces numeric values to int64.
func (t Integer) ToDB(v any) (any, error) {
	return t.FromDB(v)
}

// Validate checks that v is an integer within range.
func (t Integer) Validate(v any) (bool, []string) {
	v = deref(v)
	if v == nil {
		return true, nil
	}
	if _, isBool := v.(bool); isBool {
		return false, []string{"Value is not an integer."}
	}
	i, err := toInt64(v)
	if err != nil {
		return false, []string{"Value is not an integer."}
	}
	var errs []string
	if t.Min != nil && i < *t.Min {
		errs = append(errs, fmt.Sprintf("Value must be at least %d.", *t.Min))
	}
	if t.Max != nil && i > *t.Max {
		errs = append(errs, fmt.Sprintf("Value must be at most %d.", *t.Max))
	}
	return len(errs) == 0, errs
}

// Double accepts any Go number within an optional range.
type Double struct {
	Min *float64
	Max *float64
}

// Name returns "double".
func (Double) Name() string { return "double" }

// FromDB coerces numeric values to float64.
func (Double) FromDB(v any) (any, error) {
	v = deref(v)
	if v == nil {
		return nil, nil
	}
	return toFloat64(v)
}

// ToDB coerces numeric values to float64.
func (t Double) ToDB(v any) (any, error) {
	return t.FromDB(v)
}

// Validate checks that v is a number within range.
func (t Double) Validate(v any) (bool, []string) {
	v = deref(v)
	if v == nil {
		return true, nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return false, []string{"Value is not a number."}
	}
	if math.IsNaN(f) && (t.Min != nil || t.Max != nil) {
		return false, []string{"Value is not a number."}
	}
	var errs []string
	if t.Min != nil && f < *t.Min {
		errs = append(errs, fmt.Sprintf("Value must be at least %g.", *t.Min))
	}
	if t.Max != nil && f > *t.Max {
		errs = append(errs, fmt.Sprintf("Value must be at most %g.", *t.Max))
	}
	return len(errs) == 0, errs
}

// Boolean accepts Go bools.
type Boolean struct{}

// Name returns "boolean".
func (Boolean) Name() string { return "boolean" }

// FromDB requires a bool.
func (Boolean) FromDB(v any) (any, error) {
	v = deref(v)
	if v == nil {
		return nil, nil
	}
	b, ok := v.(bool)
	if !ok {
		return nil, fmt.Errorf("expected bool, got %T", v)
	}
	return b, nil
}

// ToDB requires a bool.
func (t Boolean) ToDB(v any) (any, error) {
	return t.FromDB(v)
}

// Validate checks that v is a bool.
func (Boolean) Validate(v any) (bool, []string) {
	v = deref(v)
	if v == nil {
		return true, nil
	}
	if _, ok := v.(bool); !ok {
		return false, []string{"Value is not a boolean."}
	}
	return true, nil
}

// DateTime accepts time.Time and, on decode, RFC 3339 style strings.
type DateTime struct{}

// Name returns "datetime".
func (DateTime) Name() string { return "datetime" }

// FromDB parses strings and passes time.Time through.
func (DateTime) FromDB(v any) (any, error) {
	v = deref(v)
	if v == nil {
		return nil, nil
	}
	return toTime(v)
}

// ToDB formats the time as RFC 3339 in UTC.
func (DateTime) ToDB(v any) (any, error) {
	v = deref(v)
	if v == nil {
		return nil, nil
	}
	t, err := toTime(v)
	if err != nil {
		return nil, err
	}
	return t.UTC().Format(time.RFC3339Nano), nil
}

// Validate checks that v is a time.Time or a parseable time string.
func (DateTime) Validate(v any) (bool, []string) {
	v = deref(v)
	if v == nil {
		return true, nil
	}
	if _, err := toTime(v); err != nil {
		return false, []string{"Value is not a datetime."}
	}
	return true, nil
}

// UUID accepts uuid.UUID values and UUID strings.
type UUID struct{}

// Name returns "uuid".
func (UUID) Name() string { return "uuid" }

// FromDB parses strings into uuid.UUID.
func (UUID) FromDB(v any) (any, error) {
	v = deref(v)
	switch id := v.(type) {
	case nil:
		return nil, nil
	case uuid.UUID:
		return id, nil
	case string:
		return uuid.Parse(id)
	}
	return nil, fmt.Errorf("cannot coerce %T to uuid", v)
}

// ToDB renders the UUID in canonical string form.
func (t UUID) ToDB(v any) (any, error) {
	id, err := t.FromDB(v)
	if err != nil || id == nil {
		return nil, err
	}
	return id.(uuid.UUID).String(), nil
}

// Validate checks that v is a UUID.
func (t UUID) Validate(v any) (bool, []string) {
	if _, err := t.FromDB(v); err != nil {
		return false, []string{"Value is not a valid UUID."}
	}
	return true, nil
}

// URL accepts absolute URLs as *url.URL or strings.
type URL struct{}

// Name returns "url".
func (URL) Name() string { return "url" }

// FromDB parses strings into *url.URL.
func (URL) FromDB(v any) (any, error) {
	v = deref(v)
	switch u := v.(type) {
	case nil:
		return nil, nil
	case url.URL:
		return &u, nil
	case string:
		parsed, err := url.Parse(u)
		if err != nil {
			return nil, err
		}
		if !parsed.IsAbs() {
			return nil, fmt.Errorf("url %q is not absolute", u)
		}
		return parsed, nil
	}
	return nil, fmt.Errorf("cannot coerce %T to url", v)
}

// ToDB renders the URL as a string.
func (t URL) ToDB(v any) (any, error) {
	u, err := t.FromDB(v)
	if err != nil || u == nil {
		return nil, err
	}
	return u.(*url.URL).String(), nil
}

// Validate checks that v is an absolute URL.
func (t URL) Validate(v any) (bool, []string) {
	if _, err := t.FromDB(v); err != nil {
		return false, []string{"Value is not a valid URL."}
	}
	return true, nil
}

var (
	_ blueprint.Type = String{}
	_ blueprint.Type = Integer{}
	_ blueprint.Type = Double{}
	_ blueprint.Type = Boolean{}
	_ blueprint.Type = DateTime{}
	_ blueprint.Type = UUID{}
	_ blueprint.Type = URL{}
)

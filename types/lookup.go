package types

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/CaliLuke/go-graphschema/blueprint"
)

// Constraints are the optional value restrictions a declaration may attach
// to a type. Not every type supports every constraint.
type Constraints struct {
	// Regex restricts strings to a pattern.
	Regex string
	// Values restricts strings to an enumeration.
	Values []string
	// Range bounds integers and doubles, written "min..max", "min.." or "..max".
	Range string
	// MaxLen bounds string length in characters.
	MaxLen int
}

// IsZero reports whether no constraint is set.
func (c Constraints) IsZero() bool {
	return c.Regex == "" && len(c.Values) == 0 && c.Range == "" && c.MaxLen == 0
}

type factory func(Constraints) (blueprint.Type, error)

var registry = map[string]factory{
	"string":   newString,
	"integer":  newInteger,
	"double":   newDouble,
	"boolean":  plain(Boolean{}),
	"datetime": plain(DateTime{}),
	"uuid":     plain(UUID{}),
	"url":      plain(URL{}),
}

// aliases maps alternative value type spellings to canonical names.
var aliases = map[string]string{
	"long":  "integer",
	"int":   "integer",
	"float": "double",
	"bool":  "boolean",
	"time":  "datetime",
}

// UnknownTypeError is returned by Lookup for unregistered value type names.
type UnknownTypeError struct {
	Name string
}

// Error returns the error message for UnknownTypeError.
func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("types: unknown value type %q", e.Name)
}

// EmptyRangeError is returned when a range minimum exceeds its maximum, so no
// value could satisfy it.
type EmptyRangeError struct {
	Range string
}

// Error returns the error message for EmptyRangeError.
func (e *EmptyRangeError) Error() string {
	return fmt.Sprintf("types: range %q is empty, min exceeds max", e.Range)
}

// Canonical returns the canonical spelling of a value type name.
func Canonical(name string) string {
	name = strings.ToLower(name)
	if c, ok := aliases[name]; ok {
		return c
	}
	return name
}

// Lookup returns an unconstrained capability for a value type name.
func Lookup(name string) (blueprint.Type, error) {
	return New(name, Constraints{})
}

// New returns a capability for a value type name with constraints applied.
func New(name string, c Constraints) (blueprint.Type, error) {
	f, ok := registry[Canonical(name)]
	if !ok {
		return nil, &UnknownTypeError{Name: name}
	}
	return f(c)
}

// Names lists the canonical value type names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ConstraintsOf reports the constraints carried by one of this package's
// types, for rendering a declaration back to text.
func ConstraintsOf(t blueprint.Type) Constraints {
	switch v := t.(type) {
	case String:
		c := Constraints{MaxLen: v.MaxLen, Values: v.Values}
		if v.Pattern != nil {
			c.Regex = v.Pattern.String()
		}
		return c
	case Integer:
		return Constraints{Range: formatRange(intString(v.Min), intString(v.Max))}
	case Double:
		return Constraints{Range: formatRange(floatString(v.Min), floatString(v.Max))}
	}
	return Constraints{}
}

func plain(t blueprint.Type) factory {
	return func(c Constraints) (blueprint.Type, error) {
		if !c.IsZero() {
			return nil, fmt.Errorf("types: %s accepts no constraints", t.Name())
		}
		return t, nil
	}
}

func newString(c Constraints) (blueprint.Type, error) {
	if c.Range != "" {
		return nil, fmt.Errorf("types: string accepts no range")
	}
	t := String{MaxLen: c.MaxLen, Values: c.Values}
	if c.Regex != "" {
		re, err := regexp.Compile(c.Regex)
		if err != nil {
			return nil, fmt.Errorf("types: invalid regex %q: %w", c.Regex, err)
		}
		t.Pattern = re
	}
	return t, nil
}

func newInteger(c Constraints) (blueprint.Type, error) {
	if c.Regex != "" || len(c.Values) > 0 || c.MaxLen != 0 {
		return nil, fmt.Errorf("types: integer accepts only a range")
	}
	t := Integer{}
	if c.Range == "" {
		return t, nil
	}
	lo, hi, err := splitRange(c.Range)
	if err != nil {
		return nil, err
	}
	if lo != "" {
		v, err := strconv.ParseInt(lo, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("types: invalid range min %q: %w", lo, err)
		}
		t.Min = &v
	}
	if hi != "" {
		v, err := strconv.ParseInt(hi, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("types: invalid range max %q: %w", hi, err)
		}
		t.Max = &v
	}
	if t.Min != nil && t.Max != nil && *t.Min > *t.Max {
		return nil, &EmptyRangeError{Range: c.Range}
	}
	return t, nil
}

func newDouble(c Constraints) (blueprint.Type, error) {
	if c.Regex != "" || len(c.Values) > 0 || c.MaxLen != 0 {
		return nil, fmt.Errorf("types: double accepts only a range")
	}
	t := Double{}
	if c.Range == "" {
		return t, nil
	}
	lo, hi, err := splitRange(c.Range)
	if err != nil {
		return nil, err
	}
	if lo != "" {
		v, err := strconv.ParseFloat(lo, 64)
		if err != nil || math.IsNaN(v) {
			return nil, fmt.Errorf("types: invalid range min %q", lo)
		}
		t.Min = &v
	}
	if hi != "" {
		v, err := strconv.ParseFloat(hi, 64)
		if err != nil || math.IsNaN(v) {
			return nil, fmt.Errorf("types: invalid range max %q", hi)
		}
		t.Max = &v
	}
	if t.Min != nil && t.Max != nil && *t.Min > *t.Max {
		return nil, &EmptyRangeError{Range: c.Range}
	}
	return t, nil
}

// splitRange splits "M..N", "M.." or "..N".
func splitRange(s string) (lo, hi string, err error) {
	parts := strings.Split(s, "..")
	if len(parts) != 2 || (parts[0] == "" && parts[1] == "") {
		return "", "", fmt.Errorf("types: expected range M..N, M.. or ..N, got %q", s)
	}
	return parts[0], parts[1], nil
}

func formatRange(lo, hi string) string {
	if lo == "" && hi == "" {
		return ""
	}
	return lo + ".." + hi
}

func intString(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func floatString(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}

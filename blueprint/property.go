package blueprint

import (
	"fmt"
	"reflect"
)

// NotNullableMessage is the error reported for an absent value on a
// property declared with NotNull.
const NotNullableMessage = "Property is not nullable."

// Type is the pluggable capability that converts and validates the values of
// one property domain. The blueprint package never inspects its internals.
type Type interface {
	// Name is the value type label used for display (e.g. "string").
	Name() string
	// FromDB converts a stored value into its application form.
	FromDB(v any) (any, error)
	// ToDB converts an application value into its stored form.
	ToDB(v any) (any, error)
	// Validate reports whether v belongs to the domain, and why not.
	Validate(v any) (bool, []string)
}

// Property describes one named, typed attribute of a Node or Relationship.
type Property struct {
	// Name is the field identifier on application objects.
	Name string
	// DBName is the storage name; it defaults to Name.
	DBName string
	// Type is the conversion and validation capability for the value domain.
	Type Type
	// Nullable allows absent values. Defaults to true.
	Nullable bool
	// Indexed marks the property for indexing. Defaults to false.
	Indexed bool

	owner    string
	position int
	attached bool
}

// PropertyOption configures a Property at construction.
type PropertyOption func(*Property)

// Nullable sets whether the property accepts absent values.
func Nullable(nullable bool) PropertyOption {
	return func(p *Property) { p.Nullable = nullable }
}

// NotNull is shorthand for Nullable(false).
func NotNull() PropertyOption {
	return Nullable(false)
}

// Indexed marks the property as indexed.
func Indexed() PropertyOption {
	return func(p *Property) { p.Indexed = true }
}

// DBName overrides the storage name of the property.
func DBName(name string) PropertyOption {
	return func(p *Property) { p.DBName = name }
}

// NewProperty creates an unattached property. It becomes owned by the first
// model it is passed to.
func NewProperty(name string, typ Type, opts ...PropertyOption) *Property {
	p := &Property{
		Name:     name,
		DBName:   name,
		Type:     typ,
		Nullable: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FromDB delegates to the type capability. Errors propagate unchanged.
func (p *Property) FromDB(v any) (any, error) {
	return p.Type.FromDB(v)
}

// ToDB delegates to the type capability. Errors propagate unchanged.
func (p *Property) ToDB(v any) (any, error) {
	return p.Type.ToDB(v)
}

// Validate checks v against the property. Nullability is checked first so
// that the type capability only ever sees absent values on nullable
// properties.
func (p *Property) Validate(v any) (bool, []string) {
	if !p.Nullable && IsAbsent(v) {
		return false, []string{NotNullableMessage}
	}
	return p.Type.Validate(v)
}

// Owner returns the name of the model this property is attached to.
func (p *Property) Owner() (string, bool) {
	return p.owner, p.attached
}

// Position returns the index of the property in its owner's property list,
// or -1 when unattached.
func (p *Property) Position() int {
	if !p.attached {
		return -1
	}
	return p.position
}

func (p *Property) attach(owner string, position int) error {
	if p.attached {
		return &PropertyOwnedError{Property: p.Name, Owner: p.owner}
	}
	p.owner = owner
	p.position = position
	p.attached = true
	return nil
}

// String renders the property as <Owner.name(type)>.
func (p *Property) String() string {
	typeName := "<nil>"
	if p.Type != nil {
		typeName = p.Type.Name()
	}
	return fmt.Sprintf("<%s.%s(%s)>", p.owner, p.Name, typeName)
}

// IsAbsent reports whether v represents a missing value: untyped nil, or a
// nil pointer, map, slice, interface, channel or func.
func IsAbsent(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Chan, reflect.Func:
		return rv.IsNil()
	}
	return false
}

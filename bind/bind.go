// Package bind derives blueprint declarations from Go structs and exposes
// struct values as blueprint objects.
//
// Properties come from exported fields carrying a `graph` tag:
//
//	type Person struct {
//	    Name  *string `graph:"name,notnull,indexed"`
//	    Email string  `graph:"email,maxlen=254"`
//	    Age   int     `graph:"age,range=0..150"`
//	}
//
// Field accessors are resolved once, when a type is registered, so that
// validation never performs an unchecked lookup.
package bind

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/CaliLuke/go-graphschema/blueprint"
	"github.com/CaliLuke/go-graphschema/types"
)

// FieldInfo maps one struct field to a declared property.
type FieldInfo struct {
	// Tag is the parsed `graph` tag.
	Tag FieldTag
	// FieldName is the Go field name.
	FieldName string
	// FieldIndex is the index of the field in the struct.
	FieldIndex int
	// Property is the declared property name.
	Property string
	// ValueType is the value type name handed to the types package.
	ValueType string
}

// ExtractFields scans a struct type for tagged properties.
func ExtractFields(t reflect.Type) ([]FieldInfo, error) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("bind: expected struct, got %s", t.Kind())
	}

	var fields []FieldInfo
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() || field.Anonymous {
			continue
		}
		tagStr, ok := field.Tag.Lookup(TagKey)
		if !ok {
			continue
		}
		tag, err := ParseTag(tagStr)
		if err != nil {
			return nil, fmt.Errorf("bind: field %s: %w", field.Name, err)
		}
		if tag.Skip {
			continue
		}

		fi := FieldInfo{
			Tag:        tag,
			FieldName:  field.Name,
			FieldIndex: i,
			Property:   tag.Name,
			ValueType:  tag.Type,
		}
		if fi.Property == "" {
			fi.Property = toSnakeCase(field.Name)
		}
		if fi.ValueType == "" {
			fi.ValueType, err = valueTypeOf(field.Type)
			if err != nil {
				return nil, fmt.Errorf("bind: field %s: %w", field.Name, err)
			}
		}
		fields = append(fields, fi)
	}
	return fields, nil
}

// Properties builds unattached blueprint properties for the tagged fields
// of t, in field order.
func Properties(t reflect.Type) ([]*blueprint.Property, error) {
	fields, err := ExtractFields(t)
	if err != nil {
		return nil, err
	}
	props := make([]*blueprint.Property, 0, len(fields))
	for _, fi := range fields {
		typ, err := types.New(fi.ValueType, types.Constraints{
			Values: fi.Tag.Values,
			Range:  fi.Tag.Range,
			MaxLen: fi.Tag.MaxLen,
			Regex:  fi.Tag.Regex,
		})
		if err != nil {
			return nil, fmt.Errorf("bind: field %s: %w", fi.FieldName, err)
		}
		opts := []blueprint.PropertyOption{blueprint.Nullable(!fi.Tag.NotNull)}
		if fi.Tag.Indexed {
			opts = append(opts, blueprint.Indexed())
		}
		if fi.Tag.DBName != "" {
			opts = append(opts, blueprint.DBName(fi.Tag.DBName))
		}
		props = append(props, blueprint.NewProperty(fi.Property, typ, opts...))
	}
	return props, nil
}

// DeclareNode builds a node from the tagged fields of T. An empty
// elementType defaults to the Go type name.
func DeclareNode[T any](md *blueprint.MetaData, elementType string) (*blueprint.Node, error) {
	t := structType[T]()
	props, err := Properties(t)
	if err != nil {
		return nil, err
	}
	if elementType == "" {
		elementType = t.Name()
	}
	return blueprint.NewNode(elementType, md, props...)
}

// DeclareRelationship builds a relationship from the tagged fields of T. An
// empty label defaults to the snake_case Go type name.
func DeclareRelationship[T any](md *blueprint.MetaData, label string) (*blueprint.Relationship, error) {
	t := structType[T]()
	props, err := Properties(t)
	if err != nil {
		return nil, err
	}
	if label == "" {
		label = toSnakeCase(t.Name())
	}
	return blueprint.NewRelationship(label, md, props...)
}

// binding records how one Go type maps to a class.
type binding struct {
	class  blueprint.ClassID
	fields map[string]int
}

// Binder keeps the class bindings of Go struct types for one MetaData.
type Binder struct {
	md *blueprint.MetaData

	mu     sync.RWMutex
	byType map[reflect.Type]*binding
}

// NewBinder returns a Binder registering into md.
func NewBinder(md *blueprint.MetaData) *Binder {
	return &Binder{md: md, byType: make(map[reflect.Type]*binding)}
}

// MetaData returns the registry the binder writes to.
func (b *Binder) MetaData() *blueprint.MetaData { return b.md }

// Register binds class to model in the MetaData and resolves a struct field
// of T for every property of model. An empty class defaults to the Go type
// name.
func Register[T any](b *Binder, class blueprint.ClassID, model blueprint.Model) error {
	t := structType[T]()
	if class == "" {
		class = blueprint.ClassID(t.Name())
	}

	fields, err := ExtractFields(t)
	if err != nil {
		return err
	}
	byProp := make(map[string]int, len(fields))
	for _, fi := range fields {
		byProp[fi.Property] = fi.FieldIndex
	}
	resolved := make(map[string]int, len(model.Properties()))
	for _, p := range model.Properties() {
		idx, ok := byProp[p.Name]
		if !ok {
			return &FieldResolutionError{GoType: t.Name(), Property: p.Name}
		}
		resolved[p.Name] = idx
	}

	if err := model.RegisterClass(class); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.byType[t] = &binding{class: class, fields: resolved}
	return nil
}

// RegisterNode declares a node from T and registers it under class.
func RegisterNode[T any](b *Binder, class blueprint.ClassID) (*blueprint.Node, error) {
	n, err := DeclareNode[T](b.md, string(class))
	if err != nil {
		return nil, err
	}
	if err := Register[T](b, class, n); err != nil {
		return nil, err
	}
	return n, nil
}

// RegisterRelationship declares a relationship from T and registers it under
// class.
func RegisterRelationship[T any](b *Binder, class blueprint.ClassID) (*blueprint.Relationship, error) {
	r, err := DeclareRelationship[T](b.md, "")
	if err != nil {
		return nil, err
	}
	if err := Register[T](b, class, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Wrap exposes v as a blueprint.Object using the accessors resolved when T
// was registered.
func Wrap[T any](b *Binder, v *T) (blueprint.Object, error) {
	if v == nil {
		return nil, fmt.Errorf("bind: cannot wrap nil %s", structType[T]().Name())
	}
	t := structType[T]()

	b.mu.RLock()
	bd, ok := b.byType[t]
	b.mu.RUnlock()
	if !ok {
		return nil, &NotRegisteredError{GoType: t.Name()}
	}
	return &structObject{binding: bd, value: reflect.ValueOf(v).Elem()}, nil
}

// structObject reads property values straight from struct fields.
type structObject struct {
	*binding
	value reflect.Value
}

func (o *structObject) SchemaClass() blueprint.ClassID { return o.class }

func (o *structObject) Field(name string) (any, bool) {
	idx, ok := o.fields[name]
	if !ok {
		return nil, false
	}
	f := o.value.Field(idx)
	if f.Kind() == reflect.Ptr {
		if f.IsNil() {
			return nil, true
		}
		return f.Elem().Interface(), true
	}
	return f.Interface(), true
}

func structType[T any]() reflect.Type {
	t := reflect.TypeFor[T]()
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

var (
	timeType = reflect.TypeFor[time.Time]()
	uuidType = reflect.TypeFor[uuid.UUID]()
	urlType  = reflect.TypeFor[url.URL]()
)

// valueTypeOf maps Go types to value type names.
func valueTypeOf(t reflect.Type) (string, error) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t {
	case timeType:
		return "datetime", nil
	case uuidType:
		return "uuid", nil
	case urlType:
		return "url", nil
	}
	switch t.Kind() {
	case reflect.String:
		return "string", nil
	case reflect.Bool:
		return "boolean", nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer", nil
	case reflect.Float32, reflect.Float64:
		return "double", nil
	}
	return "", fmt.Errorf("no value type for %s; set type= in the tag", t)
}

// toSnakeCase converts a Go identifier to snake_case.
// e.g. "FullName" → "full_name", "HTTPServer" → "httpserver"
func toSnakeCase(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && !unicode.IsUpper(runes[i-1]) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

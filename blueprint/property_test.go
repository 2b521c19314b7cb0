package blueprint

import (
	"errors"
	"reflect"
	"testing"
)

func TestNewProperty_Defaults(t *testing.T) {
	p := NewProperty("name", stringType{})

	if p.Name != "name" {
		t.Errorf("Name: got %q, want %q", p.Name, "name")
	}
	if p.DBName != "name" {
		t.Errorf("DBName: got %q, want %q", p.DBName, "name")
	}
	if !p.Nullable {
		t.Error("expected nullable by default")
	}
	if p.Indexed {
		t.Error("expected not indexed by default")
	}
	if p.Position() != -1 {
		t.Errorf("Position: got %d, want -1", p.Position())
	}
	if _, attached := p.Owner(); attached {
		t.Error("expected unattached property")
	}
}

func TestNewProperty_Options(t *testing.T) {
	p := NewProperty("name", stringType{}, NotNull(), Indexed(), DBName("full_name"))

	if p.Nullable {
		t.Error("expected NotNull to clear Nullable")
	}
	if !p.Indexed {
		t.Error("expected Indexed")
	}
	if p.DBName != "full_name" {
		t.Errorf("DBName: got %q, want %q", p.DBName, "full_name")
	}
}

func TestPropertyValidate_NotNullable(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{name: "untyped nil", value: nil},
		{name: "nil pointer", value: (*string)(nil)},
		{name: "nil map", value: map[string]any(nil)},
		{name: "nil slice", value: []int(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ := &stubType{name: "stub", ok: false, errs: []string{"from type"}}
			p := NewProperty("name", typ, NotNull())

			ok, errs := p.Validate(tt.value)
			if ok {
				t.Error("expected invalid")
			}
			if !reflect.DeepEqual(errs, []string{NotNullableMessage}) {
				t.Errorf("errs: got %v, want [%s]", errs, NotNullableMessage)
			}
			if typ.calls != 0 {
				t.Errorf("type capability consulted %d times, want 0", typ.calls)
			}
		})
	}
}

func TestPropertyValidate_NullableDelegates(t *testing.T) {
	typ := &stubType{name: "stub", ok: false, errs: []string{"type says no"}}
	p := NewProperty("name", typ)

	ok, errs := p.Validate(nil)
	if ok {
		t.Error("expected the type's verdict")
	}
	if !reflect.DeepEqual(errs, []string{"type says no"}) {
		t.Errorf("errs: got %v", errs)
	}
	if typ.calls != 1 {
		t.Errorf("calls: got %d, want 1", typ.calls)
	}

	typ.ok, typ.errs = true, nil
	ok, errs = p.Validate(nil)
	if !ok || len(errs) != 0 {
		t.Errorf("got (%v, %v), want (true, [])", ok, errs)
	}
}

func TestPropertyValidate_NotNullablePresentValueDelegates(t *testing.T) {
	p := NewProperty("name", stringType{}, NotNull())

	ok, errs := p.Validate(42)
	if ok {
		t.Error("expected invalid")
	}
	if !reflect.DeepEqual(errs, []string{"Value is not a string."}) {
		t.Errorf("errs: got %v", errs)
	}

	// The zero value is present, not absent.
	if ok, _ := p.Validate(""); !ok {
		t.Error("expected empty string to be valid")
	}
}

func TestPropertyConversions_Propagate(t *testing.T) {
	p := NewProperty("name", &stubType{name: "stub", decErr: errDecode})

	if _, err := p.FromDB("x"); !errors.Is(err, errDecode) {
		t.Errorf("FromDB: got %v, want %v", err, errDecode)
	}
	if _, err := p.ToDB("x"); !errors.Is(err, errDecode) {
		t.Errorf("ToDB: got %v, want %v", err, errDecode)
	}

	p = NewProperty("name", stringType{})
	v, err := p.ToDB("x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "x" {
		t.Errorf("ToDB: got %v, want x", v)
	}
}

func TestProperty_String(t *testing.T) {
	p := NewProperty("name", stringType{})
	MustNode("Person", NewMetaData(), p)

	if got := p.String(); got != "<Person.name(string)>" {
		t.Errorf("String: got %q", got)
	}
}

func TestIsAbsent(t *testing.T) {
	var iface any
	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{"nil interface", iface, true},
		{"nil pointer", (*int)(nil), true},
		{"zero int", 0, false},
		{"empty string", "", false},
		{"empty slice", []int{}, false},
	}
	for _, tt := range tests {
		if got := IsAbsent(tt.value); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

package blueprint

import (
	"bytes"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"testing"
)

func personSchema(t *testing.T) *MetaData {
	t.Helper()
	md := NewMetaData()
	n := MustNode("Person", md, NewProperty("name", stringType{}, Nullable(false)))
	if err := n.RegisterClass("Person"); err != nil {
		t.Fatalf("RegisterClass: %v", err)
	}
	return md
}

func TestValidatorRun_Valid(t *testing.T) {
	v := NewValidator(personSchema(t))

	ok, errs, err := v.Run(&person{Name: strPtr("Ada")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected valid")
	}
	if errs == nil || len(errs) != 0 {
		t.Errorf("expected an empty, non-nil error map, got %#v", errs)
	}
}

func TestValidatorRun_NotNullable(t *testing.T) {
	v := NewValidator(personSchema(t))

	ok, errs, err := v.Run(&person{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected invalid")
	}
	want := map[string][]string{"name": {NotNullableMessage}}
	if !reflect.DeepEqual(errs, want) {
		t.Errorf("errs: got %v, want %v", errs, want)
	}
}

func TestValidatorRun_CollectsEveryFailure(t *testing.T) {
	md := NewMetaData()
	bad := func() *stubType { return &stubType{name: "stub", errs: []string{"bad"}} }
	n := MustNode("Thing", md,
		NewProperty("a", validType()),
		NewProperty("b", bad()),
		NewProperty("c", validType()),
		NewProperty("d", validType()),
		NewProperty("e", bad()),
	)
	if err := n.RegisterClass("Thing"); err != nil {
		t.Fatalf("RegisterClass: %v", err)
	}

	rec := NewRecord("Thing", map[string]any{"a": 1, "b": 2, "c": 3, "d": 4, "e": 5})
	ok, errs, err := NewValidator(md).Run(rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected invalid")
	}
	want := map[string][]string{"b": {"bad"}, "e": {"bad"}}
	if !reflect.DeepEqual(errs, want) {
		t.Errorf("errs: got %v, want %v", errs, want)
	}
}

func TestValidatorRun_NoProperties(t *testing.T) {
	md := NewMetaData()
	r := MustRelationship("knows", md)
	if err := r.RegisterClass("Knows"); err != nil {
		t.Fatalf("RegisterClass: %v", err)
	}

	ok, errs, err := NewValidator(md).Run(NewRecord("Knows", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || len(errs) != 0 {
		t.Errorf("got (%v, %v), want (true, empty)", ok, errs)
	}
}

func TestValidatorRun_UnmappedClass(t *testing.T) {
	ok, errs, err := NewValidator(NewMetaData()).Run(&person{})
	if ok || errs != nil {
		t.Errorf("got (%v, %v), want (false, nil)", ok, errs)
	}
	if !errors.Is(err, ErrUnmappedClass) {
		t.Errorf("got %v, want ErrUnmappedClass", err)
	}
}

type partial struct{}

func (partial) SchemaClass() ClassID { return "Person" }
func (partial) Field(string) (any, bool) { return nil, false }

func TestValidatorRun_MissingField(t *testing.T) {
	_, _, err := NewValidator(personSchema(t)).Run(partial{})

	var missing *MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingFieldError, got %v", err)
	}
	if missing.Field != "name" {
		t.Errorf("Field: got %q, want name", missing.Field)
	}
}

func TestValidatorRun_Logs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	v := NewValidator(personSchema(t), WithLogger(logger))

	if _, _, err := v.Run(&person{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "level=DEBUG") {
		t.Errorf("expected debug level, got %q", out)
	}
	if !strings.Contains(out, "<Person.name(string)> is invalid : Property is not nullable.") {
		t.Errorf("missing invalid line in %q", out)
	}

	buf.Reset()
	if _, _, err := v.Run(&person{Name: strPtr("Ada")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "is valid") {
		t.Errorf("missing valid line in %q", buf.String())
	}
}

func TestValidatorRun_LoggerBelowDebugIsSilent(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if _, _, err := NewValidator(personSchema(t), WithLogger(logger)).Run(&person{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestValidatorCheck(t *testing.T) {
	v := NewValidator(personSchema(t))

	if err := v.Check(&person{Name: strPtr("Ada")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := v.Check(&person{})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Class != "Person" {
		t.Errorf("Class: got %q, want Person", verr.Class)
	}
	want := "blueprint: Person is invalid: name: Property is not nullable."
	if verr.Error() != want {
		t.Errorf("Error: got %q, want %q", verr.Error(), want)
	}

	if err := NewValidator(NewMetaData()).Check(&person{}); !errors.Is(err, ErrUnmappedClass) {
		t.Errorf("got %v, want ErrUnmappedClass", err)
	}
}

func TestValidatorRun_DoesNotMutate(t *testing.T) {
	md := personSchema(t)
	rec := NewRecord("Person", map[string]any{"name": "Ada"})

	if _, _, err := NewValidator(md).Run(rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(rec.Values, map[string]any{"name": "Ada"}) {
		t.Errorf("record changed: %v", rec.Values)
	}

	m, err := md.ForClass("Person")
	if err != nil {
		t.Fatalf("ForClass: %v", err)
	}
	if len(m.Properties()) != 1 {
		t.Errorf("expected 1 property, got %d", len(m.Properties()))
	}
}

package types

import (
	"math"
	"net/url"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAbsentValuesAreValid(t *testing.T) {
	for _, name := range Names() {
		typ, err := Lookup(name)
		require.NoError(t, err)

		ok, errs := typ.Validate(nil)
		assert.True(t, ok, name)
		assert.Empty(t, errs, name)

		ok, _ = typ.Validate((*string)(nil))
		assert.True(t, ok, name)
	}
}

func TestStringValidate(t *testing.T) {
	typ := String{
		MaxLen:  5,
		Pattern: regexp.MustCompile(`^[a-z]+$`),
		Values:  []string{"alpha", "beta"},
	}

	tests := []struct {
		name  string
		value any
		ok    bool
		errs  int
	}{
		{name: "allowed", value: "alpha", ok: true},
		{name: "pointer", value: ptr("beta"), ok: true},
		{name: "not a string", value: 3, errs: 1},
		{name: "every constraint fails", value: "GAMMA!", errs: 3},
		{name: "not in values", value: "delta", errs: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, errs := typ.Validate(tt.value)
			assert.Equal(t, tt.ok, ok)
			assert.Len(t, errs, tt.errs)
		})
	}
}

func TestStringConversions(t *testing.T) {
	v, err := String{}.FromDB(42)
	require.NoError(t, err)
	assert.Equal(t, "42", v)

	_, err = String{}.ToDB(42)
	assert.Error(t, err)
}

func TestIntegerValidate(t *testing.T) {
	typ, err := New("integer", Constraints{Range: "1..5"})
	require.NoError(t, err)

	tests := []struct {
		value any
		ok    bool
	}{
		{value: 3, ok: true},
		{value: int64(5), ok: true},
		{value: 3.0, ok: true},
		{value: uint8(1), ok: true},
		{value: 0},
		{value: 6},
		{value: 2.5},
		{value: "3"},
		{value: true},
	}
	for _, tt := range tests {
		ok, _ := typ.Validate(tt.value)
		assert.Equal(t, tt.ok, ok, "%#v", tt.value)
	}
}

func TestIntegerConversions(t *testing.T) {
	v, err := Integer{}.FromDB(float64(7))
	require.NoError(t, err)
	assert.Equal(t, int64(7), v)

	_, err = Integer{}.ToDB("seven")
	assert.Error(t, err)
}

func TestIntegerOverflow(t *testing.T) {
	_, err := Integer{}.FromDB(float64(1 << 63))
	assert.Error(t, err)
	_, err = Integer{}.FromDB(-float64(1 << 63))
	assert.NoError(t, err)

	typ, err := New("integer", Constraints{Range: "..100"})
	require.NoError(t, err)
	ok, errs := typ.Validate(float64(1 << 63))
	assert.False(t, ok)
	assert.Equal(t, []string{"Value is not an integer."}, errs)
}

type status string

type age int

type ratio float32

type flag bool

func TestNamedBasicTypes(t *testing.T) {
	str, err := New("string", Constraints{Values: []string{"active", "banned"}})
	require.NoError(t, err)
	ok, _ := str.Validate(status("active"))
	assert.True(t, ok)
	ok, _ = str.Validate(status("gone"))
	assert.False(t, ok)
	s := status("banned")
	ok, _ = str.Validate(&s)
	assert.True(t, ok)
	v, err := str.ToDB(s)
	require.NoError(t, err)
	assert.Equal(t, "banned", v)

	num, err := New("integer", Constraints{Range: "0..150"})
	require.NoError(t, err)
	ok, _ = num.Validate(age(30))
	assert.True(t, ok)
	ok, _ = num.Validate(age(200))
	assert.False(t, ok)

	ok, _ = Double{}.Validate(ratio(0.5))
	assert.True(t, ok)
	ok, _ = Boolean{}.Validate(flag(true))
	assert.True(t, ok)
}

func TestDoubleValidate(t *testing.T) {
	typ, err := New("float", Constraints{Range: "..1.5"})
	require.NoError(t, err)
	assert.Equal(t, "double", typ.Name())

	ok, _ := typ.Validate(1)
	assert.True(t, ok)
	ok, errs := typ.Validate(2.0)
	assert.False(t, ok)
	assert.Equal(t, []string{"Value must be at most 1.5."}, errs)
	ok, _ = typ.Validate("x")
	assert.False(t, ok)
}

func TestDoubleValidate_NaN(t *testing.T) {
	typ, err := New("double", Constraints{Range: "0..1"})
	require.NoError(t, err)
	ok, errs := typ.Validate(math.NaN())
	assert.False(t, ok)
	assert.Equal(t, []string{"Value is not a number."}, errs)

	ok, _ = Double{}.Validate(math.NaN())
	assert.True(t, ok, "unbounded doubles accept NaN")
}

func TestBooleanValidate(t *testing.T) {
	ok, _ := Boolean{}.Validate(true)
	assert.True(t, ok)
	ok, errs := Boolean{}.Validate("true")
	assert.False(t, ok)
	assert.Equal(t, []string{"Value is not a boolean."}, errs)
}

func TestDateTime(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	ok, _ := DateTime{}.Validate(ts)
	assert.True(t, ok)
	ok, _ = DateTime{}.Validate("2024-03-01")
	assert.True(t, ok)
	ok, _ = DateTime{}.Validate("yesterday")
	assert.False(t, ok)

	v, err := DateTime{}.FromDB("2024-03-01T12:00:00Z")
	require.NoError(t, err)
	assert.True(t, ts.Equal(v.(time.Time)))

	s, err := DateTime{}.ToDB(ts)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01T12:00:00Z", s)
}

func TestUUID(t *testing.T) {
	id := uuid.New()

	ok, _ := UUID{}.Validate(id)
	assert.True(t, ok)
	ok, _ = UUID{}.Validate(id.String())
	assert.True(t, ok)
	ok, errs := UUID{}.Validate("not-a-uuid")
	assert.False(t, ok)
	assert.Equal(t, []string{"Value is not a valid UUID."}, errs)

	s, err := UUID{}.ToDB(id)
	require.NoError(t, err)
	assert.Equal(t, id.String(), s)
}

func TestURL(t *testing.T) {
	ok, _ := URL{}.Validate("https://example.com/a")
	assert.True(t, ok)
	ok, _ = URL{}.Validate("relative/path")
	assert.False(t, ok)

	v, err := URL{}.FromDB("https://example.com/a")
	require.NoError(t, err)
	assert.Equal(t, "example.com", v.(*url.URL).Host)
}

func TestNew_Errors(t *testing.T) {
	_, err := Lookup("decimal")
	var unknown *UnknownTypeError
	require.ErrorAs(t, err, &unknown)

	_, err = New("boolean", Constraints{MaxLen: 3})
	assert.Error(t, err)
	_, err = New("string", Constraints{Regex: "("})
	assert.Error(t, err)
	_, err = New("integer", Constraints{Range: "a..b"})
	assert.Error(t, err)
	_, err = New("integer", Constraints{Range: ".."})
	assert.Error(t, err)
	_, err = New("string", Constraints{Range: "1..2"})
	assert.Error(t, err)

	var empty *EmptyRangeError
	_, err = New("integer", Constraints{Range: "10..1"})
	assert.ErrorAs(t, err, &empty)
	_, err = New("double", Constraints{Range: "1.5..0.5"})
	assert.ErrorAs(t, err, &empty)
	_, err = New("double", Constraints{Range: "NaN..1"})
	assert.Error(t, err)
	_, err = New("integer", Constraints{Range: "5..5"})
	assert.NoError(t, err)
}

func TestConstraintsOf_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		c    Constraints
	}{
		{name: "string", c: Constraints{Regex: "^a", Values: []string{"a", "ab"}, MaxLen: 4}},
		{name: "integer", c: Constraints{Range: "1..5"}},
		{name: "integer", c: Constraints{Range: "..5"}},
		{name: "double", c: Constraints{Range: "0.5.."}},
		{name: "uuid", c: Constraints{}},
	}
	for _, tt := range tests {
		typ, err := New(tt.name, tt.c)
		require.NoError(t, err)
		assert.Equal(t, tt.c, ConstraintsOf(typ))
	}
}

func TestCanonical(t *testing.T) {
	assert.Equal(t, "integer", Canonical("long"))
	assert.Equal(t, "boolean", Canonical("BOOL"))
	assert.Equal(t, "string", Canonical("string"))
	assert.Equal(t, []string{"boolean", "datetime", "double", "integer", "string", "url", "uuid"}, Names())
}

func ptr[T any](v T) *T { return &v }

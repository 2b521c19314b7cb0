package schemadsl

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	s := mustLoad(t, `define
relationship knows, owns since datetime;
node person class Person,
    owns name string @notnull @indexed,
    owns email string @db("mail") @regex("^[^@]+@[^@]+$");
adjacency person knows @direction(out) @nullable(false);`)

	want := `define

node person class Person,
    owns name string @notnull @indexed,
    owns email string @db("mail") @regex("^[^@]+@[^@]+$");

relationship knows class Knows,
    owns since datetime;

adjacency person knows @direction(out) @nullable(false);
`
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, s))
	assert.Equal(t, want, buf.String())
}

func TestRender_RoundTrip(t *testing.T) {
	first := RenderString(mustLoad(t, socialSchema))
	second := RenderString(mustLoad(t, first))
	assert.Equal(t, first, second)

	assert.Contains(t, first, `owns age integer @range(0..150)`)
	assert.Contains(t, first, `owns status string @values("active", "banned") @maxlen(8)`)
	assert.Contains(t, first, `relationship works-at class WorksAt;`)
	assert.Contains(t, first, `adjacency person works-at @direction(both) @multi(false);`)
}

func TestRender_RoundTripEscapes(t *testing.T) {
	first := RenderString(mustLoad(t, `define node doc, owns title string @regex("^\"\\w+\"$");`))
	assert.Contains(t, first, `@regex("^\"\\w+\"$")`)
	assert.Equal(t, first, RenderString(mustLoad(t, first)))
}

func TestRender_Empty(t *testing.T) {
	assert.Equal(t, "define\n", RenderString(mustLoad(t, "define")))
}

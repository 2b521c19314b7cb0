package schemadsl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const socialSchema = `
define

# people and who they know
node person class Person,
    owns name string @notnull @indexed,
    owns email string @regex("^[^@]+@[^@]+$") @db("mail"),
    owns age integer @range(0..150),
    owns status string @values("active", "banned") @maxlen(8);

node company;

relationship knows class Knows,
    owns since datetime;

relationship works-at;

adjacency person knows @direction(out) @multi @nullable(false);
adjacency person works-at @direction(both) @multi(false);
`

func TestParseSchema(t *testing.T) {
	parsed, err := ParseSchema(socialSchema)
	require.NoError(t, err)

	require.Len(t, parsed.Nodes, 2)
	require.Len(t, parsed.Relationships, 2)
	require.Len(t, parsed.Adjacencies, 2)

	person := parsed.Nodes[0]
	assert.Equal(t, "person", person.Name)
	assert.Equal(t, "Person", person.Class)
	require.Len(t, person.Owns, 4)

	name := person.Owns[0]
	assert.Equal(t, OwnsSpec{Property: "name", ValueType: "string", NotNull: true, Indexed: true}, name)

	email := person.Owns[1]
	assert.Equal(t, "^[^@]+@[^@]+$", email.Regex)
	assert.Equal(t, "mail", email.DBName)

	assert.Equal(t, "0..150", person.Owns[2].Range)
	assert.Equal(t, []string{"active", "banned"}, person.Owns[3].Values)
	assert.Equal(t, 8, person.Owns[3].MaxLen)

	company := parsed.Nodes[1]
	assert.Empty(t, company.Class)
	assert.Empty(t, company.Owns)

	assert.Equal(t, "works-at", parsed.Relationships[1].Name)
}

func TestParseSchema_Adjacency(t *testing.T) {
	parsed, err := ParseSchema(socialSchema)
	require.NoError(t, err)

	knows := parsed.Adjacencies[0]
	assert.Equal(t, "person", knows.Node)
	assert.Equal(t, "knows", knows.Relationship)
	assert.Equal(t, "out", knows.Direction)
	require.NotNil(t, knows.Multi)
	assert.True(t, *knows.Multi)
	require.NotNil(t, knows.Nullable)
	assert.False(t, *knows.Nullable)

	worksAt := parsed.Adjacencies[1]
	require.NotNil(t, worksAt.Multi)
	assert.False(t, *worksAt.Multi)
	assert.Nil(t, worksAt.Nullable)
}

func TestParseSchema_NegativeAndOpenRanges(t *testing.T) {
	parsed, err := ParseSchema(`define
node reading,
    owns celsius double @range(-40.5..60),
    owns floor integer @range(-3..),
    owns ceiling integer @range(..99);`)
	require.NoError(t, err)

	owns := parsed.Nodes[0].Owns
	assert.Equal(t, "-40.5..60", owns[0].Range)
	assert.Equal(t, "-3..", owns[1].Range)
	assert.Equal(t, "..99", owns[2].Range)
}

func TestParseSchema_EscapedStrings(t *testing.T) {
	parsed, err := ParseSchema(`define
node doc, owns title string @regex("^\"[a-z]+\\d\"$");`)
	require.NoError(t, err)
	assert.Equal(t, `^"[a-z]+\d"$`, parsed.Nodes[0].Owns[0].Regex)
}

func TestParseSchema_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing define", "node person;"},
		{"missing semicolon", "define node person"},
		{"unknown annotation", "define node person, owns name string @key;"},
		{"owns without type", "define node person, owns name;"},
		{"bad flag value", "define adjacency a b @multi(maybe);"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSchema(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestParseSchemaFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "social.gsl")
	require.NoError(t, os.WriteFile(path, []byte(socialSchema), 0o644))

	parsed, err := ParseSchemaFile(path)
	require.NoError(t, err)
	assert.Len(t, parsed.Nodes, 2)

	_, err = ParseSchemaFile(filepath.Join(t.TempDir(), "missing.gsl"))
	assert.Error(t, err)
}

func TestQuoteUnquote(t *testing.T) {
	for _, s := range []string{"", "plain", `with "quotes"`, `back\slash`, `\d+\"`} {
		assert.Equal(t, s, unquote(quote(s)), s)
	}
}

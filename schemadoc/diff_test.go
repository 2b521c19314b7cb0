package schemadoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff_Identical(t *testing.T) {
	d := Diff(describe(t, social), describe(t, social))
	assert.True(t, d.IsEmpty())
	assert.Equal(t, "schema is up to date", d.Summary())
	assert.Empty(t, d.Changes())
}

func TestDiff(t *testing.T) {
	older := describe(t, `define
node person class Person,
    owns name string,
    owns nickname string;
node pet;
relationship knows;
adjacency person knows @multi;`)
	newer := describe(t, `define
node person class Person,
    owns name string @notnull,
    owns email string;
relationship knows;
relationship owns-pet;
adjacency person knows @multi(false);
adjacency person owns-pet;`)

	d := Diff(older, newer)
	require.False(t, d.IsEmpty())

	require.Len(t, d.AddModels, 1)
	assert.Equal(t, "OwnsPet", d.AddModels[0].Class)
	require.Len(t, d.RemoveModels, 1)
	assert.Equal(t, "Pet", d.RemoveModels[0].Class)

	require.Len(t, d.AddProperties, 1)
	assert.Equal(t, "email", d.AddProperties[0].Property)
	assert.Nil(t, d.AddProperties[0].Before)
	require.Len(t, d.RemoveProperties, 1)
	assert.Equal(t, "nickname", d.RemoveProperties[0].Property)
	assert.Nil(t, d.RemoveProperties[0].After)
	require.Len(t, d.ChangeProperties, 1)
	change := d.ChangeProperties[0]
	assert.Equal(t, "name", change.Property)
	assert.True(t, change.Before.Nullable)
	assert.False(t, change.After.Nullable)

	assert.Len(t, d.AddAdjacencies, 2)
	assert.Len(t, d.RemoveAdjacencies, 1)

	assert.Equal(t,
		"add 1 class(es): OwnsPet; remove 1 class(es): Pet; add 1 property(ies); "+
			"remove 1 property(ies); change 1 property(ies); add 2 adjacency(ies); remove 1 adjacency(ies)",
		d.Summary())
	assert.Contains(t, d.Changes(), "+ relationship owns-pet (OwnsPet)")
	assert.Contains(t, d.Changes(), "~ Person.name")
}

func TestDiff_KindChangeIsRemoveAndAdd(t *testing.T) {
	d := Diff(describe(t, "define node a class X;"), describe(t, "define relationship a class X;"))
	require.Len(t, d.AddModels, 1)
	require.Len(t, d.RemoveModels, 1)
	assert.Equal(t, "relationship", d.AddModels[0].Kind)
	assert.Equal(t, "node", d.RemoveModels[0].Kind)
}

func TestDiff_SurvivesYAMLRoundTrip(t *testing.T) {
	doc := describe(t, social)
	data, err := MarshalYAML(doc)
	require.NoError(t, err)
	decoded, err := UnmarshalYAML(data)
	require.NoError(t, err)
	assert.True(t, Diff(doc, decoded).IsEmpty())
}

// Package schemadsl provides a textual language for graph schemas: parsing,
// loading into a blueprint.MetaData, and rendering back to text.
package schemadsl

// ParsedSchema holds the declarations of a schema file in source order.
type ParsedSchema struct {
	// Nodes is a list of node declarations.
	Nodes []ModelSpec
	// Relationships is a list of relationship declarations.
	Relationships []ModelSpec
	// Adjacencies is a list of adjacency declarations.
	Adjacencies []AdjacencySpec
}

// ModelSpec describes a node or relationship declaration.
type ModelSpec struct {
	// Name is the element type of a node or the label of a relationship.
	Name string
	// Class is the class identifier the model is bound to. Empty means the
	// PascalCase form of Name.
	Class string
	// Owns lists the declared properties in order.
	Owns []OwnsSpec
}

// OwnsSpec describes one property declaration.
type OwnsSpec struct {
	// Property is the property name.
	Property string
	// ValueType is the value type name, e.g. "string".
	ValueType string
	// NotNull is set by @notnull.
	NotNull bool
	// Indexed is set by @indexed.
	Indexed bool
	// DBName is set by @db("...").
	DBName string

	// Regex is set by @regex("...").
	Regex string
	// Values is set by @values("a", "b").
	Values []string
	// Range is set by @range(min..max).
	Range string
	// MaxLen is set by @maxlen(n).
	MaxLen int
}

// AdjacencySpec describes an adjacency declaration.
type AdjacencySpec struct {
	// Node is the element type of the node.
	Node string
	// Relationship is the label of the relationship.
	Relationship string
	// Direction is "in", "out", "both" or empty.
	Direction string
	// Multi is nil when unspecified.
	Multi *bool
	// Nullable is nil when unspecified.
	Nullable *bool
}

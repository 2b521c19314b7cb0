// Package blueprint declares graph schemas for application objects and
// validates object instances against them.
//
// A schema is built in two phases: properties are created first, then handed
// to a Node or Relationship which takes ownership of them. Models are bound to
// application classes in a MetaData registry, and a Validator checks objects
// of a bound class property by property.
package blueprint

import "fmt"

// Kind discriminates the two model variants.
type Kind int

const (
	// KindNode identifies a graph vertex declaration.
	KindNode Kind = iota
	// KindRelationship identifies a graph edge declaration.
	KindRelationship
)

// String returns "node" or "relationship".
func (k Kind) String() string {
	switch k {
	case KindNode:
		return "node"
	case KindRelationship:
		return "relationship"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Direction is the orientation of a relationship relative to a node.
type Direction string

const (
	// In points toward the node.
	In Direction = "in"
	// Out points away from the node.
	Out Direction = "out"
	// Both is undirected.
	Both Direction = "both"
)

// ParseDirection maps "in", "out" or "both" to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case In, Out, Both:
		return d, nil
	}
	return "", fmt.Errorf("blueprint: unknown direction %q", s)
}

// Model is a node or relationship declaration. The set of implementations is
// closed: only *Node and *Relationship satisfy it.
type Model interface {
	// Kind returns the variant of the model.
	Kind() Kind
	// Name returns the element type of a node or the label of a relationship.
	Name() string
	// Properties returns the declared properties in registration order.
	Properties() []*Property
	// Property looks up a declared property by name.
	Property(name string) (*Property, bool)
	// RegisterClass binds class to this model in its MetaData.
	RegisterClass(class ClassID) error
	String() string

	sealed()
}

// IsNode reports whether m is a node declaration.
func IsNode(m Model) bool {
	switch m.Kind() {
	case KindNode:
		return true
	case KindRelationship:
		return false
	}
	return false
}

// IsRelationship reports whether m is a relationship declaration.
func IsRelationship(m Model) bool {
	switch m.Kind() {
	case KindNode:
		return false
	case KindRelationship:
		return true
	}
	return false
}

// propertySet is the ordered property list shared by both variants.
type propertySet struct {
	props  []*Property
	byName map[string]int
}

func newPropertySet(owner string, props []*Property) (propertySet, error) {
	ps := propertySet{
		props:  make([]*Property, 0, len(props)),
		byName: make(map[string]int, len(props)),
	}
	for _, p := range props {
		if _, dup := ps.byName[p.Name]; dup {
			return propertySet{}, &DuplicatePropertyError{Model: owner, Property: p.Name}
		}
		if p.attached {
			return propertySet{}, &PropertyOwnedError{Property: p.Name, Owner: p.owner}
		}
		ps.byName[p.Name] = len(ps.props)
		ps.props = append(ps.props, p)
	}
	// Ownership is recorded only once every property has been accepted, so
	// a failed construction leaves the arguments unattached.
	for i, p := range ps.props {
		if err := p.attach(owner, i); err != nil {
			return propertySet{}, err
		}
	}
	return ps, nil
}

func (ps *propertySet) Properties() []*Property {
	out := make([]*Property, len(ps.props))
	copy(out, ps.props)
	return out
}

func (ps *propertySet) Property(name string) (*Property, bool) {
	i, ok := ps.byName[name]
	if !ok {
		return nil, false
	}
	return ps.props[i], true
}

// Node declares a graph vertex type.
type Node struct {
	// ElementType is the identifying name of the vertex type.
	ElementType string

	metadata *MetaData
	propertySet
}

// NewNode declares a node named elementType owned by md and takes ownership
// of props. The node is not bound to any class until RegisterClass is called.
func NewNode(elementType string, md *MetaData, props ...*Property) (*Node, error) {
	ps, err := newPropertySet(elementType, props)
	if err != nil {
		return nil, err
	}
	return &Node{ElementType: elementType, metadata: md, propertySet: ps}, nil
}

// MustNode is like NewNode but panics on error. It is intended for package
// level schema declarations.
func MustNode(elementType string, md *MetaData, props ...*Property) *Node {
	n, err := NewNode(elementType, md, props...)
	if err != nil {
		panic(err)
	}
	return n
}

// Kind returns KindNode.
func (*Node) Kind() Kind { return KindNode }

// Name returns the element type.
func (n *Node) Name() string { return n.ElementType }

// MetaData returns the registry the node was declared against.
func (n *Node) MetaData() *MetaData { return n.metadata }

// RegisterClass binds class to n through MetaData.BindNode.
func (n *Node) RegisterClass(class ClassID) error {
	if n.metadata == nil {
		return fmt.Errorf("blueprint: node %s has no metadata", n.ElementType)
	}
	_, err := n.metadata.BindNode(class, n)
	return err
}

func (n *Node) String() string { return n.ElementType }

func (*Node) sealed() {}

// Relationship declares a graph edge type.
type Relationship struct {
	// Label is the identifying name of the edge type.
	Label string

	metadata *MetaData
	propertySet
}

// NewRelationship declares a relationship labelled label owned by md and
// takes ownership of props.
func NewRelationship(label string, md *MetaData, props ...*Property) (*Relationship, error) {
	ps, err := newPropertySet(label, props)
	if err != nil {
		return nil, err
	}
	return &Relationship{Label: label, metadata: md, propertySet: ps}, nil
}

// MustRelationship is like NewRelationship but panics on error.
func MustRelationship(label string, md *MetaData, props ...*Property) *Relationship {
	r, err := NewRelationship(label, md, props...)
	if err != nil {
		panic(err)
	}
	return r
}

// Kind returns KindRelationship.
func (*Relationship) Kind() Kind { return KindRelationship }

// Name returns the label.
func (r *Relationship) Name() string { return r.Label }

// MetaData returns the registry the relationship was declared against.
func (r *Relationship) MetaData() *MetaData { return r.metadata }

// RegisterClass binds class to r through MetaData.BindRelationship.
func (r *Relationship) RegisterClass(class ClassID) error {
	if r.metadata == nil {
		return fmt.Errorf("blueprint: relationship %s has no metadata", r.Label)
	}
	_, err := r.metadata.BindRelationship(class, r)
	return err
}

func (r *Relationship) String() string { return r.Label }

func (*Relationship) sealed() {}

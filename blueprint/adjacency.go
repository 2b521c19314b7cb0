package blueprint

import "errors"

// Adjacency declares how a relationship attaches to a node. It is a pure
// record consumed by graph construction code; nothing here enforces it.
type Adjacency struct {
	Node         *Node
	Relationship *Relationship
	// Direction, Multi and Nullable are nil when left unspecified.
	Direction *Direction
	Multi     *bool
	Nullable  *bool
}

// AdjacencyOption configures an Adjacency.
type AdjacencyOption func(*Adjacency)

// WithDirection sets the direction of the relationship relative to the node.
func WithDirection(d Direction) AdjacencyOption {
	return func(a *Adjacency) { a.Direction = &d }
}

// Multi sets whether the node may hold several such relationships.
func Multi(multi bool) AdjacencyOption {
	return func(a *Adjacency) { a.Multi = &multi }
}

// AdjacencyNullable sets whether the node may hold none.
func AdjacencyNullable(nullable bool) AdjacencyOption {
	return func(a *Adjacency) { a.Nullable = &nullable }
}

// NewAdjacency links node and rel. Both references are required.
func NewAdjacency(node *Node, rel *Relationship, opts ...AdjacencyOption) (*Adjacency, error) {
	if node == nil {
		return nil, errors.New("blueprint: adjacency requires a node")
	}
	if rel == nil {
		return nil, errors.New("blueprint: adjacency requires a relationship")
	}
	a := &Adjacency{Node: node, Relationship: rel}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

func (a *Adjacency) String() string {
	s := a.Node.ElementType + " -[" + a.Relationship.Label + "]"
	if a.Direction != nil {
		s += " " + string(*a.Direction)
	}
	return s
}

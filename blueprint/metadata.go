package blueprint

import (
	"fmt"
	"sort"
	"sync"
)

// ClassID is the stable schema identifier of an application class.
type ClassID string

// Object is an application instance that can be validated. SchemaClass names
// the class it was registered under; Field reads a property value by name and
// reports false when the object has no such field.
type Object interface {
	SchemaClass() ClassID
	Field(name string) (any, bool)
}

// MetaData binds application classes to their node or relationship
// declaration. A class appears in at most one of the two mappings. Bindings
// are never removed; the registry is meant to be filled at startup and read
// afterwards, but all methods are safe for concurrent use.
type MetaData struct {
	// Bind names the graph the schema is meant for. Informational only.
	Bind string
	// Schema names the schema. Informational only.
	Schema string

	mu            sync.RWMutex
	nodes         map[ClassID]*Node
	relationships map[ClassID]*Relationship
}

// MetaDataOption configures a MetaData.
type MetaDataOption func(*MetaData)

// WithBind sets MetaData.Bind.
func WithBind(bind string) MetaDataOption {
	return func(md *MetaData) { md.Bind = bind }
}

// WithSchemaName sets MetaData.Schema.
func WithSchemaName(name string) MetaDataOption {
	return func(md *MetaData) { md.Schema = name }
}

// NewMetaData returns an empty registry.
func NewMetaData(opts ...MetaDataOption) *MetaData {
	md := &MetaData{
		nodes:         make(map[ClassID]*Node),
		relationships: make(map[ClassID]*Relationship),
	}
	for _, opt := range opts {
		opt(md)
	}
	return md
}

func (md *MetaData) String() string {
	return fmt.Sprintf("MetaData(bind=%q)", md.Bind)
}

// BindNode binds class to a node declaration, replacing any previous node
// bound to class. It returns md so calls can be chained.
func (md *MetaData) BindNode(class ClassID, model Model) (*MetaData, error) {
	n, ok := model.(*Node)
	if !ok || n == nil {
		return md, &BindingMismatchError{Class: class, Model: modelName(model), Want: KindNode}
	}

	md.mu.Lock()
	defer md.mu.Unlock()

	if _, exists := md.relationships[class]; exists {
		return md, &BindingConflictError{Class: class, Existing: KindRelationship}
	}
	md.nodes[class] = n
	return md, nil
}

// BindRelationship binds class to a relationship declaration, replacing any
// previous relationship bound to class. It returns md so calls can be chained.
func (md *MetaData) BindRelationship(class ClassID, model Model) (*MetaData, error) {
	r, ok := model.(*Relationship)
	if !ok || r == nil {
		return md, &BindingMismatchError{Class: class, Model: modelName(model), Want: KindRelationship}
	}

	md.mu.Lock()
	defer md.mu.Unlock()

	if _, exists := md.nodes[class]; exists {
		return md, &BindingConflictError{Class: class, Existing: KindNode}
	}
	md.relationships[class] = r
	return md, nil
}

// ForClass returns the model bound to class, looking at nodes first.
func (md *MetaData) ForClass(class ClassID) (Model, error) {
	md.mu.RLock()
	defer md.mu.RUnlock()

	if n, ok := md.nodes[class]; ok {
		return n, nil
	}
	if r, ok := md.relationships[class]; ok {
		return r, nil
	}
	return nil, &UnmappedClassError{Class: class}
}

// ForObject returns the model bound to the class of obj.
func (md *MetaData) ForObject(obj Object) (Model, error) {
	return md.ForClass(obj.SchemaClass())
}

// ForModel returns the class bound to exactly this model instance.
func (md *MetaData) ForModel(model Model) (ClassID, error) {
	md.mu.RLock()
	defer md.mu.RUnlock()

	// A model bound under several classes resolves to the smallest one.
	var (
		found ClassID
		ok    bool
	)
	for class, n := range md.nodes {
		if Model(n) == model && (!ok || class < found) {
			found, ok = class, true
		}
	}
	if ok {
		return found, nil
	}
	for class, r := range md.relationships {
		if Model(r) == model && (!ok || class < found) {
			found, ok = class, true
		}
	}
	if ok {
		return found, nil
	}
	return "", &UnmappedModelError{Model: modelName(model)}
}

// IsNode reports whether the class of obj is bound to a node.
func (md *MetaData) IsNode(obj Object) bool {
	md.mu.RLock()
	defer md.mu.RUnlock()
	_, ok := md.nodes[obj.SchemaClass()]
	return ok
}

// IsRelationship reports whether the class of obj is bound to a relationship.
func (md *MetaData) IsRelationship(obj Object) bool {
	md.mu.RLock()
	defer md.mu.RUnlock()
	_, ok := md.relationships[obj.SchemaClass()]
	return ok
}

// IsBound reports whether the class of obj is bound at all.
func (md *MetaData) IsBound(obj Object) bool {
	return md.IsNode(obj) || md.IsRelationship(obj)
}

// Contains reports whether class is bound.
func (md *MetaData) Contains(class ClassID) bool {
	md.mu.RLock()
	defer md.mu.RUnlock()
	_, isNode := md.nodes[class]
	_, isRel := md.relationships[class]
	return isNode || isRel
}

// Classes returns every bound class in sorted order.
func (md *MetaData) Classes() []ClassID {
	md.mu.RLock()
	defer md.mu.RUnlock()
	out := make([]ClassID, 0, len(md.nodes)+len(md.relationships))
	for class := range md.nodes {
		out = append(out, class)
	}
	for class := range md.relationships {
		out = append(out, class)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Nodes returns a copy of the node mapping.
func (md *MetaData) Nodes() map[ClassID]*Node {
	md.mu.RLock()
	defer md.mu.RUnlock()
	out := make(map[ClassID]*Node, len(md.nodes))
	for k, v := range md.nodes {
		out[k] = v
	}
	return out
}

// Relationships returns a copy of the relationship mapping.
func (md *MetaData) Relationships() map[ClassID]*Relationship {
	md.mu.RLock()
	defer md.mu.RUnlock()
	out := make(map[ClassID]*Relationship, len(md.relationships))
	for k, v := range md.relationships {
		out[k] = v
	}
	return out
}

func modelName(m Model) string {
	switch v := m.(type) {
	case *Node:
		if v != nil {
			return v.ElementType
		}
	case *Relationship:
		if v != nil {
			return v.Label
		}
	}
	return "<nil>"
}

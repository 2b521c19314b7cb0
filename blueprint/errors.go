package blueprint

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors matched by the typed errors below through errors.Is.
var (
	// ErrUnmappedClass is returned when a class has no bound model.
	ErrUnmappedClass = errors.New("blueprint: unmapped class")
	// ErrUnmappedModel is returned when a model is not bound to any class.
	ErrUnmappedModel = errors.New("blueprint: unmapped model")
	// ErrBindingMismatch is returned when a model is bound through the wrong path.
	ErrBindingMismatch = errors.New("blueprint: binding mismatch")
)

// UnmappedClassError is returned by ForClass and ForObject when the class is
// bound in neither the node nor the relationship mapping.
type UnmappedClassError struct {
	Class ClassID
}

// Error returns the error message for UnmappedClassError.
func (e *UnmappedClassError) Error() string {
	return fmt.Sprintf("blueprint: unmapped class %q", string(e.Class))
}

// Is reports whether target is ErrUnmappedClass.
func (e *UnmappedClassError) Is(target error) bool {
	return target == ErrUnmappedClass
}

// UnmappedModelError is returned by ForModel when no binding references the model.
type UnmappedModelError struct {
	Model string
}

// Error returns the error message for UnmappedModelError.
func (e *UnmappedModelError) Error() string {
	return fmt.Sprintf("blueprint: unmapped model %q", e.Model)
}

// Is reports whether target is ErrUnmappedModel.
func (e *UnmappedModelError) Is(target error) bool {
	return target == ErrUnmappedModel
}

// BindingMismatchError is returned when a relationship is bound as a node or
// a node is bound as a relationship.
type BindingMismatchError struct {
	Class ClassID
	Model string
	Want  Kind
}

// Error returns the error message for BindingMismatchError.
func (e *BindingMismatchError) Error() string {
	return fmt.Sprintf("blueprint: bound model %s for class %q is not a %s", e.Model, string(e.Class), e.Want)
}

// Is reports whether target is ErrBindingMismatch.
func (e *BindingMismatchError) Is(target error) bool {
	return target == ErrBindingMismatch
}

// BindingConflictError is returned when a class already bound in one mapping
// is bound again through the other one.
type BindingConflictError struct {
	Class    ClassID
	Existing Kind
}

// Error returns the error message for BindingConflictError.
func (e *BindingConflictError) Error() string {
	return fmt.Sprintf("blueprint: class %q is already bound as a %s", string(e.Class), e.Existing)
}

// PropertyOwnedError is returned when a property that already belongs to a
// model is attached to another one.
type PropertyOwnedError struct {
	Property string
	Owner    string
}

// Error returns the error message for PropertyOwnedError.
func (e *PropertyOwnedError) Error() string {
	return fmt.Sprintf("blueprint: property %q is already attached to %s", e.Property, e.Owner)
}

// DuplicatePropertyError is returned when a model declares two properties
// with the same name.
type DuplicatePropertyError struct {
	Model    string
	Property string
}

// Error returns the error message for DuplicatePropertyError.
func (e *DuplicatePropertyError) Error() string {
	return fmt.Sprintf("blueprint: duplicate property %q on %s", e.Property, e.Model)
}

// MissingFieldError is returned by the Validator when an object does not
// expose a field for a declared property.
type MissingFieldError struct {
	Class ClassID
	Field string
}

// Error returns the error message for MissingFieldError.
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("blueprint: object of class %q has no field %q", string(e.Class), e.Field)
}

// ValidationError carries the complete set of property errors for one object.
// The Validator never returns it from Run; Check wraps a failed Run into it
// for callers that prefer an error contract.
type ValidationError struct {
	Class  ClassID
	Errors map[string][]string
}

// Error returns the error message for ValidationError, with properties in
// sorted order.
func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Errors))
	for name := range e.Errors {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+strings.Join(e.Errors[name], " "))
	}
	return fmt.Sprintf("blueprint: %s is invalid: %s", string(e.Class), strings.Join(parts, "; "))
}

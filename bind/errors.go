package bind

import "fmt"

// NotRegisteredError is returned by Wrap for a Go type that was never
// registered with the Binder.
type NotRegisteredError struct {
	GoType string
}

// Error returns the error message for NotRegisteredError.
func (e *NotRegisteredError) Error() string {
	return fmt.Sprintf("bind: type %q is not registered", e.GoType)
}

// FieldResolutionError is returned by Register when a declared property has
// no tagged struct field to read it from.
type FieldResolutionError struct {
	GoType   string
	Property string
}

// Error returns the error message for FieldResolutionError.
func (e *FieldResolutionError) Error() string {
	return fmt.Sprintf("bind: %s has no field for property %q", e.GoType, e.Property)
}

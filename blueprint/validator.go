package blueprint

import (
	"context"
	"log/slog"
	"strings"
)

// Validator checks each property value of an object against its declaration.
// It holds no state besides the registry and an optional logger, and never
// modifies the objects or models it reads.
//
// Example:
//
//	ok, errs, err := blueprint.NewValidator(md).Run(obj)
type Validator struct {
	metadata *MetaData
	logger   *slog.Logger
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithLogger makes the Validator log each property check at debug level.
func WithLogger(logger *slog.Logger) ValidatorOption {
	return func(v *Validator) { v.logger = logger }
}

// NewValidator returns a Validator reading models from md.
func NewValidator(md *MetaData, opts ...ValidatorOption) *Validator {
	v := &Validator{metadata: md}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Run validates every property of the model bound to obj's class. It returns
// true and an empty map when all properties are valid; otherwise false and
// the errors of every invalid property keyed by property name.
//
// The error result is reserved for setup problems: an unbound class
// (UnmappedClassError) or an object lacking a declared field
// (MissingFieldError). Invalid values are never reported as errors.
func (v *Validator) Run(obj Object) (bool, map[string][]string, error) {
	model, err := v.metadata.ForObject(obj)
	if err != nil {
		return false, nil, err
	}

	ok := true
	all := make(map[string][]string)
	for _, p := range model.Properties() {
		value, found := obj.Field(p.Name)
		if !found {
			return false, nil, &MissingFieldError{Class: obj.SchemaClass(), Field: p.Name}
		}

		valid, errs := p.Validate(value)
		if valid {
			v.log("  Property " + p.String() + " is valid")
			continue
		}
		ok = false
		all[p.Name] = errs
		v.log("  Property " + p.String() + " is invalid : " + strings.Join(errs, " "))
	}
	return ok, all, nil
}

// Check is Run with an error contract: it returns a *ValidationError holding
// every property error when the object is invalid.
func (v *Validator) Check(obj Object) error {
	ok, errs, err := v.Run(obj)
	if err != nil {
		return err
	}
	if !ok {
		return &ValidationError{Class: obj.SchemaClass(), Errors: errs}
	}
	return nil
}

func (v *Validator) log(msg string) {
	if v.logger == nil {
		return
	}
	v.logger.Log(context.Background(), slog.LevelDebug, msg)
}

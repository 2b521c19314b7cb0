package blueprint

// Record is a map-backed Object for data whose shape is only known at
// runtime, such as decoded documents.
type Record struct {
	Class  ClassID
	Values map[string]any
}

// NewRecord returns a Record of class with the given values.
func NewRecord(class ClassID, values map[string]any) *Record {
	if values == nil {
		values = make(map[string]any)
	}
	return &Record{Class: class, Values: values}
}

// SchemaClass returns the record class.
func (r *Record) SchemaClass() ClassID { return r.Class }

// Field returns the value stored under name. A missing key reads as an
// absent value, so a record always exposes every field.
func (r *Record) Field(name string) (any, bool) {
	return r.Values[name], true
}

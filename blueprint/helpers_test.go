package blueprint

import "errors"

// stubType is a Type whose verdict is fixed by the test.
type stubType struct {
	name   string
	ok     bool
	errs   []string
	calls  int
	decErr error
}

func (s *stubType) Name() string { return s.name }

func (s *stubType) FromDB(v any) (any, error) {
	if s.decErr != nil {
		return nil, s.decErr
	}
	return v, nil
}

func (s *stubType) ToDB(v any) (any, error) {
	if s.decErr != nil {
		return nil, s.decErr
	}
	return v, nil
}

func (s *stubType) Validate(any) (bool, []string) {
	s.calls++
	return s.ok, s.errs
}

func validType() *stubType { return &stubType{name: "stub", ok: true} }

// stringType accepts nil and strings.
type stringType struct{}

func (stringType) Name() string { return "string" }
func (stringType) FromDB(v any) (any, error) { return v, nil }
func (stringType) ToDB(v any) (any, error) { return v, nil }
func (stringType) Validate(v any) (bool, []string) {
	if v == nil {
		return true, nil
	}
	if _, ok := v.(string); !ok {
		return false, []string{"Value is not a string."}
	}
	return true, nil
}

var errDecode = errors.New("decode failed")

type person struct {
	Name  *string
	Email any
}

func (*person) SchemaClass() ClassID { return "Person" }

func (p *person) Field(name string) (any, bool) {
	switch name {
	case "name":
		if p.Name == nil {
			return nil, true
		}
		return *p.Name, true
	case "email":
		return p.Email, true
	}
	return nil, false
}

func strPtr(s string) *string { return &s }
